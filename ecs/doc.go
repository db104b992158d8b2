// Package ecs provides ECS adapters for scanline's frame events.
//
// The primary adapter is [NewDonburiSink], which forwards sprite collisions
// and finished animations into a [Donburi] world as typed events. Subscribe
// to [FrameEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	engine.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
