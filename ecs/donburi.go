package ecs

import (
	"github.com/phanxgames/scanline"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// FrameEventType is the Donburi event type for scanline frame events.
var FrameEventType = events.NewEventType[scanline.FrameEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published at the end of every frame to FrameEventType and can be consumed
// with events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) scanline.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event scanline.FrameEvent) {
	FrameEventType.Publish(s.world, event)
}
