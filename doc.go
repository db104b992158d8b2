// Package scanline is a tile-and-sprite 2D software renderer that composes
// frames one scanline at a time, in the manner of classic console video
// hardware.
//
// # Quick start
//
// Create an [Engine], build or load resources, bind them to layers and
// sprites, then render frames into a caller-owned RGBA buffer:
//
//	e, _ := scanline.NewEngine(scanline.Config{Width: 400, Height: 240, Layers: 2})
//	ts, _ := e.LoadTilesetFile("assets/tiles.png", 8, 8)
//	tm, _ := e.LoadTilemapCSV(csvReader, 1)
//	e.SetLayer(0, ts, tm)
//
//	buf := make([]byte, 400*240*4)
//	e.SetRenderTarget(buf, 400*4)
//	e.UpdateFrame(0)
//
// [Run] opens an Ebitengine window and drives the frame loop for you:
//
//	scanline.Run(e, scanline.RunConfig{Title: "demo", Scale: 2}, func(in *scanline.Input) error {
//		if in.Pressed(scanline.InputRight) {
//			x++
//			e.SetLayerPosition(0, x, 0)
//		}
//		return nil
//	})
//
// # Resources and handles
//
// Palettes, tilesets, tilemaps, spritesets, bitmaps, sequences and sequence
// packs live in per-kind arenas and are addressed by opaque handles
// ([Palette], [Tileset], ...). The zero handle is the null handle. Handles of
// deleted objects never resolve again.
//
// Every resource counts the layers, sprites, animation slots and other
// resources that reference it. Deleting a referenced resource fails with
// [ErrResourceInUse]; disable the layer or sprite, or stop the animation,
// first. Clones share read-only pixel data and copy everything mutable.
//
// # Frames and scanlines
//
// [Engine.BeginFrame] advances animations and rewinds to scanline 0.
// [Engine.DrawNextScanline] then produces one row per call. Before each row
// the raster callback set with [Engine.SetRasterCallback] runs and may change
// any engine state, which is how gradient skies, split-screen scrolling and
// mid-frame palette swaps are built. [Engine.UpdateFrame] does both.
//
// Each scanline is composed back to front: background color or bitmap,
// non-priority layers from the highest index down to layer 0, regular
// sprites, priority layers, tiles flagged [FlagPriority], and finally sprites
// flagged [FlagPriority]. Regular sprites therefore sit above every
// non-priority layer, as in Tilengine; use [Engine.SetLayerPriority] or
// [FlagPriority] tiles to put scenery in front of them.
//
// # Errors
//
// Operations return an [*Error] whose Kind is an [ErrorKind]; use errors.Is
// with the kind constants. [Engine.LastError] keeps the kind of the most
// recent operation for callers that prefer to poll.
//
// # Debugging
//
// [Engine.SetDebugMode] logs per-frame statistics to stderr.
// [Engine.Screenshot] writes the next completed frame to a PNG file and
// [LoadFrameScript] scripts scrolling, sprite moves and screenshots across
// frames for automated visual checks.
//
// # ECS integration
//
// The scanline/ecs sub-module publishes collision and animation events to a
// Donburi world.
package scanline
