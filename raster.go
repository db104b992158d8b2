package scanline

import "time"

// BeginFrame starts a new frame at time t (in the caller's time units,
// usually milliseconds). It advances animations, clears last frame's
// collision results, runs the frame callback and rewinds to scanline 0.
func (e *Engine) BeginFrame(t int) error {
	if e.target == nil {
		return e.fail("BeginFrame", ErrNullPointer)
	}
	if e.debug {
		e.frameStart = time.Now()
	}
	e.stats = debugStats{}
	if e.script != nil {
		e.script.step(e)
	}
	e.time = t
	for i := range e.sprites {
		e.sprites[i].collision = false
	}
	e.tickAnimations(t)
	if e.frameFn != nil {
		e.frameFn(t)
	}
	e.line = 0
	e.state = frameActive
	return e.ok()
}

// DrawNextScanline composes the current scanline into the render target and
// moves to the next one. It returns false once the last scanline has been
// written. Calling it again before BeginFrame fails with ErrUnsupported.
//
// Per scanline, in order: the raster callback, the background, non-priority
// layers from the highest index down to 0, regular sprites, priority layers,
// tiles flagged FlagPriority, and finally sprites flagged FlagPriority.
func (e *Engine) DrawNextScanline() (bool, error) {
	if e.state != frameActive {
		return false, e.fail("DrawNextScanline", ErrUnsupported)
	}
	y := e.line
	if e.rasterFn != nil {
		e.rasterFn(y)
	}

	e.drawBackground(y)
	clear(e.prioMask)
	for i := range e.collBuf {
		e.collBuf[i] = -1
	}

	for n := len(e.layers) - 1; n >= 0; n-- {
		if l := &e.layers[n]; l.enabled && !l.priority {
			e.stats.layerPixels += e.drawLayerLine(n, y)
		}
	}
	e.stats.spriteLines += e.drawSpritesLine(y, false)
	for n := len(e.layers) - 1; n >= 0; n-- {
		if l := &e.layers[n]; l.enabled && l.priority {
			e.stats.layerPixels += e.drawLayerLine(n, y)
		}
	}
	for x, set := range e.prioMask {
		if set {
			e.lineBuf[x] = e.prioBuf[x]
		}
	}
	e.stats.spriteLines += e.drawSpritesLine(y, true)

	e.writeLine(y)
	e.line++
	if e.line >= e.height {
		e.endFrame()
		return false, e.ok()
	}
	return true, e.ok()
}

// UpdateFrame renders a complete frame: BeginFrame followed by
// DrawNextScanline for every row.
func (e *Engine) UpdateFrame(t int) error {
	if err := e.BeginFrame(t); err != nil {
		return err
	}
	for {
		more, err := e.DrawNextScanline()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Scanline returns the row DrawNextScanline will produce next.
func (e *Engine) Scanline() int { return e.line }

func (e *Engine) drawBackground(y int) {
	for i := range e.lineBuf {
		e.lineBuf[i] = e.bgColor
	}
	bd := e.bitmaps.get(uint32(e.bgBitmap))
	if bd == nil || y >= bd.h {
		return
	}
	row := bd.pix[y*bd.pitch:]
	w := min(bd.w, e.width)
	if bd.bpp == 32 {
		for x := 0; x < w; x++ {
			if p := row[x*4 : x*4+4]; p[3] != 0 {
				e.lineBuf[x] = Color{p[0], p[1], p[2]}
			}
		}
		return
	}
	pal := e.bgPalette
	if pal == 0 {
		pal = bd.palette
	}
	pd := e.palettes.get(uint32(pal))
	if pd == nil {
		return
	}
	for x := 0; x < w; x++ {
		if idx := int(row[x]); idx < len(pd.colors) {
			e.lineBuf[x] = pd.colors[idx]
		}
	}
}

func (e *Engine) writeLine(y int) {
	row := e.target[y*e.pitch : y*e.pitch+e.width*4]
	for x, c := range e.lineBuf {
		o := x * 4
		row[o] = c.R
		row[o+1] = c.G
		row[o+2] = c.B
		row[o+3] = 0xff
	}
}

// endFrame returns to idle and delivers everything collected during the frame.
func (e *Engine) endFrame() {
	e.state = frameIdle
	for i := range e.sprites {
		if e.sprites[i].collision {
			e.events = append(e.events, FrameEvent{Type: EventSpriteCollision, Sprite: i})
		}
	}
	for i := range e.events {
		e.events[i].Frame = e.frame
		e.events[i].Time = e.time
		if e.sink != nil {
			e.sink.EmitEvent(e.events[i])
		}
	}
	e.events = e.events[:0]
	e.frame++
	e.flushScreenshots()
	if e.debug {
		e.stats.frameTime = time.Since(e.frameStart)
		e.debugLog(e.stats)
	}
}
