package scanline

type animKind uint8

const (
	animNone animKind = iota
	animPalette
	animTileset
	animTilemap
	animSprite
)

type stripState struct {
	pos, dir int
	elapsed  int
	done     bool
}

// animation is one slot of the fixed animation pool. An active slot holds a
// reference on its sequence and, for palette cycles, on its palette.
type animation struct {
	kind    animKind
	seq     Sequence
	palette Palette
	target  int // layer or sprite index

	src    []Color // palette snapshot the cycle rotates
	blend  bool
	strips []stripState

	loop     LoopMode
	pos, dir int
	elapsed  int

	last   int
	primed bool
	active bool
	held   bool
}

func (e *Engine) animationAt(op string, n int) (*animation, error) {
	if n < 0 || n >= len(e.animations) {
		return nil, e.fail(op, ErrIdxAnimation)
	}
	return &e.animations[n], nil
}

func (e *Engine) holdAnimation(a *animation) {
	if a.held {
		return
	}
	e.sequences.retain(uint32(a.seq))
	if a.kind == animPalette {
		e.palettes.retain(uint32(a.palette))
	}
	a.held = true
}

func (e *Engine) releaseAnimation(a *animation) {
	if !a.held {
		return
	}
	e.sequences.release(uint32(a.seq))
	if a.kind == animPalette {
		e.palettes.release(uint32(a.palette))
	}
	a.held = false
}

// start replaces whatever slot a held with a fresh animation.
func (e *Engine) start(a *animation, next animation) {
	e.releaseAnimation(a)
	*a = next
	a.active = true
	e.holdAnimation(a)
}

func (e *Engine) pictureSequence(op string, s Sequence) (*sequenceData, error) {
	sd, err := e.sequence(op, s)
	if err != nil {
		return nil, err
	}
	if sd.isCycle() {
		return nil, e.fail(op, ErrWrongFormat)
	}
	return sd, nil
}

// SetPaletteAnimation starts a color cycle on slot n that rotates ranges of
// pal according to the strips of seq. With blend set, each rotation step is
// crossfaded over the strip delay. The current colors of pal become the
// source the cycle rotates.
func (e *Engine) SetPaletteAnimation(n int, pal Palette, seq Sequence, blend bool) error {
	const op = "SetPaletteAnimation"
	a, err := e.animationAt(op, n)
	if err != nil {
		return err
	}
	pd, err := e.palette(op, pal)
	if err != nil {
		return err
	}
	sd, err := e.sequence(op, seq)
	if err != nil {
		return err
	}
	if !sd.isCycle() {
		return e.fail(op, ErrWrongFormat)
	}
	for _, s := range sd.strips {
		if s.First+s.Count > len(pd.colors) {
			return e.fail(op, ErrIdxPicture)
		}
	}
	e.start(a, animation{
		kind:    animPalette,
		seq:     seq,
		palette: pal,
		src:     append([]Color(nil), pd.colors...),
		blend:   blend,
		strips:  make([]stripState, len(sd.strips)),
		loop:    LoopWrap,
	})
	return e.ok()
}

// SetPaletteAnimationSource replaces the colors a palette cycle on slot n
// rotates, and copies them into the animated palette.
func (e *Engine) SetPaletteAnimationSource(n int, src Palette) error {
	const op = "SetPaletteAnimationSource"
	a, err := e.animationAt(op, n)
	if err != nil {
		return err
	}
	if a.kind != animPalette {
		return e.fail(op, ErrUnsupported)
	}
	sp, err := e.palette(op, src)
	if err != nil {
		return err
	}
	dp, err := e.palette(op, a.palette)
	if err != nil {
		return err
	}
	if len(sp.colors) < len(dp.colors) {
		return e.fail(op, ErrWrongSize)
	}
	copy(a.src, sp.colors)
	copy(dp.colors, sp.colors)
	return e.ok()
}

// SetTilesetAnimation starts an animation on slot n that makes layer draw
// the sequence target tile with the image of each frame's tile in turn.
func (e *Engine) SetTilesetAnimation(n, layer int, seq Sequence) error {
	const op = "SetTilesetAnimation"
	sd, td, err := e.layerAnimation(op, n, layer, seq)
	if err != nil {
		return err
	}
	if sd.target <= 0 || sd.target > td.numTiles {
		return e.fail(op, ErrIdxPicture)
	}
	e.start(&e.animations[n], animation{kind: animTileset, seq: seq, target: layer, loop: LoopWrap})
	return e.ok()
}

// SetTilemapAnimation starts an animation on slot n that makes every cell of
// layer holding the first frame's tile show each frame's tile in turn.
func (e *Engine) SetTilemapAnimation(n, layer int, seq Sequence) error {
	const op = "SetTilemapAnimation"
	if _, _, err := e.layerAnimation(op, n, layer, seq); err != nil {
		return err
	}
	e.start(&e.animations[n], animation{kind: animTilemap, seq: seq, target: layer, loop: LoopWrap})
	return e.ok()
}

func (e *Engine) layerAnimation(op string, n, layer int, seq Sequence) (*sequenceData, *tilesetData, error) {
	if _, err := e.animationAt(op, n); err != nil {
		return nil, nil, err
	}
	l, err := e.layerAt(op, layer)
	if err != nil {
		return nil, nil, err
	}
	td, err := e.tileset(op, l.tileset)
	if err != nil {
		return nil, nil, err
	}
	sd, err := e.pictureSequence(op, seq)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range sd.frames {
		if f.Index < 1 || f.Index > td.numTiles {
			return nil, nil, e.fail(op, ErrIdxPicture)
		}
	}
	return sd, td, nil
}

// SetSpriteAnimation starts an animation on slot n that steps sprite through
// the pictures of seq using loop.
func (e *Engine) SetSpriteAnimation(n, sprite int, seq Sequence, loop LoopMode) error {
	const op = "SetSpriteAnimation"
	a, err := e.animationAt(op, n)
	if err != nil {
		return err
	}
	s, err := e.spriteAt(op, sprite)
	if err != nil {
		return err
	}
	ss, err := e.spriteset(op, s.spriteset)
	if err != nil {
		return err
	}
	sd, err := e.pictureSequence(op, seq)
	if err != nil {
		return err
	}
	for _, f := range sd.frames {
		if f.Index >= len(ss.entries) {
			return e.fail(op, ErrIdxPicture)
		}
	}
	e.start(a, animation{kind: animSprite, seq: seq, target: sprite, loop: loop})
	return e.ok()
}

// SetAnimationLoop changes the loop mode of slot n.
func (e *Engine) SetAnimationLoop(n int, loop LoopMode) error {
	a, err := e.animationAt("SetAnimationLoop", n)
	if err != nil {
		return err
	}
	a.loop = loop
	return e.ok()
}

// AnimationState reports whether slot n is currently advancing.
func (e *Engine) AnimationState(n int) bool {
	a, err := e.animationAt("AnimationState", n)
	if err != nil {
		return false
	}
	e.ok()
	return a.active
}

// AnimationFrame returns the current frame of slot n. For palette cycles it
// is the rotation step of the first strip.
func (e *Engine) AnimationFrame(n int) (int, error) {
	a, err := e.animationAt("AnimationFrame", n)
	if err != nil {
		return 0, err
	}
	return a.pos, e.ok()
}

// AvailableAnimation returns the first inactive slot, or -1 if all are busy.
func (e *Engine) AvailableAnimation() int {
	for i := range e.animations {
		if !e.animations[i].active {
			e.ok()
			return i
		}
	}
	e.lastErr = ErrIdxAnimation
	return -1
}

// DisableAnimation stops slot n without resetting its frame position and
// releases the references it holds.
func (e *Engine) DisableAnimation(n int) error {
	a, err := e.animationAt("DisableAnimation", n)
	if err != nil {
		return err
	}
	a.active = false
	e.releaseAnimation(a)
	return e.ok()
}

// ResumeAnimation restarts a disabled slot from its current position. Time
// spent disabled is not counted.
func (e *Engine) ResumeAnimation(n int) error {
	const op = "ResumeAnimation"
	a, err := e.animationAt(op, n)
	if err != nil {
		return err
	}
	if a.kind == animNone {
		return e.fail(op, ErrUnsupported)
	}
	if _, err := e.sequence(op, a.seq); err != nil {
		return err
	}
	if a.kind == animPalette {
		if _, err := e.palette(op, a.palette); err != nil {
			return err
		}
	}
	e.holdAnimation(a)
	a.active = true
	a.primed = false
	return e.ok()
}

// stepPosition moves pos one step through n positions under loop. It
// reports true when a LoopStop sequence tries to move past its end.
func stepPosition(pos, dir, n int, loop LoopMode) (int, int, bool) {
	if n <= 1 {
		return 0, dir, loop == LoopStop
	}
	switch loop {
	case LoopStop:
		if pos >= n-1 {
			return n - 1, dir, true
		}
		return pos + 1, dir, false
	case LoopPingPong:
		if dir == 0 {
			dir = 1
		}
		next := pos + dir
		if next < 0 || next >= n {
			dir = -dir
			next = pos + dir
		}
		return next, dir, false
	default:
		return (pos + 1) % n, dir, false
	}
}

// tickAnimations advances every active slot to time t. A slot's first tick
// only records the time and applies its current frame.
func (e *Engine) tickAnimations(t int) {
	for i := range e.animations {
		a := &e.animations[i]
		if !a.active {
			continue
		}
		sd := e.sequences.get(uint32(a.seq))
		if sd == nil {
			a.active = false
			continue
		}
		dt := 0
		if a.primed {
			dt = max(t-a.last, 0)
		}
		a.primed = true
		a.last = t

		var finished bool
		if a.kind == animPalette {
			finished = a.advanceStrips(sd, dt)
		} else {
			finished = a.advanceFrames(sd, dt)
		}
		e.applyAnimation(a, sd)
		if finished {
			a.active = false
			e.releaseAnimation(a)
			e.events = append(e.events, FrameEvent{Type: EventAnimationFinished, Animation: i})
		}
	}
}

func (a *animation) advanceFrames(sd *sequenceData, dt int) bool {
	a.elapsed += dt
	for a.elapsed >= sd.frames[a.pos].Delay {
		a.elapsed -= sd.frames[a.pos].Delay
		var fin bool
		a.pos, a.dir, fin = stepPosition(a.pos, a.dir, len(sd.frames), a.loop)
		if fin {
			a.elapsed = 0
			return true
		}
	}
	return false
}

func (a *animation) advanceStrips(sd *sequenceData, dt int) bool {
	if len(a.strips) != len(sd.strips) {
		a.strips = make([]stripState, len(sd.strips))
	}
	all := true
	for i, strip := range sd.strips {
		st := &a.strips[i]
		if !st.done {
			st.elapsed += dt
			for st.elapsed >= strip.Delay {
				st.elapsed -= strip.Delay
				st.pos, st.dir, st.done = stepPosition(st.pos, st.dir, strip.Count, a.loop)
				if st.done {
					st.elapsed = 0
					break
				}
			}
		}
		all = all && st.done
	}
	a.pos = a.strips[0].pos
	return all
}

func (e *Engine) applyAnimation(a *animation, sd *sequenceData) {
	switch a.kind {
	case animPalette:
		pd := e.palettes.get(uint32(a.palette))
		if pd == nil {
			return
		}
		for i, strip := range sd.strips {
			a.applyStrip(pd.colors, strip, &a.strips[i])
		}
	case animTileset, animTilemap:
		l := &e.layers[a.target]
		td := e.tilesets.get(uint32(l.tileset))
		if td == nil {
			return
		}
		from := sd.target
		if a.kind == animTilemap {
			from = sd.frames[0].Index
		}
		l.setAlias(from, sd.frames[a.pos].Index, td.numTiles)
	case animSprite:
		s := &e.sprites[a.target]
		if ss := e.spritesets.get(uint32(s.spriteset)); ss != nil && sd.frames[a.pos].Index < len(ss.entries) {
			s.entry = sd.frames[a.pos].Index
		}
	}
}

// applyStrip writes the rotated source range of one strip into dst.
func (a *animation) applyStrip(dst []Color, strip ColorStrip, st *stripState) {
	if strip.First+strip.Count > len(dst) || strip.First+strip.Count > len(a.src) {
		return
	}
	src := a.src[strip.First : strip.First+strip.Count]
	out := dst[strip.First : strip.First+strip.Count]
	n := strip.Count
	fade := a.blend && !st.done && st.elapsed > 0
	next := st.pos
	var f uint8
	if fade {
		next, _, _ = stepPosition(st.pos, st.dir, n, LoopWrap)
		f = uint8(st.elapsed * 255 / strip.Delay)
	}
	for c := 0; c < n; c++ {
		cur := src[rotateIndex(c, st.pos, n, strip.Reverse)]
		if fade {
			nc := src[rotateIndex(c, next, n, strip.Reverse)]
			cur = Color{
				R: mod255(nc.R, f) + mod255(cur.R, 255-f),
				G: mod255(nc.G, f) + mod255(cur.G, 255-f),
				B: mod255(nc.B, f) + mod255(cur.B, 255-f),
			}
		}
		out[c] = cur
	}
}

func rotateIndex(c, steps, n int, reverse bool) int {
	if reverse {
		return ((c-steps)%n + n) % n
	}
	return (c + steps) % n
}
