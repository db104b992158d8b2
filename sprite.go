package scanline

// sprite is one slot of the fixed sprite pool.
type sprite struct {
	spriteset Spriteset
	entry     int
	palette   Palette // override; 0 uses the spriteset palette
	enabled   bool

	x, y   int
	flags  TileFlags
	sx, sy float64

	blend  BlendMode
	factor uint8

	collide   bool
	collision bool
}

func (s *sprite) reset() {
	*s = sprite{sx: 1, sy: 1}
}

func (e *Engine) spriteAt(op string, n int) (*sprite, error) {
	if n < 0 || n >= len(e.sprites) {
		return nil, e.fail(op, ErrIdxSprite)
	}
	return &e.sprites[n], nil
}

func (e *Engine) releaseSprite(s *sprite) {
	e.spritesets.release(uint32(s.spriteset))
	e.palettes.release(uint32(s.palette))
	s.spriteset, s.palette = 0, 0
}

// ConfigSprite binds ss to sprite n, shows its first entry with flags and
// enables the sprite.
func (e *Engine) ConfigSprite(n int, ss Spriteset, flags TileFlags) error {
	const op = "ConfigSprite"
	s, err := e.spriteAt(op, n)
	if err != nil {
		return err
	}
	if err := e.bindSpriteset(op, s, ss); err != nil {
		return err
	}
	s.flags = flags
	return e.ok()
}

// SetSpriteSet binds ss to sprite n, keeping its flags and position.
func (e *Engine) SetSpriteSet(n int, ss Spriteset) error {
	const op = "SetSpriteSet"
	s, err := e.spriteAt(op, n)
	if err != nil {
		return err
	}
	if err := e.bindSpriteset(op, s, ss); err != nil {
		return err
	}
	return e.ok()
}

func (e *Engine) bindSpriteset(op string, s *sprite, ss Spriteset) error {
	if _, err := e.spriteset(op, ss); err != nil {
		return err
	}
	e.spritesets.retain(uint32(ss))
	e.spritesets.release(uint32(s.spriteset))
	s.spriteset = ss
	s.entry = 0
	s.enabled = true
	return nil
}

// SetSpriteFlags replaces the flip, rotate and priority flags of sprite n.
func (e *Engine) SetSpriteFlags(n int, flags TileFlags) error {
	s, err := e.spriteAt("SetSpriteFlags", n)
	if err != nil {
		return err
	}
	s.flags = flags
	return e.ok()
}

// SetSpritePosition moves the top-left corner of sprite n. Positions may be
// negative or beyond the viewport.
func (e *Engine) SetSpritePosition(n, x, y int) error {
	s, err := e.spriteAt("SetSpritePosition", n)
	if err != nil {
		return err
	}
	s.x, s.y = x, y
	return e.ok()
}

// SpritePosition returns the top-left corner of sprite n.
func (e *Engine) SpritePosition(n int) (x, y int, err error) {
	s, err := e.spriteAt("SpritePosition", n)
	if err != nil {
		return 0, 0, err
	}
	return s.x, s.y, e.ok()
}

// SetSpritePicture selects which spriteset entry sprite n shows.
func (e *Engine) SetSpritePicture(n, entry int) error {
	const op = "SetSpritePicture"
	s, err := e.spriteAt(op, n)
	if err != nil {
		return err
	}
	sd, err := e.spriteset(op, s.spriteset)
	if err != nil {
		return err
	}
	if entry < 0 || entry >= len(sd.entries) {
		return e.fail(op, ErrIdxPicture)
	}
	s.entry = entry
	return e.ok()
}

// SpritePicture returns the entry sprite n shows.
func (e *Engine) SpritePicture(n int) (int, error) {
	s, err := e.spriteAt("SpritePicture", n)
	if err != nil {
		return 0, err
	}
	return s.entry, e.ok()
}

// SetSpritePalette overrides the palette of sprite n. A zero handle restores
// the spriteset palette.
func (e *Engine) SetSpritePalette(n int, p Palette) error {
	const op = "SetSpritePalette"
	s, err := e.spriteAt(op, n)
	if err != nil {
		return err
	}
	if p != 0 {
		if _, err := e.palette(op, p); err != nil {
			return err
		}
		e.palettes.retain(uint32(p))
	}
	e.palettes.release(uint32(s.palette))
	s.palette = p
	return e.ok()
}

// SpritePalette returns the palette sprite n draws with.
func (e *Engine) SpritePalette(n int) Palette {
	s, err := e.spriteAt("SpritePalette", n)
	if err != nil {
		return 0
	}
	e.ok()
	return e.effectiveSpritePalette(s)
}

func (e *Engine) effectiveSpritePalette(s *sprite) Palette {
	if s.palette != 0 {
		return s.palette
	}
	if sd := e.spritesets.get(uint32(s.spriteset)); sd != nil {
		return sd.palette
	}
	return 0
}

// SetSpriteBlendMode sets how sprite n combines with what is beneath it.
func (e *Engine) SetSpriteBlendMode(n int, mode BlendMode, factor uint8) error {
	const op = "SetSpriteBlendMode"
	s, err := e.spriteAt(op, n)
	if err != nil {
		return err
	}
	if mode >= blendModeCount {
		return e.fail(op, ErrUnsupported)
	}
	s.blend, s.factor = mode, factor
	return e.ok()
}

// SetSpriteScaling scales sprite n around its top-left corner.
func (e *Engine) SetSpriteScaling(n int, sx, sy float64) error {
	const op = "SetSpriteScaling"
	s, err := e.spriteAt(op, n)
	if err != nil {
		return err
	}
	if sx <= 0 || sy <= 0 {
		return e.fail(op, ErrWrongSize)
	}
	s.sx, s.sy = sx, sy
	return e.ok()
}

// ResetSpriteScaling restores sprite n to its natural size.
func (e *Engine) ResetSpriteScaling(n int) error {
	s, err := e.spriteAt("ResetSpriteScaling", n)
	if err != nil {
		return err
	}
	s.sx, s.sy = 1, 1
	return e.ok()
}

// EnableSpriteCollision turns pixel-accurate collision detection on or off
// for sprite n.
func (e *Engine) EnableSpriteCollision(n int, enabled bool) error {
	s, err := e.spriteAt("EnableSpriteCollision", n)
	if err != nil {
		return err
	}
	s.collide = enabled
	if !enabled {
		s.collision = false
	}
	return e.ok()
}

// SpriteCollision reports whether an opaque pixel of sprite n overlapped an
// opaque pixel of another collision-enabled sprite during the last frame.
func (e *Engine) SpriteCollision(n int) bool {
	s, err := e.spriteAt("SpriteCollision", n)
	if err != nil {
		return false
	}
	e.ok()
	return s.collision
}

// AvailableSprite returns the index of the first disabled sprite slot, or -1
// if all are in use.
func (e *Engine) AvailableSprite() int {
	for i := range e.sprites {
		if !e.sprites[i].enabled {
			e.ok()
			return i
		}
	}
	e.lastErr = ErrIdxSprite
	return -1
}

// SpriteEnabled reports whether sprite n is drawn.
func (e *Engine) SpriteEnabled(n int) bool {
	s, err := e.spriteAt("SpriteEnabled", n)
	if err != nil {
		return false
	}
	e.ok()
	return s.enabled
}

// DisableSprite stops drawing sprite n and releases its spriteset and palette.
func (e *Engine) DisableSprite(n int) error {
	s, err := e.spriteAt("DisableSprite", n)
	if err != nil {
		return err
	}
	e.releaseSprite(s)
	s.reset()
	return e.ok()
}
