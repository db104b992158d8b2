package scanline

import "time"

// Config sizes an Engine. Zero fields take the defaults below.
type Config struct {
	Width, Height int // viewport in pixels, default 400×240
	Layers        int // default 4
	Sprites       int // default 64
	Animations    int // default 32
	MaxResources  int // per resource kind, default 4096
}

const (
	defaultWidth      = 400
	defaultHeight     = 240
	defaultLayers     = 4
	defaultSprites    = 64
	defaultAnimations = 32
)

type frameState uint8

const (
	frameIdle frameState = iota
	frameActive
)

// Engine owns every resource arena, the layer, sprite and animation slot
// pools, and the scanline state machine. It is single-threaded: mutators must
// not run concurrently with a frame in progress on another goroutine.
type Engine struct {
	width, height int
	debug         bool

	// Resource arenas
	palettes   arena[paletteData]
	tilesets   arena[tilesetData]
	tilemaps   arena[tilemapData]
	spritesets arena[spritesetData]
	bitmaps    arena[bitmapData]
	sequences  arena[sequenceData]
	packs      arena[packData]

	// Slot pools, sized at construction
	layers     []layer
	sprites    []sprite
	animations []animation

	// Background
	bgColor   Color
	bgBitmap  Bitmap
	bgPalette Palette

	// Render target
	target []byte
	pitch  int

	rasterFn    func(line int)
	frameFn     func(time int)
	customBlend []uint8
	mixTables   map[uint8][]uint8

	// Frame state
	state frameState
	line  int
	frame int
	time  int

	// Scanline buffers, one row wide
	lineBuf  []Color
	prioBuf  []Color
	prioMask []bool
	collBuf  []int16

	sink   EventSink
	events []FrameEvent

	lastErr ErrorKind

	// ScreenshotDir is the directory where Screenshot writes PNG files.
	// Defaults to "screenshots".
	ScreenshotDir   string
	screenshotQueue []string
	script          *FrameScript

	stats      debugStats
	frameStart time.Time
}

// NewEngine creates an engine with cfg's viewport and slot pool sizes.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Width == 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = defaultHeight
	}
	if cfg.Layers == 0 {
		cfg.Layers = defaultLayers
	}
	if cfg.Sprites == 0 {
		cfg.Sprites = defaultSprites
	}
	if cfg.Animations == 0 {
		cfg.Animations = defaultAnimations
	}
	if cfg.Width < 0 || cfg.Height < 0 || cfg.Layers < 0 || cfg.Sprites < 0 || cfg.Animations < 0 ||
		cfg.Sprites > 1<<15-1 {
		return nil, &Error{Op: "NewEngine", Kind: ErrWrongSize}
	}
	e := &Engine{
		width:         cfg.Width,
		height:        cfg.Height,
		palettes:      newArena[paletteData](cfg.MaxResources),
		tilesets:      newArena[tilesetData](cfg.MaxResources),
		tilemaps:      newArena[tilemapData](cfg.MaxResources),
		spritesets:    newArena[spritesetData](cfg.MaxResources),
		bitmaps:       newArena[bitmapData](cfg.MaxResources),
		sequences:     newArena[sequenceData](cfg.MaxResources),
		packs:         newArena[packData](cfg.MaxResources),
		layers:        make([]layer, cfg.Layers),
		sprites:       make([]sprite, cfg.Sprites),
		animations:    make([]animation, cfg.Animations),
		mixTables:     make(map[uint8][]uint8),
		lineBuf:       make([]Color, cfg.Width),
		prioBuf:       make([]Color, cfg.Width),
		prioMask:      make([]bool, cfg.Width),
		collBuf:       make([]int16, cfg.Width),
		ScreenshotDir: "screenshots",
	}
	for i := range e.layers {
		e.layers[i].reset(e.width, e.height)
	}
	for i := range e.sprites {
		e.sprites[i].reset()
	}
	return e, nil
}

// Close disables every layer, sprite and animation and frees all resources.
// Handles issued by the engine are invalid afterwards.
func (e *Engine) Close() {
	for i := range e.animations {
		e.releaseAnimation(&e.animations[i])
		e.animations[i] = animation{}
	}
	for i := range e.layers {
		e.releaseLayer(&e.layers[i])
		e.layers[i].reset(e.width, e.height)
	}
	for i := range e.sprites {
		e.releaseSprite(&e.sprites[i])
		e.sprites[i].reset()
	}
	e.palettes.clear()
	e.tilesets.clear()
	e.tilemaps.clear()
	e.spritesets.clear()
	e.bitmaps.clear()
	e.sequences.clear()
	e.packs.clear()
	e.bgBitmap, e.bgPalette = 0, 0
	e.target = nil
	e.state = frameIdle
}

// Width returns the viewport width in pixels.
func (e *Engine) Width() int { return e.width }

// Height returns the viewport height in pixels.
func (e *Engine) Height() int { return e.height }

// NumLayers returns the size of the layer pool.
func (e *Engine) NumLayers() int { return len(e.layers) }

// NumSprites returns the size of the sprite pool.
func (e *Engine) NumSprites() int { return len(e.sprites) }

// NumAnimations returns the size of the animation pool.
func (e *Engine) NumAnimations() int { return len(e.animations) }

// Frame returns the number of frames completed so far.
func (e *Engine) Frame() int { return e.frame }

// SetRenderTarget sets the RGBA buffer that scanlines are written to. Row y
// starts at buf[y*pitch]; bytes past width*4 in each row are left untouched.
func (e *Engine) SetRenderTarget(buf []byte, pitch int) error {
	const op = "SetRenderTarget"
	if buf == nil {
		return e.fail(op, ErrNullPointer)
	}
	if pitch < e.width*4 || len(buf) < (e.height-1)*pitch+e.width*4 {
		return e.fail(op, ErrWrongSize)
	}
	e.target = buf
	e.pitch = pitch
	return e.ok()
}

// SetRasterCallback registers fn to run before each scanline is composed,
// with the scanline number. nil removes it.
func (e *Engine) SetRasterCallback(fn func(line int)) {
	e.rasterFn = fn
}

// SetFrameCallback registers fn to run from BeginFrame after animations have
// advanced, with the frame time. nil removes it.
func (e *Engine) SetFrameCallback(fn func(time int)) {
	e.frameFn = fn
}

// SetEventSink sets the receiver for collision and animation events.
func (e *Engine) SetEventSink(sink EventSink) {
	e.sink = sink
}

// SetDebugMode enables per-frame statistics and configuration warnings on
// stderr.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// SetBGColor sets the solid background color used when no background bitmap
// is set, and below a bitmap shorter than the viewport.
func (e *Engine) SetBGColor(r, g, b uint8) {
	e.bgColor = Color{r, g, b}
}

// SetBGBitmap draws b behind all layers. A zero handle removes it.
func (e *Engine) SetBGBitmap(b Bitmap) error {
	const op = "SetBGBitmap"
	if b != 0 {
		if _, err := e.bitmap(op, b); err != nil {
			return err
		}
		e.bitmaps.retain(uint32(b))
	}
	e.bitmaps.release(uint32(e.bgBitmap))
	e.bgBitmap = b
	return e.ok()
}

// SetBGPalette overrides the palette of an indexed background bitmap. A zero
// handle restores the bitmap's own palette.
func (e *Engine) SetBGPalette(p Palette) error {
	const op = "SetBGPalette"
	if p != 0 {
		if _, err := e.palette(op, p); err != nil {
			return err
		}
		e.palettes.retain(uint32(p))
	}
	e.palettes.release(uint32(e.bgPalette))
	e.bgPalette = p
	return e.ok()
}
