package scanline

// Color is an opaque RGB triple as stored in palettes and scanline buffers.
type Color struct {
	R, G, B uint8
}

// ColorBlack is the default background color.
var ColorBlack = Color{}

// Rect is an integer rectangle in viewport pixels. X2 and Y2 are exclusive.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// Contains reports whether the pixel (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X1 && x < r.X2 && y >= r.Y1 && y < r.Y2
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool {
	return r.X2 <= r.X1 || r.Y2 <= r.Y1
}

// BlendMode selects how a layer or sprite pixel combines with the pixel
// already in the scanline buffer. src is the incoming pixel, dst the existing one.
type BlendMode uint8

const (
	BlendNone   BlendMode = iota // overwrite
	BlendMix25                   // (src + 2*dst) / 3
	BlendMix50                   // (src + dst) / 2
	BlendMix75                   // (2*src + dst) / 3
	BlendAdd                     // saturating src + dst
	BlendSub                     // saturating src - dst
	BlendMod                     // src * dst / 255
	BlendCustom                  // table built by SetCustomBlendFunction
	BlendMix                     // factor-weighted: src*f/255 + dst*(255-f)/255
	blendModeCount
)

var blendModeNames = [...]string{
	"none", "mix25", "mix50", "mix75", "add", "sub", "mod", "custom", "mix",
}

// String returns the lower-case name of the mode.
func (b BlendMode) String() string {
	if int(b) < len(blendModeNames) {
		return blendModeNames[b]
	}
	return "unknown"
}

// TileFlags are the per-tile and per-sprite attribute bits.
type TileFlags uint16

const (
	FlagFlipX    TileFlags = 1 << 15 // horizontal flip
	FlagFlipY    TileFlags = 1 << 14 // vertical flip
	FlagRotate   TileFlags = 1 << 13 // diagonal flip (square tiles and sprites only)
	FlagPriority TileFlags = 1 << 12 // drawn in front of regular sprites
)

// LoopMode controls what an animation slot does after its last frame.
type LoopMode uint8

const (
	LoopWrap     LoopMode = iota // last frame is followed by frame 0
	LoopStop                     // stay on the last frame and deactivate
	LoopPingPong                 // reverse direction at either end
)

// Affine describes a layer transform: rotation in degrees around the pivot
// (hstart+Dx, vstart+Dy), followed by scaling.
type Affine struct {
	Angle  float64
	Dx, Dy float64
	Sx, Sy float64
}

// EventType identifies a frame event delivered to an EventSink.
type EventType uint8

const (
	EventSpriteCollision   EventType = iota // a collision-enabled sprite overlapped another
	EventAnimationFinished                  // a LoopStop animation reached its last frame
)

// FrameEvent is emitted at the end of a frame for every collision and every
// animation that finished during it.
type FrameEvent struct {
	Type      EventType
	Frame     int
	Time      int
	Sprite    int // valid for EventSpriteCollision
	Animation int // valid for EventAnimationFinished
}

// EventSink receives frame events. See the ecs sub-package for a Donburi adapter.
type EventSink interface {
	EmitEvent(event FrameEvent)
}
