package scanline

// Handles are arena references: the low bits hold slot index+1 and the high
// bits the slot generation. A zero handle is the null handle. Freeing a slot
// bumps its generation, so a stale handle never resolves to a newer object.
const (
	handleIndexBits = 20
	handleIndexMask = 1<<handleIndexBits - 1
	handleGenMask   = 1<<(32-handleIndexBits) - 1

	defaultMaxResources = 4096
)

// Palette is a handle to a color table.
type Palette uint32

// Tileset is a handle to a set of equally sized indexed tile images.
type Tileset uint32

// Tilemap is a handle to a grid of tile references.
type Tilemap uint32

// Spriteset is a handle to a set of sprite images sharing one pixel blob.
type Spriteset uint32

// Bitmap is a handle to a raw pixel buffer.
type Bitmap uint32

// Sequence is a handle to an animation sequence.
type Sequence uint32

// SequencePack is a handle to a named collection of sequences.
type SequencePack uint32

type slot[T any] struct {
	obj  *T
	gen  uint32
	refs int
}

// arena is a fixed-capacity, index-addressed store for one resource kind.
type arena[T any] struct {
	slots []slot[T]
	free  []int
	limit int
	live  int
}

func newArena[T any](limit int) arena[T] {
	if limit <= 0 || limit > handleIndexMask {
		limit = defaultMaxResources
	}
	return arena[T]{limit: limit}
}

// add stores obj and returns its handle, or 0 when the arena is full.
func (a *arena[T]) add(obj *T) uint32 {
	var idx int
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if len(a.slots) >= a.limit {
			return 0
		}
		a.slots = append(a.slots, slot[T]{})
		idx = len(a.slots) - 1
	}
	s := &a.slots[idx]
	s.obj = obj
	s.refs = 0
	a.live++
	return s.gen<<handleIndexBits | uint32(idx+1)
}

func (a *arena[T]) slot(h uint32) *slot[T] {
	idx := int(h&handleIndexMask) - 1
	if idx < 0 || idx >= len(a.slots) {
		return nil
	}
	s := &a.slots[idx]
	if s.obj == nil || s.gen != h>>handleIndexBits {
		return nil
	}
	return s
}

// get resolves a handle, returning nil for null, unknown or stale handles.
func (a *arena[T]) get(h uint32) *T {
	if s := a.slot(h); s != nil {
		return s.obj
	}
	return nil
}

func (a *arena[T]) retain(h uint32) {
	if s := a.slot(h); s != nil {
		s.refs++
	}
}

func (a *arena[T]) release(h uint32) {
	if s := a.slot(h); s != nil && s.refs > 0 {
		s.refs--
	}
}

func (a *arena[T]) refs(h uint32) int {
	if s := a.slot(h); s != nil {
		return s.refs
	}
	return 0
}

// remove frees the slot. The caller has already checked refs. A slot whose
// generation wraps around is retired and never handed out again.
func (a *arena[T]) remove(h uint32) {
	s := a.slot(h)
	if s == nil {
		return
	}
	s.obj = nil
	s.refs = 0
	s.gen = (s.gen + 1) & handleGenMask
	if s.gen != 0 {
		a.free = append(a.free, int(h&handleIndexMask)-1)
	}
	a.live--
}

// clear frees every live slot, keeping generations counting.
func (a *arena[T]) clear() {
	for i := range a.slots {
		if s := &a.slots[i]; s.obj != nil {
			a.remove(s.gen<<handleIndexBits | uint32(i+1))
		}
	}
}

// pixelBlock is an indexed pixel buffer shared between clones. Writers call
// writable first so that a shared block is copied before mutation.
type pixelBlock struct {
	pix  []uint8
	refs int
}

func newPixelBlock(n int) *pixelBlock {
	return &pixelBlock{pix: make([]uint8, n), refs: 1}
}

func (b *pixelBlock) share() *pixelBlock {
	b.refs++
	return b
}

func (b *pixelBlock) drop() {
	b.refs--
}

func (b *pixelBlock) writable() *pixelBlock {
	if b.refs <= 1 {
		return b
	}
	b.refs--
	return &pixelBlock{pix: append([]uint8(nil), b.pix...), refs: 1}
}

// ResourceCounts reports the number of live objects of each kind.
type ResourceCounts struct {
	Palettes, Tilesets, Tilemaps, Spritesets, Bitmaps, Sequences, SequencePacks int
}

// ResourceCounts returns the number of live resources per kind.
func (e *Engine) ResourceCounts() ResourceCounts {
	return ResourceCounts{
		Palettes:      e.palettes.live,
		Tilesets:      e.tilesets.live,
		Tilemaps:      e.tilemaps.live,
		Spritesets:    e.spritesets.live,
		Bitmaps:       e.bitmaps.live,
		Sequences:     e.sequences.live,
		SequencePacks: e.packs.live,
	}
}

// releaseOwnedPalette drops a resource's palette reference and deletes the
// palette when the resource created it and nothing else still uses it.
func (e *Engine) releaseOwnedPalette(p Palette, owned bool) {
	if p == 0 {
		return
	}
	e.palettes.release(uint32(p))
	if owned && e.palettes.refs(uint32(p)) == 0 {
		e.palettes.remove(uint32(p))
	}
}
