package scanline

import "github.com/hajimehoshi/ebiten/v2"

// InputID identifies an abstract button polled by Run.
type InputID uint8

const (
	InputUp      InputID = iota // arrow up, W
	InputDown                   // arrow down, S
	InputLeft                   // arrow left, A
	InputRight                  // arrow right, D
	InputButton1                // Z, space
	InputButton2                // X
	InputButton3                // C
	InputButton4                // V
	InputButton5                // Q
	InputButton6                // E
	InputStart                  // enter
	InputQuit                   // escape
	inputCount
)

var defaultKeyMap = [inputCount][]ebiten.Key{
	InputUp:      {ebiten.KeyArrowUp, ebiten.KeyW},
	InputDown:    {ebiten.KeyArrowDown, ebiten.KeyS},
	InputLeft:    {ebiten.KeyArrowLeft, ebiten.KeyA},
	InputRight:   {ebiten.KeyArrowRight, ebiten.KeyD},
	InputButton1: {ebiten.KeyZ, ebiten.KeySpace},
	InputButton2: {ebiten.KeyX},
	InputButton3: {ebiten.KeyC},
	InputButton4: {ebiten.KeyV},
	InputButton5: {ebiten.KeyQ},
	InputButton6: {ebiten.KeyE},
	InputStart:   {ebiten.KeyEnter},
	InputQuit:    {ebiten.KeyEscape},
}

// Input holds the state of every InputID for the current and previous tick.
type Input struct {
	cur, prev [inputCount]bool
	keys      [inputCount][]ebiten.Key
	bound     bool
}

// BindKey replaces the keys mapped to id.
func (in *Input) BindKey(id InputID, keys ...ebiten.Key) {
	if id >= inputCount {
		return
	}
	in.ensureKeys()
	in.keys[id] = append([]ebiten.Key(nil), keys...)
}

func (in *Input) ensureKeys() {
	if !in.bound {
		in.keys = defaultKeyMap
		in.bound = true
	}
}

// Pressed reports whether id is held down.
func (in *Input) Pressed(id InputID) bool {
	return id < inputCount && in.cur[id]
}

// JustPressed reports whether id went down on this tick.
func (in *Input) JustPressed(id InputID) bool {
	return id < inputCount && in.cur[id] && !in.prev[id]
}

// JustReleased reports whether id went up on this tick.
func (in *Input) JustReleased(id InputID) bool {
	return id < inputCount && !in.cur[id] && in.prev[id]
}

// update starts a new tick, querying down for every InputID.
func (in *Input) update(down func(InputID) bool) {
	in.prev = in.cur
	for id := InputID(0); id < inputCount; id++ {
		in.cur[id] = down(id)
	}
}

// poll reads the keyboard through ebiten.
func (in *Input) poll() {
	in.ensureKeys()
	in.update(func(id InputID) bool {
		for _, k := range in.keys[id] {
			if ebiten.IsKeyPressed(k) {
				return true
			}
		}
		return false
	})
}
