package scanline

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a frame script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Layer  int    `json:"layer,omitempty"`
	Sprite int    `json:"sprite,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	R      uint8  `json:"r,omitempty"`
	G      uint8  `json:"g,omitempty"`
	B      uint8  `json:"b,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// FrameScript sequences engine mutations and screenshots across frames for
// automated visual testing. Attach it with SetFrameScript; one step runs at
// the start of each frame.
//
// Actions: "scroll" (layer, x, y), "sprite" (sprite, x, y), "bgcolor"
// (r, g, b), "screenshot" (label), "wait" (frames).
type FrameScript struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	errs      []error
}

// LoadFrameScript parses a JSON frame script.
func LoadFrameScript(jsonData []byte) (*FrameScript, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("scanline: parse frame script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("scanline: parse frame script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "scroll", "sprite", "bgcolor", "screenshot", "wait":
		default:
			return nil, fmt.Errorf("scanline: parse frame script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &FrameScript{steps: f.Steps}, nil
}

// SetFrameScript attaches a script to the engine. nil detaches it.
func (e *Engine) SetFrameScript(s *FrameScript) {
	e.script = s
}

// Done reports whether all steps have been executed.
func (s *FrameScript) Done() bool {
	return s.done
}

// Errors returns the errors raised by steps so far.
func (s *FrameScript) Errors() []error {
	return s.errs
}

// step runs at most one step. Called from BeginFrame.
func (s *FrameScript) step(e *Engine) {
	if s.done {
		return
	}
	if s.waitCount > 0 {
		s.waitCount--
		return
	}
	if s.cursor >= len(s.steps) {
		s.done = true
		return
	}

	st := s.steps[s.cursor]
	s.cursor++

	var err error
	switch st.Action {
	case "screenshot":
		e.Screenshot(st.Label)
	case "scroll":
		err = e.SetLayerPosition(st.Layer, st.X, st.Y)
	case "sprite":
		err = e.SetSpritePosition(st.Sprite, st.X, st.Y)
	case "bgcolor":
		e.SetBGColor(st.R, st.G, st.B)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
	if err != nil {
		s.errs = append(s.errs, fmt.Errorf("step %d (%s): %w", s.cursor-1, st.Action, err))
	}

	if s.cursor >= len(s.steps) && s.waitCount == 0 {
		s.done = true
	}
}
