package scanline

import "testing"

func TestLoadFrameScript(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr bool
	}{
		{"valid", `{"steps": [{"action": "scroll", "x": 4}, {"action": "screenshot", "label": "a"}]}`, false},
		{"invalid json", `{"steps": [`, true},
		{"no steps", `{"steps": []}`, true},
		{"unknown action", `{"steps": [{"action": "explode"}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := LoadFrameScript([]byte(tt.json))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && s == nil {
				t.Error("nil script")
			}
		})
	}
}

func TestFrameScriptTiming(t *testing.T) {
	e, _, ts, _ := layerScene(t, 1)
	must(t, e.SetLayer(0, ts, filledTilemap(t, e, 2, 4, Tile{Index: 1})))
	s, err := LoadFrameScript([]byte(`{"steps": [
		{"action": "scroll", "layer": 0, "x": 4, "y": 2},
		{"action": "wait", "frames": 2},
		{"action": "bgcolor", "r": 9, "g": 8, "b": 7}
	]}`))
	must(t, err)
	e.SetFrameScript(s)

	render(t, e, 0)
	if x, y, _ := e.LayerPosition(0); x != 4 || y != 2 {
		t.Errorf("frame 1 position = (%d, %d), want (4, 2)", x, y)
	}
	render(t, e, 16)
	render(t, e, 32)
	if e.bgColor != gray {
		t.Errorf("bgcolor ran during wait: %v", e.bgColor)
	}
	if s.Done() {
		t.Error("Done during wait")
	}
	render(t, e, 48)
	if e.bgColor != (Color{9, 8, 7}) {
		t.Errorf("bgColor = %v, want {9 8 7}", e.bgColor)
	}
	if !s.Done() {
		t.Error("not Done after last step")
	}
	if len(s.Errors()) != 0 {
		t.Errorf("Errors = %v", s.Errors())
	}
}

func TestFrameScriptStepErrors(t *testing.T) {
	e, _, _, _ := layerScene(t, 1)
	s, err := LoadFrameScript([]byte(`{"steps": [{"action": "scroll", "layer": 7}, {"action": "sprite", "sprite": 99}]}`))
	must(t, err)
	e.SetFrameScript(s)
	render(t, e, 0)
	render(t, e, 16)
	if n := len(s.Errors()); n != 2 {
		t.Errorf("Errors = %v, want 2", s.Errors())
	}
	if !s.Done() {
		t.Error("not Done")
	}
}
