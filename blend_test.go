package scanline

import "testing"

func TestBlendTables(t *testing.T) {
	tests := []struct {
		mode     BlendMode
		src, dst uint8
		want     uint8
	}{
		{BlendMix25, 90, 30, 50},
		{BlendMix50, 100, 50, 75},
		{BlendMix75, 90, 30, 70},
		{BlendAdd, 200, 100, 255},
		{BlendAdd, 20, 30, 50},
		{BlendSub, 150, 100, 50},
		{BlendSub, 100, 150, 0},
		{BlendMod, 255, 128, 128},
		{BlendMod, 128, 128, 64},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := blendTables[tt.mode][int(tt.src)<<8|int(tt.dst)]; got != tt.want {
				t.Errorf("%v(%d, %d) = %d, want %d", tt.mode, tt.src, tt.dst, got, tt.want)
			}
		})
	}
}

func TestBlendMixFactor(t *testing.T) {
	e := newPaletteEngine(t)
	full := e.blendTable(BlendMix, 255)
	none := e.blendTable(BlendMix, 0)
	for _, p := range [][2]int{{0, 255}, {17, 200}, {255, 3}} {
		if got := full[p[0]<<8|p[1]]; int(got) != p[0] {
			t.Errorf("mix255(%d, %d) = %d, want %d", p[0], p[1], got, p[0])
		}
		if got := none[p[0]<<8|p[1]]; int(got) != p[1] {
			t.Errorf("mix0(%d, %d) = %d, want %d", p[0], p[1], got, p[1])
		}
	}
	if len(e.mixTables) != 2 {
		t.Errorf("cached mix tables = %d, want 2", len(e.mixTables))
	}
}

func TestBlendCustom(t *testing.T) {
	e := newPaletteEngine(t)
	if e.blendTable(BlendCustom, 0) != nil {
		t.Error("custom table set before SetCustomBlendFunction")
	}
	e.SetCustomBlendFunction(func(src, dst uint8) uint8 { return src ^ dst })
	tbl := e.blendTable(BlendCustom, 0)
	got := blendPixel(tbl, Color{0xF0, 0x0F, 0xFF}, Color{0xFF, 0xFF, 0xFF})
	if want := (Color{0x0F, 0xF0, 0x00}); got != want {
		t.Errorf("custom blend = %v, want %v", got, want)
	}
	e.SetCustomBlendFunction(nil)
	if e.blendTable(BlendCustom, 0) != nil {
		t.Error("custom table not cleared")
	}
}

func TestBlendNoneOverwrites(t *testing.T) {
	if got := blendPixel(nil, red, blue); got != red {
		t.Errorf("blendPixel(nil) = %v, want red", got)
	}
}

func TestBlendModeString(t *testing.T) {
	if s := BlendMix50.String(); s != "mix50" {
		t.Errorf("String = %q, want mix50", s)
	}
	if s := BlendMode(99).String(); s != "unknown" {
		t.Errorf("String = %q, want unknown", s)
	}
}
