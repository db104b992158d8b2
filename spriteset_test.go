package scanline

import "testing"

// twoSprites builds a 4x2 sheet holding "left" (indices 1) and "right" (indices 2).
func twoSprites(t *testing.T, e *Engine, pal Palette) Spriteset {
	t.Helper()
	data := []uint8{
		1, 1, 2, 2,
		1, 1, 2, 2,
	}
	ss, err := e.CreateSpriteset([]SpriteEntry{
		{Name: "left", X: 0, Y: 0, W: 2, H: 2},
		{Name: "right", X: 2, Y: 0, W: 2, H: 2},
	}, data, 4, 2, 4, pal)
	must(t, err)
	return ss
}

func TestCreateSpritesetInvalid(t *testing.T) {
	e := newPaletteEngine(t)
	data := make([]uint8, 16)
	tests := []struct {
		name    string
		entries []SpriteEntry
		data    []uint8
		kind    ErrorKind
	}{
		{"no entries", nil, data, ErrNullPointer},
		{"nil data", []SpriteEntry{{W: 1, H: 1}}, nil, ErrNullPointer},
		{"entry outside", []SpriteEntry{{X: 3, W: 2, H: 1}}, data, ErrWrongSize},
		{"empty entry", []SpriteEntry{{W: 0, H: 1}}, data, ErrWrongSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.CreateSpriteset(tt.entries, tt.data, 4, 4, 4, 0)
			wantKind(t, "CreateSpriteset", err, tt.kind)
		})
	}
}

func TestFindSpritesetSprite(t *testing.T) {
	e := newPaletteEngine(t)
	ss := twoSprites(t, e, 0)
	i, err := e.FindSpritesetSprite(ss, "right")
	must(t, err)
	if i != 1 {
		t.Errorf("index = %d, want 1", i)
	}
	_, err = e.FindSpritesetSprite(ss, "missing")
	wantKind(t, "FindSpritesetSprite", err, ErrFileNotFound)

	info, err := e.SpriteInfo(ss, 1)
	must(t, err)
	if info != (SpriteEntry{Name: "right", X: 2, Y: 0, W: 2, H: 2}) {
		t.Errorf("SpriteInfo = %+v", info)
	}
	if n := e.SpritesetLen(ss); n != 2 {
		t.Errorf("SpritesetLen = %d, want 2", n)
	}
	_, err = e.SpriteInfo(ss, 2)
	wantKind(t, "SpriteInfo", err, ErrIdxPicture)
}

func TestCloneSpritesetSurvivesDelete(t *testing.T) {
	e := newPaletteEngine(t)
	pal, _ := e.CreatePalette(4)
	ss := twoSprites(t, e, pal)
	c, err := e.CloneSpriteset(ss)
	must(t, err)
	must(t, e.DeleteSpriteset(ss))

	if i, err := e.FindSpritesetSprite(c, "left"); err != nil || i != 0 {
		t.Errorf("clone FindSpritesetSprite = %d, %v", i, err)
	}
	if e.SpritesetPalette(c) != pal {
		t.Error("clone lost its palette")
	}
	sd := e.spritesets.get(uint32(c))
	if got := sd.at(1, 0, 0); got != 2 {
		t.Errorf("clone pixel = %d, want 2", got)
	}
}
