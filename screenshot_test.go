package scanline

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"title", "title"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"level 1/boss", "level_1_boss"},
		{"v1.2-final", "v1.2-final"},
		{"héros", "h_ros"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotDefaultDir(t *testing.T) {
	e, err := NewEngine(Config{Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	if e.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want screenshots", e.ScreenshotDir)
	}
}

func TestSnapshot(t *testing.T) {
	e, _ := newTestEngine(t, Config{Width: 4, Height: 2, Layers: 1})
	e.SetBGColor(1, 2, 3)
	render(t, e, 0)
	img := e.Snapshot()
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Fatalf("Snapshot bounds = %v", b)
	}
	if c := img.NRGBAAt(3, 1); c.R != 1 || c.G != 2 || c.B != 3 || c.A != 255 {
		t.Errorf("Snapshot pixel = %v", c)
	}
}

func TestScreenshotWritesFile(t *testing.T) {
	e, _ := newTestEngine(t, Config{Width: 4, Height: 2, Layers: 1})
	e.ScreenshotDir = t.TempDir()
	e.Screenshot("shot")
	if len(e.screenshotQueue) != 1 {
		t.Fatalf("queue length = %d, want 1", len(e.screenshotQueue))
	}
	render(t, e, 0)
	if len(e.screenshotQueue) != 0 {
		t.Errorf("queue not flushed: %v", e.screenshotQueue)
	}
	matches, err := filepath.Glob(filepath.Join(e.ScreenshotDir, "*_shot.png"))
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("screenshots = %v, want one", matches)
	}
	if !strings.Contains(filepath.Base(matches[0]), "_f00001_") {
		t.Errorf("file name %q does not carry the frame number", matches[0])
	}
}
