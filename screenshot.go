package scanline

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot queues a labeled screenshot of the render target, captured when
// the current frame's last scanline has been written. The PNG is written to
// ScreenshotDir with a timestamped filename.
func (e *Engine) Screenshot(label string) {
	e.screenshotQueue = append(e.screenshotQueue, label)
}

// Snapshot copies the viewport area of the render target into an image.
func (e *Engine) Snapshot() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, e.width, e.height))
	if e.target == nil {
		return img
	}
	for y := 0; y < e.height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+e.width*4], e.target[y*e.pitch:y*e.pitch+e.width*4])
	}
	return img
}

// flushScreenshots writes every queued label as a PNG file. Called at the
// end of each frame.
func (e *Engine) flushScreenshots() {
	if len(e.screenshotQueue) == 0 {
		return
	}

	if err := os.MkdirAll(e.ScreenshotDir, 0o755); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "[scanline] screenshot: mkdir %s: %v\n", e.ScreenshotDir, err)
		e.screenshotQueue = e.screenshotQueue[:0]
		return
	}

	img := e.Snapshot()
	stamp := time.Now().Format("20060102_150405")
	for _, label := range e.screenshotQueue {
		path := filepath.Join(e.ScreenshotDir, fmt.Sprintf("%s_f%05d_%s.png", stamp, e.frame, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[scanline] screenshot: %v\n", err)
		}
	}
	e.screenshotQueue = e.screenshotQueue[:0]
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
