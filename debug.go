package scanline

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and composition counts.
// Only reported when debug mode is on.
type debugStats struct {
	frameTime   time.Duration
	layerPixels int // layer pixels written over all scanlines
	spriteLines int // sprite-scanline spans drawn
}

// debugLog prints the stats of the frame that just ended to stderr.
func (e *Engine) debugLog(stats debugStats) {
	if !e.debug {
		return
	}
	rc := e.ResourceCounts()
	_, _ = fmt.Fprintf(os.Stderr,
		"[scanline] frame %d: %v | layer px: %d | sprite spans: %d | active layers: %d | active sprites: %d | animations: %d\n",
		e.frame-1, stats.frameTime, stats.layerPixels, stats.spriteLines,
		e.countLayers(), e.countSprites(), e.countAnimations())
	_, _ = fmt.Fprintf(os.Stderr,
		"[scanline] resources: palettes %d | tilesets %d | tilemaps %d | spritesets %d | bitmaps %d | sequences %d | packs %d\n",
		rc.Palettes, rc.Tilesets, rc.Tilemaps, rc.Spritesets, rc.Bitmaps, rc.Sequences, rc.SequencePacks)
}

func (e *Engine) countLayers() int {
	n := 0
	for i := range e.layers {
		if e.layers[i].enabled {
			n++
		}
	}
	return n
}

func (e *Engine) countSprites() int {
	n := 0
	for i := range e.sprites {
		if e.sprites[i].enabled {
			n++
		}
	}
	return n
}

func (e *Engine) countAnimations() int {
	n := 0
	for i := range e.animations {
		if e.animations[i].active {
			n++
		}
	}
	return n
}
