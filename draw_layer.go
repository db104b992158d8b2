package scanline

import (
	"fmt"
	"math"
	"os"
)

// layerSource is a layer binding resolved once per scanline.
type layerSource struct {
	ts   *tilesetData
	tm   *tilemapData
	bm   *bitmapData
	pal  []Color
	w, h int
}

// resolveLayer looks up everything layer n needs to draw. A layer whose
// binding is incomplete is reported once and disabled.
func (e *Engine) resolveLayer(n int, l *layer) (layerSource, bool) {
	var src layerSource
	if l.bitmap != 0 {
		src.bm = e.bitmaps.get(uint32(l.bitmap))
		if src.bm == nil {
			return src, e.reportLayer(n, l, ErrRefBitmap)
		}
		src.w, src.h = src.bm.w, src.bm.h
		if src.bm.bpp == 32 {
			return src, true
		}
	} else {
		src.ts = e.tilesets.get(uint32(l.tileset))
		if src.ts == nil {
			return src, e.reportLayer(n, l, ErrRefTileset)
		}
		src.tm = e.tilemaps.get(uint32(l.tilemap))
		if src.tm == nil {
			return src, e.reportLayer(n, l, ErrRefTilemap)
		}
		src.w, src.h = src.tm.cols*src.ts.tileW, src.tm.rows*src.ts.tileH
	}
	pd := e.palettes.get(uint32(e.effectiveLayerPalette(l)))
	if pd == nil {
		return src, e.reportLayer(n, l, ErrRefPalette)
	}
	src.pal = pd.colors
	return src, true
}

// reportLayer disables layer n and records its configuration error the first
// time it is seen. The error is logged in debug mode. It always returns false.
func (e *Engine) reportLayer(n int, l *layer, kind ErrorKind) bool {
	if !l.reported {
		l.reported = true
		e.lastErr = kind
		if e.debug {
			_, _ = fmt.Fprintf(os.Stderr, "[scanline] layer %d: %v, disabled\n", n, kind)
		}
	}
	l.enabled = false
	return false
}

// sample returns the color at layer-space (xs, ys), whether the tile has the
// priority flag, and false for a transparent pixel.
func (s *layerSource) sample(l *layer, xs, ys int) (Color, bool, bool) {
	xs = wrap(xs, s.w)
	ys = wrap(ys, s.h)
	if bm := s.bm; bm != nil {
		if bm.bpp == 32 {
			o := ys*bm.pitch + xs*4
			if bm.pix[o+3] == 0 {
				return Color{}, false, false
			}
			return Color{bm.pix[o], bm.pix[o+1], bm.pix[o+2]}, false, true
		}
		idx := int(bm.pix[ys*bm.pitch+xs])
		if idx == 0 || idx >= len(s.pal) {
			return Color{}, false, false
		}
		return s.pal[idx], false, true
	}

	ts := s.ts
	t := s.tm.tiles[(ys/ts.tileH)*s.tm.cols+xs/ts.tileW]
	ti := int(t.Index)
	if ti == 0 {
		return Color{}, false, false
	}
	if ti < len(l.alias) {
		ti = int(l.alias[ti])
	}
	if ti <= 0 || ti > ts.numTiles {
		return Color{}, false, false
	}
	px, py := xs%ts.tileW, ys%ts.tileH
	if t.Flags&FlagFlipX != 0 {
		px = ts.tileW - 1 - px
	}
	if t.Flags&FlagFlipY != 0 {
		py = ts.tileH - 1 - py
	}
	if t.Flags&FlagRotate != 0 && ts.tileW == ts.tileH {
		px, py = py, px
	}
	idx := int(ts.pix.pix[ti*ts.tileSize()+py*ts.tileW+px])
	if idx == 0 || idx >= len(s.pal) {
		return Color{}, false, false
	}
	return s.pal[idx], t.Flags&FlagPriority != 0, true
}

// drawLayerLine composes scanline y of layer n into the line buffer. Tiles
// flagged FlagPriority on a non-priority layer go to the priority buffer
// instead. Returns the number of pixels written.
func (e *Engine) drawLayerLine(n, y int) int {
	l := &e.layers[n]
	if y < l.clip.Y1 || y >= l.clip.Y2 || l.clip.Empty() {
		return 0
	}
	src, ok := e.resolveLayer(n, l)
	if !ok {
		return 0
	}
	table := e.blendTable(l.blend, l.factor)

	sy := y
	if l.mosaicH > 1 {
		sy -= sy % l.mosaicH
	}

	var inv [6]float64
	var dx, dy int
	switch l.mode {
	case modeAffine:
		inv = l.samplingMatrix()
	case modeScaling:
		dx = int(65536 / l.sx)
		dy = int(65536 / l.sy)
	}

	drawn := 0
	for x := l.clip.X1; x < l.clip.X2; x++ {
		sx := x
		if l.mosaicW > 1 {
			sx -= sx % l.mosaicW
		}
		var xs, ys int
		switch l.mode {
		case modeNormal:
			xs, ys = l.hstart+sx, l.vstart+sy
			if l.columns != nil {
				ys += l.columns[sx]
			}
		case modeScaling:
			row := sy
			if l.columns != nil {
				row += l.columns[sx]
			}
			xs = l.hstart + (sx*dx)>>16
			ys = l.vstart + (row*dy)>>16
		case modeAffine:
			fx, fy := transformPoint(inv, float64(l.hstart+sx)+0.5, float64(l.vstart+sy)+0.5)
			xs, ys = int(math.Floor(fx)), int(math.Floor(fy))
		}

		c, prio, opaque := src.sample(l, xs, ys)
		if !opaque {
			continue
		}
		if prio && !l.priority {
			e.prioBuf[x] = c
			e.prioMask[x] = true
			continue
		}
		e.lineBuf[x] = blendPixel(table, c, e.lineBuf[x])
		drawn++
	}
	return drawn
}
