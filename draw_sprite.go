package scanline

// drawSpritesLine composes scanline y of every enabled sprite whose
// FlagPriority matches prio, in slot order so higher slots land on top.
// Returns the number of sprites that touched the line.
func (e *Engine) drawSpritesLine(y int, prio bool) int {
	count := 0
	for i := range e.sprites {
		s := &e.sprites[i]
		if !s.enabled || (s.flags&FlagPriority != 0) != prio {
			continue
		}
		if e.drawSpriteLine(i, s, y) {
			count++
		}
	}
	return count
}

func (e *Engine) drawSpriteLine(n int, s *sprite, y int) bool {
	sd := e.spritesets.get(uint32(s.spriteset))
	if sd == nil || s.entry >= len(sd.entries) {
		return false
	}
	pd := e.palettes.get(uint32(e.effectiveSpritePalette(s)))
	if pd == nil {
		return false
	}
	se := &sd.entries[s.entry]

	rotate := s.flags&FlagRotate != 0
	bw, bh := se.W, se.H
	if rotate {
		bw, bh = bh, bw
	}
	dw := max(int(float64(bw)*s.sx), 1)
	dh := max(int(float64(bh)*s.sy), 1)
	if y < s.y || y >= s.y+dh {
		return false
	}
	x0 := max(s.x, 0)
	x1 := min(s.x+dw, e.width)
	if x0 >= x1 {
		return false
	}

	ry := (y - s.y) * bh / dh
	if s.flags&FlagFlipY != 0 {
		ry = bh - 1 - ry
	}
	table := e.blendTable(s.blend, s.factor)
	for x := x0; x < x1; x++ {
		rx := (x - s.x) * bw / dw
		if s.flags&FlagFlipX != 0 {
			rx = bw - 1 - rx
		}
		px, py := rx, ry
		if rotate {
			px, py = ry, rx
		}
		idx := int(sd.at(s.entry, px, py))
		if idx == 0 || idx >= len(pd.colors) {
			continue
		}
		e.lineBuf[x] = blendPixel(table, pd.colors[idx], e.lineBuf[x])
		if s.collide {
			if owner := e.collBuf[x]; owner >= 0 && int(owner) != n {
				e.sprites[owner].collision = true
				s.collision = true
			}
			e.collBuf[x] = int16(n)
		}
	}
	return true
}
