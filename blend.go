package scanline

const blendTableSize = 256 * 256

// blendTables holds one 64 KiB lookup per fixed blend mode, indexed by
// src<<8 | dst. BlendNone, BlendCustom and BlendMix have no shared table.
var blendTables [blendModeCount][]uint8

func init() {
	for _, m := range []BlendMode{BlendMix25, BlendMix50, BlendMix75, BlendAdd, BlendSub, BlendMod} {
		blendTables[m] = make([]uint8, blendTableSize)
	}
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			i := a<<8 | b
			blendTables[BlendMix25][i] = uint8((a + 2*b) / 3)
			blendTables[BlendMix50][i] = uint8((a + b) >> 1)
			blendTables[BlendMix75][i] = uint8((2*a + b) / 3)
			blendTables[BlendAdd][i] = uint8(min(a+b, 255))
			blendTables[BlendSub][i] = uint8(max(a-b, 0))
			blendTables[BlendMod][i] = uint8(a * b / 255)
		}
	}
}

func buildMixTable(factor uint8) []uint8 {
	t := make([]uint8, blendTableSize)
	f := int(factor)
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			t[a<<8|b] = uint8(a*f/255 + b*(255-f)/255)
		}
	}
	return t
}

// SetCustomBlendFunction builds the table used by BlendCustom. A nil fn
// resets it to a plain overwrite.
func (e *Engine) SetCustomBlendFunction(fn func(src, dst uint8) uint8) {
	if fn == nil {
		e.customBlend = nil
		return
	}
	t := make([]uint8, blendTableSize)
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			t[a<<8|b] = fn(uint8(a), uint8(b))
		}
	}
	e.customBlend = t
}

// blendTable returns the lookup for mode, or nil for a plain overwrite.
func (e *Engine) blendTable(mode BlendMode, factor uint8) []uint8 {
	switch mode {
	case BlendNone:
		return nil
	case BlendCustom:
		return e.customBlend
	case BlendMix:
		t, ok := e.mixTables[factor]
		if !ok {
			t = buildMixTable(factor)
			e.mixTables[factor] = t
		}
		return t
	}
	if mode < blendModeCount {
		return blendTables[mode]
	}
	return nil
}

func blendPixel(t []uint8, src, dst Color) Color {
	if t == nil {
		return src
	}
	return Color{
		R: t[int(src.R)<<8|int(dst.R)],
		G: t[int(src.G)<<8|int(dst.G)],
		B: t[int(src.B)<<8|int(dst.B)],
	}
}
