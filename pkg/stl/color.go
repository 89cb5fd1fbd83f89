package stl

// The attribute word uses the VisCAM layout: bit 15 marks a valid colour,
// then 5 bits each for red, green and blue.
const colorValid = 1 << 15

func encodeColor(c Color) uint16 {
	return colorValid |
		uint16(c.R>>3)<<10 |
		uint16(c.G>>3)<<5 |
		uint16(c.B>>3)
}

func decodeColor(attr uint16) (Color, bool) {
	if attr&colorValid == 0 {
		return Color{}, false
	}
	expand := func(v uint16) uint8 {
		v &= 0x1f
		return uint8(v<<3 | v>>2)
	}
	return Color{R: expand(attr >> 10), G: expand(attr >> 5), B: expand(attr)}, true
}
