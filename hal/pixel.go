package hal

// RGB565 packs an 8-bit-per-channel color into the framebuffer pixel format.
func RGB565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

// RGB888From565 expands a framebuffer pixel back to 8 bits per channel.
func RGB888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// PixelAt reads one RGB565 pixel from fb. Out-of-range coordinates read as black.
func PixelAt(fb Framebuffer, x, y int) (r, g, b uint8) {
	if fb == nil || x < 0 || y < 0 || x >= fb.Width() || y >= fb.Height() {
		return 0, 0, 0
	}
	buf := fb.Buffer()
	off := y*fb.StrideBytes() + x*2
	if off < 0 || off+1 >= len(buf) {
		return 0, 0, 0
	}
	return RGB888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
}

// Fill paints every pixel of fb with one color.
func Fill(fb Framebuffer, r, g, b uint8) {
	if fb == nil {
		return
	}
	p := RGB565(r, g, b)
	lo, hi := byte(p), byte(p>>8)
	buf := fb.Buffer()
	stride := fb.StrideBytes()
	for y := 0; y < fb.Height(); y++ {
		row := y * stride
		for x := 0; x < fb.Width(); x++ {
			off := row + x*2
			if off+1 >= len(buf) {
				return
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}
