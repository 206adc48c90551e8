package gfx

// premul scales a color channel by alpha with rounding.
func premul(c, a uint8) uint8 {
	return uint8((uint16(c)*uint16(a) + 127) / 255)
}

// unpremul inverts premul. Channels of fully transparent pixels read as 0.
func unpremul(c, a uint8) uint8 {
	if a == 0 {
		return 0
	}
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// storeRow converts n pixels from format f in src to the native layout in dst.
func storeRow(f TextureFormat, dst, src []byte, n int) {
	switch f {
	case FormatA8:
		copy(dst[:n], src[:n])
	case FormatRGBA8:
		for i := 0; i < n*4; i += 4 {
			a := src[i+3]
			dst[i] = premul(src[i], a)
			dst[i+1] = premul(src[i+1], a)
			dst[i+2] = premul(src[i+2], a)
			dst[i+3] = a
		}
	case FormatBGRA8:
		for i := 0; i < n*4; i += 4 {
			a := src[i+3]
			dst[i] = premul(src[i+2], a)
			dst[i+1] = premul(src[i+1], a)
			dst[i+2] = premul(src[i], a)
			dst[i+3] = a
		}
	}
}

// loadRow converts n native pixels in src back to format f in dst.
func loadRow(f TextureFormat, dst, src []byte, n int) {
	switch f {
	case FormatA8:
		copy(dst[:n], src[:n])
	case FormatRGBA8:
		for i := 0; i < n*4; i += 4 {
			a := src[i+3]
			dst[i] = unpremul(src[i], a)
			dst[i+1] = unpremul(src[i+1], a)
			dst[i+2] = unpremul(src[i+2], a)
			dst[i+3] = a
		}
	case FormatBGRA8:
		for i := 0; i < n*4; i += 4 {
			a := src[i+3]
			dst[i] = unpremul(src[i+2], a)
			dst[i+1] = unpremul(src[i+1], a)
			dst[i+2] = unpremul(src[i], a)
			dst[i+3] = a
		}
	}
}
