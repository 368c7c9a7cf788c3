package canvas

import "image/color"

// Encode16 spreads v over the channels of an opaque pixel. Bits 0-5 go to
// red, 6-11 to green and 12-15 to blue, each in bits 2-7 of the channel.
func Encode16(v uint16) color.RGBA {
	return color.RGBA{
		R: uint8((v & 0x3f) << 2),
		G: uint8((v >> 4) & 0xfc),
		B: uint8((v >> 10) & 0xfc),
		A: 0xff,
	}
}

// Decode16 is the inverse of Encode16. The low two bits of each channel are
// ignored.
func Decode16(c color.RGBA) uint16 {
	return uint16(c.R)>>2 | (uint16(c.G)&0xfc)<<4 | (uint16(c.B)&0xfc)<<10
}

// Encode8 encodes v as the high byte of a 16-bit value
func Encode8(v uint8) color.RGBA {
	return Encode16(uint16(v) << 8)
}

// Decode8 is the inverse of Encode8
func Decode8(c color.RGBA) uint8 {
	return uint8(Decode16(c) >> 8)
}
