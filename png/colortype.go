package png

import "fmt"

// ColorType is the color type field of IHDR.
type ColorType byte

const (
	Greyscale      ColorType = 0
	Truecolor      ColorType = 2
	Indexed        ColorType = 3
	GreyscaleAlpha ColorType = 4
	TruecolorAlpha ColorType = 6
)

func colorTypeFromID(id byte) (ColorType, error) {
	switch ct := ColorType(id); ct {
	case Greyscale, Truecolor, Indexed, GreyscaleAlpha, TruecolorAlpha:
		return ct, nil
	}
	return 0, fmt.Errorf("%w: unknown color type %d", ErrInvalidColorConfig, id)
}

func (ct ColorType) components() int {
	switch ct {
	case Greyscale, Indexed:
		return 1
	case GreyscaleAlpha:
		return 2
	case Truecolor:
		return 3
	case TruecolorAlpha:
		return 4
	}
	return 0
}

func (ct ColorType) validBitDepth(depth byte) bool {
	switch ct {
	case Greyscale:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8 || depth == 16
	case Indexed:
		return depth == 1 || depth == 2 || depth == 4 || depth == 8
	case Truecolor, GreyscaleAlpha, TruecolorAlpha:
		return depth == 8 || depth == 16
	}
	return false
}

// pixelBytes is the filter unit: the byte distance between corresponding
// bytes of horizontally adjacent pixels, never less than one whole byte.
func (ct ColorType) pixelBytes(depth byte) int {
	per := 1
	if depth > 8 {
		per = int(depth) / 8
	}
	return per * ct.components()
}

// rowBytes is the packed size of one row. Sub-byte samples share octets
// MSB-first; the row pads to the next octet boundary.
func (ct ColorType) rowBytes(width int, depth byte) int {
	return (width*ct.components()*int(depth) + 7) / 8
}

// packRow packs one row of RGBA pixels into dst, which must be
// rowBytes(width, depth) long and zeroed. Greyscale types store the
// integer mean of R, G and B; indexed rows store palette indices.
// 16-bit samples carry the 8-bit value in the high octet, low octet zero.
func (ct ColorType) packRow(dst, row []byte, width int, depth byte, pal *palette) {
	comps := ct.components()
	var typed [4]byte
	bytePos, bitPos := 0, 0
	for x := 0; x < width; x++ {
		r, g, b, a := row[x*4], row[x*4+1], row[x*4+2], row[x*4+3]
		switch ct {
		case Greyscale:
			typed[0] = byte((int(r) + int(g) + int(b)) / 3)
		case GreyscaleAlpha:
			typed[0] = byte((int(r) + int(g) + int(b)) / 3)
			typed[1] = a
		case Truecolor:
			typed[0], typed[1], typed[2] = r, g, b
		case TruecolorAlpha:
			typed[0], typed[1], typed[2], typed[3] = r, g, b, a
		case Indexed:
			typed[0] = pal.index(packColor(r, g, b, a))
		}
		switch {
		case depth == 16:
			for j := 0; j < comps; j++ {
				dst[bytePos] = typed[j]
				dst[bytePos+1] = 0
				bytePos += 2
			}
		case depth == 8:
			copy(dst[bytePos:], typed[:comps])
			bytePos += comps
		default: // 1, 2, 4
			for j := 0; j < comps; j++ {
				v := typed[j]
				if ct != Indexed {
					v >>= 8 - depth
				}
				dst[bytePos] |= v << (8 - depth - byte(bitPos))
				bitPos += int(depth)
				if bitPos == 8 {
					bitPos = 0
					bytePos++
				}
			}
		}
	}
}

// unpackRow expands one packed row into RGBA pixels in dst. Sub-byte
// samples are extracted MSB-first, matching packRow, and non-indexed ones
// shift back up to their most significant bit position. 16-bit samples
// keep the high octet. pal is consulted for Indexed rows only.
func (ct ColorType) unpackRow(dst, rowBytes []byte, width int, depth byte, pal [][4]byte) error {
	comps := ct.components()
	var read [4]byte
	bytePos, bitPos := 0, 0
	for x := 0; x < width; x++ {
		switch {
		case depth == 16:
			for j := 0; j < comps; j++ {
				read[j] = rowBytes[bytePos+j*2]
			}
			bytePos += comps * 2
		case depth == 8:
			copy(read[:comps], rowBytes[bytePos:])
			bytePos += comps
		default:
			for j := 0; j < comps; j++ {
				read[j] = rowBytes[bytePos] >> (8 - depth - byte(bitPos)) & (1<<depth - 1)
				if ct != Indexed {
					read[j] <<= 8 - depth
				}
				bitPos += int(depth)
				if bitPos == 8 {
					bitPos = 0
					bytePos++
				}
			}
		}
		out := dst[x*4 : x*4+4]
		switch ct {
		case Greyscale:
			out[0], out[1], out[2], out[3] = read[0], read[0], read[0], 0xFF
		case GreyscaleAlpha:
			out[0], out[1], out[2], out[3] = read[0], read[0], read[0], read[1]
		case Truecolor:
			out[0], out[1], out[2], out[3] = read[0], read[1], read[2], 0xFF
		case TruecolorAlpha:
			copy(out, read[:4])
		case Indexed:
			idx := int(read[0])
			if idx >= len(pal) {
				return fmt.Errorf("%w: palette index %d out of range", ErrInvalidColorConfig, idx)
			}
			c := pal[idx]
			out[0], out[1], out[2], out[3] = c[0], c[1], c[2], c[3]
		}
	}
	return nil
}

// chooseColorType picks the cheapest representation: indexed at the
// smallest depth that fits the palette, otherwise an 8-bit type matching
// the grey and alpha predicates. The grey predicate is R==G && B==A,
// kept as-is for output stability; see DESIGN.md.
func chooseColorType(pal *palette, greyscale, alpha bool) (ColorType, byte) {
	if !pal.overflow {
		switch {
		case pal.size <= 2:
			return Indexed, 1
		case pal.size <= 4:
			return Indexed, 2
		case pal.size <= 16:
			return Indexed, 4
		default:
			return Indexed, 8
		}
	}
	if !alpha {
		if greyscale {
			return Greyscale, 8
		}
		return Truecolor, 8
	}
	if greyscale {
		return GreyscaleAlpha, 8
	}
	return TruecolorAlpha, 8
}
