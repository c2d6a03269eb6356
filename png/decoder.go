package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// header is the parsed IHDR.
type header struct {
	width, height int
	depth         byte
	colorType     ColorType
	interlace     InterlaceMethod
}

func parseIHDR(data []byte) (*header, error) {
	if len(data) != 13 {
		return nil, fmt.Errorf("%w: IHDR length %d, want 13", ErrInvalidColorConfig, len(data))
	}
	width := binary.BigEndian.Uint32(data[0:4])
	height := binary.BigEndian.Uint32(data[4:8])
	if width > maxDimension || height > maxDimension {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidColorConfig, width, height)
	}
	colorType, err := colorTypeFromID(data[9])
	if err != nil {
		return nil, err
	}
	if !colorType.validBitDepth(data[8]) {
		return nil, fmt.Errorf("%w: bit depth %d with color type %d", ErrInvalidColorConfig, data[8], data[9])
	}
	if data[10] != 0 {
		return nil, fmt.Errorf("%w: compression method %d", ErrUnsupportedEncoding, data[10])
	}
	if data[11] != 0 {
		return nil, fmt.Errorf("%w: filter method %d", ErrUnsupportedEncoding, data[11])
	}
	interlace, err := interlaceFromID(data[12])
	if err != nil {
		return nil, err
	}
	return &header{
		width:     int(width),
		height:    int(height),
		depth:     data[8],
		colorType: colorType,
		interlace: interlace,
	}, nil
}

// DecodeRGBA reads a PNG stream from r and returns its pixels as a
// 4·width·height byte RGBA buffer in row-major top-to-bottom order.
func DecodeRGBA(r io.Reader) (pix []byte, width, height int, err error) {
	var sig [8]byte
	if err := readFull(r, sig[:]); err != nil {
		return nil, 0, 0, err
	}
	if string(sig[:]) != pngHeader {
		return nil, 0, 0, ErrBadSignature
	}

	var (
		hdr      *header
		pal      [][4]byte
		seenPLTE bool
		seenTRNS bool
		seenIDAT bool
		prevIDAT bool // previous chunk was an IDAT
		idat     []byte
	)
	for {
		typ, data, err := readChunk(r)
		if err != nil {
			return nil, 0, 0, err
		}
		if hdr == nil && typ != "IHDR" {
			return nil, 0, 0, fmt.Errorf("%w: first chunk is %s, want IHDR", ErrBadChunkOrder, typ)
		}
		if typ == "IEND" {
			if !seenIDAT {
				return nil, 0, 0, fmt.Errorf("%w: no IDAT before IEND", ErrBadChunkOrder)
			}
			break
		}
		switch typ {
		case "IHDR":
			if hdr != nil {
				return nil, 0, 0, fmt.Errorf("%w: duplicate IHDR", ErrBadChunkOrder)
			}
			if hdr, err = parseIHDR(data); err != nil {
				return nil, 0, 0, err
			}
		case "PLTE":
			if hdr.colorType != Indexed {
				return nil, 0, 0, fmt.Errorf("%w: PLTE with color type %d", ErrBadChunkOrder, hdr.colorType)
			}
			if seenPLTE {
				return nil, 0, 0, fmt.Errorf("%w: duplicate PLTE", ErrBadChunkOrder)
			}
			if len(data)%3 != 0 {
				return nil, 0, 0, fmt.Errorf("%w: PLTE length %d not a multiple of 3", ErrInvalidColorConfig, len(data))
			}
			if len(data)/3 > maxPaletteSize {
				return nil, 0, 0, fmt.Errorf("%w: PLTE holds %d entries", ErrInvalidColorConfig, len(data)/3)
			}
			seenPLTE = true
			pal = make([][4]byte, len(data)/3)
			for i := range pal {
				pal[i] = [4]byte{data[i*3], data[i*3+1], data[i*3+2], 0xFF}
			}
		case "tRNS":
			if hdr.colorType != Indexed {
				return nil, 0, 0, fmt.Errorf("%w: tRNS with color type %d", ErrBadChunkOrder, hdr.colorType)
			}
			if seenTRNS {
				return nil, 0, 0, fmt.Errorf("%w: duplicate tRNS", ErrBadChunkOrder)
			}
			if !seenPLTE {
				return nil, 0, 0, fmt.Errorf("%w: tRNS before PLTE", ErrBadChunkOrder)
			}
			if len(data) > len(pal) {
				return nil, 0, 0, fmt.Errorf("%w: tRNS holds %d alphas for %d palette entries", ErrInvalidColorConfig, len(data), len(pal))
			}
			seenTRNS = true
			for i, a := range data {
				pal[i][3] = a
			}
		case "IDAT":
			if hdr.colorType == Indexed && !seenPLTE {
				return nil, 0, 0, fmt.Errorf("%w: IDAT before PLTE with indexed color", ErrBadChunkOrder)
			}
			if seenIDAT && !prevIDAT {
				return nil, 0, 0, fmt.Errorf("%w: IDAT chunks are not consecutive", ErrBadChunkOrder)
			}
			seenIDAT = true
			idat = append(idat, data...)
		default:
			// Ancillary chunks (lowercase first type byte) are skipped once
			// their CRC checks out; critical ones must be understood.
			if typ[0] >= 'A' && typ[0] <= 'Z' {
				return nil, 0, 0, fmt.Errorf("%w: critical chunk %s", ErrUnsupportedEncoding, typ)
			}
		}
		prevIDAT = typ == "IDAT"
	}

	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("%w: %v", ErrDecompressor, err)
	}
	defer zr.Close()

	pix = make([]byte, 4*hdr.width*hdr.height)
	for _, p := range hdr.interlace.passes() {
		pw, ph := p.size(hdr.width, hdr.height)
		if pw == 0 || ph == 0 {
			continue
		}
		if err := readPass(zr, pix, p, pw, ph, hdr, pal); err != nil {
			return nil, 0, 0, err
		}
	}
	return pix, hdr.width, hdr.height, nil
}

// readPass reconstructs one pass from the inflated stream and scatters it
// into pix. Each row is a filter id byte followed by the filtered row.
func readPass(zr io.Reader, pix []byte, p pass, pw, ph int, hdr *header, pal [][4]byte) error {
	rowLen := hdr.colorType.rowBytes(pw, hdr.depth)
	pixelBytes := hdr.colorType.pixelBytes(hdr.depth)
	passPix := make([]byte, 4*pw*ph)
	cur, prev := make([]byte, 1+rowLen), make([]byte, 1+rowLen)
	havePrev := false
	for y := 0; y < ph; y++ {
		if err := readFull(zr, cur); err != nil {
			if errors.Is(err, ErrTruncatedStream) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrDecompressor, err)
		}
		ft, err := filterTypeFromID(cur[0])
		if err != nil {
			return err
		}
		var prevRow []byte
		if havePrev {
			prevRow = prev[1:]
		}
		ft.reconstruct(cur[1:], prevRow, pixelBytes)
		if err := hdr.colorType.unpackRow(passPix[y*pw*4:(y+1)*pw*4], cur[1:], pw, hdr.depth, pal); err != nil {
			return err
		}
		cur, prev = prev, cur
		havePrev = true
	}
	p.insert(pix, passPix, hdr.width, hdr.height)
	return nil
}
