package png

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// Encoder carries the policy knobs of the stream driver. The zero value
// writes non-interlaced images with IDAT payloads of up to 1024 bytes.
type Encoder struct {
	// Interlace selects InterlaceNone or InterlaceAdam7.
	Interlace InterlaceMethod
	// ChunkSize caps the payload of each IDAT chunk. Zero means 1024.
	ChunkSize int
}

// EncodeRGBA writes pix, a 4·width·height byte RGBA buffer in row-major
// top-to-bottom order, to w as a PNG stream using the default Encoder.
func EncodeRGBA(w io.Writer, pix []byte, width, height int) error {
	var enc Encoder
	return enc.EncodeRGBA(w, pix, width, height)
}

// EncodeRGBA writes pix, a 4·width·height byte RGBA buffer in row-major
// top-to-bottom order, to w as a PNG stream. The color type and bit depth
// are chosen from the pixel data; nothing reaches w before the input
// validates.
func (enc *Encoder) EncodeRGBA(w io.Writer, pix []byte, width, height int) error {
	if width < 0 || height < 0 || width > maxDimension || height > maxDimension {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidColorConfig, width, height)
	}
	if len(pix) != 4*width*height {
		return fmt.Errorf("%w: pixel buffer is %d bytes, want %d", ErrInvalidColorConfig, len(pix), 4*width*height)
	}
	if enc.Interlace != InterlaceNone && enc.Interlace != InterlaceAdam7 {
		return fmt.Errorf("%w: unknown interlace method %d", ErrInvalidColorConfig, enc.Interlace)
	}
	chunkSize := enc.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	} else if chunkSize > maxChunkLength {
		chunkSize = maxChunkLength
	}

	greyscale, alpha := true, false
	var pal palette
	for i := 0; i < len(pix); i += 4 {
		r, g, b, a := pix[i], pix[i+1], pix[i+2], pix[i+3]
		if r != g || b != a {
			greyscale = false
		}
		if a != 0xFF {
			alpha = true
		}
		pal.add(packColor(r, g, b, a))
	}
	pal.sort()
	colorType, depth := chooseColorType(&pal, greyscale, alpha)

	if _, err := io.WriteString(w, pngHeader); err != nil {
		return err
	}
	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = depth
	ihdr[9] = byte(colorType)
	ihdr[10] = 0 // compression method: deflate
	ihdr[11] = 0 // filter method: adaptive
	ihdr[12] = byte(enc.Interlace)
	if err := writeChunk(w, "IHDR", ihdr[:]); err != nil {
		return err
	}

	if colorType == Indexed {
		plte := make([]byte, 0, pal.size*3)
		for _, c := range pal.final[:pal.size] {
			plte = append(plte, byte(c>>24), byte(c>>16), byte(c>>8))
		}
		if err := writeChunk(w, "PLTE", plte); err != nil {
			return err
		}
		if pal.alphaSize > 0 {
			trns := make([]byte, pal.alphaSize)
			for i, c := range pal.final[:pal.alphaSize] {
				trns[i] = byte(c)
			}
			if err := writeChunk(w, "tRNS", trns); err != nil {
				return err
			}
		}
	}

	// All passes feed one zlib stream, split into IDAT chunks as the
	// compressor produces output.
	cw := &chunkWriter{w: w, buf: make([]byte, chunkSize)}
	zw, err := zlib.NewWriterLevel(cw, zlib.BestCompression)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCompressor, err)
	}
	for _, p := range enc.Interlace.passes() {
		pw, ph := p.size(width, height)
		if pw == 0 || ph == 0 {
			continue
		}
		passPix := make([]byte, 4*pw*ph)
		p.extract(passPix, pix, width, height)
		if err := writePass(zw, passPix, pw, ph, colorType, depth, &pal); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrCompressor, err)
	}
	if err := cw.flush(); err != nil {
		return err
	}

	return writeChunk(w, "IEND", nil)
}

// writePass packs, filters and emits one pass. Row buffers are allocated
// once per pass and rotated; each row picks its filter by the
// minimum-absolute-sum heuristic.
func writePass(zw io.Writer, passPix []byte, pw, ph int, ct ColorType, depth byte, pal *palette) error {
	rowLen := ct.rowBytes(pw, depth)
	pixelBytes := ct.pixelBytes(depth)
	cur, prev := make([]byte, rowLen), make([]byte, rowLen)
	scratch := make([][]byte, 5)
	for i := range scratch {
		scratch[i] = make([]byte, rowLen)
	}
	havePrev := false
	var ftID [1]byte
	for y := 0; y < ph; y++ {
		clear(cur)
		ct.packRow(cur, passPix[y*pw*4:(y+1)*pw*4], pw, depth, pal)
		var prevRow []byte
		if havePrev {
			prevRow = prev
		}
		ft, filtered := chooseFilter(scratch, cur, prevRow, pixelBytes)
		ftID[0] = byte(ft)
		if _, err := zw.Write(ftID[:]); err != nil {
			return err
		}
		if _, err := zw.Write(filtered); err != nil {
			return err
		}
		cur, prev = prev, cur
		havePrev = true
	}
	return nil
}

// chunkWriter splits the compressed stream into IDAT chunks of at most
// len(buf) payload bytes each. flush emits whatever remains; it never
// writes an empty IDAT.
type chunkWriter struct {
	w   io.Writer
	buf []byte
	n   int
	err error
}

func (cw *chunkWriter) Write(p []byte) (int, error) {
	if cw.err != nil {
		return 0, cw.err
	}
	total := 0
	for len(p) > 0 {
		n := copy(cw.buf[cw.n:], p)
		cw.n += n
		total += n
		p = p[n:]
		if cw.n == len(cw.buf) {
			if cw.err = cw.flush(); cw.err != nil {
				return total, cw.err
			}
		}
	}
	return total, nil
}

func (cw *chunkWriter) flush() error {
	if cw.err != nil {
		return cw.err
	}
	if cw.n == 0 {
		return nil
	}
	err := writeChunk(cw.w, "IDAT", cw.buf[:cw.n])
	cw.n = 0
	if err != nil {
		cw.err = err
	}
	return err
}
