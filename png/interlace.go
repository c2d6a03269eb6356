package png

import "fmt"

// InterlaceMethod is the interlace field of IHDR.
type InterlaceMethod byte

const (
	InterlaceNone  InterlaceMethod = 0
	InterlaceAdam7 InterlaceMethod = 1
)

func interlaceFromID(id byte) (InterlaceMethod, error) {
	switch im := InterlaceMethod(id); im {
	case InterlaceNone, InterlaceAdam7:
		return im, nil
	}
	return 0, fmt.Errorf("%w: unknown interlace method %d", ErrInvalidColorConfig, id)
}

// pass is one sub-sampling grid: origin and increments in image
// coordinates. The whole image is the single pass {0,0,1,1}.
type pass struct {
	xStart, yStart int
	xStep, yStep   int
}

var adam7Passes = [7]pass{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

var singlePass = [1]pass{{0, 0, 1, 1}}

func (im InterlaceMethod) passes() []pass {
	if im == InterlaceAdam7 {
		return adam7Passes[:]
	}
	return singlePass[:]
}

// size returns the pass dimensions for a w×h image. Images narrower or
// shorter than the pass origin yield zero; such passes carry no rows at
// all and the drivers skip them.
func (p pass) size(w, h int) (int, int) {
	pw, ph := 0, 0
	if w > p.xStart {
		pw = (w - p.xStart + p.xStep - 1) / p.xStep
	}
	if h > p.yStart {
		ph = (h - p.yStart + p.yStep - 1) / p.yStep
	}
	return pw, ph
}

// extract gathers the pass's pixels out of pix (RGBA, row-major) into a
// tightly packed pass image.
func (p pass) extract(dst, pix []byte, w, h int) {
	n := 0
	for y := p.yStart; y < h; y += p.yStep {
		for x := p.xStart; x < w; x += p.xStep {
			copy(dst[n:n+4], pix[(y*w+x)*4:])
			n += 4
		}
	}
}

// insert scatters a reconstructed pass image back into pix.
func (p pass) insert(pix, passPix []byte, w, h int) {
	n := 0
	for y := p.yStart; y < h; y += p.yStep {
		for x := p.xStart; x < w; x += p.xStep {
			copy(pix[(y*w+x)*4:(y*w+x+1)*4], passPix[n:n+4])
			n += 4
		}
	}
}
