package png

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/afdw/smallpng/imgconv"
)

func init() {
	image.RegisterFormat("png", pngHeader, Decode, DecodeConfig)
}

// Encode writes the Image m to w in PNG format using the default Encoder.
// Any Image may be encoded, but images that are not image.NRGBA are
// converted first and might be encoded lossily.
func Encode(w io.Writer, m image.Image) error {
	var enc Encoder
	return enc.Encode(w, m)
}

// Encode writes the Image m to w in PNG format. PNG stores
// non-premultiplied alpha, so m is normalized to image.NRGBA.
func (enc *Encoder) Encode(w io.Writer, m image.Image) error {
	img := imgconv.ToNRGBA(m)
	b := img.Bounds()
	return enc.EncodeRGBA(w, imgconv.PixRGBA(img), b.Dx(), b.Dy())
}

// Decode reads a PNG image from r. The result is always an *image.NRGBA
// regardless of the stream's color type.
func Decode(r io.Reader) (image.Image, error) {
	pix, width, height, err := DecodeRGBA(r)
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// DecodeConfig returns the dimensions of a PNG image without decoding the
// pixel data. Only the signature and IHDR are read.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var sig [8]byte
	if err := readFull(r, sig[:]); err != nil {
		return image.Config{}, err
	}
	if string(sig[:]) != pngHeader {
		return image.Config{}, ErrBadSignature
	}
	typ, data, err := readChunk(r)
	if err != nil {
		return image.Config{}, err
	}
	if typ != "IHDR" {
		return image.Config{}, fmt.Errorf("%w: first chunk is %s, want IHDR", ErrBadChunkOrder, typ)
	}
	hdr, err := parseIHDR(data)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      hdr.width,
		Height:     hdr.height,
	}, nil
}
