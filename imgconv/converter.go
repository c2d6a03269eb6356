package imgconv

import (
	"image"
	"image/color"
)

// ToNRGBA converts any image m to an *image.NRGBA image.
// Any Image may be converted, but images that are not image.NRGBA might be converted lossily.
func ToNRGBA(m image.Image) *image.NRGBA {
	if m.ColorModel() == color.NRGBAModel {
		return m.(*image.NRGBA)
	}

	img := image.NewNRGBA(m.Bounds())

	for x := m.Bounds().Min.X; x < m.Bounds().Max.X; x++ {
		for y := m.Bounds().Min.Y; y < m.Bounds().Max.Y; y++ {
			px := m.At(x, y)
			px = color.NRGBAModel.Convert(px)
			img.Set(x, y, px)
		}
	}

	return img
}

// PixRGBA returns the pixels of m as a tightly packed RGBA buffer in
// row-major order. The image's own backing slice is returned when it is
// already tight; sub-images and other strided layouts are copied row by
// row.
func PixRGBA(m *image.NRGBA) []byte {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if m.Stride == 4*w && len(m.Pix) == 4*w*h {
		return m.Pix
	}

	buf := make([]byte, 4*w*h)
	for y := 0; y < h; y++ {
		row := m.Pix[m.PixOffset(m.Rect.Min.X, m.Rect.Min.Y+y):]
		copy(buf[y*4*w:(y+1)*4*w], row[:4*w])
	}

	return buf
}
