package png

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorTypeFromID(t *testing.T) {
	for _, id := range []byte{0, 2, 3, 4, 6} {
		ct, err := colorTypeFromID(id)
		require.NoError(t, err)
		require.Equal(t, ColorType(id), ct)
	}
	for _, id := range []byte{1, 5, 7, 255} {
		_, err := colorTypeFromID(id)
		require.ErrorIs(t, err, ErrInvalidColorConfig)
	}
}

func TestValidBitDepth(t *testing.T) {
	tests := []struct {
		ct    ColorType
		valid []byte
	}{
		{Greyscale, []byte{1, 2, 4, 8, 16}},
		{Truecolor, []byte{8, 16}},
		{Indexed, []byte{1, 2, 4, 8}},
		{GreyscaleAlpha, []byte{8, 16}},
		{TruecolorAlpha, []byte{8, 16}},
	}

	for _, test := range tests {
		allowed := map[byte]bool{}
		for _, d := range test.valid {
			allowed[d] = true
		}
		for _, d := range []byte{0, 1, 2, 3, 4, 8, 16, 32} {
			require.Equal(t, allowed[d], test.ct.validBitDepth(d),
				"color type %d, depth %d", test.ct, d)
		}
	}
}

func TestRowGeometry(t *testing.T) {
	tests := []struct {
		name       string
		ct         ColorType
		depth      byte
		width      int
		rowBytes   int
		pixelBytes int
	}{
		{"indexed 1-bit packs eight per byte", Indexed, 1, 10, 2, 1},
		{"indexed 4-bit", Indexed, 4, 3, 2, 1},
		{"greyscale 2-bit", Greyscale, 2, 5, 2, 1},
		{"greyscale 16-bit", Greyscale, 16, 4, 8, 2},
		{"truecolor 8-bit", Truecolor, 8, 7, 21, 3},
		{"truecolor 16-bit", Truecolor, 16, 2, 12, 6},
		{"greyscale alpha 8-bit", GreyscaleAlpha, 8, 3, 6, 2},
		{"truecolor alpha 8-bit", TruecolorAlpha, 8, 5, 20, 4},
		{"truecolor alpha 16-bit", TruecolorAlpha, 16, 1, 8, 8},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.rowBytes, test.ct.rowBytes(test.width, test.depth))
			require.Equal(t, test.pixelBytes, test.ct.pixelBytes(test.depth))
		})
	}
}

func TestPackRow(t *testing.T) {
	var pal palette
	pal.add(packColor(0, 0, 0, 255))
	pal.add(packColor(255, 255, 255, 255))
	pal.sort()

	tests := []struct {
		name  string
		ct    ColorType
		depth byte
		row   []byte // RGBA pixels
		want  []byte
	}{
		{
			name:  "indexed 1-bit msb first",
			ct:    Indexed,
			depth: 1,
			row:   []byte{0, 0, 0, 255, 255, 255, 255, 255},
			want:  []byte{0b01000000},
		},
		{
			name:  "truecolor 8-bit",
			ct:    Truecolor,
			depth: 8,
			row:   []byte{1, 2, 3, 255, 4, 5, 6, 255},
			want:  []byte{1, 2, 3, 4, 5, 6},
		},
		{
			name:  "truecolor alpha 8-bit",
			ct:    TruecolorAlpha,
			depth: 8,
			row:   []byte{1, 2, 3, 4, 5, 6, 7, 8},
			want:  []byte{1, 2, 3, 4, 5, 6, 7, 8},
		},
		{
			name:  "greyscale averages rgb",
			ct:    Greyscale,
			depth: 8,
			row:   []byte{30, 60, 90, 255},
			want:  []byte{60},
		},
		{
			name:  "greyscale alpha",
			ct:    GreyscaleAlpha,
			depth: 8,
			row:   []byte{30, 60, 90, 77},
			want:  []byte{60, 77},
		},
		{
			name:  "greyscale 4-bit drops low bits",
			ct:    Greyscale,
			depth: 4,
			row:   []byte{171, 171, 171, 255, 205, 205, 205, 255},
			want:  []byte{0xAC},
		},
		{
			name:  "greyscale 16-bit zero low octet",
			ct:    Greyscale,
			depth: 16,
			row:   []byte{60, 60, 60, 255},
			want:  []byte{60, 0},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			width := len(test.row) / 4
			dst := make([]byte, test.ct.rowBytes(width, test.depth))
			test.ct.packRow(dst, test.row, width, test.depth, &pal)
			require.Equal(t, test.want, dst)
		})
	}
}

func TestUnpackRow(t *testing.T) {
	pal := [][4]byte{
		{10, 20, 30, 128},
		{40, 50, 60, 255},
	}

	tests := []struct {
		name  string
		ct    ColorType
		depth byte
		row   []byte
		width int
		want  []byte // RGBA pixels
	}{
		{
			name:  "indexed 1-bit msb first",
			ct:    Indexed,
			depth: 1,
			row:   []byte{0b01000000},
			width: 2,
			want:  []byte{10, 20, 30, 128, 40, 50, 60, 255},
		},
		{
			name:  "greyscale replicates and is opaque",
			ct:    Greyscale,
			depth: 8,
			row:   []byte{77},
			width: 1,
			want:  []byte{77, 77, 77, 255},
		},
		{
			name:  "greyscale 4-bit restores high bits",
			ct:    Greyscale,
			depth: 4,
			row:   []byte{0xAC},
			width: 2,
			want:  []byte{0xA0, 0xA0, 0xA0, 255, 0xC0, 0xC0, 0xC0, 255},
		},
		{
			name:  "greyscale 16-bit keeps high octet",
			ct:    Greyscale,
			depth: 16,
			row:   []byte{60, 99},
			width: 1,
			want:  []byte{60, 60, 60, 255},
		},
		{
			name:  "truecolor 8-bit",
			ct:    Truecolor,
			depth: 8,
			row:   []byte{1, 2, 3},
			width: 1,
			want:  []byte{1, 2, 3, 255},
		},
		{
			name:  "truecolor 16-bit keeps high octets",
			ct:    Truecolor,
			depth: 16,
			row:   []byte{1, 0xAA, 2, 0xBB, 3, 0xCC},
			width: 1,
			want:  []byte{1, 2, 3, 255},
		},
		{
			name:  "greyscale alpha 16-bit",
			ct:    GreyscaleAlpha,
			depth: 16,
			row:   []byte{60, 0, 128, 0},
			width: 1,
			want:  []byte{60, 60, 60, 128},
		},
		{
			name:  "truecolor alpha 8-bit",
			ct:    TruecolorAlpha,
			depth: 8,
			row:   []byte{1, 2, 3, 4},
			width: 1,
			want:  []byte{1, 2, 3, 4},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dst := make([]byte, 4*test.width)
			require.NoError(t, test.ct.unpackRow(dst, test.row, test.width, test.depth, pal))
			require.Equal(t, test.want, dst)
		})
	}
}

func TestUnpackRowIndexOutOfRange(t *testing.T) {
	pal := [][4]byte{{0, 0, 0, 255}}
	dst := make([]byte, 4)
	err := Indexed.unpackRow(dst, []byte{5}, 1, 8, pal)
	require.ErrorIs(t, err, ErrInvalidColorConfig)
}

func TestChooseColorType(t *testing.T) {
	fill := func(n int) *palette {
		var p palette
		for i := 0; i < n; i++ {
			p.add(packColor(byte(i), byte(i>>8), 0, 255))
		}
		p.sort()
		return &p
	}
	overflowed := func() *palette {
		p := fill(257)
		return p
	}

	tests := []struct {
		name      string
		pal       *palette
		greyscale bool
		alpha     bool
		ct        ColorType
		depth     byte
	}{
		{"two colors", fill(2), false, false, Indexed, 1},
		{"four colors", fill(4), false, false, Indexed, 2},
		{"five colors", fill(5), false, false, Indexed, 4},
		{"sixteen colors", fill(16), false, false, Indexed, 4},
		{"seventeen colors", fill(17), false, false, Indexed, 8},
		{"256 colors", fill(256), false, false, Indexed, 8},
		{"overflow opaque", overflowed(), false, false, Truecolor, 8},
		{"overflow grey opaque", overflowed(), true, false, Greyscale, 8},
		{"overflow alpha", overflowed(), false, true, TruecolorAlpha, 8},
		{"overflow grey alpha", overflowed(), true, true, GreyscaleAlpha, 8},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ct, depth := chooseColorType(test.pal, test.greyscale, test.alpha)
			require.Equal(t, test.ct, ct)
			require.Equal(t, test.depth, depth)
		})
	}
}
