// Package png implements a compact PNG codec for 8-bit RGBA rasters.
//
// The encoder scans the input once and picks the most economical color
// representation the PNG specification allows for it (indexed at bit
// depths 1-8, greyscale, truecolor, with or without alpha), so output
// files are small without any caller-side tuning. The decoder accepts the
// critical-chunk subset of PNG 1.2 ({IHDR, PLTE, IDAT, IEND} plus tRNS)
// at every legal bit depth, interlaced or not, and always produces 8-bit
// RGBA.
package png

const pngHeader = "\x89PNG\r\n\x1a\n"

const (
	// PNG forbids the high bit in chunk lengths and dimensions.
	maxChunkLength = 1<<31 - 1
	maxDimension   = 1<<31 - 1

	maxPaletteSize = 256

	// Default IDAT payload ceiling; see Encoder.ChunkSize.
	defaultChunkSize = 1024
)
