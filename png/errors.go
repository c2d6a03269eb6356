package png

import "errors"

// The codec reports every failure as one of these kinds, usually wrapped
// with position context. Match with errors.Is.
var (
	ErrBadSignature        = errors.New("png: bad signature")
	ErrInvalidChunkType    = errors.New("png: invalid chunk type")
	ErrBadCRC              = errors.New("png: bad chunk crc")
	ErrBadChunkOrder       = errors.New("png: bad chunk order")
	ErrUnsupportedEncoding = errors.New("png: unsupported encoding")
	ErrInvalidColorConfig  = errors.New("png: invalid color configuration")
	ErrTruncatedStream     = errors.New("png: truncated stream")
	ErrCompressor          = errors.New("png: compressor error")
	ErrDecompressor        = errors.New("png: decompressor error")
)
