package png

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// PNG's CRC-32 (polynomial 0xEDB88320, reflected) is crc32 IEEE, computed
// over the chunk type followed by the chunk data.

func validChunkType(typ string) bool {
	if len(typ) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		b := typ[i]
		if (b < 'A' || b > 'Z') && (b < 'a' || b > 'z') {
			return false
		}
	}
	return true
}

// readFull fills buf from r. A stream may not end inside a chunk, so any
// short read is reported as ErrTruncatedStream.
func readFull(r io.Reader, buf []byte) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrTruncatedStream
		}
		return err
	}
	return nil
}

// writeChunk frames data as a length/type/data/CRC record.
func writeChunk(w io.Writer, typ string, data []byte) error {
	if !validChunkType(typ) {
		return fmt.Errorf("%w: %q", ErrInvalidChunkType, typ)
	}
	if len(data) > maxChunkLength {
		return fmt.Errorf("%w: %s data exceeds 2^31-1 bytes", ErrInvalidChunkType, typ)
	}
	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(data)))
	copy(header[4:], typ)
	crc := crc32.NewIEEE()
	crc.Write(header[4:])
	crc.Write(data)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	var footer [4]byte
	binary.BigEndian.PutUint32(footer[:], crc.Sum32())
	_, err := w.Write(footer[:])
	return err
}

// readChunk parses the next chunk record, validating the type syntax and
// the stored CRC before handing the payload back.
func readChunk(r io.Reader) (typ string, data []byte, err error) {
	var header [8]byte
	if err := readFull(r, header[:]); err != nil {
		return "", nil, err
	}
	length := binary.BigEndian.Uint32(header[:4])
	if length > maxChunkLength {
		return "", nil, fmt.Errorf("%w: chunk length 0x%08x exceeds 2^31-1", ErrInvalidChunkType, length)
	}
	typ = string(header[4:])
	if !validChunkType(typ) {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidChunkType, typ)
	}
	data = make([]byte, length)
	if err := readFull(r, data); err != nil {
		return "", nil, err
	}
	var footer [4]byte
	if err := readFull(r, footer[:]); err != nil {
		return "", nil, err
	}
	crc := crc32.NewIEEE()
	crc.Write(header[4:])
	crc.Write(data)
	if crc.Sum32() != binary.BigEndian.Uint32(footer[:]) {
		return "", nil, fmt.Errorf("%w: %s", ErrBadCRC, typ)
	}
	return typ, data, nil
}
