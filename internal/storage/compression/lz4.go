package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4"
)

// Frame flags.
const (
	frameRaw byte = 0
	frameLZ4 byte = 1
)

// maxDecodedSize bounds the length an lz4 frame may claim.
const maxDecodedSize = 1 << 24

// NoCompressor stores values raw behind the raw frame flag.
type NoCompressor struct{}

func (c *NoCompressor) Name() string {
	return "none"
}

func (c *NoCompressor) Compress(data []byte) ([]byte, error) {
	return rawFrame(data), nil
}

func (c *NoCompressor) Decompress(data []byte) ([]byte, error) {
	return decode(data)
}

// LZ4Compressor stores lz4 blocks prefixed with the decoded length. Values
// lz4 cannot shrink are stored raw.
type LZ4Compressor struct{}

func (c *LZ4Compressor) Name() string {
	return "lz4"
}

func (c *LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return rawFrame(data), nil
	}

	out := make([]byte, 1+binary.MaxVarintLen64+lz4.CompressBlockBound(len(data)))
	out[0] = frameLZ4
	n := 1 + binary.PutUvarint(out[1:], uint64(len(data)))

	size, err := lz4.CompressBlock(data, out[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("lz4 compression failed: %w", err)
	}
	if size == 0 || n+size >= 1+len(data) {
		return rawFrame(data), nil
	}
	return out[:n+size], nil
}

func (c *LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	return decode(data)
}

func rawFrame(data []byte) []byte {
	out := make([]byte, 1+len(data))
	out[0] = frameRaw
	copy(out[1:], data)
	return out
}

// decode reads either frame kind, so values written by one compressor stay
// readable after switching to the other.
func decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrCorrupt)
	}
	switch data[0] {
	case frameRaw:
		return append([]byte(nil), data[1:]...), nil
	case frameLZ4:
		size, n := binary.Uvarint(data[1:])
		if n <= 0 || size > maxDecodedSize {
			return nil, fmt.Errorf("%w: bad length", ErrCorrupt)
		}
		out := make([]byte, size)
		got, err := lz4.UncompressBlock(data[1+n:], out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		if uint64(got) != size {
			return nil, fmt.Errorf("%w: decoded %d bytes, want %d", ErrCorrupt, got, size)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: unknown frame flag %d", ErrCorrupt, data[0])
}
