// Package compression encodes stored account values. Every compressed
// value starts with a one-byte frame flag.
package compression

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownCompressor = errors.New("unknown compressor")
	ErrCorrupt           = errors.New("corrupt compressed value")
)

// Compressor frames account values. Decompress accepts any frame kind, not
// only the ones its own Compress writes.
type Compressor interface {
	Name() string
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

var compressors = map[string]func() Compressor{
	"none": func() Compressor { return &NoCompressor{} },
	"lz4":  func() Compressor { return &LZ4Compressor{} },
}

// Get returns the compressor configured as name.
func Get(name string) (Compressor, error) {
	factory, ok := compressors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownCompressor, name, strings.Join(Available(), ", "))
	}
	return factory(), nil
}

// Available lists the compressor names in order.
func Available() []string {
	names := make([]string, 0, len(compressors))
	for name := range compressors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
