package compress

import (
	"fmt"
	"strings"
)

// Type identifies a compression algorithm applied to an at-rest or
// in-transit copy of a block-sparse buffer. The codec compresses the whole
// copy, header and directory included; the sparse.Buffer it was taken from
// stays uncompressed.
type Type uint8

const (
	None Type = 0x1 // No compression.
	Zstd Type = 0x2 // Zstandard: best ratio, suited to cold archival storage.
	S2   Type = 0x3 // Balanced ratio/speed, suited to network transfer.
	LZ4  Type = 0x4 // Fast decompression, suited to a read-hot path.
)

func (t Type) String() string {
	switch t {
	case None:
		return "None"
	case Zstd:
		return "Zstd"
	case S2:
		return "S2"
	case LZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseType maps a codec name, as given on a cmd/ tool's command line, to
// its Type. Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "none":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "s2":
		return S2, nil
	case "lz4":
		return LZ4, nil
	default:
		return 0, fmt.Errorf("rv/compress: unknown codec name %q", name)
	}
}
