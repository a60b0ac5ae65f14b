package compress

// NoOpCompressor bypasses compression entirely. Useful as a baseline and
// for buffers already small enough that compression overhead isn't worth
// paying.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

func NewNoOpCompressor() NoOpCompressor { return NoOpCompressor{} }

func (c NoOpCompressor) Compress(data []byte) ([]byte, error) { return data, nil }

func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }
