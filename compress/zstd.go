package compress

// ZstdCompressor gives the best compression ratio of the available
// codecs, at the cost of speed. Used by rv-downloader for cold archival
// storage of encoded buffers.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

func NewZstdCompressor() ZstdCompressor { return ZstdCompressor{} }
