// Package compress provides interchangeable compression codecs for
// block-sparse radar buffers at rest or in transit.
//
// A sparse.Buffer itself is never compressed in place — its directory and
// payload must remain randomly addressable — so a codec is applied to a
// separate copy of the whole buffer, header and directory included. That
// copy compresses well: long runs of the absent byte/word sentinel and
// repeated low intensities are exactly what general-purpose compressors
// are good at.
// Batch tools choose a Codec based on their use case: Zstd for archival
// storage, S2 or LZ4 where decompression speed matters more than ratio.
package compress
