// Package hash provides the content-fingerprinting primitive shared by the
// archive and sparse packages.
package hash

import "github.com/cespare/xxhash/v2"

// Bytes computes the xxHash64 digest of data.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Frames computes a single digest across a sequence of frame buffers,
// without concatenating them first.
func Frames(frames [][]byte) uint64 {
	d := xxhash.New()
	for _, f := range frames {
		_, _ = d.Write(f)
	}

	return d.Sum64()
}
