// Package rv decodes and re-encodes the German Weather Service's (DWD)
// "RV" rain-radar nowcast composite archive format.
//
// An archive is a 2-hour nowcast: 25 frames at 5-minute spacing, each a
// 1100x1200 grid of rain-intensity measurements. This package provides a
// decoder for the upstream .tar.bz2 archive format (package archive) and
// a block-sparse re-encoding (package sparse) that is cheaper to store
// and to read back a sub-region of, without ever materializing the full
// 66MB of raw frame data.
//
// # Basic usage
//
// Decoding an archive and reading a sub-region:
//
//	g, err := archive.Decode("DE1200_RV2403171230.tar.bz2")
//	for cell := range g.ForArea(g.BaseTime(), grid.IndexRange(0, 100), grid.IndexRange(0, 100)) {
//	    ...
//	}
//
// Re-encoding it as a compact block-sparse buffer:
//
//	buf, err := sparse.Encode(g)
//	reader, err := sparse.Open(buf.Data())
//
// Both archive.Raw25 and sparse.Buffer implement grid.RadarGrid, so code
// written against the interface works unchanged against either
// representation.
//
// # Package structure
//
// This package provides convenience wrappers around archive and sparse
// for the common case of decoding a file and re-encoding it in one step.
// For fine-grained control — reading directly from a stream, validating
// an already-encoded buffer, training a dictionary — use those packages
// directly.
package rv

import (
	"github.com/nimbusrv/rv/archive"
	"github.com/nimbusrv/rv/grid"
	"github.com/nimbusrv/rv/sparse"
)

// DecodeFile decodes an RV archive and returns it as a RadarGrid.
func DecodeFile(path string) (grid.RadarGrid, error) {
	return archive.Decode(path)
}

// EncodeFile decodes an RV archive and re-encodes it as a block-sparse
// Buffer in one step.
func EncodeFile(path string) (*sparse.Buffer, error) {
	raw, err := archive.Decode(path)
	if err != nil {
		return nil, err
	}

	return sparse.Encode(raw)
}
