// Package grid defines the uniform random-access capability shared by every
// representation of a decoded DWD radar archive, plus the lazy index
// enumeration helpers it is built on.
//
// A RadarGrid exposes one operation — ForArea — that yields the intensity
// of every cell in a rectangular (x, y) sub-region at a single point in
// time. Both the raw frame-based decoder (package archive) and the
// block-sparse encoded buffer (package sparse) implement RadarGrid, and the
// two MUST be cell-by-cell equivalent for any rectangle: that equivalence
// is what makes the encoded form a drop-in replacement for the raw one.
package grid

import (
	"iter"
	"time"
)

// Cell is the Go rendering of the archive's "intensity present or absent"
// measurement. A zero Cell (Present == false) means no measurement exists
// for that point in space and time.
type Cell struct {
	Value   uint16
	Present bool
}

// RadarGrid is the single capability every concrete representation of a
// decoded archive exposes.
//
// Contract:
//   - t MUST equal the grid's first available time plus an exact multiple
//     of 5 minutes, for an index in [0, AvailableTimeSlots). Any other
//     value is a precondition violation and implementations MUST panic.
//   - x MUST only enumerate values in [0, 1100), y only values in
//     [0, 1200). Implementations MUST panic on out-of-range indices.
//   - The returned sequence has exactly as many items as x and y produce
//     together via CrossProduct, in CrossProduct order (x fast, y slow).
type RadarGrid interface {
	// ForArea returns a lazy sequence of cells for the rectangle described
	// by x and y, at time t, in CrossProduct(x, y) order.
	ForArea(t time.Time, x, y Range) iter.Seq[Cell]

	// AvailableTimes yields every timestamp this grid holds data for, in
	// ascending order.
	AvailableTimes() iter.Seq[time.Time]
}
