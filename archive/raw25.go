package archive

import (
	"fmt"
	"iter"
	"time"

	"github.com/nimbusrv/rv/endian"
	"github.com/nimbusrv/rv/grid"
	"github.com/nimbusrv/rv/internal/hash"
)

// le is the byte order of the on-disk RV binary body.
var le = endian.GetLittleEndianEngine()

// Raw25 is the concrete RadarGrid over 25 decoded frames of raw
// 1100x1200 little-endian u16 cells. It is immutable after construction
// and safe to share across goroutines.
type Raw25 struct {
	baseTime time.Time
	frames   [][]byte // FrameCount buffers, each FrameBodySize bytes
}

var _ grid.RadarGrid = (*Raw25)(nil)

// BaseTime returns the archive's first available timestamp.
func (g *Raw25) BaseTime() time.Time { return g.baseTime }

// ContentHash returns a 64-bit fingerprint of the 25 raw frame buffers, for
// dedup/verification tooling. It is not part of the archive format.
func (g *Raw25) ContentHash() uint64 {
	return hash.Frames(g.frames)
}

// AvailableTimes yields the FrameCount timestamps this archive holds data
// for, in ascending order.
func (g *Raw25) AvailableTimes() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for i := 0; i < FrameCount; i++ {
			t := g.baseTime.Add(time.Duration(i*PredictionIntervalMinutes) * time.Minute)
			if !yield(t) {
				return
			}
		}
	}
}

// ForArea returns the cells of the rectangle described by x and y at time
// t, in grid.CrossProduct(x, y) order.
//
// Panics if t does not align to one of the archive's 25 slots, or if a
// cell's raw value is >= 4096 (a corrupt-data invariant violation).
func (g *Raw25) ForArea(t time.Time, x, y grid.Range) iter.Seq[grid.Cell] {
	index := g.slotIndex(t)

	return func(yield func(grid.Cell) bool) {
		frame := g.frames[index]
		for xv, yv := range grid.CrossProduct(x, y) {
			if xv < 0 || xv >= FrameWidth || yv < 0 || yv >= FrameHeight {
				panic(fmt.Sprintf("rv/archive: index (%d, %d) out of range [0,%d)x[0,%d)", xv, yv, FrameWidth, FrameHeight))
			}

			diskY := FrameHeight - 1 - yv
			off := 2 * (FrameWidth*diskY + xv)
			raw := le.Uint16(frame[off : off+2])

			if raw == absentSentinel {
				if !yield(grid.Cell{}) {
					return
				}

				continue
			}

			if raw > maxValidIntensity {
				panic(fmt.Sprintf("rv/archive: intensity %d exceeds maximum valid value %d", raw, maxValidIntensity))
			}

			if !yield(grid.Cell{Value: raw, Present: true}) {
				return
			}
		}
	}
}

// slotIndex resolves t to a frame index, panicking on a precondition
// violation (misaligned or out-of-range time).
func (g *Raw25) slotIndex(t time.Time) int {
	d := t.Sub(g.baseTime)
	if d < 0 {
		panic(fmt.Sprintf("rv/archive: time %s precedes base time %s", t, g.baseTime))
	}

	minutes := d.Minutes()
	index := int(minutes) / PredictionIntervalMinutes
	if float64(index*PredictionIntervalMinutes) != minutes {
		panic(fmt.Sprintf("rv/archive: time %s is not a multiple of %d minutes from base time %s", t, PredictionIntervalMinutes, g.baseTime))
	}
	if index < 0 || index >= FrameCount {
		panic(fmt.Sprintf("rv/archive: time %s resolves to out-of-range slot %d", t, index))
	}

	return index
}
