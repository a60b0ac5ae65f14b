package sparse

import (
	"fmt"
	"iter"
	"time"

	"github.com/nimbusrv/rv/errs"
	"github.com/nimbusrv/rv/grid"
	"github.com/nimbusrv/rv/internal/hash"
)

// Buffer is the block-sparse encoded representation of a 25-frame radar
// grid: an immutable, contiguous, 2-byte-aligned byte slice that can be
// read directly as a RadarGrid without decompressing into raw frames.
type Buffer struct {
	data        []byte
	contentHash uint64
}

var _ grid.RadarGrid = (*Buffer)(nil)

// Open wraps an existing block-sparse byte slice, validating its minimal
// structural invariants (I1-I3): the directory and header fit, every
// payload block lies within the buffer, and the buffer's total length is
// consistent with its highest payload index.
func Open(data []byte) (*Buffer, error) {
	if len(data) < payloadOffset {
		return nil, fmt.Errorf("%w: buffer shorter than header+directory (%d bytes)", errs.ErrInvalidBuffer, payloadOffset)
	}
	if (len(data)-payloadOffset)%2 != 0 {
		return nil, fmt.Errorf("%w: payload region is not 2-byte aligned", errs.ErrInvalidBuffer)
	}

	b := &Buffer{data: data}
	if err := b.validateDirectory(); err != nil {
		return nil, err
	}
	b.contentHash = hash.Bytes(data)

	return b, nil
}

// validateDirectory checks I2/I3: every non-sentinel tag's payload region
// lies within the buffer, and every 16-bit tag's payload offset is even.
// It also checks I1: the buffer ends exactly where the highest payload
// block ends.
func (b *Buffer) validateDirectory() error {
	end := payloadOffset
	for k := 0; k < TimeSlots; k++ {
		for xb := 0; xb < XBlocks; xb++ {
			for yb := 0; yb < YBlocks; yb++ {
				tag := readTag(b.data, k, xb, yb)
				if tag == tagAllAbsent || tag == tagAllZero {
					continue
				}

				base, wide := blockBase(tag)
				size := BlockCellCount
				if wide {
					size *= 2
				}
				if base+size > len(b.data) {
					return fmt.Errorf("%w: block (%d,%d,%d) payload range [%d,%d) exceeds buffer length %d",
						errs.ErrInvalidBuffer, k, xb, yb, base, base+size, len(b.data))
				}
				if wide && base%2 != 0 {
					return fmt.Errorf("%w: block (%d,%d,%d) 16-bit payload offset %d is not even", errs.ErrInvalidBuffer, k, xb, yb, base)
				}
				if base+size > end {
					end = base + size
				}
			}
		}
	}

	if end != len(b.data) {
		return fmt.Errorf("%w: buffer length %d does not match end of highest payload block %d", errs.ErrInvalidBuffer, len(b.data), end)
	}

	return nil
}

// Data returns the underlying encoded bytes. Callers must not mutate them.
func (b *Buffer) Data() []byte { return b.data }

// ContentHash returns a 64-bit fingerprint of the encoded bytes.
func (b *Buffer) ContentHash() uint64 { return b.contentHash }

// FirstTime returns the buffer's base timestamp, read from its 8-byte header.
func (b *Buffer) FirstTime() time.Time {
	seconds := int64(le.Uint64(b.data[0:8]))
	return time.Unix(seconds, 0).UTC()
}

// AvailableTimes yields the TimeSlots timestamps this buffer holds data for.
func (b *Buffer) AvailableTimes() iter.Seq[time.Time] {
	first := b.FirstTime()
	return func(yield func(time.Time) bool) {
		for i := 0; i < TimeSlots; i++ {
			if !yield(first.Add(time.Duration(5*i) * time.Minute)) {
				return
			}
		}
	}
}

// ForArea returns the cells of the rectangle described by x and y at time t,
// in grid.CrossProduct(x, y) order.
func (b *Buffer) ForArea(t time.Time, x, y grid.Range) iter.Seq[grid.Cell] {
	k := b.slotIndex(t)

	return func(yield func(grid.Cell) bool) {
		for xv, yv := range grid.CrossProduct(x, y) {
			if xv < 0 || xv >= XBlocks*BlockWidth || yv < 0 || yv >= YBlocks*BlockHeight {
				panic(fmt.Sprintf("rv/sparse: index (%d, %d) out of range [0,%d)x[0,%d)", xv, yv, XBlocks*BlockWidth, YBlocks*BlockHeight))
			}

			xb, yb := xv/BlockWidth, yv/BlockHeight
			tag := readTag(b.data, k, xb, yb)

			var cell grid.Cell
			switch tag {
			case tagAllAbsent:
				cell = grid.Cell{}
			case tagAllZero:
				cell = grid.Cell{Value: 0, Present: true}
			default:
				base, wide := blockBase(tag)
				value, present := cellInBlock(b.data, base, wide, yv%BlockHeight, xv%BlockWidth)
				cell = grid.Cell{Value: value, Present: present}
			}

			if !yield(cell) {
				return
			}
		}
	}
}

// slotIndex resolves t to a directory time index, panicking on a
// precondition violation (misaligned or out-of-range time).
func (b *Buffer) slotIndex(t time.Time) int {
	first := b.FirstTime()
	d := t.Sub(first)
	if d < 0 {
		panic(fmt.Sprintf("rv/sparse: time %s precedes first time %s", t, first))
	}

	minutes := d.Minutes()
	index := int(minutes) / 5
	if float64(index*5) != minutes {
		panic(fmt.Sprintf("rv/sparse: time %s is not a multiple of 5 minutes from first time %s", t, first))
	}
	if index < 0 || index >= TimeSlots {
		panic(fmt.Sprintf("rv/sparse: time %s resolves to out-of-range slot %d", t, index))
	}

	return index
}
