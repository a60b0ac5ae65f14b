package sparse

import (
	"fmt"

	"github.com/nimbusrv/rv/errs"
	"github.com/nimbusrv/rv/grid"
	"github.com/nimbusrv/rv/internal/hash"
	"github.com/nimbusrv/rv/internal/pool"
)

// Encode converts any RadarGrid exposing exactly TimeSlots time slots into a
// block-sparse Buffer, per the tagged 100x100-block layout.
func Encode(g grid.RadarGrid) (*Buffer, error) {
	times := make([]int64, 0, TimeSlots)
	for t := range g.AvailableTimes() {
		times = append(times, t.Unix())
	}
	if len(times) != TimeSlots {
		return nil, fmt.Errorf("%w: got %d", errs.ErrWrongTimeSlotCount, len(times))
	}

	directory := make([]uint16, TimeSlots*XBlocks*YBlocks)
	payload := pool.NewByteBuffer(pool.BlobSetBufferDefaultSize)
	payloadIndex := 0

	cells := make([]grid.Cell, 0, BlockCellCount)
	k := 0
	for t := range g.AvailableTimes() {
		for xb := 0; xb < XBlocks; xb++ {
			for yb := 0; yb < YBlocks; yb++ {
				cells = cells[:0]
				xr := grid.IndexRange(xb*BlockWidth, (xb+1)*BlockWidth)
				yr := grid.IndexRange(yb*BlockHeight, (yb+1)*BlockHeight)
				for cell := range g.ForArea(t, xr, yr) {
					cells = append(cells, cell)
				}
				if len(cells) != BlockCellCount {
					panic(fmt.Sprintf("rv/sparse: block (%d,%d,%d) yielded %d cells, want %d", k, xb, yb, len(cells), BlockCellCount))
				}

				tag, wide, emit := classifyBlock(cells)
				if emit {
					if payloadIndex >= maxPayloadIndex {
						return nil, fmt.Errorf("%w: at block (%d,%d,%d)", errs.ErrPayloadIndexOverflow, k, xb, yb)
					}

					tag |= uint16(payloadIndex)
					writeBlockPayload(payload, cells, wide)

					if wide {
						payloadIndex += 2
					} else {
						payloadIndex++
					}
				}

				directory[(XBlocks*k+xb)*YBlocks+yb] = tag
			}
		}
		k++
	}

	firstTime := times[0]
	buf := make([]byte, headerSize+directoryLength+payload.Len())
	le.PutUint64(buf[0:8], uint64(firstTime))
	for i, tag := range directory {
		off := headerSize + 2*i
		le.PutUint16(buf[off:off+2], tag)
	}
	copy(buf[payloadOffset:], payload.Bytes())

	return &Buffer{data: buf, contentHash: hash.Bytes(buf)}, nil
}

// classifyBlock decides the directory tag for one block's 10,000 cells and
// whether it needs a payload, per the width-election rule: any present
// value > 254 forces a 16-bit payload.
func classifyBlock(cells []grid.Cell) (tag uint16, wide bool, emit bool) {
	anyPresent := false
	allPresent := true
	allZero := true
	needsWide := false

	for _, c := range cells {
		if !c.Present {
			allPresent = false
			continue
		}
		anyPresent = true
		if c.Value != 0 {
			allZero = false
		}
		if c.Value > 254 {
			needsWide = true
		}
		if c.Value > maxValidU16 {
			panic(fmt.Sprintf("rv/sparse: intensity %d exceeds maximum valid value %d", c.Value, maxValidU16))
		}
	}

	if !anyPresent {
		return tagAllAbsent, false, false
	}
	if allPresent && allZero {
		return tagAllZero, false, false
	}
	if needsWide {
		return tagWidthFlag, true, true
	}

	return 0, false, true
}

// writeBlockPayload appends one block's payload bytes to payload, in the
// same CrossProduct order the cells were collected in.
func writeBlockPayload(payload *pool.ByteBuffer, cells []grid.Cell, wide bool) {
	if !wide {
		start := payload.Len()
		payload.ExtendOrGrow(BlockCellCount)
		out := payload.Bytes()[start:]
		for i, c := range cells {
			if !c.Present {
				out[i] = absentByte
			} else {
				out[i] = byte(c.Value)
			}
		}
		return
	}

	start := payload.Len()
	payload.ExtendOrGrow(2 * BlockCellCount)
	out := payload.Bytes()[start:]
	for i, c := range cells {
		off := 2 * i
		if !c.Present {
			le.PutUint16(out[off:off+2], absentWord)
		} else {
			le.PutUint16(out[off:off+2], c.Value)
		}
	}
}
