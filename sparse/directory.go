package sparse

import "github.com/nimbusrv/rv/endian"

// le is the byte order of the entire block-sparse format: header,
// directory, and every payload block.
var le = endian.GetLittleEndianEngine()

// directoryIndex returns the byte offset of the tag for (k, xb, yb) within
// the 6,600-byte directory region, relative to the start of the buffer.
// Layout order is [time][xb][yb], matching the declared on-disk shape.
func directoryIndex(k, xb, yb int) int {
	return headerSize + 2*(YBlocks*(XBlocks*k+xb)+yb)
}

// readTag loads the directory tag for block (k, xb, yb) out of buf.
func readTag(buf []byte, k, xb, yb int) uint16 {
	off := directoryIndex(k, xb, yb)
	return le.Uint16(buf[off : off+2])
}

// writeTag stores tag at the directory slot for (k, xb, yb).
func writeTag(buf []byte, k, xb, yb int, tag uint16) {
	off := directoryIndex(k, xb, yb)
	le.PutUint16(buf[off:off+2], tag)
}

// blockBase resolves a non-sentinel tag to the byte offset of its payload
// block's first byte, and reports whether the payload is 16-bit wide.
func blockBase(tag uint16) (base int, wide bool) {
	wide = tag&tagWidthFlag != 0
	index := int(tag & tagIndexMask)
	return payloadOffset + payloadUnitSize*index, wide
}

// cellInBlock reads one cell from an 8-bit or 16-bit payload block, given
// the within-block row/col (each in [0, 100)).
func cellInBlock(buf []byte, base int, wide bool, row, col int) (value uint16, present bool) {
	linear := row*BlockWidth + col
	if !wide {
		b := buf[base+linear]
		if b == absentByte {
			return 0, false
		}
		return uint16(b), true
	}

	off := base + 2*linear
	w := le.Uint16(buf[off : off+2])
	if w == absentWord {
		return 0, false
	}
	return w, true
}
