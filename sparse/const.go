package sparse

const (
	// TimeSlots, XBlocks, YBlocks are the directory's fixed shape.
	TimeSlots = 25
	XBlocks   = 11
	YBlocks   = 12

	// BlockWidth and BlockHeight are the tile dimensions each directory
	// entry covers; 1100 = XBlocks*BlockWidth, 1200 = YBlocks*BlockHeight.
	BlockWidth  = 100
	BlockHeight = 100

	// BlockCellCount is the number of cells in one block, and therefore the
	// number of bytes an 8-bit payload block occupies.
	BlockCellCount  = BlockWidth * BlockHeight
	payloadUnitSize = 10000 // bytes per payload-index increment

	headerSize      = 8
	directoryLength = TimeSlots * XBlocks * YBlocks * 2 // 6600
	payloadOffset   = headerSize + directoryLength      // 6608

	// tagAllAbsent and tagAllZero are the two reserved sentinel tags.
	tagAllAbsent uint16 = 0xFFFF
	tagAllZero   uint16 = 0x7FFF

	// tagWidthFlag marks a non-sentinel tag's payload as 16-bit when set.
	tagWidthFlag uint16 = 0x8000
	tagIndexMask uint16 = 0x7FFF

	// maxPayloadIndex is the highest payload index the 15-bit field can
	// address; the encoder must never reach it.
	maxPayloadIndex = 0x7FFF

	absentByte  uint8  = 0xFF
	absentWord  uint16 = 0xFFFF
	maxValidU16        = 4095
)
