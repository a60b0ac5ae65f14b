package archive

const (
	// FrameWidth and FrameHeight are the fixed dimensions of one RV frame.
	FrameWidth  = 1100
	FrameHeight = 1200

	// FrameBodySize is the exact byte length of one frame's binary body:
	// FrameWidth * FrameHeight cells, 2 bytes (u16) each.
	FrameBodySize = FrameWidth * FrameHeight * 2

	// FrameCount is the number of 5-minute prediction slots per archive.
	FrameCount = 25

	// PredictionIntervalMinutes is the nominal spacing between frames.
	PredictionIntervalMinutes = 5

	// absentSentinel is the raw u16 value marking a cell with no measurement.
	absentSentinel = 0x29C4

	// maxValidIntensity is the highest legal present intensity value (inclusive).
	maxValidIntensity = 4095
)
