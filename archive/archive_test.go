package archive

import (
	"archive/tar"
	"bytes"
	"fmt"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nimbusrv/rv/grid"
	"github.com/nimbusrv/rv/sparse"
)

// newHeader builds a well-formed RV ASCII header for the given prediction
// index and wall-clock time, matching the grammar in decoder.go/header.go
// exactly.
func newHeader(index int, when time.Time) []byte {
	var buf bytes.Buffer
	buf.WriteString("RV")
	fmt.Fprintf(&buf, "%02d", when.Day())
	fmt.Fprintf(&buf, "%02d", when.Hour())
	fmt.Fprintf(&buf, "%02d", when.Minute())
	fmt.Fprintf(&buf, "%5d", 10000)
	fmt.Fprintf(&buf, "%02d", int(when.Month()))
	fmt.Fprintf(&buf, "%02d", when.Year()%100)

	fmt.Fprintf(&buf, "BY%7d", FrameBodySize+100)
	fmt.Fprintf(&buf, "VS %d", 3)
	buf.WriteString("SW123456789")
	fmt.Fprintf(&buf, "PR %s", "E-02")
	buf.WriteString("GP1200x1100")
	fmt.Fprintf(&buf, "VV %3d", index*PredictionIntervalMinutes)
	fmt.Fprintf(&buf, "MF %8d", 0)
	msg := "ok"
	fmt.Fprintf(&buf, "MS%3d%s", len(msg), msg)
	fmt.Fprintf(&buf, "INT%4d", PredictionIntervalMinutes)
	buf.WriteByte(etx)

	return buf.Bytes()
}

// allAbsentBody returns a frame body where every cell is the "absent"
// sentinel (0x29C4, little-endian).
func allAbsentBody() []byte {
	body := make([]byte, FrameBodySize)
	for i := 0; i < len(body); i += 2 {
		body[i] = 0xC4
		body[i+1] = 0x29
	}

	return body
}

func writeTarEntry(t *testing.T, tw *tar.Writer, name string, content []byte) {
	t.Helper()
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Size: int64(len(content)), Mode: 0o644}))
	_, err := tw.Write(content)
	require.NoError(t, err)
}

func buildValidArchive(t *testing.T, baseTime time.Time) *bytes.Buffer {
	t.Helper()

	var out bytes.Buffer
	tw := tar.NewWriter(&out)

	for i := 0; i < FrameCount; i++ {
		content := append(newHeader(i, baseTime), allAbsentBody()...)
		writeTarEntry(t, tw, fmt.Sprintf("entry-%02d", i), content)
	}
	require.NoError(t, tw.Close())

	return &out
}

func TestDecodeTarValidArchive(t *testing.T) {
	baseTime := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)
	buf := buildValidArchive(t, baseTime)

	g, err := decodeTar(tar.NewReader(buf))
	require.NoError(t, err)
	require.True(t, g.BaseTime().Equal(baseTime))

	var times []time.Time
	for tm := range g.AvailableTimes() {
		times = append(times, tm)
	}
	require.Len(t, times, FrameCount)
	require.True(t, times[0].Equal(baseTime))
	require.True(t, times[24].Equal(baseTime.Add(120*time.Minute)))
}

func TestDecodeTarWrongEntryCount(t *testing.T) {
	baseTime := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)

	var out bytes.Buffer
	tw := tar.NewWriter(&out)
	content := append(newHeader(0, baseTime), allAbsentBody()...)
	writeTarEntry(t, tw, "only-one", content)
	require.NoError(t, tw.Close())

	_, err := decodeTar(tar.NewReader(&out))
	require.Error(t, err)
}

func TestDecodeTarDisagreeingTimes(t *testing.T) {
	baseTime := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)

	var out bytes.Buffer
	tw := tar.NewWriter(&out)
	for i := 0; i < FrameCount; i++ {
		when := baseTime
		if i == 3 {
			when = baseTime.Add(time.Minute)
		}
		content := append(newHeader(i, when), allAbsentBody()...)
		writeTarEntry(t, tw, fmt.Sprintf("e-%d", i), content)
	}
	require.NoError(t, tw.Close())

	_, err := decodeTar(tar.NewReader(&out))
	require.Error(t, err)
}

func TestDecodeTarTruncatedBody(t *testing.T) {
	baseTime := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)

	var out bytes.Buffer
	tw := tar.NewWriter(&out)
	for i := 0; i < FrameCount; i++ {
		body := allAbsentBody()
		if i == 10 {
			body = body[:len(body)-5]
		}
		content := append(newHeader(i, baseTime), body...)
		writeTarEntry(t, tw, fmt.Sprintf("e-%d", i), content)
	}
	require.NoError(t, tw.Close())

	_, err := decodeTar(tar.NewReader(&out))
	require.Error(t, err)
}

func TestDecodeTarUnknownRecordIdentifier(t *testing.T) {
	baseTime := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)

	var out bytes.Buffer
	tw := tar.NewWriter(&out)
	header := newHeader(0, baseTime)
	// Corrupt the "BY" tag (the first two bytes of the record section,
	// right after the 17-byte "RV"+date+wmo preamble) into an identifier
	// the grammar doesn't recognize.
	const recordSectionStart = 17
	header[recordSectionStart] = 'Z'
	header[recordSectionStart+1] = 'Z'
	content := append(header, allAbsentBody()...)
	writeTarEntry(t, tw, "entry", content)
	require.NoError(t, tw.Close())

	_, err := decodeTar(tar.NewReader(&out))
	require.Error(t, err)
}

func TestRaw25BorderCellsAreAbsent(t *testing.T) {
	baseTime := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)
	buf := buildValidArchive(t, baseTime)

	g, err := decodeTar(tar.NewReader(buf))
	require.NoError(t, err)

	first := g.BaseTime()
	for cell := range g.ForArea(first, grid.IndexRange(0, FrameWidth), grid.IndexRange(0, 5)) {
		require.False(t, cell.Present)
	}
	for cell := range g.ForArea(first, grid.IndexRange(0, 5), grid.IndexRange(0, FrameHeight)) {
		require.False(t, cell.Present)
	}
	for cell := range g.ForArea(first, grid.IndexRange(0, FrameWidth), grid.IndexRange(FrameHeight-5, FrameHeight)) {
		require.False(t, cell.Present)
	}
	for cell := range g.ForArea(first, grid.IndexRange(FrameWidth-5, FrameWidth), grid.IndexRange(0, FrameHeight)) {
		require.False(t, cell.Present)
	}
}

func TestRaw25PanicsOnMisalignedTime(t *testing.T) {
	baseTime := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)
	buf := buildValidArchive(t, baseTime)

	g, err := decodeTar(tar.NewReader(buf))
	require.NoError(t, err)

	require.Panics(t, func() {
		for range g.ForArea(baseTime.Add(2*time.Minute), grid.IndexRange(0, 1), grid.IndexRange(0, 1)) {
		}
	})
}

func TestRaw25ContentHashStable(t *testing.T) {
	baseTime := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)
	buf1 := buildValidArchive(t, baseTime)
	buf2 := buildValidArchive(t, baseTime)

	g1, err := decodeTar(tar.NewReader(buf1))
	require.NoError(t, err)
	g2, err := decodeTar(tar.NewReader(buf2))
	require.NoError(t, err)

	require.Equal(t, g1.ContentHash(), g2.ContentHash())
}

// bodyWithValues builds a frame body that is all-absent except at the given
// (x, y) display-coordinate positions, which get the given values.
func bodyWithValues(values map[[2]int]uint16) []byte {
	body := allAbsentBody()
	for pos, v := range values {
		x, y := pos[0], pos[1]
		diskY := FrameHeight - 1 - y
		off := 2 * (FrameWidth*diskY + x)
		body[off] = byte(v)
		body[off+1] = byte(v >> 8)
	}

	return body
}

// TestRoundTripRaw25AndSparseBuffer exercises scenario 6: for a real
// (in-memory) archive, Raw25 and the block-sparse reader must agree on
// every cell they're asked for, across every width class a block can take.
func TestRoundTripRaw25AndSparseBuffer(t *testing.T) {
	baseTime := time.Date(2024, 3, 17, 12, 30, 0, 0, time.UTC)

	values := map[[2]int]uint16{
		{5, 7}:      300,  // forces a 16-bit block
		{150, 250}:  42,   // an 8-bit block
		{999, 1199}: 4095, // edge of the grid, max valid intensity
	}

	var out bytes.Buffer
	tw := tar.NewWriter(&out)
	for i := 0; i < FrameCount; i++ {
		body := bodyWithValues(values)
		content := append(newHeader(i, baseTime), body...)
		writeTarEntry(t, tw, fmt.Sprintf("e-%02d", i), content)
	}
	require.NoError(t, tw.Close())

	raw, err := decodeTar(tar.NewReader(&out))
	require.NoError(t, err)

	encoded, err := sparse.Encode(raw)
	require.NoError(t, err)
	reader, err := sparse.Open(encoded.Data())
	require.NoError(t, err)

	first := raw.BaseTime()
	xr := grid.IndexRange(0, FrameWidth)
	yr := grid.IndexRange(0, FrameHeight)

	rawCells := raw.ForArea(first, xr, yr)
	sparseCells := reader.ForArea(first, xr, yr)

	next, stop := iter.Pull(sparseCells)
	defer stop()
	for rawCell := range rawCells {
		sparseCell, ok := next()
		require.True(t, ok)
		require.Equal(t, rawCell, sparseCell)
	}
	_, ok := next()
	require.False(t, ok)
}
