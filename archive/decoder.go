package archive

import (
	"compress/bzip2"
	"archive/tar"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nimbusrv/rv/errs"
)

// Decode opens path as a bzip2-wrapped tar archive of 25 RV frames and
// parses it into a Raw25 grid.
func Decode(path string) (*Raw25, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: stage=open: %w: %v", path, errs.ErrIO, err)
	}
	defer f.Close()

	g, err := DecodeReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return g, nil
}

// DecodeReader parses a bzip2-wrapped tar archive of 25 RV frames from r.
func DecodeReader(r io.Reader) (*Raw25, error) {
	return decodeTar(tar.NewReader(bzip2.NewReader(r)))
}

// decodeTar parses 25 RV frames from an already-opened tar reader. Split out
// from DecodeReader so tests can exercise the tar/header grammar without
// needing a bzip2 encoder (the standard library only ships a bzip2 reader).
func decodeTar(tr *tar.Reader) (*Raw25, error) {
	var baseTime time.Time
	haveBaseTime := false
	frames := make([][]byte, 0, FrameCount)

	for index := 0; ; index++ {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stage=decode: entry %d: %w: %v", index, errs.ErrMalformedArchive, err)
		}

		thisTime, body, err := decodeEntry(tr, index)
		if err != nil {
			return nil, fmt.Errorf("stage=decode: entry %d (%s): %w", index, hdr.Name, err)
		}

		if !haveBaseTime {
			baseTime = thisTime
			haveBaseTime = true
		} else if !thisTime.Equal(baseTime) {
			return nil, fmt.Errorf("stage=decode: entry %d: %w: found %s and %s", index, errs.ErrTimeMismatch, baseTime, thisTime)
		}

		frames = append(frames, body)
	}

	if len(frames) != FrameCount {
		return nil, fmt.Errorf("stage=decode: %w: expected %d entries, found %d", errs.ErrWrongEntryCount, FrameCount, len(frames))
	}

	return &Raw25{baseTime: baseTime, frames: frames}, nil
}

// decodeEntry parses a single frame's ASCII header followed by its
// 2,640,000-byte binary body, validating every field per the RV grammar.
func decodeEntry(r io.Reader, index int) (time.Time, []byte, error) {
	hr := &headerReader{r: r, stage: "product code"}
	if err := hr.expectBytes([]byte("RV")); err != nil {
		return time.Time{}, nil, err
	}

	hr.stage = "day"
	day, err := hr.integer(2)
	if err != nil {
		return time.Time{}, nil, err
	}

	hr.stage = "hour"
	hour, err := hr.integer(2)
	if err != nil {
		return time.Time{}, nil, err
	}

	hr.stage = "minute"
	minute, err := hr.integer(2)
	if err != nil {
		return time.Time{}, nil, err
	}

	hr.stage = "wmo number"
	if _, err := hr.integer(5); err != nil {
		return time.Time{}, nil, err
	}

	hr.stage = "month"
	month, err := hr.integer(2)
	if err != nil {
		return time.Time{}, nil, err
	}

	hr.stage = "year"
	year, err := hr.integer(2)
	if err != nil {
		return time.Time{}, nil, err
	}

	thisTime := time.Date(2000+year, time.Month(month), day, hour, minute, 0, 0, time.UTC)

	if err := parseRecords(hr, index); err != nil {
		return time.Time{}, nil, err
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: reading binary body: %v", errs.ErrIO, err)
	}
	if len(body) != FrameBodySize {
		return time.Time{}, nil, fmt.Errorf("%w: expected %d bytes, got %d", errs.ErrTruncatedBody, FrameBodySize, len(body))
	}

	return thisTime, body, nil
}

// parseRecords consumes the self-identifying record sequence up to and
// including the terminating ETX byte.
func parseRecords(hr *headerReader, index int) error {
	for {
		id := make([]byte, 1, 3)
		b, err := hr.bytesN(1)
		if err != nil {
			return err
		}
		id[0] = b[0]

		if id[0] == etx {
			return nil
		}

		b, err = hr.bytesN(1)
		if err != nil {
			return err
		}
		id = append(id, b[0])

		matched, err := matchTwoLetterRecord(hr, id, index)
		if err != nil {
			return err
		}
		if matched {
			continue
		}

		b, err = hr.bytesN(1)
		if err != nil {
			return err
		}
		id = append(id, b[0])

		if string(id) != "INT" {
			return fmt.Errorf("%w: %q", errs.ErrUnknownRecordIdentifier, id)
		}

		hr.stage = "interval"
		interval, err := hr.integer(4)
		if err != nil {
			return err
		}
		if interval != PredictionIntervalMinutes {
			return fmt.Errorf("%w: interval: expected %d, found %d", errs.ErrUnexpectedHeaderField, PredictionIntervalMinutes, interval)
		}
	}
}

// matchTwoLetterRecord handles every record identifier that is exactly two
// bytes. It returns matched == false if id isn't one of them, so the caller
// can fall back to the three-letter lookahead.
func matchTwoLetterRecord(hr *headerReader, id []byte, index int) (matched bool, err error) {
	switch string(id) {
	case "BY":
		hr.stage = "product_length"
		_, err = hr.integer(7)
	case "VS":
		hr.stage = "format_version"
		if err = hr.expectSpace(); err != nil {
			return true, err
		}
		var version int
		version, err = hr.integer(1)
		if err == nil && version != 3 {
			err = fmt.Errorf("%w: format_version: expected 3, found %d", errs.ErrUnexpectedHeaderField, version)
		}
	case "SW":
		hr.stage = "software_version"
		_, err = hr.array(9)
	case "PR":
		hr.stage = "precision"
		if err = hr.expectSpace(); err != nil {
			return true, err
		}
		err = hr.expectBytes([]byte("E-02"))
	case "GP":
		hr.stage = "resolution"
		err = hr.expectBytes([]byte("1200x1100"))
	case "VV":
		hr.stage = "prediction_time"
		if err = hr.expectSpace(); err != nil {
			return true, err
		}
		var predictionTime int
		predictionTime, err = hr.integer(3)
		if err == nil && predictionTime != index*PredictionIntervalMinutes {
			err = fmt.Errorf("%w: prediction_time: expected %d, found %d", errs.ErrUnexpectedHeaderField, index*PredictionIntervalMinutes, predictionTime)
		}
	case "MF":
		hr.stage = "module_flags"
		if err = hr.expectSpace(); err != nil {
			return true, err
		}
		_, err = hr.integer(8)
	case "MS":
		hr.stage = "free text"
		var textLength int
		textLength, err = hr.integer(3)
		if err == nil {
			_, err = hr.array(textLength)
		}
	default:
		return false, nil
	}

	return true, err
}
