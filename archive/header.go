package archive

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nimbusrv/rv/errs"
)

// etx is the "end of text" byte terminating a frame's ASCII header.
const etx = 0x03

// headerReader wraps an io.Reader with the small grammar of fixed-width
// ASCII integer fields and raw byte arrays the RV header format is built
// from. It mirrors the ReadExt trait of the original decoder: every method
// reads exactly the number of bytes it's asked for, or returns a wrapped
// IO/FormatViolation error.
type headerReader struct {
	r     io.Reader
	stage string // for error messages: which field we were reading
}

func (hr *headerReader) fail(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errs.ErrIO, fmt.Sprintf(format, args...))
}

func (hr *headerReader) bytesN(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(hr.r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading %d bytes for %s: %v", errs.ErrIO, n, hr.stage, err)
	}

	return buf, nil
}

// integer reads a fixed-width space-padded ASCII integer field.
func (hr *headerReader) integer(n int) (int, error) {
	buf, err := hr.bytesN(n)
	if err != nil {
		return 0, err
	}

	trimmed := strings.TrimSpace(string(buf))
	val, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: field %s: could not parse %q as integer: %v", errs.ErrUnexpectedHeaderField, hr.stage, buf, err)
	}

	return val, nil
}

// array reads exactly n raw bytes without any parsing.
func (hr *headerReader) array(n int) ([]byte, error) {
	return hr.bytesN(n)
}

// expectSpace consumes one byte and requires it to be a literal space.
func (hr *headerReader) expectSpace() error {
	b, err := hr.bytesN(1)
	if err != nil {
		return err
	}
	if b[0] != ' ' {
		return fmt.Errorf("%w: field %s: expected a space, found %q", errs.ErrUnexpectedHeaderField, hr.stage, b[0])
	}

	return nil
}

// expectBytes reads len(want) bytes and requires they equal want exactly.
func (hr *headerReader) expectBytes(want []byte) error {
	got, err := hr.bytesN(len(want))
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: field %s: expected %q, found %q", errs.ErrUnexpectedHeaderField, hr.stage, want, got)
	}

	return nil
}
