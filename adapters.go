package bencode

import (
	"bufio"
	"bytes"
	"io"
)

type (
	bytesBufferWriterAdapter struct{ *bytes.Buffer }
	bufioWriterAdapter       struct{ *bufio.Writer }

	// unbufferedReader gives a plain io.Reader a ReadByte without reading ahead.
	unbufferedReader struct {
		r   io.Reader
		one [1]byte
	}
)

func (w *bufioWriterAdapter) Close() error       { return nil }
func (w *bytesBufferWriterAdapter) Close() error { return nil }
func (w *bytesBufferWriterAdapter) Flush() error { return nil }
func (w *bytesBufferWriterAdapter) Size() int    { return w.Available() }

// Read passes straight through to the wrapped reader.
func (u *unbufferedReader) Read(p []byte) (int, error) {
	return u.r.Read(p)
}

// ReadByte reads exactly one byte from the wrapped reader. A reader may return
// the last byte together with io.EOF; the byte wins and EOF shows up on the next call.
func (u *unbufferedReader) ReadByte() (byte, error) {
	for {
		n, err := u.r.Read(u.one[:])
		if n > 0 {
			return u.one[0], nil
		}
		if err != nil {
			return 0, err
		}
		// (0, nil) is allowed by io.Reader; try again.
	}
}
