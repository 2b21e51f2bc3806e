package bencode

import "io"

// BytesReader reads from a byte slice. Its position N is exactly the number of
// bytes a Decoder has consumed, since a Decoder never reads ahead of a ByteReader.
type BytesReader struct {
	B []byte // source slice
	N int    // current read position
}

// NewBytesReader creates a new BytesReader.
func NewBytesReader(b []byte) *BytesReader {
	return &BytesReader{B: b}
}

// Read implements the [io.Reader] interface.
func (r *BytesReader) Read(p []byte) (int, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	n := copy(p, r.B[r.N:])
	r.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (r *BytesReader) ReadByte() (byte, error) {
	if r.N >= len(r.B) {
		return 0, io.EOF
	}
	b := r.B[r.N]
	r.N++
	return b, nil
}

// WriteTo implements the [io.WriterTo] interface for efficiency.
func (r *BytesReader) WriteTo(w io.Writer) (int64, error) {
	if r.N >= len(r.B) {
		return 0, nil
	}

	b := r.B[r.N:]
	n, err := w.Write(b)
	if n < 0 || n > len(b) {
		return 0, ErrInvalidRead
	}
	r.N += n
	if err != nil {
		return int64(n), err
	}
	if n < len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

// Available returns the number of bytes not yet read.
func (r *BytesReader) Available() int {
	return max(len(r.B)-r.N, 0)
}
