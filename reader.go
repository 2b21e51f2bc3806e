package bencode

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

type source interface {
	io.Reader
	io.ByteReader
}

// Reader is the byte source the Decoder pulls from. It counts consumed bytes and
// tracks the first error; subsequent reads become no-ops returning that error.
//
// Unless NewReaderSize is used, a Reader never consumes a byte from the underlying
// io.Reader that it has not handed to its caller, so the position of the wrapped
// stream always sits right after the last decoded value.
type Reader struct {
	r     source
	count int64 // total bytes read
	err   error // first error encountered.
}

var _ source = (*Reader)(nil)

// NewReader wraps r without adding a read-ahead buffer. Readers that already
// implement io.ByteReader (bytes.Reader, bytes.Buffer, bufio.Reader, BytesReader,
// PeekableReader) are used directly; anything else is read one byte at a time.
func NewReader(r io.Reader) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	case *Reader:
		return &Reader{r: reader.r}, nil
	case source:
		return &Reader{r: reader}, nil
	}
	return &Reader{r: &unbufferedReader{r: r}}, nil
}

// NewReaderSize wraps r in a bufio.Reader of the given size. The buffer may read past
// the end of the last decoded value, which is fine when the Reader owns the stream.
func NewReaderSize(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}

	switch reader := r.(type) {
	// Reuse the underlying buffer if it's already a compatible Reader.
	case *Reader:
		if b, ok := reader.r.(*bufio.Reader); ok && b.Size() >= size {
			return &Reader{r: b}, nil
		}

	// prevent unpredictable double-buffering.
	case *bufio.Reader:
		if reader.Size() >= size {
			return &Reader{r: reader}, nil
		}
		return nil, ErrAlreadyBuffered

	// underlying is a buf so we don't need buffering
	case *BytesReader, *bytes.Reader, *bytes.Buffer:
		return &Reader{r: reader.(source)}, nil
	}

	if size < 16 {
		return nil, ErrSizeTooSmall
	}

	return &Reader{r: bufio.NewReaderSize(r, size)}, nil
}

// Read implements the io.Reader interface.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n, err := r.r.Read(p)
	if n < 0 || n > len(p) {
		r.setError(ErrInvalidRead)
		return 0, r.err
	}
	r.count += int64(n)
	r.setError(err)
	return n, r.err
}

// ReadByte implements the io.ByteReader interface.
func (r *Reader) ReadByte() (byte, error) {
	if r.err != nil {
		return 0, r.err
	}
	b, err := r.r.ReadByte()
	if err == nil {
		r.count++
	} else {
		r.err = err
	}
	return b, err
}

// ReadBytes reads exactly n bytes into a new slice. A stream that ends early leaves
// io.ErrUnexpectedEOF latched, even if no byte at all was available.
//
// Large counts are read in CHUNK_SIZE steps so that a bogus length prefix cannot
// allocate more memory than the stream actually delivers.
func (r *Reader) ReadBytes(n int64) []byte {
	if r.err != nil {
		return nil
	}
	if n <= 0 {
		return []byte{}
	}

	if n <= CHUNK_SIZE {
		buf := make([]byte, n)
		read, err := io.ReadFull(r.r, buf)
		r.count += int64(read)
		if err != nil {
			r.setReadError(err)
			return nil
		}
		return buf
	}

	var buf bytes.Buffer
	buf.Grow(CHUNK_SIZE)
	read, err := io.CopyN(&buf, r.r, n)
	r.count += read
	if err != nil {
		r.setReadError(err)
		return nil
	}
	return buf.Bytes()
}

// setReadError records a failure of a fixed-size read.
func (r *Reader) setReadError(err error) {
	if errors.Is(err, io.EOF) {
		// a partial read is different from a clean end-of-stream.
		err = io.ErrUnexpectedEOF
	}
	r.setError(err)
}

// WriteTo implements io.WriterTo for efficient copying of whatever remains.
func (r *Reader) WriteTo(w io.Writer) (int64, error) {
	if r.err != nil {
		return 0, r.err
	}
	if w == nil {
		r.setError(ErrWriteToNil)
		return 0, r.err
	}

	n, err := io.Copy(w, r.r)
	r.count += n
	r.setError(err)
	return n, r.err
}

func (r *Reader) Count() int64 { return r.count }
func (r *Reader) Err() error   { return r.err }
func (r *Reader) IsEOF() bool  { return r.err == io.EOF }

// setError records the first non-nil error.
func (r *Reader) setError(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Result returns the total bytes read and the final error state.
func (r *Reader) Result() (int64, error) {
	return r.count, r.err
}
