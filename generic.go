package bencode

import (
	"fmt"
	"io"
)

// MarshalBinaryGeneric provides a generic `encoding.BinaryMarshaler` implementation.
func MarshalBinaryGeneric[T interface {
	Size() int
	io.WriterTo
}](v T) ([]byte, error) {
	expectedSize := v.Size()
	w := NewBytesWriter(make([]byte, expectedSize))
	n, err := v.WriteTo(w)
	if err != nil {
		return nil, err
	}
	if n < int64(expectedSize) {
		return nil, fmt.Errorf("%w: expected at least %d bytes, but write %d", ErrTruncatedData, expectedSize, n)
	}
	return w.Bytes(), nil
}

// UnmarshalBinaryGeneric provides a generic `UnmarshalBinary` for types implementing `io.ReaderFrom`.
// It adapts a stream-based `ReadFrom` to the slice-based `UnmarshalBinary` interface
// and rejects anything left over once the value is complete.
func UnmarshalBinaryGeneric[T io.ReaderFrom](v T, data []byte) error {
	r := NewBytesReader(data)
	if _, err := v.ReadFrom(r); err != nil {
		return err
	}
	if rest := r.Available(); rest > 0 {
		return fmt.Errorf("%w: %d bytes after offset %d", ErrTrailingData, rest, r.N)
	}
	return nil
}

// MarshalToGeneric provides a fallback implementation for the MarshalTo method.
func MarshalToGeneric[T interface {
	Size() int
	io.WriterTo
}](v T, p []byte) (int, error) {
	size := v.Size()
	if len(p) < size {
		return 0, io.ErrShortWrite
	}
	w := NewBytesWriter(p)
	n, err := v.WriteTo(w)
	if err != nil {
		return int(n), err
	}
	if n < int64(size) {
		return int(n), io.ErrShortWrite
	}
	return int(n), nil
}
