package bencode

import (
	"encoding"
	"io"
)

// Sizer is an interface for types that can report their encoded size.
// This is useful for pre-allocating buffers before encoding.
type Sizer interface {
	// Size returns the size of the type in bytes when bencoded.
	Size() int
}

// Marshaler defines the core methods for encoding an object into a byte stream.
// It integrates standard library interfaces and provides an allocation-free option.
type Marshaler interface {
	// encoding.BinaryMarshaler provides the primary encoding method.
	// It allocates and returns a new byte slice.
	encoding.BinaryMarshaler // Method: MarshalBinary() ([]byte, error)
	// io.WriterTo provides stream-based writing.
	// This avoids allocating the entire byte slice in memory at once.
	io.WriterTo // Method: WriteTo(writer io.Writer) (int64, error)

	// MarshalTo encodes the object into a pre-allocated buffer, returning an error
	// (e.g., io.ErrShortWrite) if the buffer is too small.
	MarshalTo(buf []byte) (int, error)
}

// Unmarshaler defines the core methods for decoding a byte stream into an object.
type Unmarshaler interface {
	// encoding.BinaryUnmarshaler decodes data from a byte slice.
	encoding.BinaryUnmarshaler // Method: UnmarshalBinary(data []byte) error
	// io.ReaderFrom provides stream-based reading.
	io.ReaderFrom // Method: ReadFrom(r io.Reader) (int64, error)
}

// Codec aggregates all serialization and deserialization interfaces.
// A type implementing Codec is a complete, self-sizing encoder/decoder.
type Codec interface {
	Sizer
	Marshaler
	Unmarshaler
}
