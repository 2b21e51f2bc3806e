package bencode

import (
	"errors"
	"io"
)

// Document carries a Value through the Codec interfaces, so a bencode value can be
// handed to anything that speaks encoding.BinaryMarshaler, io.WriterTo or io.ReaderFrom.
type Document struct {
	Value   Value
	Options DecoderOptions // applied by UnmarshalBinary and ReadFrom
}

// Statically assert that Document implements Codec.
var _ Codec = (*Document)(nil)

// Size returns the length of the canonical encoding.
func (d *Document) Size() int { return EncodedSize(d.Value) }

func (d *Document) MarshalBinary() ([]byte, error) {
	if d.Value == nil {
		return nil, ErrNilValue
	}
	return MarshalBinaryGeneric(d)
}

func (d *Document) MarshalTo(p []byte) (int, error) {
	if d.Value == nil {
		return 0, ErrNilValue
	}
	return MarshalToGeneric(d, p)
}

// WriteTo streams the canonical encoding to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	enc := NewEncoder(w)
	err := enc.Encode(d.Value)
	return enc.OutputOffset(), err
}

// UnmarshalBinary decodes data, which must hold exactly one value.
func (d *Document) UnmarshalBinary(data []byte) error {
	return UnmarshalBinaryGeneric(d, data)
}

// ReadFrom decodes one value from r and reports how many bytes it consumed.
// Bytes after the value are left in r.
func (d *Document) ReadFrom(r io.Reader) (int64, error) {
	dec := NewDecoder(r, WithOptions(d.Options))
	v, err := dec.Decode()
	if errors.Is(err, io.EOF) {
		err = &SyntaxError{Offset: 0, Err: ErrEndOfInput}
	}
	if err != nil {
		return dec.InputOffset(), err
	}
	d.Value = v
	return dec.InputOffset(), nil
}
