package bencode

import (
	"io"
	"slices"
	"strconv"
)

// Encoder writes canonical bencode to a byte sink. The same Value always
// produces the same bytes. An Encoder is not safe for concurrent use.
type Encoder struct {
	w   *Writer
	err error // set when NewEncoder was given a nil writer
}

// NewEncoder returns an Encoder writing to w. Sinks that are not already buffered
// are wrapped in a bufio.Writer which Encode flushes before returning.
func NewEncoder(w io.Writer) *Encoder {
	writer, err := NewWriter(w)
	return &Encoder{w: writer, err: err}
}

// Encode writes the canonical encoding of v. The only failures are faults of the
// sink, reported as *IOError, and ErrNilValue. A value holding a nil anywhere is
// rejected before any byte of it is written.
func (e *Encoder) Encode(v Value) error {
	if e.err != nil {
		return e.err
	}
	if _, err := encodedSize(v); err != nil {
		return err
	}
	if err := e.value(v); err != nil {
		return err
	}
	if _, err := e.w.Result(); err != nil {
		return &IOError{Op: "write", Offset: e.w.Count(), Err: err}
	}
	return nil
}

// OutputOffset returns the number of bytes handed to the sink so far.
func (e *Encoder) OutputOffset() int64 {
	if e.w == nil {
		return 0
	}
	return e.w.Count()
}

func (e *Encoder) value(v Value) error {
	switch v := v.(type) {
	case Integer:
		e.w.WriteByte('i')
		e.w.WriteInt(int64(v))
		e.w.WriteByte('e')
	case ByteString:
		e.bytes(v)
	case List:
		e.w.WriteByte('l')
		for _, item := range v {
			if err := e.value(item); err != nil {
				return err
			}
		}
		e.w.WriteByte('e')
	case Dictionary:
		return e.dictionary(v)
	default:
		return ErrNilValue
	}
	return e.check()
}

func (e *Encoder) bytes(b []byte) {
	e.w.WriteInt(int64(len(b)))
	e.w.WriteByte(':')
	e.w.WriteBytes(b)
}

func (e *Encoder) dictionary(d Dictionary) error {
	keysPtr := keyPool.Get().(*[]string)
	keys := sortedKeys(d, (*keysPtr)[:0])
	defer func() {
		clear(keys)
		*keysPtr = keys[:0]
		keyPool.Put(keysPtr)
	}()

	e.w.WriteByte('d')
	for _, k := range keys {
		e.w.WriteInt(int64(len(k)))
		e.w.WriteByte(':')
		e.w.WriteString(k)
		if err := e.value(d[k]); err != nil {
			return err
		}
	}
	e.w.WriteByte('e')
	return e.check()
}

// check surfaces a latched sink error.
func (e *Encoder) check() error {
	if err := e.w.Err(); err != nil {
		return &IOError{Op: "write", Offset: e.w.Count(), Err: err}
	}
	return nil
}

func sortedKeys(d Dictionary, keys []string) []string {
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Marshal returns the canonical encoding of v.
func Marshal(v Value) ([]byte, error) {
	size, err := encodedSize(v)
	if err != nil {
		return nil, err
	}
	return appendValue(make([]byte, 0, size), v), nil
}

// AppendValue appends the canonical encoding of v to dst. It does not check for
// nil values; a nil anywhere in v contributes no bytes, which leaves a malformed
// encoding behind. Use Marshal when v is not known to be complete.
func AppendValue(dst []byte, v Value) []byte {
	return appendValue(dst, v)
}

func appendValue(dst []byte, v Value) []byte {
	switch v := v.(type) {
	case Integer:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, int64(v), 10)
		dst = append(dst, 'e')
	case ByteString:
		dst = strconv.AppendInt(dst, int64(len(v)), 10)
		dst = append(dst, ':')
		dst = append(dst, v...)
	case List:
		dst = append(dst, 'l')
		for _, item := range v {
			dst = appendValue(dst, item)
		}
		dst = append(dst, 'e')
	case Dictionary:
		dst = append(dst, 'd')
		for _, k := range v.Keys() {
			dst = strconv.AppendInt(dst, int64(len(k)), 10)
			dst = append(dst, ':')
			dst = append(dst, k...)
			dst = appendValue(dst, v[k])
		}
		dst = append(dst, 'e')
	}
	return dst
}

// EncodedSize returns len(Marshal(v)) without encoding anything. A nil v, or a
// nil element inside a container, contributes zero bytes.
func EncodedSize(v Value) int {
	n, _ := encodedSize(v)
	return n
}

// encodedSize also reports whether a nil value was met on the way.
func encodedSize(v Value) (int, error) {
	switch v := v.(type) {
	case Integer:
		return 2 + decimalLen(int64(v)), nil
	case ByteString:
		return decimalLen(int64(len(v))) + 1 + len(v), nil
	case List:
		total := 2
		var err error
		for _, item := range v {
			n, itemErr := encodedSize(item)
			total += n
			if err == nil {
				err = itemErr
			}
		}
		return total, err
	case Dictionary:
		total := 2
		var err error
		for k, item := range v {
			n, itemErr := encodedSize(item)
			total += decimalLen(int64(len(k))) + 1 + len(k) + n
			if err == nil {
				err = itemErr
			}
		}
		return total, err
	}
	return 0, ErrNilValue
}

// decimalLen counts the bytes strconv.AppendInt would produce for n.
func decimalLen(n int64) int {
	size := 1
	u := uint64(n)
	if n < 0 {
		size++
		u = -u
	}
	for u >= 10 {
		u /= 10
		size++
	}
	return size
}
