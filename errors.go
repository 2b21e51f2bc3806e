package bencode

import (
	"errors"
	"fmt"
)

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with an nil interface
	ErrNilIO = errors.New("bencode: NewReader/NewWriter called with a nil io.Reader/io.Writer")

	// ErrSizeTooSmall indicates a size conflict with bufio
	ErrSizeTooSmall = errors.New("bencode: NewReaderSize with a size smaller than 16 conflict with bufio")

	// ErrAlreadyBuffered indicates that NewReaderSize/NewWriterSize was called with an already-buffered
	// reader/writer whose buffer is smaller than requested.
	ErrAlreadyBuffered = errors.New("bencode: reader or writer is already buffered")

	// ErrWriteToNil indicates a WriteTo operation was attempted on a nil io.Writer.
	ErrWriteToNil = errors.New("bencode: WriteTo called with a nil io.Writer")

	// ErrInvalidRead indicates that an io.Reader returned an invalid (negative or outbound) count from Read.
	ErrInvalidRead = errors.New("bencode: reader returned invalid count from Read")

	// ErrTrailingData is returned by Unmarshal when bytes remain after the first complete value.
	ErrTrailingData = errors.New("bencode: trailing data after value")

	// ErrTruncatedData indicates that fewer bytes were produced than the encoded size promised.
	ErrTruncatedData = errors.New("bencode: truncated data")
)

// Decode and encode failures. Each one is distinct and can be matched with errors.Is
// on whatever the Decoder or Encoder returned.
var (
	// ErrEndOfInput: the source ran dry while the grammar still needed bytes.
	ErrEndOfInput = errors.New("bencode: unexpected end of input")

	// ErrIO matches every *IOError.
	ErrIO = errors.New("bencode: i/o fault")

	// ErrNotANumber: a byte other than a digit or the terminator turned up inside
	// an integer or a string length.
	ErrNotANumber = errors.New("bencode: not a number")

	// ErrEmptyNumber: "ie".
	ErrEmptyNumber = errors.New("bencode: empty integer")

	// ErrIntegerOverflow: the digits do not fit in an int64.
	ErrIntegerOverflow = errors.New("bencode: integer overflows int64")

	// ErrDictionaryKeyNotString: a key position held an integer, list or dictionary.
	ErrDictionaryKeyNotString = errors.New("bencode: dictionary key is not a byte string")

	// ErrDictionaryValueMissing: a key was followed by 'e' or by the end of input.
	ErrDictionaryValueMissing = errors.New("bencode: dictionary value missing")

	// ErrInvalidKeyEncoding: a dictionary key is not valid UTF-8.
	ErrInvalidKeyEncoding = errors.New("bencode: dictionary key is not valid utf-8")

	// ErrUnrecognizedTag: the first byte of a value is not 'i', 'l', 'd' or a digit.
	ErrUnrecognizedTag = errors.New("bencode: unrecognized value tag")

	// ErrMaxDepth: lists and dictionaries nest deeper than the decoder allows.
	ErrMaxDepth = errors.New("bencode: maximum nesting depth exceeded")

	// ErrStringTooLong: a byte string declares more bytes than the decoder allows.
	ErrStringTooLong = errors.New("bencode: byte string exceeds maximum length")

	// ErrNonCanonical is reported in strict mode for leading zeros, "-0" and
	// dictionary keys out of order.
	ErrNonCanonical = errors.New("bencode: non-canonical encoding")

	// ErrDuplicateKey is reported when duplicate keys are disallowed.
	ErrDuplicateKey = errors.New("bencode: duplicate dictionary key")

	// ErrNilValue: a nil Value was handed to the encoder, on its own or inside a container.
	ErrNilValue = errors.New("bencode: cannot encode nil value")
)

// SyntaxError reports malformed input. Err is one of the sentinels above.
type SyntaxError struct {
	Offset int64 // offset of the byte that triggered the error
	Err    error
	Value  Value // offending key for ErrDictionaryKeyNotString, nil otherwise
}

func (e *SyntaxError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s (offset: %d, got %s %s)", e.Err, e.Offset, e.Value.Kind(), e.Value)
	}
	return fmt.Sprintf("%s (offset: %d)", e.Err, e.Offset)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// IOError wraps a fault reported by the underlying source or sink.
type IOError struct {
	Op     string // "read" or "write"
	Offset int64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("bencode: %s failed at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is makes every IOError match ErrIO.
func (e *IOError) Is(target error) bool { return target == ErrIO }
