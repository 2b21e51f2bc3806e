package bencode

import (
	"errors"
	"io"
	"math"
	"unicode/utf8"
)

// DefaultMaxDepth is the nesting limit of a Decoder built without WithMaxDepth.
const DefaultMaxDepth = 1024

// DecoderOptions tunes how strictly a Decoder treats its input. The zero value
// accepts everything the bencode grammar accepts, up to DefaultMaxDepth.
type DecoderOptions struct {
	// MaxDepth caps how deeply lists and dictionaries nest. Zero means
	// DefaultMaxDepth, a negative value disables the check.
	MaxDepth int

	// MaxStringLength caps the declared length of a byte string. Zero means no cap.
	MaxStringLength int64

	// Strict rejects anything a canonical encoder would not have produced:
	// leading zeros, "-0", and dictionary keys that are not strictly ascending.
	Strict bool

	// DisallowDuplicateKeys rejects a key that already appeared in the same
	// dictionary. Without it the last value wins. Implied by Strict.
	DisallowDuplicateKeys bool

	// InternKeys shares dictionary key strings through a process-wide table.
	InternKeys bool
}

// DecoderOption configures a Decoder.
type DecoderOption func(*DecoderOptions)

// WithOptions replaces every option at once.
func WithOptions(o DecoderOptions) DecoderOption {
	return func(opts *DecoderOptions) { *opts = o }
}

// WithMaxDepth limits nesting to n levels; a negative n removes the limit.
func WithMaxDepth(n int) DecoderOption {
	return func(o *DecoderOptions) { o.MaxDepth = n }
}

// WithMaxStringLength rejects byte strings declaring more than n bytes.
func WithMaxStringLength(n int64) DecoderOption {
	return func(o *DecoderOptions) { o.MaxStringLength = n }
}

// WithStrict accepts only canonical encodings.
func WithStrict() DecoderOption {
	return func(o *DecoderOptions) { o.Strict = true }
}

// WithDisallowDuplicateKeys makes a repeated dictionary key an error.
func WithDisallowDuplicateKeys() DecoderOption {
	return func(o *DecoderOptions) { o.DisallowDuplicateKeys = true }
}

// WithKeyInterning shares dictionary key strings between decoded values.
func WithKeyInterning() DecoderOption {
	return func(o *DecoderOptions) { o.InternKeys = true }
}

// Decoder reads bencode values from a byte source. It looks at most one byte
// ahead of what it has interpreted, and never past the end of the value being decoded.
// A Decoder is not safe for concurrent use.
type Decoder struct {
	r     *Reader
	err   error // set when NewDecoder was given a nil reader
	cur   byte  // most recently read byte
	depth int
	opts  DecoderOptions
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader, opts ...DecoderOption) *Decoder {
	reader, err := NewReader(r)
	d := &Decoder{r: reader, err: err}
	for _, opt := range opts {
		opt(&d.opts)
	}
	if d.opts.MaxDepth == 0 {
		d.opts.MaxDepth = DefaultMaxDepth
	}
	return d
}

// Decode reads the next complete value. Bytes after the value stay unread, so
// calling Decode again returns the value that follows, if any.
//
// When the source is exhausted before the first byte of a value, Decode returns
// io.EOF itself. Running out of input anywhere inside a value is ErrEndOfInput.
func (d *Decoder) Decode() (Value, error) {
	if d.err != nil {
		return nil, d.err
	}
	c, err := d.r.ReadByte()
	if err != nil {
		if isEOF(err) {
			return nil, io.EOF
		}
		return nil, d.readError(err)
	}
	d.cur = c
	d.depth = 0
	return d.value()
}

// InputOffset returns the number of bytes consumed so far.
func (d *Decoder) InputOffset() int64 {
	if d.r == nil {
		return 0
	}
	return d.r.Count()
}

// Options returns the effective options.
func (d *Decoder) Options() DecoderOptions { return d.opts }

// value dispatches on the current byte.
func (d *Decoder) value() (Value, error) {
	switch c := d.cur; {
	case c == 'i':
		return d.integer()
	case isDigit(c):
		return d.byteString()
	case c == 'l':
		return d.list()
	case c == 'd':
		return d.dictionary()
	default:
		return nil, d.syntaxError(ErrUnrecognizedTag)
	}
}

// called when 'i' is current
func (d *Decoder) integer() (Value, error) {
	start := d.offset()
	if err := d.advance(); err != nil {
		return nil, err
	}
	if d.cur == 'e' {
		return nil, &SyntaxError{Offset: start, Err: ErrEmptyNumber}
	}

	negative := d.cur == '-'
	if negative {
		if err := d.advance(); err != nil {
			return nil, err
		}
	}

	n, digits, leadingZero, err := d.number(negative)
	if err != nil {
		return nil, err
	}
	if digits == 0 || d.cur != 'e' {
		return nil, d.syntaxError(ErrNotANumber)
	}
	if d.opts.Strict && ((leadingZero && digits > 1) || (negative && n == 0)) {
		return nil, &SyntaxError{Offset: start, Err: ErrNonCanonical}
	}
	return Integer(n), nil
}

// number accumulates decimal digits starting at the current byte and stops on the
// first non-digit, which is left current. The sign is applied digit by digit so
// that math.MinInt64 does not overflow on its way in.
func (d *Decoder) number(negative bool) (n int64, digits int, leadingZero bool, err error) {
	for isDigit(d.cur) {
		digit := int64(d.cur - '0')
		if digits == 0 {
			leadingZero = digit == 0
		}
		if negative {
			if n < (math.MinInt64+digit)/10 {
				return 0, digits, leadingZero, d.syntaxError(ErrIntegerOverflow)
			}
			n = n*10 - digit
		} else {
			if n > (math.MaxInt64-digit)/10 {
				return 0, digits, leadingZero, d.syntaxError(ErrIntegerOverflow)
			}
			n = n*10 + digit
		}
		digits++
		if err = d.advance(); err != nil {
			return 0, digits, leadingZero, err
		}
	}
	return n, digits, leadingZero, nil
}

// called when a digit is current
func (d *Decoder) byteString() (Value, error) {
	start := d.offset()
	length, digits, leadingZero, err := d.number(false)
	if err != nil {
		return nil, err
	}
	if d.cur != ':' {
		return nil, d.syntaxError(ErrNotANumber)
	}
	if d.opts.Strict && leadingZero && digits > 1 {
		return nil, &SyntaxError{Offset: start, Err: ErrNonCanonical}
	}
	if d.opts.MaxStringLength > 0 && length > d.opts.MaxStringLength {
		return nil, &SyntaxError{Offset: start, Err: ErrStringTooLong}
	}

	payload := d.r.ReadBytes(length)
	if payload == nil {
		return nil, d.readError(d.r.Err())
	}
	return ByteString(payload), nil
}

// called when 'l' is current
func (d *Decoder) list() (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	items := List{}
	for {
		if err := d.advance(); err != nil {
			return nil, err
		}
		if d.cur == 'e' {
			return items, nil
		}
		item, err := d.value()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

// called when 'd' is current
func (d *Decoder) dictionary() (Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	dict := Dictionary{}
	var previous string
	for i := 0; ; i++ {
		if err := d.advance(); err != nil {
			return nil, err
		}
		if d.cur == 'e' {
			return dict, nil
		}

		keyOffset := d.offset()
		kv, err := d.value()
		if err != nil {
			return nil, err
		}
		raw, ok := kv.(ByteString)
		if !ok {
			return nil, &SyntaxError{Offset: keyOffset, Err: ErrDictionaryKeyNotString, Value: kv}
		}
		if !utf8.Valid(raw) {
			return nil, &SyntaxError{Offset: keyOffset, Err: ErrInvalidKeyEncoding}
		}

		var key string
		if d.opts.InternKeys {
			key = internKey(raw)
		} else {
			key = string(raw)
		}

		if d.opts.Strict && i > 0 && key <= previous {
			if key == previous {
				return nil, &SyntaxError{Offset: keyOffset, Err: ErrDuplicateKey}
			}
			return nil, &SyntaxError{Offset: keyOffset, Err: ErrNonCanonical}
		}
		if d.opts.DisallowDuplicateKeys {
			if _, exists := dict[key]; exists {
				return nil, &SyntaxError{Offset: keyOffset, Err: ErrDuplicateKey}
			}
		}

		c, err := d.r.ReadByte()
		if err != nil {
			if isEOF(err) {
				return nil, &SyntaxError{Offset: d.offset() + 1, Err: ErrDictionaryValueMissing}
			}
			return nil, d.readError(err)
		}
		d.cur = c
		if c == 'e' {
			return nil, d.syntaxError(ErrDictionaryValueMissing)
		}

		value, err := d.value()
		if err != nil {
			return nil, err
		}
		dict[key] = value
		previous = key
	}
}

func (d *Decoder) enter() error {
	if d.opts.MaxDepth > 0 && d.depth >= d.opts.MaxDepth {
		return d.syntaxError(ErrMaxDepth)
	}
	d.depth++
	return nil
}

func (d *Decoder) leave() { d.depth-- }

// advance makes the next byte current. Running out of input here is always
// ErrEndOfInput: every caller still expects more bytes.
func (d *Decoder) advance() error {
	c, err := d.r.ReadByte()
	if err != nil {
		return d.readError(err)
	}
	d.cur = c
	return nil
}

// offset of the current byte.
func (d *Decoder) offset() int64 { return d.r.Count() - 1 }

func (d *Decoder) syntaxError(err error) error {
	return &SyntaxError{Offset: d.offset(), Err: err}
}

func (d *Decoder) readError(err error) error {
	if isEOF(err) {
		return &SyntaxError{Offset: d.r.Count(), Err: ErrEndOfInput}
	}
	return &IOError{Op: "read", Offset: d.r.Count(), Err: err}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// DecodeBytes decodes the value at the front of data and reports how many bytes
// it used. Trailing bytes are ignored.
func DecodeBytes(data []byte, opts ...DecoderOption) (Value, int, error) {
	d := NewDecoder(NewBytesReader(data), opts...)
	v, err := d.Decode()
	if err == io.EOF {
		err = &SyntaxError{Offset: 0, Err: ErrEndOfInput}
	}
	if err != nil {
		return nil, int(d.InputOffset()), err
	}
	return v, int(d.InputOffset()), nil
}

// Unmarshal decodes data, which must hold exactly one value.
func Unmarshal(data []byte, opts ...DecoderOption) (Value, error) {
	v, n, err := DecodeBytes(data, opts...)
	if err != nil {
		return nil, err
	}
	if n < len(data) {
		return nil, &SyntaxError{Offset: int64(n), Err: ErrTrailingData}
	}
	return v, nil
}
