package bencode

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeValues(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"Zero", Integer(0), "i0e"},
		{"Positive", Integer(42), "i42e"},
		{"Negative", Integer(-42), "i-42e"},
		{"MaxInt64", Integer(math.MaxInt64), "i9223372036854775807e"},
		{"MinInt64", Integer(math.MinInt64), "i-9223372036854775808e"},
		{"EmptyString", ByteString{}, "0:"},
		{"NilString", ByteString(nil), "0:"},
		{"String", String("spam"), "4:spam"},
		{"BinaryString", ByteString{0, 'e', 0xff}, "3:\x00e\xff"},
		{"EmptyList", List{}, "le"},
		{"NilList", List(nil), "le"},
		{"List", List{String("spam"), String("eggs")}, "l4:spam4:eggse"},
		{"EmptyDictionary", Dictionary{}, "de"},
		{"Dictionary", Dictionary{"spam": String("eggs"), "cow": String("moo")}, "d3:cow3:moo4:spam4:eggse"},
		{"Nested", Dictionary{"a": List{Integer(1), Dictionary{"b": ByteString{}}}}, "d1:ali1ed1:b0:eee"},
		{"ByteOrderNotLocale", Dictionary{"b": Integer(1), "B": Integer(2), "a": Integer(3)}, "d1:Bi2e1:ai3e1:bi1ee"},
		{"PrefixSortsFirst", Dictionary{"ab": Integer(1), "a": Integer(2)}, "d1:ai2e2:abi1ee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewEncoder(&buf).Encode(tt.value))
			assert.Equal(t, tt.want, buf.String())

			marshaled, err := Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(marshaled))

			assert.Equal(t, tt.want, string(AppendValue(nil, tt.value)))
			assert.Equal(t, len(tt.want), EncodedSize(tt.value))
		})
	}
}

func TestEncodeDictionaryOrderIgnoresInsertion(t *testing.T) {
	d := Dictionary{}
	d["spam"] = String("eggs")
	d["cow"] = String("moo")

	out, err := Marshal(d)
	require.NoError(t, err)
	assert.Less(t, bytes.Index(out, []byte("3:cow")), bytes.Index(out, []byte("4:spam")))
}

func TestEncodeDeterministic(t *testing.T) {
	v := Dictionary{"z": Integer(1), "y": List{String("x")}, "m": Dictionary{"k": Integer(-1), "j": ByteString{}}}

	first, err := Marshal(v)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRoundTrip(t *testing.T) {
	values := []Value{
		Integer(0),
		Integer(math.MinInt64),
		ByteString{},
		String("hello, world"),
		ByteString(bytes.Repeat([]byte{0xde, 0xad}, 1000)),
		List{},
		List{Integer(1), List{List{}}, Dictionary{}},
		Dictionary{
			"announce": String("http://tracker.example/announce"),
			"info": Dictionary{
				"name":         String("file.bin"),
				"length":       Integer(1 << 40),
				"piece length": Integer(262144),
				"pieces":       ByteString(bytes.Repeat([]byte{0x01}, 40)),
			},
			"url-list": List{String("a"), String("b")},
		},
	}

	for _, v := range values {
		data, err := Marshal(v)
		require.NoError(t, err)

		decoded, err := Unmarshal(data)
		require.NoError(t, err)
		assert.True(t, Equal(v, decoded), "round trip of %v", v)

		again, err := Marshal(decoded)
		require.NoError(t, err)
		assert.Equal(t, data, again)
	}
}

func TestCanonicalInputReencodesIdentically(t *testing.T) {
	inputs := []string{
		"d8:announce3:url4:infod6:lengthi10e4:name1:aee",
		"l4:spam4:eggse",
		"i-17e",
	}
	for _, input := range inputs {
		v, err := Unmarshal([]byte(input), WithStrict())
		require.NoError(t, err)
		out, err := Marshal(v)
		require.NoError(t, err)
		assert.Equal(t, input, string(out))
	}
}

func TestEncodeNilValue(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, NewEncoder(&buf).Encode(nil), ErrNilValue)
	assert.ErrorIs(t, NewEncoder(&buf).Encode(List{Integer(1), nil}), ErrNilValue)
	assert.ErrorIs(t, NewEncoder(&buf).Encode(Dictionary{"a": nil}), ErrNilValue)

	_, err := Marshal(List{nil})
	assert.ErrorIs(t, err, ErrNilValue)
}

// plainWriter hides every method but Write, so the Encoder buffers internally.
type plainWriter struct{ w io.Writer }

func (p plainWriter) Write(b []byte) (int, error) { return p.w.Write(b) }

func TestEncodeNilValueWritesNothing(t *testing.T) {
	t.Run("BufferedSink", func(t *testing.T) {
		var out bytes.Buffer
		enc := NewEncoder(plainWriter{&out})

		assert.ErrorIs(t, enc.Encode(List{Integer(1), nil}), ErrNilValue)
		require.NoError(t, enc.Encode(Integer(7)))
		assert.Equal(t, "i7e", out.String())
		assert.EqualValues(t, 3, enc.OutputOffset())
	})

	t.Run("DirectSink", func(t *testing.T) {
		var out bytes.Buffer
		enc := NewEncoder(&out)

		assert.ErrorIs(t, enc.Encode(Dictionary{"a": Integer(1), "b": nil}), ErrNilValue)
		assert.Zero(t, out.Len())
		require.NoError(t, enc.Encode(String("ok")))
		assert.Equal(t, "2:ok", out.String())
	})
}

func TestEncodeNilWriter(t *testing.T) {
	assert.ErrorIs(t, NewEncoder(nil).Encode(Integer(1)), ErrNilIO)
}

// failingWriter accepts limit bytes and then fails.
type failingWriter struct {
	limit int
	err   error
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if len(p) > f.limit {
		n := f.limit
		f.limit = 0
		return n, f.err
	}
	f.limit -= len(p)
	return len(p), nil
}

func TestEncodeSinkFault(t *testing.T) {
	boom := errors.New("disk full")
	err := NewEncoder(&failingWriter{limit: 3, err: boom}).Encode(String("spam"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, boom)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "write", ioErr.Op)
}

func TestEncodeShortFixedBuffer(t *testing.T) {
	w := NewBytesWriter(make([]byte, 4))
	err := NewEncoder(w).Encode(String("spam"))
	assert.ErrorIs(t, err, ErrIO)
	assert.Equal(t, []byte("4:sp"), w.Bytes())
}

func TestEncodeIntoCallerBufio(t *testing.T) {
	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)

	require.NoError(t, NewEncoder(bw).Encode(List{Integer(7)}))
	assert.Zero(t, buf.Len(), "the caller's bufio.Writer is flushed by the caller")

	require.NoError(t, bw.Flush())
	assert.Equal(t, "li7ee", buf.String())
}

func TestEncoderOutputOffset(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	require.NoError(t, enc.Encode(Integer(1)))
	require.NoError(t, enc.Encode(String("ab")))
	assert.EqualValues(t, 7, enc.OutputOffset())
	assert.Equal(t, "i1e2:ab", buf.String())
}

func TestDecimalLen(t *testing.T) {
	for _, n := range []int64{0, 9, 10, -1, -10, 99, 100, math.MaxInt64, math.MinInt64} {
		assert.Equal(t, len(Integer(n).String()), decimalLen(n), "n=%d", n)
	}
}
