package bencode

import (
	"bytes"
	"iter"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Kind identifies which of the four bencode shapes a Value has.
type Kind uint8

const (
	KindInteger Kind = iota + 1
	KindByteString
	KindList
	KindDictionary
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindByteString:
		return "string"
	case KindList:
		return "list"
	case KindDictionary:
		return "dictionary"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is a decoded bencode value: Integer, ByteString, List or Dictionary.
// The interface is sealed; no other type implements it.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

// Integer is a bencode integer. Every int64 is representable.
type Integer int64

// ByteString is a length-prefixed run of raw bytes. It is not required to be text.
type ByteString []byte

// List is an ordered sequence of values.
type List []Value

// Dictionary maps UTF-8 keys to values. Keys are serialized in ascending byte order
// regardless of how the map was built.
type Dictionary map[string]Value

var (
	_ Value = Integer(0)
	_ Value = ByteString(nil)
	_ Value = List(nil)
	_ Value = Dictionary(nil)
)

func (Integer) isValue()    {}
func (ByteString) isValue() {}
func (List) isValue()       {}
func (Dictionary) isValue() {}

func (Integer) Kind() Kind    { return KindInteger }
func (ByteString) Kind() Kind { return KindByteString }
func (List) Kind() Kind       { return KindList }
func (Dictionary) Kind() Kind { return KindDictionary }

// Int converts any Go integer to an Integer. Unsigned values above math.MaxInt64
// wrap, as with a plain int64 conversion.
func Int[T constraints.Integer](n T) Integer { return Integer(int64(n)) }

// String builds a ByteString holding the bytes of s.
func String(s string) ByteString { return ByteString(s) }

// Bytes builds a ByteString holding a copy of b.
func Bytes(b []byte) ByteString { return ByteString(bytes.Clone(b)) }

// NewList builds a List from its arguments.
func NewList(items ...Value) List {
	if items == nil {
		return List{}
	}
	return List(items)
}

func (i Integer) String() string { return strconv.FormatInt(int64(i), 10) }

// String returns the raw bytes. Use Quote for a printable form.
func (b ByteString) String() string { return string(b) }

// Quote returns b as a Go-quoted string.
func (b ByteString) Quote() string { return strconv.Quote(string(b)) }

func (l List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, item := range l {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeDebug(&sb, item)
	}
	sb.WriteByte(']')
	return sb.String()
}

func (d Dictionary) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	i := 0
	for k, v := range d.All() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(k))
		sb.WriteString(": ")
		writeDebug(&sb, v)
		i++
	}
	sb.WriteByte('}')
	return sb.String()
}

func writeDebug(sb *strings.Builder, v Value) {
	switch v := v.(type) {
	case nil:
		sb.WriteString("<nil>")
	case ByteString:
		sb.WriteString(v.Quote())
	default:
		sb.WriteString(v.String())
	}
}

// Keys returns the keys of d in ascending byte order.
func (d Dictionary) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// All iterates over d in ascending key order.
func (d Dictionary) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range d.Keys() {
			if !yield(k, d[k]) {
				return
			}
		}
	}
}

// Equal reports whether a and b have the same shape and recursively equal payloads.
// Dictionary comparison ignores insertion order; a nil and an empty container of the
// same kind are equal.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case Integer:
		b, ok := b.(Integer)
		return ok && a == b
	case ByteString:
		b, ok := b.(ByteString)
		return ok && bytes.Equal(a, b)
	case List:
		b, ok := b.(List)
		return ok && slices.EqualFunc(a, b, Equal)
	case Dictionary:
		b, ok := b.(Dictionary)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	}
	return false
}
