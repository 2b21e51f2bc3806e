package bencode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"SameInteger", Integer(1), Integer(1), true},
		{"DifferentInteger", Integer(1), Integer(2), false},
		{"IntegerVsString", Integer(1), String("1"), false},
		{"Strings", String("spam"), ByteString("spam"), true},
		{"NilAndEmptyString", ByteString(nil), ByteString{}, true},
		{"ListOrderMatters", List{Integer(1), Integer(2)}, List{Integer(2), Integer(1)}, false},
		{"ListLength", List{Integer(1)}, List{Integer(1), Integer(1)}, false},
		{"NilAndEmptyList", List(nil), List{}, true},
		{"ListVsDictionary", List{}, Dictionary{}, false},
		{"DictionaryOrderIgnored",
			Dictionary{"spam": String("eggs"), "cow": String("moo")},
			Dictionary{"cow": String("moo"), "spam": String("eggs")}, true},
		{"DictionaryValueDiffers", Dictionary{"a": Integer(1)}, Dictionary{"a": Integer(2)}, false},
		{"DictionaryKeyDiffers", Dictionary{"a": Integer(1)}, Dictionary{"b": Integer(1)}, false},
		{"Deep",
			List{Dictionary{"x": List{String("y")}}},
			List{Dictionary{"x": List{String("y")}}}, true},
		{"BothNil", nil, nil, true},
		{"OneNil", nil, Integer(0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a), "Equal is symmetric")
		})
	}
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindInteger, Integer(0).Kind())
	assert.Equal(t, KindByteString, ByteString(nil).Kind())
	assert.Equal(t, KindList, List(nil).Kind())
	assert.Equal(t, KindDictionary, Dictionary(nil).Kind())

	assert.Equal(t, "integer", KindInteger.String())
	assert.Equal(t, "string", KindByteString.String())
	assert.Equal(t, "list", KindList.String())
	assert.Equal(t, "dictionary", KindDictionary.String())
	assert.Equal(t, "kind(9)", Kind(9).String())
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, Integer(7), Int(uint8(7)))
	assert.Equal(t, Integer(-7), Int(int32(-7)))
	assert.Equal(t, ByteString("x"), String("x"))

	src := []byte("abc")
	b := Bytes(src)
	src[0] = 'z'
	assert.Equal(t, ByteString("abc"), b, "Bytes copies its input")

	assert.NotNil(t, NewList())
	assert.Len(t, NewList(Integer(1), Integer(2)), 2)
}

func TestDictionaryIteration(t *testing.T) {
	d := Dictionary{"spam": Integer(1), "cow": Integer(2), "Zed": Integer(3), "": Integer(4)}
	assert.Equal(t, []string{"", "Zed", "cow", "spam"}, d.Keys())

	var keys []string
	for k := range d.All() {
		keys = append(keys, k)
		if k == "cow" {
			break
		}
	}
	assert.Equal(t, []string{"", "Zed", "cow"}, keys)
}

func TestValueString(t *testing.T) {
	v := Dictionary{"b": List{Integer(1), String("x\n")}, "a": ByteString{}}
	assert.Equal(t, `{"a": "", "b": [1, "x\n"]}`, v.String())
	assert.Equal(t, "spam", String("spam").String())
	assert.Equal(t, `"\xff"`, ByteString{0xff}.Quote())
	assert.Equal(t, "[<nil>]", List{nil}.String())
}
