// Package convert maps bencode values to and from the generic trees that the
// JSON, YAML and CBOR codecs work with.
//
// Bencode byte strings are raw bytes. Those that are valid UTF-8 travel as text;
// the rest become a one-key object {"$hex": "..."} in text formats, and a CBOR
// byte string in CBOR. The reverse direction accepts both forms.
//
// A dictionary key made of one or more '$' followed by "hex" gains one more
// '$' on the way out and loses it on the way back, so a real "$hex" key never
// reads as a byte string.
package convert

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/oy3o/bencode"
)

// HexKey is the key of the object that carries a non-UTF-8 byte string.
const HexKey = "$hex"

// ErrUnsupported is returned for input values bencode has no form for: floats,
// booleans and null.
var ErrUnsupported = errors.New("convert: value has no bencode form")

// ToTree converts v into nested map[string]any, []any, int64, string and, when
// binary is set, []byte values.
func ToTree(v bencode.Value, binary bool) any {
	switch v := v.(type) {
	case bencode.Integer:
		return int64(v)
	case bencode.ByteString:
		if utf8.Valid(v) {
			return string(v)
		}
		if binary {
			return []byte(v)
		}
		return map[string]any{HexKey: hex.EncodeToString(v)}
	case bencode.List:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = ToTree(item, binary)
		}
		return out
	case bencode.Dictionary:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[escapeKey(k)] = ToTree(item, binary)
		}
		return out
	}
	return nil
}

// FromTree converts a tree produced by a JSON, YAML or CBOR decoder into a Value.
// Errors name the offending position as a path such as $.info.files[3].
func FromTree(v any) (bencode.Value, error) {
	return fromTree(v, "$")
}

func fromTree(v any, path string) (bencode.Value, error) {
	switch v := v.(type) {
	case string:
		return bencode.String(v), nil
	case []byte:
		return bencode.Bytes(v), nil
	case int:
		return bencode.Int(v), nil
	case int64:
		return bencode.Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("%s: %d overflows a bencode integer", path, v)
		}
		return bencode.Int(v), nil
	case interface{ Int64() (int64, error) }: // json.Number
		n, err := v.Int64()
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", path, ErrUnsupported, v)
		}
		return bencode.Integer(n), nil
	case []any:
		list := make(bencode.List, 0, len(v))
		for i, item := range v {
			value, err := fromTree(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		return list, nil
	case map[string]any:
		if raw, ok := hexObject(v); ok {
			b, err := hex.DecodeString(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %s: %w", path, HexKey, err)
			}
			return bencode.ByteString(b), nil
		}
		dict := make(bencode.Dictionary, len(v))
		for k, item := range v {
			value, err := fromTree(item, path+"."+k)
			if err != nil {
				return nil, err
			}
			dict[unescapeKey(k)] = value
		}
		return dict, nil
	case map[any]any:
		dict := make(map[string]any, len(v))
		for k, item := range v {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("%s: dictionary key %v is not a string", path, k)
			}
			dict[key] = item
		}
		return fromTree(dict, path)
	}
	return nil, fmt.Errorf("%s: %w: %T", path, ErrUnsupported, v)
}

func hexObject(m map[string]any) (string, bool) {
	if len(m) != 1 {
		return "", false
	}
	raw, ok := m[HexKey].(string)
	return raw, ok
}

// escapedHex reports whether k is "$hex" behind at least one extra '$'.
func escapedHex(k string) bool {
	rest := strings.TrimLeft(k, "$")
	return rest == "hex" && len(k)-len(rest) >= 2
}

func escapeKey(k string) string {
	if k == HexKey || escapedHex(k) {
		return "$" + k
	}
	return k
}

func unescapeKey(k string) string {
	if escapedHex(k) {
		return k[1:]
	}
	return k
}
