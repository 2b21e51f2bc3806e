package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/oy3o/bencode"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format names a tree serialization the tool converts bencode to or from.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CBOR Format = "cbor"
)

// ParseFormat validates a format name given on the command line.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case JSON, YAML, CBOR:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, yaml or cbor)", name)
}

// Binary reports whether the format carries raw bytes rather than text.
func (f Format) Binary() bool { return f == CBOR }

var (
	cborEnc cbor.EncMode
	cborDec cbor.DecMode
)

func init() {
	var err error
	// Core Deterministic Encoding sorts map keys, so equal values give equal bytes
	// just as they do in bencode.
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("convert: CBOR encoder initialization failed: " + err.Error())
	}
	cborDec, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("convert: CBOR decoder initialization failed: " + err.Error())
	}
}

// Write serializes v to w. compact only affects JSON.
func Write(w io.Writer, v bencode.Value, format Format, compact bool) error {
	return WriteTree(w, ToTree(v, format.Binary()), format, compact)
}

// WriteTree serializes a tree built by ToTree, or a slice of them.
func WriteTree(w io.Writer, tree any, format Format, compact bool) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		if !compact {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return enc.Close()
	case CBOR:
		if err := cborEnc.NewEncoder(w).Encode(tree); err != nil {
			return fmt.Errorf("encode CBOR: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

// Read parses one value of the given format. JSON input may carry comments and
// trailing commas.
func Read(data []byte, format Format) (bencode.Value, error) {
	if len(data) == 0 || format != CBOR && len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty input: expected %s data", format)
	}

	var tree any
	switch format {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.UseNumber()
		if err := dec.Decode(&tree); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, errors.New("decode JSON: unexpected data after the top-level value")
		}
	case YAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	case CBOR:
		rest, err := cborDec.UnmarshalFirst(data, &tree)
		if err != nil {
			return nil, fmt.Errorf("decode CBOR: %w", err)
		}
		if len(rest) > 0 {
			return nil, fmt.Errorf("decode CBOR: %d bytes after the top-level value", len(rest))
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return FromTree(tree)
}
