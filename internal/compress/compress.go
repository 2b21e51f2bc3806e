// Package compress recognizes compressed input by its leading magic bytes and
// unwraps it, so "bencode decode" reads a .torrent.zst or .lz4 file directly.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/oy3o/bencode"
	"github.com/pierrec/lz4/v4"
)

// Algorithm identifies the compression wrapped around an input stream.
type Algorithm uint8

const (
	None Algorithm = iota
	Zstd
	LZ4
)

// String returns the human-readable name of an algorithm.
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", a)
	}
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

const magicLen = 4

// Detect peeks at the first bytes of r without consuming them.
func Detect(r *bencode.PeekableReader) (Algorithm, error) {
	head, err := r.Peek(magicLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return None, err
	}
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return Zstd, nil
	case bytes.HasPrefix(head, lz4Magic):
		return LZ4, nil
	}
	return None, nil
}

// NewReader returns a reader of the decompressed contents of r, or r itself when
// it is not compressed. The returned closer releases decoder resources.
func NewReader(r io.Reader) (io.Reader, Algorithm, func(), error) {
	pr := bencode.PeekReader(r)
	algo, err := Detect(pr)
	if err != nil {
		return nil, None, nil, err
	}

	switch algo {
	case Zstd:
		dec, err := zstd.NewReader(pr)
		if err != nil {
			return nil, algo, nil, fmt.Errorf("zstd: %w", err)
		}
		return dec, algo, dec.Close, nil
	case LZ4:
		return lz4.NewReader(pr), algo, func() {}, nil
	}
	return pr, None, func() {}, nil
}

// Compress wraps data with the given algorithm. It is the inverse of NewReader.
func Compress(data []byte, algo Algorithm) ([]byte, error) {
	var buf bytes.Buffer
	switch algo {
	case None:
		return data, nil
	case Zstd:
		enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return closeWriter(enc, &buf, data)
	case LZ4:
		return closeWriter(lz4.NewWriter(&buf), &buf, data)
	}
	return nil, fmt.Errorf("unsupported compression: %s", algo)
}

func closeWriter(w io.WriteCloser, buf *bytes.Buffer, data []byte) ([]byte, error) {
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseAlgorithm parses an algorithm name given on the command line.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "none":
		return None, nil
	case "zstd":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	}
	return None, fmt.Errorf("unknown compression %q", name)
}
