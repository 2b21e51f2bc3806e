package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/oy3o/bencode"
	"github.com/oy3o/bencode/internal/compress"
	"github.com/oy3o/bencode/internal/log"
)

const inputBufferSize = 64 * 1024

// input is an opened input stream with compression already removed.
type input struct {
	*bencode.Reader
	name  string
	close func()
}

func (in *input) Close() { in.close() }

// openInput opens the file named by the last element of args, if it names a
// regular file, or stdin otherwise. It returns the args with the path removed.
func openInput(e *env, args []string, hexMode bool) (*input, []string, error) {
	var (
		r       io.Reader = e.stdin
		name              = "stdin"
		closers []func()
	)
	remainingArgs := args

	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			f, err := os.Open(candidate)
			if err != nil {
				return nil, nil, fmt.Errorf("open %s: %w", candidate, err)
			}
			r, name = f, candidate
			closers = append(closers, func() { f.Close() })
			remainingArgs = args[:length-1]
		}
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if hexMode {
		data, err := io.ReadAll(r)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("read %s: %w", name, err)
		}
		decoded, err := decodeHexInput(data)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		r = bytes.NewReader(decoded)
	}

	unpacked, algo, done, err := compress.NewReader(r)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	closers = append(closers, done)
	log.Debugw("input opened", "name", name, "hex", hexMode, "compression", algo.String())

	// The tool owns the stream, so the decoder may read ahead.
	buffered, err := bencode.NewReaderSize(unpacked, inputBufferSize)
	if err != nil {
		closeAll()
		return nil, nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &input{Reader: buffered, name: name, close: closeAll}, remainingArgs, nil
}

// readInput is openInput followed by reading everything.
func readInput(e *env, args []string, hexMode bool) ([]byte, []string, error) {
	in, remainingArgs, err := openInput(e, args, hexMode)
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", in.name, err)
	}
	return data, remainingArgs, nil
}

// decodeHexInput strips whitespace from hex text and decodes it. Whitespace
// between digit pairs is allowed ("64 65" or "6465").
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}

// noPositional rejects arguments left over after the input path.
func noPositional(command string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%s takes no positional arguments besides an optional file path, got %q", command, args[0])
	}
	return nil
}
