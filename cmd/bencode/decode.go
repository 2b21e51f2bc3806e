package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/oy3o/bencode"
	"github.com/oy3o/bencode/internal/cli"
	"github.com/oy3o/bencode/internal/convert"
	"github.com/oy3o/bencode/internal/log"
	"github.com/spf13/pflag"
)

func decodeCommand(e *env) *cli.Command {
	var (
		s       settings
		format  string
		compact bool
		all     bool
		force   bool
	)

	return &cli.Command{
		Name:    "decode",
		Summary: "Convert bencode to JSON, YAML or CBOR",
		Description: `Decode one bencoded value and write it as JSON (the default), YAML or
CBOR.

Byte strings that are valid UTF-8 are written as strings. Other byte
strings become {"$hex": "..."} in JSON and YAML, and CBOR byte strings in
CBOR. Dictionaries come out with sorted keys. A key that is literally
"$hex" is written as "$$hex" so that encode reads it back as a key.

With --all, the input is a sequence of concatenated values and the
output is an array of them. Without it, anything after the first value
is an error.`,
		Usage: "[flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Show a torrent as JSON",
				Command:     "bencode decode ubuntu.torrent",
			},
			{
				Description: "Decode a DHT message copied from a packet capture as hex",
				Command:     "echo '64 31 3a 79 31 3a 71 65' | bencode decode --hex",
			},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("decode", pflag.ContinueOnError)
			s.bind(fs)
			fs.StringVarP(&format, "format", "f", "", "output format: json, yaml or cbor")
			fs.BoolVarP(&compact, "compact", "c", false, "compact JSON output")
			fs.BoolVarP(&all, "all", "a", false, "decode a sequence of values into an array")
			fs.BoolVar(&force, "force", false, "write binary output even to a terminal")
			return fs
		},
		Run: func(args []string) error {
			cfg, err := s.resolve()
			if err != nil {
				return err
			}
			if format != "" {
				cfg.Output.Format = format
			}
			if compact {
				cfg.Output.Compact = true
			}
			outFormat, err := convert.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}
			if outFormat.Binary() {
				if err := guardBinary(e.stdout, force); err != nil {
					return err
				}
			}

			in, remainingArgs, err := openInput(e, args, s.hex)
			if err != nil {
				return err
			}
			defer in.Close()
			if err := noPositional("decode", remainingArgs); err != nil {
				return err
			}

			dec := bencode.NewDecoder(in, decoderOptions(cfg))
			if all {
				trees, err := decodeAll(dec, outFormat.Binary())
				if err != nil {
					return err
				}
				log.Debugw("decoded sequence", "values", len(trees), "bytes", dec.InputOffset())
				return convert.WriteTree(e.stdout, trees, outFormat, cfg.Output.Compact)
			}

			v, err := decodeOne(dec)
			if err != nil {
				return err
			}
			log.Debugw("decoded value", "kind", v.Kind().String(), "bytes", dec.InputOffset())
			return convert.Write(e.stdout, v, outFormat, cfg.Output.Compact)
		},
	}
}

// decodeOne decodes exactly one value and rejects anything after it.
func decodeOne(dec *bencode.Decoder) (bencode.Value, error) {
	v, err := dec.Decode()
	if isEOF(err) {
		return nil, fmt.Errorf("empty input: expected bencode data")
	}
	if err != nil {
		return nil, err
	}
	end := dec.InputOffset()
	if _, err := dec.Decode(); !isEOF(err) {
		return nil, &bencode.SyntaxError{Offset: end, Err: bencode.ErrTrailingData}
	}
	return v, nil
}

// decodeAll decodes values until the input ends cleanly.
func decodeAll(dec *bencode.Decoder, binary bool) ([]any, error) {
	trees := []any{}
	for {
		v, err := dec.Decode()
		if isEOF(err) {
			return trees, nil
		}
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", len(trees), err)
		}
		trees = append(trees, convert.ToTree(v, binary))
	}
}

// isEOF reports a clean end of input between values.
func isEOF(err error) bool { return errors.Is(err, io.EOF) }
