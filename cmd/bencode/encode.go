package main

import (
	"github.com/oy3o/bencode"
	"github.com/oy3o/bencode/internal/cli"
	"github.com/oy3o/bencode/internal/compress"
	"github.com/oy3o/bencode/internal/convert"
	"github.com/oy3o/bencode/internal/log"
	"github.com/spf13/pflag"
)

func encodeCommand(e *env) *cli.Command {
	var (
		s           settings
		from        string
		compression string
		force       bool
	)

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert JSON, YAML or CBOR to bencode",
		Description: `Read one JSON (the default), YAML or CBOR value and write its canonical
bencoding to stdout.

Numbers must be integers; floats, booleans and null have no bencode
form and are rejected. An object whose only key is "$hex" becomes the
byte string spelled by its hex value, which is how "bencode decode"
writes byte strings that are not UTF-8. JSON input may contain
comments and trailing commas.

The output is binary. Use --compress to wrap it in zstd or lz4.`,
		Usage: "[flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Encode a JSON document",
				Command:     `echo '{"cow":"moo","spam":["a","b"]}' | bencode encode > out.benc`,
			},
			{
				Description: "Round-trip: decode then encode",
				Command:     "bencode decode a.torrent | bencode encode > b.torrent",
			},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			s.bind(fs)
			fs.StringVar(&from, "from", "json", "input format: json, yaml or cbor")
			fs.StringVar(&compression, "compress", "none", "output compression: none, zstd or lz4")
			fs.BoolVar(&force, "force", false, "write binary output even to a terminal")
			return fs
		},
		Run: func(args []string) error {
			if _, err := s.resolve(); err != nil {
				return err
			}
			inFormat, err := convert.ParseFormat(from)
			if err != nil {
				return err
			}
			algo, err := compress.ParseAlgorithm(compression)
			if err != nil {
				return err
			}
			if err := guardBinary(e.stdout, force); err != nil {
				return err
			}

			data, remainingArgs, err := readInput(e, args, s.hex)
			if err != nil {
				return err
			}
			if err := noPositional("encode", remainingArgs); err != nil {
				return err
			}

			v, err := convert.Read(data, inFormat)
			if err != nil {
				return err
			}
			out, err := bencode.Marshal(v)
			if err != nil {
				return err
			}
			out, err = compress.Compress(out, algo)
			if err != nil {
				return err
			}
			log.Debugw("encoded value", "kind", v.Kind().String(), "bytes", len(out), "compression", algo.String())

			_, err = e.stdout.Write(out)
			return err
		},
	}
}
