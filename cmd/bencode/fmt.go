package main

import (
	"github.com/oy3o/bencode"
	"github.com/oy3o/bencode/internal/cli"
	"github.com/oy3o/bencode/internal/log"
	"github.com/spf13/pflag"
)

func fmtCommand(e *env) *cli.Command {
	var (
		s     settings
		all   bool
		force bool
	)

	return &cli.Command{
		Name:    "fmt",
		Summary: "Rewrite bencode in canonical form",
		Description: `Decode the input and encode it again. The result has sorted dictionary
keys and no leading zeros; duplicate keys keep their last value.

With --all, every value of a concatenated sequence is rewritten.`,
		Usage: "[flags] [file]",
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("fmt", pflag.ContinueOnError)
			s.bind(fs)
			fs.BoolVarP(&all, "all", "a", false, "rewrite a sequence of values")
			fs.BoolVar(&force, "force", false, "write binary output even to a terminal")
			return fs
		},
		Run: func(args []string) error {
			cfg, err := s.resolve()
			if err != nil {
				return err
			}
			if err := guardBinary(e.stdout, force); err != nil {
				return err
			}

			in, remainingArgs, err := openInput(e, args, s.hex)
			if err != nil {
				return err
			}
			defer in.Close()
			if err := noPositional("fmt", remainingArgs); err != nil {
				return err
			}

			dec := bencode.NewDecoder(in, decoderOptions(cfg))
			enc := bencode.NewEncoder(e.stdout)
			if !all {
				v, err := decodeOne(dec)
				if err != nil {
					return err
				}
				return enc.Encode(v)
			}

			count := 0
			for {
				v, err := dec.Decode()
				if err != nil {
					if isEOF(err) {
						break
					}
					return err
				}
				if err := enc.Encode(v); err != nil {
					return err
				}
				count++
			}
			log.Debugw("rewrote sequence", "values", count, "in", dec.InputOffset(), "out", enc.OutputOffset())
			return nil
		},
	}
}
