package main

import (
	"fmt"

	"github.com/oy3o/bencode"
	"github.com/oy3o/bencode/internal/cli"
	"github.com/oy3o/bencode/internal/log"
	"github.com/spf13/pflag"
)

func checkCommand(e *env) *cli.Command {
	var s settings

	return &cli.Command{
		Name:    "check",
		Summary: "Verify that input is canonical bencode",
		Description: `Decode the input in strict mode and report whether it is canonical:
exactly one value, dictionary keys sorted and unique, no leading zeros
and no "-0". Canonical input is what "bencode fmt" would write.

Exits 0 when the input is canonical and 1 otherwise.`,
		Usage: "[flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Check a torrent before computing its infohash",
				Command:     "bencode check ubuntu.torrent",
			},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("check", pflag.ContinueOnError)
			s.bind(fs)
			return fs
		},
		Run: func(args []string) error {
			s.strict = true
			cfg, err := s.resolve()
			if err != nil {
				return err
			}

			in, remainingArgs, err := openInput(e, args, s.hex)
			if err != nil {
				return err
			}
			defer in.Close()
			if err := noPositional("check", remainingArgs); err != nil {
				return err
			}

			dec := bencode.NewDecoder(in, decoderOptions(cfg))
			v, err := decodeOne(dec)
			if err != nil {
				log.Debugw("check failed", "name", in.name, "error", err)
				fmt.Fprintf(e.stdout, "%s: %v\n", in.name, err)
				return &cli.ExitError{Code: 1}
			}
			fmt.Fprintf(e.stdout, "%s: canonical %s, %d bytes\n", in.name, v.Kind(), dec.InputOffset())
			return nil
		},
	}
}
