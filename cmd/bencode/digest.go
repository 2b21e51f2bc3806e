package main

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"github.com/oy3o/bencode"
	"github.com/oy3o/bencode/internal/cli"
	"github.com/spf13/pflag"
	"github.com/zeebo/blake3"
)

func digestCommand(e *env) *cli.Command {
	var (
		s    settings
		algo string
		key  string
	)

	return &cli.Command{
		Name:    "digest",
		Summary: "Hash the canonical encoding of a value",
		Description: `Hash the canonical encoding of the input, or of the value found at
--key, and print the digest in hex.

--key is a dot-separated path through dictionaries; numeric segments
index into lists. With --algo sha1 and --key info, the digest of a
canonical torrent is its BitTorrent v1 infohash. Run "bencode check"
first: the hash covers the canonical form, which differs from the file
bytes when the file is not canonical.`,
		Usage: "[flags] [file]",
		Examples: []cli.Example{
			{
				Description: "Infohash of a torrent",
				Command:     "bencode digest --algo sha1 --key info ubuntu.torrent",
			},
			{
				Description: "BLAKE3 of the path of the third file",
				Command:     "bencode digest --key info.files.2.path multi.torrent",
			},
		},
		Flags: func() *pflag.FlagSet {
			fs := pflag.NewFlagSet("digest", pflag.ContinueOnError)
			s.bind(fs)
			fs.StringVar(&algo, "algo", "blake3", "hash algorithm: blake3 or sha1")
			fs.StringVarP(&key, "key", "k", "", "dot-separated path of the value to hash")
			return fs
		},
		Run: func(args []string) error {
			cfg, err := s.resolve()
			if err != nil {
				return err
			}
			h, err := newHash(algo)
			if err != nil {
				return err
			}

			in, remainingArgs, err := openInput(e, args, s.hex)
			if err != nil {
				return err
			}
			defer in.Close()
			if err := noPositional("digest", remainingArgs); err != nil {
				return err
			}

			v, err := decodeOne(bencode.NewDecoder(in, decoderOptions(cfg)))
			if err != nil {
				return err
			}
			if v, err = lookup(v, key); err != nil {
				return err
			}

			if err := bencode.NewEncoder(h).Encode(v); err != nil {
				return err
			}
			_, err = fmt.Fprintln(e.stdout, hex.EncodeToString(h.Sum(nil)))
			return err
		},
	}
}

func newHash(algo string) (hash.Hash, error) {
	switch algo {
	case "blake3":
		return blake3.New(), nil
	case "sha1":
		return sha1.New(), nil
	}
	return nil, fmt.Errorf("unknown hash algorithm %q (want blake3 or sha1)", algo)
}

// lookup follows a dot-separated path from v. An empty path returns v.
func lookup(v bencode.Value, path string) (bencode.Value, error) {
	if path == "" {
		return v, nil
	}
	walked := ""
	for _, segment := range strings.Split(path, ".") {
		switch container := v.(type) {
		case bencode.Dictionary:
			next, ok := container[segment]
			if !ok {
				return nil, fmt.Errorf("key %q not found in %s", segment, describe(walked))
			}
			v = next
		case bencode.List:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(container) {
				return nil, fmt.Errorf("index %q out of range for list of %d at %s", segment, len(container), describe(walked))
			}
			v = container[index]
		default:
			return nil, fmt.Errorf("%s is not a list or dictionary (found %s)", describe(walked), v.Kind())
		}
		if walked == "" {
			walked = segment
		} else {
			walked += "." + segment
		}
	}
	return v, nil
}

func describe(path string) string {
	if path == "" {
		return "the top-level value"
	}
	return strconv.Quote(path)
}
