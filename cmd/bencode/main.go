// Command bencode converts, checks and hashes bencoded data such as .torrent
// files and DHT messages.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/oy3o/bencode/internal/cli"
	"github.com/oy3o/bencode/internal/log"
)

// env holds the process streams so commands can be driven from tests.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func rootCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "bencode",
		Summary: "Convert, check and hash bencoded data",
		Description: `Tools for working with bencode, the encoding of BitTorrent metainfo
files and DHT messages.

Every command reads one input: the file named by the last argument, or
stdin. zstd and lz4 compressed input is recognized and unpacked. With
--hex, the input is hex text and whitespace in it is ignored.`,
		Output: e.stderr,
		Subcommands: []*cli.Command{
			decodeCommand(e),
			encodeCommand(e),
			fmtCommand(e),
			checkCommand(e),
			digestCommand(e),
			versionCommand(e),
		},
		Examples: []cli.Example{
			{
				Description: "Show a torrent as JSON",
				Command:     "bencode decode ubuntu.torrent",
			},
			{
				Description: "Compute the infohash of a torrent",
				Command:     "bencode digest --algo sha1 --key info ubuntu.torrent",
			},
		},
	}
}

func main() {
	e := &env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	err := rootCommand(e).Execute(os.Args[1:])
	log.Sync()
	if err != nil {
		var exitErr interface{ ExitCode() int }
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
