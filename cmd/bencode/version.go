package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/oy3o/bencode/internal/cli"
)

// version is overridden at link time with -ldflags "-X main.version=...".
var version = ""

func versionCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print the tool version",
		Run: func(args []string) error {
			_, err := fmt.Fprintf(e.stdout, "bencode %s (%s)\n", moduleVersion(), runtime.Version())
			return err
		},
	}
}

func moduleVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
