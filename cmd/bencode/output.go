package main

import (
	"errors"
	"io"
	"os"

	"golang.org/x/term"
)

var errBinaryTerminal = errors.New("refusing to write binary output to a terminal; redirect it or pass --force")

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// guardBinary stops binary output from garbling an interactive terminal.
func guardBinary(w io.Writer, force bool) error {
	if !force && isTerminal(w) {
		return errBinaryTerminal
	}
	return nil
}
