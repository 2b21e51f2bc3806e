// Package cli is the small command tree the bencode tool is built from. Each
// command owns a pflag.FlagSet, and the first positional argument selects a
// subcommand.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is a node of the command tree. A command either has Subcommands or a
// Run function.
type Command struct {
	Name    string
	Summary string // one line, shown in the parent's command list

	// Description replaces Summary at the top of the command's own help.
	Description string

	// Usage is what follows the command path in the usage line, such as
	// "[flags] [file]". It defaults to "<command>" or "[flags]".
	Usage string

	Examples []Example

	// Flags builds the command's flag set. It is called once per Execute.
	Flags func() *pflag.FlagSet

	Subcommands []*Command
	Run         func(args []string) error

	// Output receives help text. A command without one uses its parent's, and
	// the root falls back to os.Stderr.
	Output io.Writer

	parent *Command
}

// Example is one entry of the Examples section of help.
type Example struct {
	Description string
	Command     string
}

// Execute runs the command selected by args.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(c.output())
		return nil
	}
	if len(c.Subcommands) > 0 {
		return c.dispatch(args)
	}

	rest, err := c.parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		c.PrintHelp(c.output())
		return nil
	}
	if err != nil {
		return err
	}
	return c.Run(rest)
}

func (c *Command) dispatch(args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		c.PrintHelp(c.output())
		return errors.New("subcommand required")
	}

	name := args[0]
	for _, sub := range c.Subcommands {
		if sub.Name == name {
			sub.parent = c
			return sub.Execute(args[1:])
		}
	}

	msg := fmt.Sprintf("unknown command %q", name)
	if match := suggestCommand(name, c.Subcommands); match != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", match)
	}
	return c.usageError(msg)
}

func (c *Command) parseFlags(args []string) ([]string, error) {
	if c.Flags == nil {
		return args, nil
	}

	fs := c.Flags()
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		msg := err.Error()
		if strings.Contains(msg, "unknown") {
			if match := suggestFlag(args, fs); match != "" {
				msg += fmt.Sprintf(" (did you mean %s?)", match)
			}
		}
		return nil, c.usageError(msg)
	}
	return fs.Args(), nil
}

func (c *Command) usageError(msg string) error {
	return fmt.Errorf("%s\n\nRun '%s --help' for usage.", msg, c.path())
}

// PrintHelp writes the command's help text to w.
func (c *Command) PrintHelp(w io.Writer) {
	about := c.Description
	if about == "" {
		about = c.Summary
	}
	fmt.Fprintf(w, "%s\n\nUsage:\n  %s %s\n", about, c.path(), c.usage())

	if len(c.Subcommands) > 0 {
		fmt.Fprintln(w, "\nCommands:")
		tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		tw.Flush()
	}

	if c.Flags != nil {
		if usages := c.Flags().FlagUsages(); usages != "" {
			fmt.Fprintf(w, "\nFlags:\n%s", usages)
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintln(w, "\nExamples:")
		for _, ex := range c.Examples {
			fmt.Fprintf(w, "  # %s\n  %s\n", ex.Description, ex.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for details on a command.\n", c.path())
	}
}

func (c *Command) usage() string {
	switch {
	case c.Usage != "":
		return c.Usage
	case len(c.Subcommands) > 0:
		return "<command>"
	}
	return "[flags]"
}

func (c *Command) output() io.Writer {
	for cmd := c; cmd != nil; cmd = cmd.parent {
		if cmd.Output != nil {
			return cmd.Output
		}
	}
	return os.Stderr
}

// path is the command as typed, e.g. "bencode decode".
func (c *Command) path() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.path() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}
