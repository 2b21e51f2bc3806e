package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra error
// message. The command is expected to have already written its own output, as
// "bencode check" does for non-canonical input.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}
