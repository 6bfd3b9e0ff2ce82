// Package review is the optional pre-execution gate: with --review, the
// validated script is shown and the user approves or discards it before
// the executor runs.
package review

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

type Result struct {
	Approved   bool
	UserAction string
}

func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Ask shows the script and waits for a verdict. Without a terminal there
// is no one to ask, so the script is discarded.
func Ask(script string) Result {
	if !IsInteractive() {
		return Result{Approved: false, UserAction: "auto_deny_non_interactive"}
	}
	return ask(script, os.Stdin, os.Stderr)
}

func ask(script string, in io.Reader, out io.Writer) Result {
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Generated script (passed validation):")
	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintln(out, strings.TrimRight(script, "\n"))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "  [r] Run this script")
	fmt.Fprintln(out, "  [d] Discard it")
	fmt.Fprintln(out, "")

	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "Your choice [r/d]: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return Result{Approved: false, UserAction: "error_reading_input"}
		}

		switch strings.TrimSpace(strings.ToLower(input)) {
		case "r", "run", "yes", "y":
			return Result{Approved: true, UserAction: "run_once"}
		case "d", "discard", "no", "n":
			return Result{Approved: false, UserAction: "discard"}
		default:
			fmt.Fprintln(out, "Enter 'r' to run or 'd' to discard.")
		}
	}
}
