package organizer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Console wraps the operator's terminal so the interactive flows can be
// driven from tests.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// Ask prints a prompt and returns the trimmed reply, or def when the reply
// is empty. ok is false when the input is closed (EOF or read error with
// nothing buffered); callers must stop prompting then, since every further
// read would fail the same way.
func (c *Console) Ask(prompt, def string) (reply string, ok bool) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return def, false
	}
	if line == "" {
		return def, true
	}
	return line, true
}

// Confirm asks a y/n question. A closed input declines regardless of the
// default: with nobody answering, nothing irreversible should proceed.
func (c *Console) Confirm(prompt string, def bool) bool {
	answer, ok := c.Ask(prompt+confirmSuffix(def), "")
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	if answer == "" {
		return def
	}
	return answer == "y" || answer == "yes"
}

func confirmSuffix(def bool) string {
	if def {
		return " (y/n, default y): "
	}
	return " (y/n, default n): "
}
