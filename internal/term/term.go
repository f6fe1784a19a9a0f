// Package term implements the interactive terminal prompter used by
// the migration pipeline.
package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal prompts on stdout and reads responses from stdin. The seed
// phrase prompt never echoes input.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func New() *Terminal {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
	}
}

// ReadSecret reads a line with terminal echo disabled.
func (t *Terminal) ReadSecret(prompt string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	if len(secret) == 0 {
		return "", errors.New("empty recovery phrase")
	}
	return string(secret), nil
}

// Confirm prints the prompt and returns the entered line verbatim
// (minus surrounding whitespace).
func (t *Terminal) Confirm(prompt string) (string, error) {
	fmt.Fprintf(t.out, "%s? ", prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("read confirmation: %w", err)
	}
	return strings.TrimSpace(line), nil
}
