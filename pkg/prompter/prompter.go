package prompter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when a required answer is blank
var ErrEmptyInput = errors.New("input cannot be empty")

// Prompter reads answers from In and writes prompts to Out
type Prompter struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// New returns a prompter on the given streams
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{In: in, Out: out, reader: bufio.NewReader(in)}
}

var std = New(os.Stdin, os.Stderr)

func (p *Prompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// String prompts for a line of input
func (p *Prompter) String(label string) (string, error) {
	fmt.Fprint(p.Out, label)
	return p.readLine()
}

// Required prompts until a non-blank answer or an error
func (p *Prompter) Required(label string) (string, error) {
	s, err := p.String(label)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", ErrEmptyInput
	}
	return s, nil
}

// Secret prompts without echo when In is a terminal
func (p *Prompter) Secret(label string) (string, error) {
	fmt.Fprint(p.Out, label)

	if f, ok := p.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.Out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return p.readLine()
}

// Confirm prompts for yes/no
func (p *Prompter) Confirm(label string) (bool, error) {
	fmt.Fprint(p.Out, label+" (y/n) ")
	s, err := p.readLine()
	if err != nil {
		return false, err
	}
	s = strings.ToLower(s)
	return s == "y" || s == "yes", nil
}

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	return std.String(label)
}

// PromptSecret prompts user for a token or password (hidden input)
func PromptSecret(label string) (string, error) {
	return std.Secret(label)
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	return std.Confirm(label)
}
