// Package prompt reads secrets and answers from the terminal.
package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Sajjon/svar"
	"golang.org/x/term"
)

// SecretEnvVar holds the secret to seal when set.
const SecretEnvVar = "SVAR_SECRET"

// ErrMismatch is returned when a confirmation does not match.
var ErrMismatch = errors.New("inputs do not match")

// Prompter asks questions on Out and reads the replies from In. Replies are
// read without echo when In is a terminal and line by line otherwise.
type Prompter struct {
	In     io.Reader
	Out    io.Writer
	Getenv func(string) string

	lines *bufio.Reader
}

// New returns a Prompter on stdin and stderr.
func New() *Prompter {
	return &Prompter{In: os.Stdin, Out: os.Stderr, Getenv: os.Getenv}
}

// Secret returns the secret to seal, from SecretEnvVar if set and otherwise
// read twice from the terminal. The caller should wipe the result.
func (p *Prompter) Secret(prompt, confirmPrompt string) ([]byte, error) {
	if p.Getenv != nil {
		if env := p.Getenv(SecretEnvVar); env != "" {
			return []byte(env), nil
		}
	}

	secret, err := p.readHidden(prompt)
	if err != nil {
		return nil, err
	}

	confirm, err := p.readHidden(confirmPrompt)
	if err != nil {
		svar.Wipe(secret)
		return nil, err
	}
	defer svar.Wipe(confirm)

	if !bytes.Equal(secret, confirm) {
		svar.Wipe(secret)
		return nil, ErrMismatch
	}

	return secret, nil
}

// Answer asks q and returns the reply. An empty reply yields ok == false.
func (p *Prompter) Answer(q svar.Question, index, total int) (a svar.Answer, ok bool, err error) {
	fmt.Fprintf(p.Out, "\nQuestion %d/%d: %s\n", index+1, total, q.Text)
	if q.Format.Structure != "" {
		fmt.Fprintf(p.Out, "Expected format: %q", q.Format.Structure)
		if q.Format.Example != "" {
			fmt.Fprintf(p.Out, ", e.g. %q", q.Format.Example)
		}
		fmt.Fprintln(p.Out)
	}
	if len(q.Format.Unsafe) > 0 {
		fmt.Fprintf(p.Out, "Avoid: %s\n", strings.Join(q.Format.Unsafe, "; "))
	}

	label := "Answer: "
	if q.Kind == svar.KindStructured {
		label = fmt.Sprintf("Selections (%d, separated by spaces): ", len(q.Format.Levels))
	}

	reply, err := p.readHidden(label)
	if err != nil {
		return svar.Answer{}, false, err
	}
	defer svar.Wipe(reply)

	text := strings.TrimSpace(string(reply))
	if text == "" {
		return svar.Answer{}, false, nil
	}

	if q.Kind == svar.KindStructured {
		indices, err := ParseSelections(text)
		if err != nil {
			return svar.Answer{}, false, err
		}
		return svar.Structured(indices...), true, nil
	}

	return svar.Freeform(text), true, nil
}

// ParseSelections parses structured selection indices separated by white
// space or commas.
func ParseSelections(s string) ([]uint16, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	indices := make([]uint16, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q: %w", f, err)
		}
		indices[i] = uint16(v)
	}

	return indices, nil
}

func (p *Prompter) readHidden(prompt string) ([]byte, error) {
	fmt.Fprint(p.Out, prompt)

	if f, ok := p.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.Out)
		return b, err
	}

	if p.lines == nil {
		p.lines = bufio.NewReader(p.In)
	}
	line, err := p.lines.ReadBytes('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return bytes.TrimRight(line, "\r\n"), nil
}
