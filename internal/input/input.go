// Package input contains identifiers used in getting line-oriented
// command input from CLI tools. Grounded on dekarrin-tunaq's
// internal/input/input.go, generalized from that package's
// TunaQuest-command-specific DirectCommandReader/InteractiveCommandReader
// pair into a single Reader interface any REPL-driving cmd/ package can
// use, with the direct-vs-readline choice folded into one constructor.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// Reader reads one line of input at a time from some source, abstracting
// over direct stream reads and GNU-readline-backed interactive input.
type Reader interface {
	// ReadCommand blocks until a non-blank line is available, returning
	// it with surrounding whitespace trimmed. At end of input it returns
	// ("", io.EOF).
	ReadCommand() (string, error)

	// Close releases any resources (such as readline's terminal state)
	// held by the Reader.
	Close() error
}

// NewReader picks a Reader appropriate for r: a readline-backed
// interactive reader with the given prompt if r is os.Stdin and direct
// reading was not forced, otherwise a plain direct reader over r.
func NewReader(r io.Reader, forceDirect bool, prompt string) (Reader, error) {
	if !forceDirect && r == os.Stdin {
		return newInteractiveReader(prompt)
	}
	return newDirectReader(r), nil
}

type directReader struct {
	r *bufio.Reader
}

func newDirectReader(r io.Reader) *directReader {
	return &directReader{r: bufio.NewReader(r)}
}

func (dr *directReader) Close() error { return nil }

func (dr *directReader) ReadCommand() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
		if line != "" {
			break
		}
		if err == io.EOF {
			return "", io.EOF
		}
	}
	return line, nil
}

type interactiveReader struct {
	rl *readline.Instance
}

func newInteractiveReader(prompt string) (*interactiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &interactiveReader{rl: rl}, nil
}

func (ir *interactiveReader) Close() error { return ir.rl.Close() }

func (ir *interactiveReader) ReadCommand() (string, error) {
	var line string
	var err error
	for line == "" {
		line, err = ir.rl.Readline()
		if err != nil {
			return "", err
		}
		line = strings.TrimSpace(line)
	}
	return line, nil
}
