package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Executor sends one command and writes its reply to w.
type Executor func(ctx context.Context, w io.Writer, args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      Executor
	commands  *CommandList
	history   *History
}

// New creates a new REPL instance.
func New(in io.Reader, out io.Writer, prompt string, exec Executor) *REPL {
	return &REPL{
		input:     in,
		output:    out,
		prompt:    prompt,
		exec:      exec,
		commands:  NewCommandList(),
		history:   NewHistory(),
	}
}

// WithHistory replaces the history store.
func (r *REPL) WithHistory(h *History) *REPL {
	r.history = h
	return r
}

// History returns the history store.
func (r *REPL) History() *History {
	return r.history
}

// Run reads lines until EOF, exit or quit, or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	reader := bufio.NewReader(r.input)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(r.output, r.prompt+"> ")

		line, err := reader.ReadString('\n')
		if err == io.EOF && line == "" {
			fmt.Fprintln(r.output)
			return nil
		}
		if err != nil && err != io.EOF {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.history.Add(line)

		if err := r.execute(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintf(r.output, "(error) %v\n", err)
		}
	}
}

var errExit = errors.New("exit")

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := SplitLine(line)
	if err != nil {
		return err
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return errExit
	case "help":
		fmt.Fprintln(r.output, "Commands: "+strings.Join(r.commands.Match(""), ", "))
		return nil
	}

	return r.exec(ctx, r.output, args)
}

// SplitLine splits an input line into command words. Double-quoted words
// may contain spaces and Go escape sequences such as \n and \x00.
func SplitLine(line string) ([]string, error) {
	var args []string
	i := 0
	for {
		for i < len(line) && unicode.IsSpace(rune(line[i])) {
			i++
		}
		if i >= len(line) {
			break
		}

		if line[i] == '"' {
			end := closingQuote(line, i)
			if end < 0 {
				return nil, errors.New("unbalanced quotes")
			}
			word, err := strconv.Unquote(line[i : end+1])
			if err != nil {
				return nil, fmt.Errorf("invalid quoted word %s: %w", line[i:end+1], err)
			}
			args = append(args, word)
			i = end + 1
			continue
		}

		start := i
		for i < len(line) && !unicode.IsSpace(rune(line[i])) {
			i++
		}
		args = append(args, line[start:i])
	}

	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}

// closingQuote returns the index of the quote closing the one at start.
func closingQuote(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
