package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

// recordingExec records commands and replies with a fixed line.
type recordingExec struct {
	calls [][]string
	err   error
}

func (e *recordingExec) exec(_ context.Context, w io.Writer, args []string) error {
	e.calls = append(e.calls, args)
	if e.err != nil {
		return e.err
	}
	_, err := io.WriteString(w, "OK\n")
	return err
}

func TestREPL_Run_Exit(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exit command", "exit\n"},
		{"quit command", "QUIT\n"},
		{"EOF", ""},
		{"EOF without newline", "PING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &recordingExec{}
			r := New(strings.NewReader(tt.input), &bytes.Buffer{}, "test", e.exec)

			if err := r.Run(context.Background()); err != nil {
				t.Errorf("Run() returned error: %v", err)
			}
		})
	}
}

func TestREPL_Run_Executes(t *testing.T) {
	e := &recordingExec{}
	out := &bytes.Buffer{}
	r := New(strings.NewReader("\n\nSET k \"hello world\"\nGET k\nexit\nGET never\n"), out, "127.0.0.1:6379", e.exec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][]string{{"SET", "k", "hello world"}, {"GET", "k"}}
	if !reflect.DeepEqual(e.calls, want) {
		t.Errorf("calls = %v, want %v", e.calls, want)
	}
	if !strings.Contains(out.String(), "127.0.0.1:6379> ") {
		t.Errorf("output missing prompt: %q", out.String())
	}
	if r.History().Len() != 3 {
		t.Errorf("history len = %d, want 3", r.History().Len())
	}
}

func TestREPL_Run_ErrorsDoNotStop(t *testing.T) {
	e := &recordingExec{err: errors.New("connection reset")}
	out := &bytes.Buffer{}
	r := New(strings.NewReader("PING\n\"unclosed\nPING\n"), out, "t", e.exec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(e.calls) != 2 {
		t.Errorf("calls = %d, want 2", len(e.calls))
	}
	if strings.Count(out.String(), "(error)") != 3 {
		t.Errorf("output = %q, want three errors", out.String())
	}
}

func TestREPL_Help(t *testing.T) {
	e := &recordingExec{}
	out := &bytes.Buffer{}
	r := New(strings.NewReader("help\n"), out, "t", e.exec)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "ECHO, GET, SET") {
		t.Errorf("help output = %q", out.String())
	}
	if len(e.calls) != 0 {
		t.Error("help should not reach the server")
	}
}

func TestREPL_Run_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := &recordingExec{}
	r := New(strings.NewReader("PING\n"), &bytes.Buffer{}, "t", e.exec)
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(e.calls) != 0 {
		t.Error("cancelled REPL should not execute commands")
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"GET foo", []string{"GET", "foo"}, false},
		{"  SET   k   v  ", []string{"SET", "k", "v"}, false},
		{`SET k "a b"`, []string{"SET", "k", "a b"}, false},
		{`ECHO "line\nbreak"`, []string{"ECHO", "line\nbreak"}, false},
		{`ECHO "quote \" inside"`, []string{"ECHO", `quote " inside`}, false},
		{`ECHO ""`, []string{"ECHO", ""}, false},
		{`ECHO "\x00"`, []string{"ECHO", "\x00"}, false},
		{`ECHO "open`, nil, true},
		{`ECHO "\q"`, nil, true},
		{"   ", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitLine() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandList(t *testing.T) {
	c := NewCommandList()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"g", []string{"GET"}},
		{"E", []string{"ECHO", "exit"}},
		{"xyz", nil},
	}
	for _, tt := range tests {
		if got := c.Match(tt.prefix); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Match(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
	if len(c.Match("")) != 7 {
		t.Errorf("Match(\"\") = %v, want all commands", c.Match(""))
	}
}
