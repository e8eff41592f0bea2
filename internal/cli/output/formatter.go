package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yndnr/respkv/pkg/resp"
)

// Format represents the output format.
type Format string

const (
	FormatRaw  Format = "raw"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatRaw, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatRaw, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want raw, json or yaml)", s)
	}
}

// Formatter writes one reply.
type Formatter interface {
	Format(w io.Writer, reply resp.Message) error
}

// NewFormatter creates a formatter for the given format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &RawFormatter{}
	}
}

// Reply is the structured form of a reply used by the json and yaml
// formats.
type Reply struct {
	Type   string  `json:"type" yaml:"type"`
	Value  *string `json:"value,omitempty" yaml:"value,omitempty"`
	Null   bool    `json:"null,omitempty" yaml:"null,omitempty"`
	Elems  []Reply `json:"elems,omitempty" yaml:"elems,omitempty"`
	Binary bool    `json:"binary,omitempty" yaml:"binary,omitempty"`
}

// ToReply converts a message to its structured form.
func ToReply(m resp.Message) Reply {
	switch v := m.(type) {
	case resp.SimpleString:
		s := string(v)
		return Reply{Type: "simple", Value: &s}
	case resp.BulkString:
		if v.Null {
			return Reply{Type: "bulk", Null: true}
		}
		s := v.Value
		return Reply{Type: "bulk", Value: &s, Binary: !isPrintable(s)}
	case resp.Array:
		elems := make([]Reply, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = ToReply(e)
		}
		return Reply{Type: "array", Elems: elems}
	default:
		return Reply{Type: "unknown"}
	}
}

// RawFormatter prints replies the way redis-cli does.
type RawFormatter struct{}

// Format writes reply followed by a newline.
func (f *RawFormatter) Format(w io.Writer, reply resp.Message) error {
	_, err := io.WriteString(w, raw(reply, "")+"\n")
	return err
}

func raw(m resp.Message, indent string) string {
	switch v := m.(type) {
	case resp.SimpleString:
		return string(v)
	case resp.BulkString:
		if v.Null {
			return "(nil)"
		}
		return strconv.Quote(v.Value)
	case resp.Array:
		if len(v.Elems) == 0 {
			return "(empty array)"
		}
		var b strings.Builder
		for i, e := range v.Elems {
			if i > 0 {
				b.WriteString("\n" + indent)
			}
			fmt.Fprintf(&b, "%d) %s", i+1, raw(e, indent+"   "))
		}
		return b.String()
	default:
		return "(unknown)"
	}
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r == utf8.RuneError || (r < 0x20 && r != '\t' && r != '\n' && r != '\r') {
			return false
		}
	}
	return true
}
