package resp

import (
	"strconv"
	"strings"
)

// Message is one protocol value. The concrete types are Array, BulkString
// and SimpleString.
type Message interface {
	// String renders the message for logs and test failures.
	String() string

	isMessage()
}

// Array is an ordered sequence of messages. Each element owns its children.
type Array struct {
	Elems []Message
}

// BulkString is a length-prefixed payload. A Null bulk string marks absence
// (for example a missing key) and has no payload.
type BulkString struct {
	Value string
	Null  bool
}

// SimpleString is a single-line status reply such as "+PONG\r\n".
// It is only ever produced for replies; Parse does not accept it.
type SimpleString string

func (Array) isMessage()        {}
func (BulkString) isMessage()   {}
func (SimpleString) isMessage() {}

// Bulk returns a present bulk string holding s.
func Bulk(s string) BulkString {
	return BulkString{Value: s}
}

// NullBulk returns the null bulk string.
func NullBulk() BulkString {
	return BulkString{Null: true}
}

// OptionalBulk returns Bulk(s) when ok is true and NullBulk otherwise.
func OptionalBulk(s string, ok bool) BulkString {
	if !ok {
		return NullBulk()
	}
	return Bulk(s)
}

// NewArray builds an array of present bulk strings, the shape every client
// request takes.
func NewArray(args ...string) Array {
	elems := make([]Message, len(args))
	for i, a := range args {
		elems[i] = Bulk(a)
	}
	return Array{Elems: elems}
}

// Len returns the number of elements.
func (a Array) Len() int {
	return len(a.Elems)
}

// BulkAt returns element i when it exists and is a present bulk string.
func (a Array) BulkAt(i int) (string, bool) {
	if i < 0 || i >= len(a.Elems) {
		return "", false
	}
	b, ok := a.Elems[i].(BulkString)
	if !ok || b.Null {
		return "", false
	}
	return b.Value, true
}

func (a Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range a.Elems {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (b BulkString) String() string {
	if b.Null {
		return "(nil)"
	}
	return strconv.Quote(b.Value)
}

func (s SimpleString) String() string {
	return string(s)
}
