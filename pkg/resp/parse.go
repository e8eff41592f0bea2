package resp

import (
	"errors"
	"fmt"
)

// Protocol limits. They bound the allocation a single frame header can
// request before any payload has arrived.
const (
	// MaxArrayLen limits the number of elements in one array.
	MaxArrayLen = 1024

	// MaxBulkLen limits the size of a single bulk string (512KB).
	MaxBulkLen = 512 * 1024

	// MaxDepth limits array nesting.
	MaxDepth = 32

	// maxLengthDigits is the longest length line accepted. It is enough
	// for every length under the limits above and fits a 32-bit int.
	maxLengthDigits = 9
)

var (
	// ErrIncomplete means the buffer ends before the frame does.
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrProtocol means the buffer holds bytes that can never become a
	// valid frame.
	ErrProtocol = errors.New("resp: protocol error")

	// ErrLimitExceeded means a frame header declares more than the
	// protocol limits allow.
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// Parse decodes one message starting at buf[offset]. It returns the message
// and the offset just past its last byte.
//
// Only array ('*') and bulk string ('$') frames are accepted. Parse never
// reads outside buf.
func Parse(buf []byte, offset int) (Message, int, error) {
	return parse(buf, offset, 0)
}

func parse(buf []byte, offset, depth int) (Message, int, error) {
	if offset < 0 {
		return nil, offset, fmt.Errorf("%w: negative offset %d", ErrProtocol, offset)
	}
	if offset >= len(buf) {
		return nil, offset, ErrIncomplete
	}

	switch tag := buf[offset]; tag {
	case '*':
		return parseArray(buf, offset+1, depth)
	case '$':
		return parseBulk(buf, offset+1)
	default:
		return nil, offset, fmt.Errorf("%w: unrecognized type byte %q at offset %d", ErrProtocol, tag, offset)
	}
}

func parseArray(buf []byte, pos, depth int) (Message, int, error) {
	if depth >= MaxDepth {
		return nil, pos, fmt.Errorf("%w: array nesting deeper than %d", ErrLimitExceeded, MaxDepth)
	}

	n, next, err := parseLength(buf, pos, MaxArrayLen)
	if err != nil {
		return nil, pos, err
	}

	elems := make([]Message, 0, n)
	for i := 0; i < n; i++ {
		var elem Message
		elem, next, err = parse(buf, next, depth+1)
		if err != nil {
			return nil, pos, err
		}
		elems = append(elems, elem)
	}
	return Array{Elems: elems}, next, nil
}

func parseBulk(buf []byte, pos int) (Message, int, error) {
	n, start, err := parseLength(buf, pos, MaxBulkLen)
	if err != nil {
		return nil, pos, err
	}

	end := start + n
	if end+2 > len(buf) {
		return nil, pos, ErrIncomplete
	}
	if buf[end] != '\r' || buf[end+1] != '\n' {
		return nil, pos, fmt.Errorf("%w: bulk string of length %d not followed by CRLF", ErrProtocol, n)
	}
	return Bulk(string(buf[start:end])), end + 2, nil
}

// parseLength reads a non-negative decimal terminated by CRLF at buf[pos].
// It returns the value and the offset just past the LF.
func parseLength(buf []byte, pos, limit int) (int, int, error) {
	n := 0
	for i := pos; ; i++ {
		if i >= len(buf) {
			return 0, pos, ErrIncomplete
		}

		c := buf[i]
		if c == '\r' {
			if i == pos {
				return 0, pos, fmt.Errorf("%w: empty length", ErrProtocol)
			}
			if i+1 >= len(buf) {
				return 0, pos, ErrIncomplete
			}
			if buf[i+1] != '\n' {
				return 0, pos, fmt.Errorf("%w: length line missing LF", ErrProtocol)
			}
			if n > limit {
				return 0, pos, fmt.Errorf("%w: length %d exceeds limit %d", ErrLimitExceeded, n, limit)
			}
			return n, i + 2, nil
		}

		if c < '0' || c > '9' {
			return 0, pos, fmt.Errorf("%w: invalid length byte %q", ErrProtocol, c)
		}
		if i-pos >= maxLengthDigits {
			return 0, pos, fmt.Errorf("%w: length line too long", ErrProtocol)
		}
		n = n*10 + int(c-'0')
	}
}
