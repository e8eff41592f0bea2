package resp

import (
	"bufio"
	"strconv"
)

// nullBulk is the null bulk string encoding used by respkv replies.
const nullBulk = "$-1\r\n\r\n"

// Serialize encodes m in wire form.
func Serialize(m Message) []byte {
	return Append(nil, m)
}

// Append appends the wire form of m to dst and returns the extended slice.
func Append(dst []byte, m Message) []byte {
	switch v := m.(type) {
	case BulkString:
		if v.Null {
			return append(dst, nullBulk...)
		}
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(v.Value)), 10)
		dst = append(dst, '\r', '\n')
		dst = append(dst, v.Value...)
		return append(dst, '\r', '\n')
	case Array:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(v.Elems)), 10)
		dst = append(dst, '\r', '\n')
		for _, e := range v.Elems {
			dst = Append(dst, e)
		}
		return dst
	case SimpleString:
		dst = append(dst, '+')
		dst = append(dst, v...)
		return append(dst, '\r', '\n')
	case nil:
		return append(dst, nullBulk...)
	default:
		panic("resp: unknown message type")
	}
}

// Write writes the wire form of m to w. The caller flushes.
func Write(w *bufio.Writer, m Message) error {
	buf := w.AvailableBuffer()
	_, err := w.Write(Append(buf, m))
	return err
}
