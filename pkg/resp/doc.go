// Package resp implements the subset of the Redis serialization protocol
// (RESP2) spoken by respkv.
//
// Request frames are length-prefixed: an array header "*<n>\r\n" followed by
// n bulk strings "$<len>\r\n<payload>\r\n". Only the decimal length line is
// terminator-scanned; payloads are consumed by length, so they may contain
// any byte, CR and LF included.
//
// Parsing works on a byte slice plus an offset and never reads past the end
// of the slice. A truncated frame reports ErrIncomplete so the caller can
// read more input; a corrupt frame reports ErrProtocol.
//
// Usage:
//
//	msg, next, err := resp.Parse(buf, 0)
//	if errors.Is(err, resp.ErrIncomplete) {
//		// read more bytes and retry from the same offset
//	}
//	out := resp.Serialize(resp.Bulk("hey")) // "$3\r\nhey\r\n"
package resp
