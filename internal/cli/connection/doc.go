// Package connection provides the respkv-cli connection to a server.
//
// A Client sends each command as an array of bulk strings and reads one
// reply per command. Replies are decoded with pkg/resp, plus the two reply
// shapes the request parser does not accept: simple strings ("+PONG") and
// the null bulk string, which respkv-server writes as "$-1\r\n\r\n".
package connection
