package protocol

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/taiki-okano/benchcached/pkg/config"
)

// Commands accepted on the wire. Matching is case-sensitive.
const (
	CmdGet = "get"
	CmdSet = "set"
	CmdDel = "del"
)

// A Request is one decoded wire frame: a command plus its arguments.
// Value is only meaningful for set.
type Request struct {
	Command string
	Key     string
	Value   string
}

// ReadRequest decodes one length-prefixed frame from r: an ASCII
// decimal length, a ':', then exactly that many body bytes.
//
// A nil, nil return means no dispatchable request arrived: the peer
// closed before the delimiter, the length did not parse, or the body
// did not carry a known command with enough arguments. The protocol has
// no error channel, so all of those are dropped without a reply. Only
// genuine I/O failures return an error.
func ReadRequest(r io.Reader) (*Request, error) {
	n, ok, err := readLength(r)
	if err != nil || !ok {
		return nil, err
	}

	body := make([]byte, n)
	read, err := io.ReadFull(r, body)
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, err
		}
		// Peer closed before the declared length; use what arrived
		// rather than blocking on bytes that will never come.
		body = body[:read]
	}

	return ParseBody(string(body)), nil
}

// readLength scans single bytes for the length prefix, stopping at the
// ':' delimiter or after MaxLengthDigits bytes, whichever comes first.
// ok is false when no usable length was read.
func readLength(r io.Reader) (n int, ok bool, err error) {
	var digits [config.MaxLengthDigits]byte
	buf := make([]byte, 1)
	off := 0

	for off < config.MaxLengthDigits {
		if _, err := io.ReadFull(r, buf); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, false, nil
			}
			return 0, false, err
		}
		if buf[0] == ':' {
			break
		}
		digits[off] = buf[0]
		off++
	}

	n, err = strconv.Atoi(string(digits[:off]))
	if err != nil || n < 0 {
		return 0, false, nil
	}
	return n, true, nil
}

// ParseBody splits a frame body on ':' and validates command arity.
// Runs of delimiters collapse, so empty tokens never count as
// arguments, and tokens beyond a command's arity are ignored. An
// unknown command or a short token list yields nil.
func ParseBody(body string) *Request {
	tokens := strings.FieldsFunc(body, func(r rune) bool { return r == ':' })
	if len(tokens) == 0 {
		return nil
	}

	switch tokens[0] {
	case CmdGet, CmdDel:
		if len(tokens) < 2 {
			return nil
		}
		return &Request{Command: tokens[0], Key: tokens[1]}
	case CmdSet:
		if len(tokens) < 3 {
			return nil
		}
		return &Request{Command: CmdSet, Key: tokens[1], Value: tokens[2]}
	}
	return nil
}

// EncodeFrame wraps a request body in the wire framing: its decimal
// byte length, a ':', then the body itself.
func EncodeFrame(body string) []byte {
	return []byte(strconv.Itoa(len(body)) + ":" + body)
}
