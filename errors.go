package udpsocket

import (
	"errors"
	"strings"
)

// Context labels attached to failures, one per operation.
const (
	ContextParseAddr      = "parse_addr"
	ContextToStr          = "to_str"
	ContextParse          = "parse"
	ContextBind           = "bind"
	ContextConnect        = "connect"
	ContextSetNonBlocking = "set_nonblocking"
	ContextSend           = "send"
	ContextRecv           = "recv"
)

// chainSeparator joins context layers and the cause when formatting.
const chainSeparator = ": "

var (
	// ErrInvalidUTF8 indicates an address was not valid UTF-8 text
	ErrInvalidUTF8 = errors.New("invalid utf-8")

	// ErrSocketClosed indicates the socket has already been closed
	ErrSocketClosed = errors.New("socket closed")
)

// Error is a failure with a context chain. Context is ordered outermost
// first; Err is the innermost cause.
type Error struct {
	Context []string // operation labels, outermost first
	Err     error    // underlying error
}

// Wrap attaches label as the new outermost context of err. Wrapping an
// *Error prepends to its chain instead of nesting. Wrap returns nil for a
// nil err.
func Wrap(err error, label string) *Error {
	if err == nil {
		return nil
	}

	var inner *Error
	if errors.As(err, &inner) && inner != nil {
		ctx := make([]string, 0, len(inner.Context)+1)
		ctx = append(ctx, label)
		ctx = append(ctx, inner.Context...)
		return &Error{Context: ctx, Err: inner.Err}
	}

	return &Error{Context: []string{label}, Err: err}
}

func (e *Error) Error() string {
	return strings.Join(e.Chain(), chainSeparator)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Chain returns the context labels followed by the cause text.
func (e *Error) Chain() []string {
	chain := make([]string, 0, len(e.Context)+1)
	chain = append(chain, e.Context...)
	if e.Err != nil {
		chain = append(chain, e.Err.Error())
	}
	return chain
}

// Outermost returns the outermost context label, or "" if there is none.
func (e *Error) Outermost() string {
	if len(e.Context) == 0 {
		return ""
	}
	return e.Context[0]
}

// Print copies the formatted chain into buf and returns the number of bytes
// written. Output longer than buf is truncated without error.
func (e *Error) Print(buf []byte) int {
	return copy(buf, e.Error())
}
