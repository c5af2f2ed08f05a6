package udpsocket

import (
	"errors"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ContextSend))
	})

	t.Run("plain error gets single layer", func(t *testing.T) {
		err := Wrap(syscall.EMSGSIZE, ContextSend)
		require.NotNil(t, err)
		assert.Equal(t, []string{ContextSend}, err.Context)
		assert.Equal(t, syscall.EMSGSIZE, err.Err)
	})

	t.Run("wrapping an Error prepends", func(t *testing.T) {
		inner := Wrap(ErrInvalidUTF8, ContextToStr)
		outer := Wrap(inner, ContextParseAddr)
		require.NotNil(t, outer)
		assert.Equal(t, []string{ContextParseAddr, ContextToStr}, outer.Context)
		assert.Equal(t, ErrInvalidUTF8, outer.Err)
		// The inner value is left untouched.
		assert.Equal(t, []string{ContextToStr}, inner.Context)
	})
}

func TestErrorFormatting(t *testing.T) {
	err := &Error{
		Context: []string{ContextParseAddr, ContextParse},
		Err:     errors.New("not an ip:port"),
	}

	assert.Equal(t, "parse_addr: parse: not an ip:port", err.Error())
	assert.Equal(t, []string{"parse_addr", "parse", "not an ip:port"}, err.Chain())
	assert.Equal(t, ContextParseAddr, err.Outermost())
}

func TestErrorWithoutCause(t *testing.T) {
	err := &Error{Context: []string{ContextRecv}}
	assert.Equal(t, "recv", err.Error())
	assert.Nil(t, err.Unwrap())

	empty := &Error{}
	assert.Equal(t, "", empty.Outermost())
}

func TestErrorUnwrap(t *testing.T) {
	err := Wrap(Wrap(syscall.ECONNREFUSED, ContextRecv), "poll")

	assert.True(t, errors.Is(err, syscall.ECONNREFUSED))

	var target *Error
	require.True(t, errors.As(err, &target))
	assert.Equal(t, []string{"poll", ContextRecv}, target.Context)
}

func TestErrorPrint(t *testing.T) {
	err := Wrap(Wrap(errors.New("invalid port"), ContextParse), ContextParseAddr)
	full := err.Error()

	t.Run("fits", func(t *testing.T) {
		buf := make([]byte, 1024)
		n := err.Print(buf)
		assert.Equal(t, len(full), n)
		assert.Equal(t, full, string(buf[:n]))
	})

	t.Run("truncates without overrun", func(t *testing.T) {
		backing := make([]byte, 16)
		for i := range backing {
			backing[i] = 0xAA
		}
		buf := backing[:8]

		n := err.Print(buf)
		assert.Equal(t, 8, n)
		assert.Equal(t, full[:8], string(buf[:n]))
		// Bytes past the capacity are never written.
		for _, b := range backing[8:] {
			assert.Equal(t, byte(0xAA), b)
		}
	})

	t.Run("zero capacity", func(t *testing.T) {
		assert.Equal(t, 0, err.Print(nil))
		assert.Equal(t, 0, err.Print([]byte{}))
	})

	t.Run("outer context precedes cause", func(t *testing.T) {
		buf := make([]byte, 256)
		text := string(buf[:err.Print(buf)])
		assert.Less(t, strings.Index(text, ContextParseAddr), strings.Index(text, "invalid port"))
	})
}
