package udpsocket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// bindLoopback binds a socket on an ephemeral loopback port and closes it
// when the test ends.
func bindLoopback(t *testing.T, opts ...Option) *Socket {
	t.Helper()
	s, err := Bind("127.0.0.1:0", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// connectedPair returns two loopback sockets connected to each other.
func connectedPair(t *testing.T) (*Socket, *Socket) {
	t.Helper()
	a := bindLoopback(t)
	b := bindLoopback(t)
	require.NoError(t, a.Connect(b.LocalAddr().String()))
	require.NoError(t, b.Connect(a.LocalAddr().String()))
	return a, b
}

// deadPort returns a loopback address nothing is listening on.
func deadPort(t *testing.T) string {
	t.Helper()
	s, err := Bind("127.0.0.1:0")
	require.NoError(t, err)
	addr := s.LocalAddr().String()
	require.NoError(t, s.Close())
	return addr
}

func contextOf(t *testing.T, err error) []string {
	t.Helper()
	var serr *Error
	require.True(t, errors.As(err, &serr), "expected *Error, got %T", err)
	return serr.Context
}

// roundTrip sends msg from a to b and checks that b receives it intact.
func roundTrip(t *testing.T, a, b *Socket, msg string) {
	t.Helper()
	n, err := a.Send([]byte(msg))
	require.NoError(t, err)
	require.Equal(t, len(msg), n)

	buf := make([]byte, 64)
	n, err = b.Recv(buf)
	require.NoError(t, err)
	require.Equal(t, msg, string(buf[:n]))
}
