//go:build windows

package udpsocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowsRoundTrip(t *testing.T) {
	a, b := connectedPair(t)
	roundTrip(t, a, b, "ping")
	roundTrip(t, b, a, "pong")
}

func TestWindowsNonBlockingEmptyQueue(t *testing.T) {
	a, _ := connectedPair(t)
	require.NoError(t, a.SetNonBlocking(true))

	n, err := a.Recv(make([]byte, 16))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWindowsNonBlockingDeliversQueued(t *testing.T) {
	a, b := connectedPair(t)
	require.NoError(t, b.SetNonBlocking(true))

	_, err := a.Send([]byte("queued"))
	require.NoError(t, err)

	buf := make([]byte, 16)
	var n int
	require.Eventually(t, func() bool {
		n, err = b.Recv(buf)
		return err == nil && n > 0
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "queued", string(buf[:n]))
}

func TestWindowsConnectFamilyMismatch(t *testing.T) {
	s := bindLoopback(t)
	err := s.Connect("[::1]:5000")
	require.Error(t, err)
	assert.Equal(t, []string{ContextConnect}, contextOf(t, err))
}
