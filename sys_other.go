//go:build !unix && !windows

package udpsocket

import (
	"errors"
	"net/netip"
	"syscall"
)

// Platforms without a BSD socket API (js, wasip1, plan9) can bind through
// the net package where it is supported, and nothing more.

func dualStack(string, string, syscall.RawConn) error {
	return nil
}

func (s *Socket) connect(netip.AddrPort) error {
	return errors.ErrUnsupported
}

func (s *Socket) send([]byte) (int, error) {
	return 0, errors.ErrUnsupported
}

func (s *Socket) recv([]byte) (int, error) {
	return 0, errors.ErrUnsupported
}

func isWouldBlock(error) bool {
	return false
}
