//go:build unix

package udpsocket

import (
	"errors"
	"net/netip"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// dualStack clears IPV6_V6ONLY on AF_INET6 sockets before bind. The net
// package sets it for "udp6".
func dualStack(network, _ string, c syscall.RawConn) error {
	if network != "udp6" {
		return nil
	}

	var opErr error
	if err := c.Control(func(fd uintptr) {
		opErr = unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 0)
	}); err != nil {
		return err
	}
	return os.NewSyscallError("setsockopt", opErr)
}

// connect issues connect(2) on the descriptor.
func (s *Socket) connect(ap netip.AddrPort) error {
	sa, err := sockaddr(peerAddr(ap, s.v6))
	if err != nil {
		return err
	}

	var opErr error
	if err := s.raw.Control(func(fd uintptr) {
		opErr = unix.Connect(int(fd), sa)
	}); err != nil {
		return err
	}
	return os.NewSyscallError("connect", opErr)
}

// send issues write(2). In blocking mode EAGAIN parks the caller in the
// poller until the descriptor is writable.
func (s *Socket) send(b []byte) (int, error) {
	var (
		n     int
		opErr error
	)
	err := s.raw.Write(func(fd uintptr) bool {
		for {
			n, opErr = unix.Write(int(fd), b)
			if opErr != unix.EINTR {
				break
			}
		}
		return s.nonblocking || !isWouldBlock(opErr)
	})
	if err != nil {
		return 0, err
	}
	if opErr != nil {
		return 0, os.NewSyscallError("write", opErr)
	}
	return n, nil
}

// recv issues read(2). A datagram longer than b is truncated by the kernel.
func (s *Socket) recv(b []byte) (int, error) {
	var (
		n     int
		opErr error
	)
	err := s.raw.Read(func(fd uintptr) bool {
		for {
			n, opErr = unix.Read(int(fd), b)
			if opErr != unix.EINTR {
				break
			}
		}
		return s.nonblocking || !isWouldBlock(opErr)
	})
	if err != nil {
		return 0, err
	}
	if opErr != nil {
		return 0, os.NewSyscallError("read", opErr)
	}
	return n, nil
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

// sockaddr converts ap in its own family; the kernel rejects a family that
// does not match the socket.
func sockaddr(ap netip.AddrPort) (unix.Sockaddr, error) {
	addr := ap.Addr()
	if addr.Is4() {
		return &unix.SockaddrInet4{Port: int(ap.Port()), Addr: addr.As4()}, nil
	}

	sa := &unix.SockaddrInet6{Port: int(ap.Port()), Addr: addr.As16()}
	if zone := addr.Zone(); zone != "" {
		id, err := zoneIndex(zone)
		if err != nil {
			return nil, err
		}
		sa.ZoneId = id
	}
	return sa, nil
}
