//go:build windows

package udpsocket

import (
	"errors"
	"net/netip"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// fionread is the ioctlsocket command that reports the size of the first
// queued datagram.
const fionread = 0x4004667f

// dualStack clears IPV6_V6ONLY on AF_INET6 sockets before bind.
func dualStack(network, _ string, c syscall.RawConn) error {
	if network != "udp6" {
		return nil
	}

	var opErr error
	if err := c.Control(func(fd uintptr) {
		opErr = windows.SetsockoptInt(windows.Handle(fd), windows.IPPROTO_IPV6, windows.IPV6_V6ONLY, 0)
	}); err != nil {
		return err
	}
	return os.NewSyscallError("setsockopt", opErr)
}

// connect issues connect on the socket handle. Afterwards the UDPConn reads
// and writes go to and come from the peer.
func (s *Socket) connect(ap netip.AddrPort) error {
	sa, err := sockaddr(peerAddr(ap, s.v6))
	if err != nil {
		return err
	}

	var opErr error
	if err := s.raw.Control(func(fd uintptr) {
		opErr = windows.Connect(windows.Handle(fd), sa)
	}); err != nil {
		return err
	}
	return os.NewSyscallError("connect", opErr)
}

// send writes through the UDPConn. UDP sends complete once the stack has
// buffered the datagram, so both modes share this path.
func (s *Socket) send(b []byte) (int, error) {
	return s.conn.Write(b)
}

// recv reads through the UDPConn. In non-blocking mode an empty queue is
// reported as WSAEWOULDBLOCK without issuing the read.
//
// Windows fails a read into a buffer shorter than the datagram with
// WSAEMSGSIZE instead of truncating silently.
func (s *Socket) recv(b []byte) (int, error) {
	if s.nonblocking {
		queued, err := s.queued()
		if err != nil {
			return 0, err
		}
		if !queued {
			return 0, os.NewSyscallError("wsarecv", windows.WSAEWOULDBLOCK)
		}
	}
	return s.conn.Read(b)
}

// queued reports whether a non-empty datagram is waiting. A zero-length
// datagram is not seen until a longer one arrives behind it.
func (s *Socket) queued() (bool, error) {
	var (
		size     uint32
		returned uint32
		opErr    error
	)
	if err := s.raw.Control(func(fd uintptr) {
		opErr = windows.WSAIoctl(windows.Handle(fd), fionread, nil, 0,
			(*byte)(unsafe.Pointer(&size)), uint32(unsafe.Sizeof(size)), &returned, nil, 0)
	}); err != nil {
		return false, err
	}
	if opErr != nil {
		return false, os.NewSyscallError("ioctlsocket", opErr)
	}
	return size > 0, nil
}

func isWouldBlock(err error) bool {
	return errors.Is(err, windows.WSAEWOULDBLOCK)
}

func sockaddr(ap netip.AddrPort) (windows.Sockaddr, error) {
	addr := ap.Addr()
	if addr.Is4() {
		return &windows.SockaddrInet4{Port: int(ap.Port()), Addr: addr.As4()}, nil
	}

	sa := &windows.SockaddrInet6{Port: int(ap.Port()), Addr: addr.As16()}
	if zone := addr.Zone(); zone != "" {
		id, err := zoneIndex(zone)
		if err != nil {
			return nil, err
		}
		sa.ZoneId = id
	}
	return sa, nil
}
