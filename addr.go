package udpsocket

import (
	"net"
	"net/netip"
	"strconv"
	"unicode/utf8"
)

// ParseAddr parses an ip:port literal such as "127.0.0.1:5000" or
// "[::1]:5000". Host names are not resolved.
//
// Errors carry the context "to_str" when s is not valid UTF-8 and "parse"
// when it is not an ip:port literal.
func ParseAddr(s string) (netip.AddrPort, error) {
	if !utf8.ValidString(s) {
		return netip.AddrPort{}, Wrap(ErrInvalidUTF8, ContextToStr)
	}

	ap, err := netip.ParseAddrPort(s)
	if err != nil {
		return netip.AddrPort{}, Wrap(err, ContextParse)
	}

	return ap, nil
}

// network returns the Go network name for binding ap. IPv4 literals,
// IPv4-mapped ones included, get an AF_INET socket. Everything else gets a
// dual-stack AF_INET6 socket.
func network(ap netip.AddrPort) string {
	if ap.Addr().Unmap().Is4() {
		return "udp4"
	}
	return "udp6"
}

// bindAddr is the address actually bound: IPv4-mapped literals are bound
// as plain IPv4, which is the only traffic such a socket can carry.
func bindAddr(ap netip.AddrPort) netip.AddrPort {
	return netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port())
}

// peerAddr adapts a connect target to the socket family. A dual-stack
// AF_INET6 socket reaches IPv4 peers through IPv4-mapped addresses; an
// AF_INET socket takes IPv4-mapped targets as plain IPv4. A native IPv6
// target is left alone so that an AF_INET socket rejects it.
func peerAddr(ap netip.AddrPort, v6 bool) netip.AddrPort {
	addr := ap.Addr()
	switch {
	case v6 && addr.Is4():
		addr = netip.AddrFrom16(addr.As16())
	case !v6 && addr.Is4In6():
		addr = addr.Unmap()
	}
	return netip.AddrPortFrom(addr, ap.Port())
}

// zoneIndex resolves an IPv6 zone, numeric or interface name, to its index.
func zoneIndex(zone string) (uint32, error) {
	if id, err := strconv.ParseUint(zone, 10, 32); err == nil {
		return uint32(id), nil
	}
	ifi, err := net.InterfaceByName(zone)
	if err != nil {
		return 0, err
	}
	return uint32(ifi.Index), nil
}
