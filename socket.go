package udpsocket

import (
	"context"
	"net"
	"net/netip"
	"syscall"

	"github.com/opd-ai/udpsocket/metrics"
	"github.com/sirupsen/logrus"
)

// Socket is a bound UDP socket. It owns exactly one OS descriptor, released
// by Close.
//
// On unix, Send and Recv go straight to write(2) and read(2) on the
// descriptor. In blocking mode they park the calling goroutine in Go's
// network poller until the descriptor is ready; in non-blocking mode they
// return as soon as the kernel answers.
type Socket struct {
	conn *net.UDPConn
	raw  syscall.RawConn

	local  netip.AddrPort
	remote netip.AddrPort // invalid until Connect succeeds

	v6          bool // AF_INET6, dual-stack
	nonblocking bool
	closed      bool

	logger  *logrus.Entry
	metrics *metrics.Metrics
}

// Option configures a Socket at bind time.
type Option func(*Socket)

// WithLogger sets the log entry the socket derives its fields from.
func WithLogger(entry *logrus.Entry) Option {
	return func(s *Socket) {
		if entry != nil {
			s.logger = entry
		}
	}
}

// WithMetrics instruments the socket. A nil m disables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Socket) {
		s.metrics = m
	}
}

// Bind parses addr and binds a new socket to it. IPv4 literals get an
// AF_INET socket; IPv6 literals get a dual-stack AF_INET6 socket that can
// also exchange datagrams with IPv4 peers.
func Bind(addr string, opts ...Option) (*Socket, error) {
	s := &Socket{
		logger: logrus.WithField("component", "udpsocket"),
	}
	for _, opt := range opts {
		opt(s)
	}

	ap, err := ParseAddr(addr)
	if err != nil {
		return nil, s.fail("Bind", ContextParseAddr, Wrap(err, ContextParseAddr))
	}

	lc := net.ListenConfig{Control: dualStack}
	pc, err := lc.ListenPacket(context.Background(), network(ap), bindAddr(ap).String())
	if err != nil {
		return nil, s.fail("Bind", ContextBind, Wrap(err, ContextBind))
	}
	conn := pc.(*net.UDPConn)

	raw, err := conn.SyscallConn()
	if err != nil {
		_ = conn.Close()
		return nil, s.fail("Bind", ContextBind, Wrap(err, ContextBind))
	}

	s.conn = conn
	s.raw = raw
	s.v6 = network(ap) == "udp6"
	s.local = ap
	if la, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		lap := la.AddrPort()
		s.local = netip.AddrPortFrom(lap.Addr().Unmap(), lap.Port())
	}
	s.logger = s.logger.WithField("local_addr", s.local.String())

	s.metrics.RecordOperation(ContextBind, nil)
	s.metrics.RecordOpen()

	s.logger.WithFields(logrus.Fields{
		"function": "Bind",
		"network":  network(ap),
	}).Debug("Bound UDP socket")

	return s, nil
}

// Close releases the descriptor. Closing twice returns ErrSocketClosed.
func (s *Socket) Close() error {
	if s.closed {
		return ErrSocketClosed
	}
	s.closed = true
	s.metrics.RecordClose()

	err := s.conn.Close()
	s.logger.WithFields(logrus.Fields{
		"function": "Close",
		"error":    err,
	}).Debug("Closed UDP socket")
	return err
}

// SetNonBlocking switches between blocking and non-blocking Send/Recv.
func (s *Socket) SetNonBlocking(nonblocking bool) error {
	// Control fails once the descriptor is gone.
	if err := s.raw.Control(func(uintptr) {}); err != nil {
		return s.fail("SetNonBlocking", ContextSetNonBlocking, Wrap(err, ContextSetNonBlocking))
	}

	s.nonblocking = nonblocking
	s.metrics.RecordOperation(ContextSetNonBlocking, nil)

	s.logger.WithFields(logrus.Fields{
		"function":    "SetNonBlocking",
		"nonblocking": nonblocking,
	}).Debug("Changed socket mode")
	return nil
}

// Connect sets the default peer. Subsequent sends go to addr and the kernel
// drops datagrams from any other source. Success says nothing about whether
// anything is listening at addr.
func (s *Socket) Connect(addr string) error {
	ap, err := ParseAddr(addr)
	if err != nil {
		return s.fail("Connect", ContextParseAddr, Wrap(err, ContextParseAddr))
	}

	if err := s.connect(ap); err != nil {
		return s.fail("Connect", ContextConnect, Wrap(err, ContextConnect))
	}

	s.remote = ap
	s.metrics.RecordOperation(ContextConnect, nil)

	s.logger.WithFields(logrus.Fields{
		"function":    "Connect",
		"remote_addr": ap.String(),
	}).Debug("Connected UDP socket")
	return nil
}

// Send writes b as one datagram to the connected peer and returns the byte
// count reported by the kernel, which callers must not assume equals len(b).
func (s *Socket) Send(b []byte) (int, error) {
	n, err := s.send(b)
	if err != nil {
		return 0, s.fail("Send", ContextSend, Wrap(err, ContextSend))
	}

	s.metrics.RecordOperation(ContextSend, nil)
	s.metrics.RecordSend(n)
	return n, nil
}

// Recv reads one datagram into b, truncating it to len(b). In non-blocking
// mode an empty queue is reported as (0, nil).
func (s *Socket) Recv(b []byte) (int, error) {
	n, err := s.recv(b)
	if err != nil {
		if s.nonblocking && isWouldBlock(err) {
			s.metrics.RecordOperation(ContextRecv, nil)
			s.metrics.RecordWouldBlock()
			return 0, nil
		}
		return 0, s.fail("Recv", ContextRecv, Wrap(err, ContextRecv))
	}

	s.metrics.RecordOperation(ContextRecv, nil)
	s.metrics.RecordRecv(n)
	return n, nil
}

// LocalAddr returns the bound address, with the port the kernel picked when
// binding to port 0.
func (s *Socket) LocalAddr() netip.AddrPort {
	return s.local
}

// RemoteAddr returns the connected peer, if any.
func (s *Socket) RemoteAddr() (netip.AddrPort, bool) {
	return s.remote, s.remote.IsValid()
}

// NonBlocking reports the current mode.
func (s *Socket) NonBlocking() bool {
	return s.nonblocking
}

// fail records and logs err, which must be non-nil, and returns it.
func (s *Socket) fail(function, op string, err *Error) error {
	s.metrics.RecordOperation(op, err)
	s.logger.WithFields(logrus.Fields{
		"function": function,
		"error":    err.Error(),
	}).Debug("Socket operation failed")
	return err
}
