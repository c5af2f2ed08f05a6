// Package limits provides centralized datagram size limits for UDP.
// The socket itself never enforces them; callers that build payloads or size
// receive buffers use them to stay within what the kernel will accept.
package limits

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
)

const (
	// MaxIPv4Datagram is the largest UDP payload over IPv4 (65535 - 20 byte IP header - 8 byte UDP header)
	MaxIPv4Datagram = 65507

	// MaxIPv6Datagram is the largest UDP payload over IPv6 without jumbograms
	// (65535 payload length - 8 byte UDP header)
	MaxIPv6Datagram = 65527

	// DefaultRecvBuffer holds any datagram either family can deliver
	DefaultRecvBuffer = 64 * 1024

	// MinRecvBuffer is the smallest receive buffer worth configuring
	MinRecvBuffer = 1

	// MaxRecvBuffer bounds configured receive buffers (1MB)
	MaxRecvBuffer = 1024 * 1024
)

// Family selects which payload limit applies.
type Family int

const (
	IPv4 Family = iota
	IPv6
)

func (f Family) String() string {
	if f == IPv6 {
		return "ipv6"
	}
	return "ipv4"
}

// MaxDatagram returns the payload limit for f.
func (f Family) MaxDatagram() int {
	if f == IPv6 {
		return MaxIPv6Datagram
	}
	return MaxIPv4Datagram
}

var (
	// ErrDatagramTooLarge indicates a payload exceeds the family's UDP limit
	ErrDatagramTooLarge = errors.New("datagram too large")

	// ErrBufferSize indicates a receive buffer size outside [MinRecvBuffer, MaxRecvBuffer]
	ErrBufferSize = errors.New("receive buffer size out of range")
)

// ValidateDatagram checks payload against the limit for family.
// Empty payloads are valid UDP datagrams.
func ValidateDatagram(payload []byte, family Family) error {
	limit := family.MaxDatagram()
	if len(payload) > limit {
		return fmt.Errorf("%w: %s payload %s exceeds limit %s", ErrDatagramTooLarge, family,
			humanize.IBytes(uint64(len(payload))), humanize.IBytes(uint64(limit)))
	}
	return nil
}

// ValidateRecvBuffer checks a configured receive buffer size.
func ValidateRecvBuffer(size int) error {
	if size < MinRecvBuffer || size > MaxRecvBuffer {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrBufferSize, size, MinRecvBuffer, MaxRecvBuffer)
	}
	return nil
}
