package limits

import (
	"errors"
	"testing"
)

// TestMaxDatagramDerivation verifies the payload limits follow from the
// 16-bit length fields and header sizes.
func TestMaxDatagramDerivation(t *testing.T) {
	const (
		ipv4Header = 20
		udpHeader  = 8
	)
	if MaxIPv4Datagram != 65535-ipv4Header-udpHeader {
		t.Errorf("MaxIPv4Datagram = %d, want %d", MaxIPv4Datagram, 65535-ipv4Header-udpHeader)
	}
	if MaxIPv6Datagram != 65535-udpHeader {
		t.Errorf("MaxIPv6Datagram = %d, want %d", MaxIPv6Datagram, 65535-udpHeader)
	}
	if DefaultRecvBuffer < MaxIPv6Datagram {
		t.Errorf("DefaultRecvBuffer = %d cannot hold a full IPv6 datagram", DefaultRecvBuffer)
	}
}

func TestFamily(t *testing.T) {
	if IPv4.MaxDatagram() != MaxIPv4Datagram {
		t.Errorf("IPv4.MaxDatagram() = %d", IPv4.MaxDatagram())
	}
	if IPv6.MaxDatagram() != MaxIPv6Datagram {
		t.Errorf("IPv6.MaxDatagram() = %d", IPv6.MaxDatagram())
	}
	if IPv4.String() != "ipv4" || IPv6.String() != "ipv6" {
		t.Errorf("unexpected family names %q, %q", IPv4, IPv6)
	}
}

func TestValidateDatagram(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		family  Family
		wantErr bool
	}{
		{"empty", 0, IPv4, false},
		{"small", 100, IPv4, false},
		{"ipv4 at limit", MaxIPv4Datagram, IPv4, false},
		{"ipv4 over limit", MaxIPv4Datagram + 1, IPv4, true},
		{"ipv6 accepts what ipv4 rejects", MaxIPv4Datagram + 1, IPv6, false},
		{"ipv6 at limit", MaxIPv6Datagram, IPv6, false},
		{"ipv6 over limit", MaxIPv6Datagram + 1, IPv6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatagram(make([]byte, tt.size), tt.family)
			if tt.wantErr {
				if !errors.Is(err, ErrDatagramTooLarge) {
					t.Errorf("ValidateDatagram() error = %v, want ErrDatagramTooLarge", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ValidateDatagram() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRecvBuffer(t *testing.T) {
	valid := []int{MinRecvBuffer, 1500, DefaultRecvBuffer, MaxRecvBuffer}
	for _, size := range valid {
		if err := ValidateRecvBuffer(size); err != nil {
			t.Errorf("ValidateRecvBuffer(%d) unexpected error: %v", size, err)
		}
	}

	invalid := []int{0, -1, MaxRecvBuffer + 1}
	for _, size := range invalid {
		if err := ValidateRecvBuffer(size); !errors.Is(err, ErrBufferSize) {
			t.Errorf("ValidateRecvBuffer(%d) error = %v, want ErrBufferSize", size, err)
		}
	}
}
