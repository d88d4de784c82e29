// Package magic implements the Wake-on-LAN magic packet: MAC address
// parsing and payload construction.
package magic

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	// MACLen is the length of an EUI-48 hardware address in bytes.
	MACLen = 6
	// HeaderLen is the number of leading 0xFF synchronization bytes.
	HeaderLen = 6
	// Repetitions is how many times the MAC follows the header.
	Repetitions = 16
	// PacketLen is the total payload size: 6 + 16*6 = 102 bytes.
	PacketLen = HeaderLen + Repetitions*MACLen

	// Port is the UDP port magic packets are sent to. Port 9 (discard)
	// is the common convention; 7 (echo) is also seen in the wild.
	Port = 9
)

// ErrMalformedAddress is returned when an input string does not decode
// to a 6-byte hardware address.
var ErrMalformedAddress = errors.New("malformed MAC address")

// ParseMAC parses a MAC address of exactly six two-digit hex octets
// separated by a single consistent delimiter, colon or hyphen
// (e.g. "00:22:44:66:88:AA" or "00-22-44-66-88-aa"). Hex digits are
// case-insensitive. This is stricter than net.ParseMAC, which also
// accepts dot-separated and EUI-64 forms.
func ParseMAC(s string) (net.HardwareAddr, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedAddress)
	}
	if len(s) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAddress, s)
	}

	// The first separator fixes the delimiter for the whole string.
	sep := s[2]
	if sep != ':' && sep != '-' {
		return nil, fmt.Errorf("%w: %q", ErrMalformedAddress, s)
	}

	tokens := strings.Split(s, string(sep))
	if len(tokens) != MACLen {
		return nil, fmt.Errorf("%w: %q: want %d octets, got %d", ErrMalformedAddress, s, MACLen, len(tokens))
	}

	hw := make(net.HardwareAddr, MACLen)
	for i, tok := range tokens {
		if len(tok) != 2 {
			return nil, fmt.Errorf("%w: %q: octet %q must be two hex digits", ErrMalformedAddress, s, tok)
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: octet %q is not hexadecimal", ErrMalformedAddress, s, tok)
		}
		hw[i] = byte(v)
	}
	return hw, nil
}

// Packet is a fully built magic packet payload.
type Packet [PacketLen]byte

// NewPacket builds the payload for hw: six bytes of 0xFF followed by
// the address repeated sixteen times.
func NewPacket(hw net.HardwareAddr) (*Packet, error) {
	if len(hw) != MACLen {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrMalformedAddress, MACLen, len(hw))
	}

	var p Packet
	for i := 0; i < HeaderLen; i++ {
		p[i] = 0xFF
	}
	for i := 0; i < Repetitions; i++ {
		copy(p[HeaderLen+i*MACLen:], hw)
	}
	return &p, nil
}

// Payload returns the packet bytes ready for transmission.
func (p *Packet) Payload() []byte {
	return p[:]
}
