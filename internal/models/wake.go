// Package models contains the data structures used throughout gowol.
package models

// Protocol selects the IP family used to transmit the magic packet.
type Protocol int

const (
	// ProtocolIPv4 broadcasts to the IPv4 limited broadcast address.
	ProtocolIPv4 Protocol = iota
	// ProtocolIPv6 sends to the all-nodes link-local multicast group,
	// the closest thing IPv6 has to a broadcast.
	ProtocolIPv6
)

func (p Protocol) String() string {
	if p == ProtocolIPv6 {
		return "IPv6"
	}
	return "IPv4"
}

// WakeConfig holds a single wake request.
type WakeConfig struct {
	MACAddress string
	Protocol   Protocol
	Port       int    // UDP destination port; the WoL default if zero
	Broadcast  string // optional broadcast address override
	Interface  string // if set, send a raw Ethernet frame via this interface instead of UDP
}

// WakeResult holds the result of a wake attempt.
type WakeResult struct {
	PacketSent bool
	Target     string // destination the packet was addressed to
	Error      error
}
