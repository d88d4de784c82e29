// Package wake sends Wake-on-LAN magic packets.
package wake

import (
	"context"
	"errors"
	"fmt"
	"net"

	"gowol/internal/magic"
	"gowol/internal/models"

	"github.com/mdlayher/wol"
	"github.com/rs/zerolog"
)

// ErrDelivery marks failures handing the magic packet to the network
// stack. Wake-on-LAN has no delivery confirmation, so every socket,
// bind and send failure collapses into this one condition; the
// underlying error is kept as context.
var ErrDelivery = errors.New("could not deliver magic packet")

// IPv4 uses the limited broadcast address. IPv6 has no broadcast
// primitive, so the all-nodes link-local multicast group stands in.
var (
	broadcastV4 = net.IPv4bcast
	allNodesV6  = net.ParseIP("ff02::1")
)

// Service defines the interface for Wake-on-LAN operations.
type Service interface {
	Wake(ctx context.Context, cfg models.WakeConfig) (*models.WakeResult, error)
}

// Client transmits a ready-built payload as a single UDP datagram.
type Client interface {
	Send(network string, target *net.UDPAddr, payload []byte) error
}

// RawClient transmits a wake frame at layer 2, for firmware that only
// listens on the wire. Wraps the wol library for mocking.
type RawClient interface {
	Wake(iface string, target net.HardwareAddr) error
}

// UDPClient is the default transport.
type UDPClient struct{}

// Send binds an ephemeral port on the wildcard address of the matching
// family and writes payload to target in one datagram. The socket is
// closed on every path. The net package enables SO_BROADCAST on
// datagram sockets, so the IPv4 limited broadcast needs no extra
// socket options.
func (c *UDPClient) Send(network string, target *net.UDPAddr, payload []byte) error {
	conn, err := net.ListenUDP(network, &net.UDPAddr{Port: 0})
	if err != nil {
		return fmt.Errorf("open %s socket: %w", network, err)
	}
	defer func() { _ = conn.Close() }()

	n, err := conn.WriteToUDP(payload, target)
	if err != nil {
		return fmt.Errorf("send to %s: %w", target, err)
	}
	if n != len(payload) {
		return fmt.Errorf("short write to %s: %d of %d bytes", target, n, len(payload))
	}
	return nil
}

// EthernetClient is the default RawClient using mdlayher/wol.
type EthernetClient struct{}

// Wake sends a raw Ethernet wake frame for target via the named interface.
func (c *EthernetClient) Wake(iface string, target net.HardwareAddr) error {
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		return fmt.Errorf("interface %q: %w", iface, err)
	}

	client, err := wol.NewRawClient(ifi)
	if err != nil {
		return fmt.Errorf("raw client on %q: %w", iface, err)
	}
	defer func() { _ = client.Close() }()

	if err := client.Wake(target); err != nil {
		return fmt.Errorf("wake %s via %q: %w", target, iface, err)
	}
	return nil
}

// Impl implements the wake Service interface.
type Impl struct {
	udpClient Client
	rawClient RawClient
	logger    zerolog.Logger
}

// New creates a new wake service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		udpClient: &UDPClient{},
		rawClient: &EthernetClient{},
		logger:    logger,
	}
}

// NewWithClients creates a new wake service with custom transports (for testing).
func NewWithClients(logger zerolog.Logger, udpClient Client, rawClient RawClient) *Impl {
	return &Impl{
		udpClient: udpClient,
		rawClient: rawClient,
		logger:    logger,
	}
}

// Wake parses cfg.MACAddress, builds the magic packet and transmits
// it. Parse and delivery failures are stored in the result; no byte
// goes out unless the full payload could be built.
func (s *Impl) Wake(ctx context.Context, cfg models.WakeConfig) (*models.WakeResult, error) {
	result := &models.WakeResult{}

	hw, err := magic.ParseMAC(cfg.MACAddress)
	if err != nil {
		result.Error = fmt.Errorf("invalid MAC address %q: %w", cfg.MACAddress, err)
		return result, nil //nolint:nilerr // error is stored in result struct by design
	}

	if err := ctx.Err(); err != nil {
		result.Error = err
		return result, nil
	}

	if cfg.Interface != "" {
		return s.wakeRaw(cfg, hw, result)
	}

	pkt, err := magic.NewPacket(hw)
	if err != nil {
		result.Error = err
		return result, nil
	}

	network, target, err := resolveTarget(cfg)
	if err != nil {
		result.Error = err
		return result, nil
	}
	result.Target = target.String()

	s.logger.Info().
		Str("mac", hw.String()).
		Str("target", result.Target).
		Str("network", network).
		Msg("sending magic packet")

	if err := s.udpClient.Send(network, target, pkt.Payload()); err != nil {
		result.Error = fmt.Errorf("%w: %w", ErrDelivery, err)
		return result, nil //nolint:nilerr // error is stored in result struct by design
	}

	result.PacketSent = true
	s.logger.Info().Msg("magic packet sent")
	return result, nil
}

func (s *Impl) wakeRaw(cfg models.WakeConfig, hw net.HardwareAddr, result *models.WakeResult) (*models.WakeResult, error) {
	result.Target = cfg.Interface

	s.logger.Info().
		Str("mac", hw.String()).
		Str("interface", cfg.Interface).
		Msg("sending magic packet over raw Ethernet")

	if err := s.rawClient.Wake(cfg.Interface, hw); err != nil {
		result.Error = fmt.Errorf("%w: %w", ErrDelivery, err)
		return result, nil //nolint:nilerr // error is stored in result struct by design
	}

	result.PacketSent = true
	s.logger.Info().Msg("magic packet sent")
	return result, nil
}

// resolveTarget picks the destination address and network for cfg.
func resolveTarget(cfg models.WakeConfig) (string, *net.UDPAddr, error) {
	port := cfg.Port
	if port == 0 {
		port = magic.Port
	}

	network := "udp4"
	ip := broadcastV4
	if cfg.Protocol == models.ProtocolIPv6 {
		network = "udp6"
		ip = allNodesV6
	}

	if cfg.Broadcast != "" {
		ip = net.ParseIP(cfg.Broadcast)
		if ip == nil {
			return "", nil, fmt.Errorf("invalid broadcast address %q", cfg.Broadcast)
		}
		if (ip.To4() != nil) != (network == "udp4") {
			return "", nil, fmt.Errorf("broadcast address %q is not %s", cfg.Broadcast, cfg.Protocol)
		}
	}

	return network, &net.UDPAddr{IP: ip, Port: port}, nil
}
