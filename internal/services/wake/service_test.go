package wake

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"gowol/internal/magic"
	"gowol/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	sendFunc func(network string, target *net.UDPAddr, payload []byte) error
}

func (m *mockClient) Send(network string, target *net.UDPAddr, payload []byte) error {
	if m.sendFunc != nil {
		return m.sendFunc(network, target, payload)
	}
	return nil
}

type mockRawClient struct {
	wakeFunc func(iface string, target net.HardwareAddr) error
}

func (m *mockRawClient) Wake(iface string, target net.HardwareAddr) error {
	if m.wakeFunc != nil {
		return m.wakeFunc(iface, target)
	}
	return nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestWake_IPv4Defaults(t *testing.T) {
	var capturedNetwork string
	var capturedTarget *net.UDPAddr
	var capturedPayload []byte

	client := &mockClient{
		sendFunc: func(network string, target *net.UDPAddr, payload []byte) error {
			capturedNetwork = network
			capturedTarget = target
			capturedPayload = payload
			return nil
		},
	}

	svc := NewWithClients(testLogger(), client, nil)

	result, err := svc.Wake(context.Background(), models.WakeConfig{
		MACAddress: "00:22:44:66:88:AA",
	})

	require.NoError(t, err)
	assert.True(t, result.PacketSent)
	assert.Nil(t, result.Error)
	assert.Equal(t, "255.255.255.255:9", result.Target)

	assert.Equal(t, "udp4", capturedNetwork)
	assert.True(t, capturedTarget.IP.Equal(net.IPv4bcast))
	assert.Equal(t, magic.Port, capturedTarget.Port)

	require.Len(t, capturedPayload, magic.PacketLen)
	for i := 0; i < magic.HeaderLen; i++ {
		assert.Equal(t, byte(0xFF), capturedPayload[i])
	}
	hw := net.HardwareAddr{0x00, 0x22, 0x44, 0x66, 0x88, 0xAA}
	for i := 0; i < magic.Repetitions; i++ {
		start := magic.HeaderLen + i*magic.MACLen
		assert.Equal(t, []byte(hw), capturedPayload[start:start+magic.MACLen])
	}
}

func TestWake_IPv6AllNodes(t *testing.T) {
	var capturedNetwork string
	var capturedTarget *net.UDPAddr

	client := &mockClient{
		sendFunc: func(network string, target *net.UDPAddr, payload []byte) error {
			capturedNetwork = network
			capturedTarget = target
			return nil
		},
	}

	svc := NewWithClients(testLogger(), client, nil)

	result, err := svc.Wake(context.Background(), models.WakeConfig{
		MACAddress: "00-22-44-66-88-aa",
		Protocol:   models.ProtocolIPv6,
	})

	require.NoError(t, err)
	assert.True(t, result.PacketSent)
	assert.Equal(t, "udp6", capturedNetwork)
	assert.True(t, capturedTarget.IP.Equal(net.ParseIP("ff02::1")))
	assert.Equal(t, magic.Port, capturedTarget.Port)
}

func TestWake_BroadcastAndPortOverride(t *testing.T) {
	var capturedTarget *net.UDPAddr

	client := &mockClient{
		sendFunc: func(network string, target *net.UDPAddr, payload []byte) error {
			capturedTarget = target
			return nil
		},
	}

	svc := NewWithClients(testLogger(), client, nil)

	result, err := svc.Wake(context.Background(), models.WakeConfig{
		MACAddress: "00:22:44:66:88:AA",
		Broadcast:  "192.168.1.255",
		Port:       7,
	})

	require.NoError(t, err)
	assert.True(t, result.PacketSent)
	assert.Equal(t, "192.168.1.255:7", capturedTarget.String())
}

func TestWake_BroadcastFamilyMismatch(t *testing.T) {
	sent := false
	client := &mockClient{
		sendFunc: func(network string, target *net.UDPAddr, payload []byte) error {
			sent = true
			return nil
		},
	}

	svc := NewWithClients(testLogger(), client, nil)

	result, err := svc.Wake(context.Background(), models.WakeConfig{
		MACAddress: "00:22:44:66:88:AA",
		Protocol:   models.ProtocolIPv4,
		Broadcast:  "ff02::1",
	})

	require.NoError(t, err)
	assert.False(t, sent)
	assert.False(t, result.PacketSent)
	require.NotNil(t, result.Error)
	assert.Contains(t, result.Error.Error(), "ff02::1")
}

func TestWake_InvalidMAC(t *testing.T) {
	sent := false
	client := &mockClient{
		sendFunc: func(network string, target *net.UDPAddr, payload []byte) error {
			sent = true
			return nil
		},
	}

	svc := NewWithClients(testLogger(), client, nil)

	result, err := svc.Wake(context.Background(), models.WakeConfig{
		MACAddress: "00:22:44:66:88",
	})

	require.NoError(t, err)
	assert.False(t, sent)
	assert.False(t, result.PacketSent)
	require.NotNil(t, result.Error)
	assert.ErrorIs(t, result.Error, magic.ErrMalformedAddress)
}

func TestWake_SendFailed(t *testing.T) {
	client := &mockClient{
		sendFunc: func(network string, target *net.UDPAddr, payload []byte) error {
			return errors.New("network is unreachable")
		},
	}

	svc := NewWithClients(testLogger(), client, nil)

	result, err := svc.Wake(context.Background(), models.WakeConfig{
		MACAddress: "00:22:44:66:88:AA",
	})

	require.NoError(t, err)
	assert.False(t, result.PacketSent)
	require.NotNil(t, result.Error)
	assert.ErrorIs(t, result.Error, ErrDelivery)
	assert.Contains(t, result.Error.Error(), "network is unreachable")
}

func TestWake_RawInterface(t *testing.T) {
	udpSent := false
	client := &mockClient{
		sendFunc: func(network string, target *net.UDPAddr, payload []byte) error {
			udpSent = true
			return nil
		},
	}

	var capturedIface string
	var capturedMAC net.HardwareAddr
	rawClient := &mockRawClient{
		wakeFunc: func(iface string, target net.HardwareAddr) error {
			capturedIface = iface
			capturedMAC = target
			return nil
		},
	}

	svc := NewWithClients(testLogger(), client, rawClient)

	result, err := svc.Wake(context.Background(), models.WakeConfig{
		MACAddress: "00:22:44:66:88:AA",
		Interface:  "eth0",
	})

	require.NoError(t, err)
	assert.True(t, result.PacketSent)
	assert.False(t, udpSent)
	assert.Equal(t, "eth0", capturedIface)
	assert.Equal(t, "eth0", result.Target)
	assert.Equal(t, net.HardwareAddr{0x00, 0x22, 0x44, 0x66, 0x88, 0xAA}, capturedMAC)
}

func TestWake_RawFailed(t *testing.T) {
	rawClient := &mockRawClient{
		wakeFunc: func(iface string, target net.HardwareAddr) error {
			return errors.New("operation not permitted")
		},
	}

	svc := NewWithClients(testLogger(), &mockClient{}, rawClient)

	result, err := svc.Wake(context.Background(), models.WakeConfig{
		MACAddress: "00:22:44:66:88:AA",
		Interface:  "eth0",
	})

	require.NoError(t, err)
	assert.False(t, result.PacketSent)
	require.NotNil(t, result.Error)
	assert.ErrorIs(t, result.Error, ErrDelivery)
}

func TestWake_ContextCancelled(t *testing.T) {
	sent := false
	client := &mockClient{
		sendFunc: func(network string, target *net.UDPAddr, payload []byte) error {
			sent = true
			return nil
		},
	}

	svc := NewWithClients(testLogger(), client, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.Wake(ctx, models.WakeConfig{
		MACAddress: "00:22:44:66:88:AA",
	})

	require.NoError(t, err)
	assert.False(t, sent)
	assert.False(t, result.PacketSent)
	assert.ErrorIs(t, result.Error, context.Canceled)
}

func TestUDPClient_LoopbackDelivery(t *testing.T) {
	receiver, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0})
	require.NoError(t, err)
	defer func() { _ = receiver.Close() }()

	hw, err := magic.ParseMAC("00:22:44:66:88:AA")
	require.NoError(t, err)
	pkt, err := magic.NewPacket(hw)
	require.NoError(t, err)

	client := &UDPClient{}
	target := receiver.LocalAddr().(*net.UDPAddr)
	require.NoError(t, client.Send("udp4", target, pkt.Payload()))

	require.NoError(t, receiver.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 256)
	n, _, err := receiver.ReadFromUDP(buf)

	require.NoError(t, err)
	require.Equal(t, magic.PacketLen, n)
	assert.Equal(t, pkt.Payload(), buf[:n])
}

func TestUDPClient_SendFailureClosesSocket(t *testing.T) {
	client := &UDPClient{}

	// IPv6 target on an IPv4 socket fails in the write, after the
	// socket was opened; the deferred close must still run. Repeating
	// the call would exhaust ports if sockets leaked.
	target := &net.UDPAddr{IP: net.ParseIP("ff02::1"), Port: magic.Port}
	payload := make([]byte, magic.PacketLen)

	for i := 0; i < 100; i++ {
		err := client.Send("udp4", target, payload)
		require.Error(t, err)
	}
}
