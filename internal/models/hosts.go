package models

// HostsConfig maps friendly names to wake targets.
type HostsConfig struct {
	Hosts map[string]HostEntry
}

// HostEntry describes one wakeable machine.
type HostEntry struct {
	MACAddress string
	Broadcast  string // optional broadcast address for this host
	Port       int    // optional, defaults to the WoL port
}
