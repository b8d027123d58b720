package discovery

import (
	"fmt"
	"net"
	"time"
)

// Device is a SmartThermo config service found on the network
type Device struct {
	// ID is the device identifier from the instance name (e.g. "a1b2c3")
	ID string

	// Instance is the full mDNS instance name (e.g. "SmartThermo-a1b2c3")
	Instance string

	// Hostname is the mDNS hostname (e.g. "thermo.local.")
	Hostname string

	// IP is the address to reach the API on, IPv4 when available
	IP string

	// Port is the HTTP API port
	Port int

	// Metadata contains the TXT record entries: "version", "path"
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("SmartThermo %s (%s) at %s:%d", d.ID, d.Hostname, d.IP, d.Port)
}

// BaseURL returns the HTTP base URL of the device's API server
func (d *Device) BaseURL() string {
	host := d.IP
	if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
		host = "[" + host + "]"
	}
	return fmt.Sprintf("http://%s:%d", host, d.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
