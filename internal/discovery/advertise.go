package discovery

import (
	"fmt"
	"os"
	"strings"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/smartthermo/internal/logging"
)

// Advertisement announces the config API on the local network until Stop
// is called.
type Advertisement struct {
	server   *zeroconf.Server
	Instance string
	Port     int
}

// InstanceName returns the instance name for a device id, deriving the id
// from the hostname when id is empty.
func InstanceName(id string) string {
	if id == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "device"
		}
		id = host
	}
	return InstancePrefix + sanitizeID(id)
}

// sanitizeID keeps characters that are safe in an instance name.
func sanitizeID(id string) string {
	id = strings.TrimSuffix(id, ".local")
	var b strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == ' ':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "device"
	}
	return b.String()
}

// TXTRecords builds the TXT entries advertised with the service
func TXTRecords(version string) []string {
	return []string{
		"version=" + version,
		"path=/api",
	}
}

// Advertise registers the config API under ServiceType.
func Advertise(id string, port int, version string) (*Advertisement, error) {
	instance := InstanceName(id)

	server, err := zeroconf.Register(instance, ServiceType, ServiceDomain, port, TXTRecords(version), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising config API over mDNS",
		zap.String("instance", instance),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)

	return &Advertisement{
		server:   server,
		Instance: instance,
		Port:     port,
	}, nil
}

// Stop withdraws the advertisement.
func (a *Advertisement) Stop() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	logging.Info("Stopped mDNS advertisement", zap.String("instance", a.Instance))
}
