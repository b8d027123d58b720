package discovery

import (
	"net"
	"strings"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestScanner_parseServiceEntry(t *testing.T) {
	scanner := NewScanner()

	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantID   string
		wantIP   string
		wantPort int
	}{
		{
			name: "advertised instance with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "SmartThermo-a1b2c3"},
				HostName:      "thermo.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.4.1")},
				Text:          []string{"version=1.0.0", "path=/api"},
			},
			wantID:   "a1b2c3",
			wantIP:   "192.168.4.1",
			wantPort: 8080,
		},
		{
			name: "no port falls back to default",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "SmartThermo-lab-1"},
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantID:   "lab-1",
			wantIP:   "10.0.0.5",
			wantPort: DefaultPort,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "SmartThermo-v6"},
				Port:          8080,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantID:   "v6",
			wantIP:   "fe80::1",
			wantPort: 8080,
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "SmartThermo-dual"},
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantID:   "dual",
			wantIP:   "192.168.1.50",
			wantPort: 8080,
		},
		{
			name: "foreign instance name",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "printer"},
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.1")},
			},
			wantNil: true,
		},
		{
			name: "no address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "SmartThermo-a1b2c3"},
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			device := scanner.parseServiceEntry(tt.entry)

			if tt.wantNil {
				if device != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", device)
				}
				return
			}
			if device == nil {
				t.Fatal("parseServiceEntry() = nil, want non-nil device")
			}
			if device.ID != tt.wantID {
				t.Errorf("device.ID = %v, want %v", device.ID, tt.wantID)
			}
			if device.IP != tt.wantIP {
				t.Errorf("device.IP = %v, want %v", device.IP, tt.wantIP)
			}
			if device.Port != tt.wantPort {
				t.Errorf("device.Port = %v, want %v", device.Port, tt.wantPort)
			}
			if device.DiscoveredAt.IsZero() {
				t.Error("device.DiscoveredAt should be set")
			}
		})
	}
}

func TestParseTXT(t *testing.T) {
	md := parseTXT([]string{"version=1.0.0", "path=/api", "flag", "eq=a=b"})

	want := map[string]string{"version": "1.0.0", "path": "/api", "flag": "", "eq": "a=b"}
	for k, v := range want {
		if md[k] != v {
			t.Errorf("metadata[%q] = %q, want %q", k, md[k], v)
		}
	}
}

func TestInstanceName(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"a1b2c3", "SmartThermo-a1b2c3"},
		{"thermo.local", "SmartThermo-thermo"},
		{"my_box 2", "SmartThermo-my-box-2"},
		{"!!!", "SmartThermo-device"},
	}

	for _, tt := range tests {
		if got := InstanceName(tt.id); got != tt.want {
			t.Errorf("InstanceName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}

	if got := InstanceName(""); !strings.HasPrefix(got, InstancePrefix) || !instancePattern.MatchString(got) {
		t.Errorf("InstanceName(\"\") = %q should be a valid instance name", got)
	}
}

func TestTXTRecords(t *testing.T) {
	md := parseTXT(TXTRecords("2.0.1"))
	if md["version"] != "2.0.1" || md["path"] != "/api" {
		t.Errorf("TXTRecords round trip = %v", md)
	}
}

func TestNewScanner(t *testing.T) {
	if NewScanner().Timeout != DefaultScanTimeout {
		t.Error("NewScanner() should use the default timeout")
	}
}

func TestAdvertisementStopNil(t *testing.T) {
	var a *Advertisement
	a.Stop()
	(&Advertisement{}).Stop()
}
