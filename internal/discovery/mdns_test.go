package discovery

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantURL  string
		wantName string
	}{
		{
			name: "IPv4 with path record",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "Head office"},
				HostName:      "inventory.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.20")},
				Text:          []string{"path=/inventory/api", "version=1.2.0"},
			},
			wantURL:  "http://192.168.1.20:8080/inventory/api",
			wantName: "Head office",
		},
		{
			name: "defaults for port and path",
			entry: &zeroconf.ServiceEntry{
				HostName: "assets.local.",
				AddrIPv4: []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantURL:  "http://10.0.0.5:8080/api",
			wantName: "assets.local",
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "lab"},
				Port:          9000,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantURL:  "http://[fe80::1]:9000/api",
			wantName: "lab",
		},
		{
			name: "IPv4 preferred over IPv6",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "dual"},
				Port:          80,
				AddrIPv4:      []net.IP{net.ParseIP("172.16.0.1")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantURL:  "http://172.16.0.1:80/api",
			wantName: "dual",
		},
		{
			name:    "no address",
			entry:   &zeroconf.ServiceEntry{HostName: "ghost.local."},
			wantNil: true,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if svc != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", svc)
				}
				return
			}
			if svc == nil {
				t.Fatal("parseServiceEntry() = nil, want service")
			}
			if got := svc.BaseURL(); got != tt.wantURL {
				t.Errorf("BaseURL() = %q, want %q", got, tt.wantURL)
			}
			if svc.Instance != tt.wantName {
				t.Errorf("Instance = %q, want %q", svc.Instance, tt.wantName)
			}
		})
	}
}

func TestParseServiceEntry_Metadata(t *testing.T) {
	svc := parseServiceEntry(&zeroconf.ServiceEntry{
		AddrIPv4: []net.IP{net.ParseIP("192.168.1.2")},
		Text:     []string{"version=1.2.0", "readonly"},
	})

	if svc.GetMetadata("version") != "1.2.0" {
		t.Errorf("version = %q", svc.GetMetadata("version"))
	}
	if _, ok := svc.Metadata["readonly"]; !ok {
		t.Error("key without value should be kept")
	}
	if (&Service{}).GetMetadata("x") != "" {
		t.Error("nil metadata should return empty string")
	}
}

func TestService_BaseURLPath(t *testing.T) {
	svc := &Service{IP: "10.1.1.1", Port: 8080, Path: "api/"}
	if got := svc.BaseURL(); got != "http://10.1.1.1:8080/api" {
		t.Errorf("BaseURL() = %q", got)
	}
}

func TestNewScanner(t *testing.T) {
	if s := NewScanner(); s.Timeout != DefaultScanTimeout {
		t.Errorf("Timeout = %v, want %v", s.Timeout, DefaultScanTimeout)
	}
}
