package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Service is an inventory API found on the local network
type Service struct {
	// Instance is the advertised instance name (e.g., "Head office inventory")
	Instance string

	// Hostname is the mDNS hostname (e.g., "inventory.local.")
	Hostname string

	// IP is the address to connect to; IPv4 when the service has one
	IP string

	// Port is the HTTP port
	Port int

	// Path is the API base path from the "path" TXT record
	Path string

	// Metadata holds every TXT record, e.g. "version=1.2.0"
	Metadata map[string]string

	// DiscoveredAt is when the service answered
	DiscoveredAt time.Time
}

// String returns a human-readable description of the service
func (s *Service) String() string {
	return fmt.Sprintf("%s (%s) at %s", s.Instance, s.Hostname, s.BaseURL())
}

// BaseURL returns the API root, e.g. "http://192.168.1.20:8080/api"
func (s *Service) BaseURL() string {
	path := s.Path
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return "http://" + net.JoinHostPort(s.IP, strconv.Itoa(s.Port)) + strings.TrimRight(path, "/")
}

// GetMetadata retrieves a TXT value by key, or returns empty string if not found
func (s *Service) GetMetadata(key string) string {
	if s.Metadata == nil {
		return ""
	}
	return s.Metadata[key]
}
