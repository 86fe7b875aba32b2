package config

import "time"

// CurrentVersion is the schema version written by Save.
const CurrentVersion = 1

// File represents the entire user configuration file.
// It stores connection defaults and the backends this machine has used.
type File struct {
	Version  int                 `yaml:"version"`
	API      *APIPrefs           `yaml:"api,omitempty"`
	Log      *LogPrefs           `yaml:"log,omitempty"`
	Backends map[string]*Backend `yaml:"backends,omitempty"` // Keyed by base URL
}

// APIPrefs configures how the inventory API is reached.
type APIPrefs struct {
	URL             string `yaml:"url,omitempty"`              // Base URL including /api; empty means discover
	Timeout         string `yaml:"timeout,omitempty"`          // Per-request timeout, e.g. "10s"
	Discover        bool   `yaml:"discover"`                   // Use the first mDNS result when URL is empty
	DiscoverTimeout string `yaml:"discover_timeout,omitempty"` // mDNS browse window, e.g. "5s"
}

// LogPrefs configures diagnostic logging.
type LogPrefs struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn or error; empty is silent
	File  string `yaml:"file,omitempty"`  // Log file used while the dashboard runs
}

// Backend is a remembered inventory API.
type Backend struct {
	Instance string    `yaml:"instance,omitempty"` // mDNS instance name, when discovered
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// NewFile creates a File with default values.
func NewFile() *File {
	return &File{
		Version: CurrentVersion,
		API: &APIPrefs{
			Timeout:         DefaultTimeout.String(),
			DiscoverTimeout: DefaultDiscoverTimeout.String(),
		},
		Log:      &LogPrefs{},
		Backends: make(map[string]*Backend),
	}
}

// GetBackend returns a remembered backend, or nil.
func (f *File) GetBackend(url string) *Backend {
	return f.Backends[url]
}

// RememberBackend records that url was reached now. An empty instance keeps
// the previously stored one.
func (f *File) RememberBackend(url, instance string) *Backend {
	if f.Backends == nil {
		f.Backends = make(map[string]*Backend)
	}

	b, ok := f.Backends[url]
	if !ok {
		b = &Backend{}
		f.Backends[url] = b
	}
	if instance != "" {
		b.Instance = instance
	}
	b.LastSeen = time.Now()
	return b
}

// ensureSections fills in sections missing from an older or hand-written file.
func (f *File) ensureSections() {
	if f.API == nil {
		f.API = NewFile().API
	}
	if f.Log == nil {
		f.Log = &LogPrefs{}
	}
	if f.Backends == nil {
		f.Backends = make(map[string]*Backend)
	}
}
