package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(xdg, "devinv"); configDir != want {
		t.Errorf("GetConfigDir() = %v, want %v", configDir, want)
	}

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}

	logPath, err := DefaultLogPath()
	if err != nil {
		t.Fatalf("DefaultLogPath() error = %v", err)
	}
	if filepath.Dir(logPath) != configDir {
		t.Errorf("DefaultLogPath() = %v, want it inside %v", logPath, configDir)
	}
}

func TestNewFile(t *testing.T) {
	f := NewFile()

	if f.Version != CurrentVersion {
		t.Errorf("NewFile().Version = %v, want %v", f.Version, CurrentVersion)
	}
	if f.API == nil || f.Log == nil || f.Backends == nil {
		t.Fatal("NewFile() should populate every section")
	}
	if f.API.Timeout != "10s" {
		t.Errorf("NewFile().API.Timeout = %q, want 10s", f.API.Timeout)
	}
	if f.API.Discover {
		t.Error("discovery should be off by default")
	}
}

func TestRememberBackend(t *testing.T) {
	f := NewFile()

	before := time.Now()
	first := f.RememberBackend("http://10.0.0.5:8080/api", "lab")
	after := time.Now()

	if first.Instance != "lab" {
		t.Errorf("Instance = %q, want lab", first.Instance)
	}
	if first.LastSeen.Before(before) || first.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", first.LastSeen, before, after)
	}

	// A manual connection keeps the discovered name
	again := f.RememberBackend("http://10.0.0.5:8080/api", "")
	if again != first || again.Instance != "lab" {
		t.Error("RememberBackend() should update the existing entry")
	}
	if f.GetBackend("http://other/api") != nil {
		t.Error("GetBackend() of an unknown URL should be nil")
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	f := NewFile()
	f.API.URL = "http://inventory.local:8080/api"
	f.Log.Level = "debug"
	f.RememberBackend(f.API.URL, "office")

	if err := f.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# devinv configuration file") {
		t.Error("saved file should start with the header comment")
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Error("temporary file should be renamed away")
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if loaded.API.URL != f.API.URL {
		t.Errorf("API.URL = %q, want %q", loaded.API.URL, f.API.URL)
	}
	if loaded.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", loaded.Log.Level)
	}
	if b := loaded.GetBackend(f.API.URL); b == nil || b.Instance != "office" {
		t.Errorf("backend = %+v, want instance office", b)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string // empty means the file is absent
		wantErr string
		check   func(t *testing.T, f *File)
	}{
		{
			name: "missing file gives defaults",
			check: func(t *testing.T, f *File) {
				if f.API.Timeout != "10s" {
					t.Errorf("API.Timeout = %q, want default", f.API.Timeout)
				}
			},
		},
		{
			name:    "sections filled in",
			content: "version: 1\n",
			check: func(t *testing.T, f *File) {
				if f.API == nil || f.Log == nil || f.Backends == nil {
					t.Error("missing sections should be created")
				}
			},
		},
		{
			name:    "unsupported version",
			content: "version: 2\n",
			wantErr: "unsupported config version",
		},
		{
			name:    "invalid yaml",
			content: "version: [\n",
			wantErr: "failed to parse",
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "case"+string(rune('a'+i))+".yaml")
			if tt.content != "" {
				if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
					t.Fatal(err)
				}
			}

			f, err := LoadFile(path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("LoadFile() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			tt.check(t, f)
		})
	}
}

func TestCreateDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := CreateDefault(path, false); err != nil {
		t.Fatalf("CreateDefault() error = %v", err)
	}

	err := CreateDefault(path, false)
	if !errors.Is(err, ErrExists) {
		t.Errorf("second CreateDefault() error = %v, want ErrExists", err)
	}

	if err := CreateDefault(path, true); err != nil {
		t.Errorf("CreateDefault(force) error = %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve_Defaults(t *testing.T) {
	v, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	s, err := Resolve(v)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	want := Settings{
		Timeout:         DefaultTimeout,
		DiscoverTimeout: DefaultDiscoverTimeout,
	}
	if s != want {
		t.Errorf("Resolve() = %+v, want %+v", s, want)
	}
}

func TestResolve_Precedence(t *testing.T) {
	path := writeConfig(t, `version: 1
api:
  url: http://from-file:8080/api
  timeout: 30s
  discover: true
log:
  level: warn
`)

	t.Setenv("DEVINV_API_TIMEOUT", "15s")
	t.Setenv("DEVINV_LOG_LEVEL", "debug")

	v, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// Flags bind on top of everything else
	v.Set(KeyLogLevel, "error")

	s, err := Resolve(v)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file beats default", s.APIURL, "http://from-file:8080/api"},
		{"file bool", s.Discover, true},
		{"env beats file", s.Timeout, 15 * time.Second},
		{"flag beats env", s.LogLevel, "error"},
		{"default kept", s.DiscoverTimeout, DefaultDiscoverTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestResolve_Durations(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		want    time.Duration
		wantErr bool
	}{
		{"duration string", "2m", 2 * time.Minute, false},
		{"bare seconds", "45", 45 * time.Second, false},
		{"garbage", "soon", 0, true},
		{"zero", "0s", 0, true},
		{"negative", "-5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViper()
			v.Set(KeyAPITimeout, tt.timeout)

			s, err := Resolve(v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && s.Timeout != tt.want {
				t.Errorf("Timeout = %v, want %v", s.Timeout, tt.want)
			}
		})
	}
}

func TestReadFile_RejectsVersion(t *testing.T) {
	path := writeConfig(t, "version: 7\napi:\n  url: http://x/api\n")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() should reject an unknown version")
	}
}

func TestSettingsYAML(t *testing.T) {
	s := Settings{
		APIURL:          "http://h:1/api",
		Timeout:         3 * time.Second,
		DiscoverTimeout: time.Second,
		LogLevel:        "info",
	}

	out, err := s.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	for _, want := range []string{"url: http://h:1/api", "timeout: 3s", "level: info"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "backends") {
		t.Error("resolved settings should not list backends")
	}
}
