package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides: api.timeout is read from
// DEVINV_API_TIMEOUT.
const EnvPrefix = "DEVINV"

// Setting keys, shared by the file, the environment and flag bindings.
const (
	KeyAPIURL          = "api.url"
	KeyAPITimeout      = "api.timeout"
	KeyAPIDiscover     = "api.discover"
	KeyDiscoverTimeout = "api.discover_timeout"
	KeyLogLevel        = "log.level"
	KeyLogFile         = "log.file"
)

const (
	DefaultTimeout         = 10 * time.Second
	DefaultDiscoverTimeout = 5 * time.Second
)

// Settings is the resolved configuration.
type Settings struct {
	APIURL          string
	Timeout         time.Duration
	Discover        bool
	DiscoverTimeout time.Duration
	LogLevel        string
	LogFile         string
}

// NewViper returns a viper instance with defaults and DEVINV_* environment
// lookup. Precedence, lowest first: defaults, config file, environment,
// then anything bound or Set afterwards (command-line flags).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAPIURL, "")
	v.SetDefault(KeyAPITimeout, DefaultTimeout.String())
	v.SetDefault(KeyAPIDiscover, false)
	v.SetDefault(KeyDiscoverTimeout, DefaultDiscoverTimeout.String())
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile merges the config file at path into v. A missing file is not
// an error; a file with an unknown schema version is.
func ReadFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := parseFile(data); err != nil {
		return err
	}

	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to load config file: %w", err)
	}
	return nil
}

// Load is NewViper followed by ReadFile.
func Load(path string) (*viper.Viper, error) {
	v := NewViper()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return v, nil
}

// Resolve reads the effective settings out of v.
func Resolve(v *viper.Viper) (Settings, error) {
	s := Settings{
		APIURL:   strings.TrimSpace(v.GetString(KeyAPIURL)),
		Discover: v.GetBool(KeyAPIDiscover),
		LogLevel: strings.TrimSpace(v.GetString(KeyLogLevel)),
		LogFile:  strings.TrimSpace(v.GetString(KeyLogFile)),
	}

	var err error
	if s.Timeout, err = positiveDuration(v, KeyAPITimeout); err != nil {
		return Settings{}, err
	}
	if s.DiscoverTimeout, err = positiveDuration(v, KeyDiscoverTimeout); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// positiveDuration parses a duration such as "10s". A bare integer is
// taken as seconds.
func positiveDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))

	var d time.Duration
	if n, err := strconv.Atoi(raw); err == nil {
		d = time.Duration(n) * time.Second
	} else {
		d, err = time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

// File renders the settings in config file form, for display.
func (s Settings) File() *File {
	f := NewFile()
	f.API.URL = s.APIURL
	f.API.Timeout = s.Timeout.String()
	f.API.Discover = s.Discover
	f.API.DiscoverTimeout = s.DiscoverTimeout.String()
	f.Log.Level = s.LogLevel
	f.Log.File = s.LogFile
	f.Backends = nil
	return f
}

// YAML renders the settings as they would appear in the config file.
func (s Settings) YAML() (string, error) {
	data, err := yaml.Marshal(s.File())
	if err != nil {
		return "", fmt.Errorf("failed to marshal settings: %w", err)
	}
	return string(data), nil
}
