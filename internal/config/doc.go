// Package config provides user configuration management for devinv.
//
// Settings come from four layers, lowest precedence first:
//
//  1. Built-in defaults (10s request timeout, discovery off, silent logs)
//  2. The YAML config file
//  3. DEVINV_* environment variables (DEVINV_API_URL, DEVINV_API_TIMEOUT,
//     DEVINV_API_DISCOVER, DEVINV_LOG_LEVEL, ...)
//  4. Command-line flags bound onto the viper instance
//
// The file also remembers the backends this machine has connected to.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/devinv/config.yaml or $HOME/.config/devinv/config.yaml
//   - macOS: $HOME/.config/devinv/config.yaml
//   - Windows: %LOCALAPPDATA%\devinv\config.yaml
//
// # Usage Example
//
//	path, _ := config.GetConfigPath()
//	v, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	_ = v.BindPFlag(config.KeyAPIURL, cmd.Flags().Lookup("api"))
//
//	settings, err := config.Resolve(v)
//
// # Thread Safety
//
// Save is guarded by a mutex and writes through a temporary file, so
// concurrent saves never interleave and a crash never truncates the file.
package config
