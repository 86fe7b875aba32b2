package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/devinv/internal/config"
	"github.com/muurk/devinv/internal/discovery"
	"github.com/muurk/devinv/internal/logging"
	"github.com/muurk/devinv/internal/ui"
)

var (
	configForce bool

	discoverTimeout time.Duration
	discoverSave    bool
	discoverFormat  string
)

func init() {
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
}

// discoverCmd browses the local network for inventory APIs
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Find inventory APIs on the local network",
	Long: `Browse mDNS for inventory APIs advertising _devinv._tcp and list every
one that answers before the timeout.

With --save the first API found becomes api.url in the config file and all
of them are remembered there.`,
	Example: `  # Browse for the configured time (default 5s)
  devinv discover

  # Longer scan, then use the first result from now on
  devinv discover --scan-timeout 15s --save`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().DurationVar(&discoverTimeout, "scan-timeout", 0, "How long to browse (default api.discover_timeout)")
	discoverCmd.Flags().BoolVar(&discoverSave, "save", false, "Store the first API found as api.url")
	discoverCmd.Flags().StringVar(&discoverFormat, "format", "text", "Output format (text, json)")
}

// discoveredService is the JSON form of a discovered API
type discoveredService struct {
	Instance string            `json:"instance"`
	Hostname string            `json:"hostname"`
	BaseURL  string            `json:"base_url"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func runDiscover(cmd *cobra.Command, args []string) error {
	if err := checkFormat(discoverFormat, "text", "json"); err != nil {
		return err
	}

	timeout := discoverTimeout
	if timeout <= 0 {
		timeout = settings.DiscoverTimeout
	}

	out := cmd.OutOrStdout()
	if discoverFormat == "text" {
		fmt.Fprintf(out, "Scanning for inventory APIs (timeout: %s)...\n\n", timeout)
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = timeout
	services, err := scanner.Browse(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if discoverFormat == "json" {
		found := make([]discoveredService, 0, len(services))
		for _, s := range services {
			found = append(found, discoveredService{
				Instance: s.Instance,
				Hostname: s.Hostname,
				BaseURL:  s.BaseURL(),
				Metadata: s.Metadata,
			})
		}
		if err := writeJSON(out, found); err != nil {
			return err
		}
	} else {
		printServices(cmd, services)
	}

	if discoverSave && len(services) > 0 {
		return saveDiscovered(cmd, services)
	}
	return nil
}

func printServices(cmd *cobra.Command, services []*discovery.Service) {
	out := cmd.OutOrStdout()

	if len(services) == 0 {
		fmt.Fprintln(out, "No inventory APIs found.")
		fmt.Fprintln(out, "\nTroubleshooting:")
		fmt.Fprintln(out, "  - Check that the backend is running and advertises _devinv._tcp")
		fmt.Fprintln(out, "  - Make sure you are on the same network segment as the backend")
		fmt.Fprintln(out, "  - Try a longer --scan-timeout")
		fmt.Fprintln(out, "  - Use --api to give the URL directly if discovery is blocked")
		return
	}

	fmt.Fprintf(out, "Found %d API(s):\n\n", len(services))
	for i, s := range services {
		fmt.Fprintf(out, "%d. %s\n", i+1, s.Instance)
		fmt.Fprintf(out, "   Host:  %s\n", s.Hostname)
		fmt.Fprintf(out, "   URL:   %s\n", s.BaseURL())
		if v := s.GetMetadata("version"); v != "" {
			fmt.Fprintf(out, "   Version: %s\n", v)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "Use 'devinv --api <url>' to connect to one of them")
}

// saveDiscovered remembers every service and makes the first the default.
func saveDiscovered(cmd *cobra.Command, services []*discovery.Service) error {
	f, err := config.LoadFile(configPath)
	if err != nil {
		return err
	}

	for _, s := range services {
		f.RememberBackend(s.BaseURL(), s.Instance)
	}
	f.API.URL = services[0].BaseURL()

	if err := f.Save(configPath); err != nil {
		return err
	}

	logging.Info("Saved discovered API", zap.String("url", f.API.URL), zap.String("config", configPath))
	fmt.Fprintln(cmd.ErrOrStderr(), ui.NewSuccessResult("API saved",
		ui.Param{Key: "URL", Value: f.API.URL},
		ui.Param{Key: "Config", Value: configPath},
	).Render())
	return nil
}

// configCmd groups the config file commands. It resolves only the file
// path so that a broken file can still be inspected or replaced.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
	Long: `Create and inspect the devinv configuration file.

Settings are resolved from built-in defaults, then the config file, then
DEVINV_* environment variables (e.g. DEVINV_API_URL), then command-line
flags; later sources win.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		configPath = path
		return logging.Initialize(logging.Options{Level: logLevel})
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.CreateDefault(configPath, configForce); err != nil {
			if errors.Is(err, config.ErrExists) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Long: `Print the settings devinv would use, after the config file, DEVINV_*
environment variables and flags have been applied.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd, configPath)
		if err != nil {
			return err
		}
		text, err := s.YAML()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", configPath, text)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configPath)
	},
}
