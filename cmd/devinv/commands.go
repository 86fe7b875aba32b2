package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/devinv/internal/charts"
	"github.com/muurk/devinv/internal/config"
	"github.com/muurk/devinv/internal/discovery"
	"github.com/muurk/devinv/internal/filter"
	"github.com/muurk/devinv/internal/gateway"
	"github.com/muurk/devinv/internal/inventory"
	"github.com/muurk/devinv/internal/listview"
	"github.com/muurk/devinv/internal/logging"
	"github.com/muurk/devinv/internal/tui"
	"github.com/muurk/devinv/internal/ui"
)

// Global flags (persistent on root)
var (
	configFile string
	apiURL     string
	apiTimeout string
	logLevel   string
)

// Resolved by setup before any command runs
var (
	configPath string
	settings   config.Settings
)

// flagKeys binds persistent flags over the config file and environment.
var flagKeys = []struct{ key, flag string }{
	{config.KeyAPIURL, "api"},
	{config.KeyAPITimeout, "timeout"},
	{config.KeyLogLevel, "log-level"},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is <config dir>/devinv/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Inventory API base URL, e.g. http://localhost:8080/api")
	rootCmd.PersistentFlags().StringVar(&apiTimeout, "timeout", "", "Per-request timeout, e.g. 10s (default 10s)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(departmentsCmd)
	rootCmd.AddCommand(statsCmd)
}

// setup resolves settings and starts logging. The dashboard logs to a
// file because it owns the terminal; every other command logs to stderr.
func setup(cmd *cobra.Command, args []string) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	s, err := loadSettings(cmd, path)
	if err != nil {
		return err
	}
	configPath, settings = path, s

	opts := logging.Options{Level: s.LogLevel}
	if s.LogLevel != "" && runsDashboard(cmd) {
		file := s.LogFile
		if file == "" {
			if file, err = config.DefaultLogPath(); err != nil {
				return err
			}
		}
		if err := os.MkdirAll(filepath.Dir(file), 0o700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		opts.File = file
	}

	if err := logging.Initialize(opts); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	logging.Debug("Settings resolved",
		zap.String("config", path),
		zap.String("api", s.APIURL),
		zap.Duration("timeout", s.Timeout),
		zap.Bool("discover", s.Discover))
	return nil
}

func resolveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.GetConfigPath()
}

// loadSettings layers defaults, the config file, DEVINV_* variables and
// the global flags, in that order.
func loadSettings(cmd *cobra.Command, path string) (config.Settings, error) {
	v, err := config.Load(path)
	if err != nil {
		return config.Settings{}, err
	}

	flags := cmd.Root().PersistentFlags()
	for _, b := range flagKeys {
		if err := v.BindPFlag(b.key, flags.Lookup(b.flag)); err != nil {
			return config.Settings{}, fmt.Errorf("failed to bind --%s: %w", b.flag, err)
		}
	}

	return config.Resolve(v)
}

func runsDashboard(cmd *cobra.Command) bool {
	return cmd == cmd.Root() || cmd.Name() == "dashboard"
}

func newClient(baseURL string) *gateway.Client {
	client := gateway.NewClient(baseURL)
	client.SetTimeout(settings.Timeout)
	return client
}

// connect builds a client for the configured API. When no URL is set and
// api.discover is on, the first API found over mDNS is used; otherwise the
// local default applies.
func connect(cmd *cobra.Command) (*gateway.Client, error) {
	if settings.APIURL != "" || !settings.Discover {
		return newClient(settings.APIURL), nil
	}

	w := cmd.ErrOrStderr()
	fmt.Fprintln(w, "No API URL specified, attempting auto-discovery...")

	svc, err := findFirst(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("auto-discovery failed: %w\nPlease specify the API with --api <url>", err)
	}

	fmt.Fprintf(w, "Found %s\n\n", svc)
	return newClient(svc.BaseURL()), nil
}

func findFirst(ctx context.Context) (*discovery.Service, error) {
	scanner := discovery.NewScanner()
	scanner.Timeout = settings.DiscoverTimeout
	return scanner.FindFirst(ctx)
}

// loadError wraps a failed read with the likely cause. The gateway error
// stays in the chain.
func loadError(what string, err error) error {
	switch {
	case gateway.IsNotFound(err):
		return fmt.Errorf("%s not found: %w", what, err)
	case gateway.IsNetworkError(err):
		return fmt.Errorf("cannot reach the inventory API to load %s: %w", what, err)
	case gateway.IsParseError(err):
		return fmt.Errorf("unexpected response while loading %s: %w", what, err)
	default:
		return fmt.Errorf("failed to load %s: %w", what, err)
	}
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (expected %s)", format, strings.Join(allowed, ", "))
}

// dashboardCmd runs the full-screen dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive dashboard",
	Long: `Launch the full-screen inventory dashboard.

With an API URL configured (--api, DEVINV_API_URL or api.url) the dashboard
connects straight away. Otherwise it opens on the discovery screen, which
browses the local network and also accepts a typed URL.`,
	Example: `  # Connect to a known backend
  devinv dashboard --api http://inventory.local:8080/api

  # Pick a backend from the discovery screen
  devinv`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if !ui.IsInteractive() {
		return fmt.Errorf("the dashboard needs an interactive terminal; use 'devinv list' for scripted output")
	}

	opts := tui.Options{
		Timeout:     settings.Timeout,
		ScanTimeout: settings.DiscoverTimeout,
	}

	switch {
	case settings.APIURL != "":
		opts.API = newClient(settings.APIURL)
	case settings.Discover:
		fmt.Fprintln(cmd.ErrOrStderr(), "No API URL specified, attempting auto-discovery...")
		svc, err := findFirst(cmd.Context())
		if err != nil {
			// The discovery screen lets the user retry or type a URL
			logging.Warn("Auto-discovery failed", zap.Error(err))
			break
		}
		opts.API = newClient(svc.BaseURL())
	}

	logging.LogUserAction("dashboard_start", zap.Bool("connected", opts.API != nil))
	return tui.Run(opts)
}

// List command flags
var (
	listKeyword    string
	listType       string
	listStatus     string
	listDepartment string
	listPage       int
	listPageSize   int
	listSort       string
	listFormat     string
)

// listCmd prints one page of the filtered, sorted inventory
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List devices",
	Long: `List devices as a table, one page at a time.

Filters combine: a device must match every one given. --keyword matches the
device name or code ignoring case, --department matches a department code or
name. Results are sorted and paged the same way as in the dashboard.`,
	Example: `  # First page of everything
  devinv list

  # Servers that are in use, newest code first
  devinv list --type 服务器 --status 使用中 --sort code:desc

  # Third page of 20, as JSON
  devinv list --page 3 --page-size 20 --format json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listKeyword, "keyword", "k", "", "Match name or code (case-insensitive)")
	listCmd.Flags().StringVar(&listType, "type", "", "Device type, e.g. 服务器")
	listCmd.Flags().StringVar(&listStatus, "status", "", "Device status, e.g. 使用中")
	listCmd.Flags().StringVar(&listDepartment, "department", "", "Department code or name")
	listCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	listCmd.Flags().IntVar(&listPageSize, "page-size", listview.DefaultPageSize, "Devices per page")
	listCmd.Flags().StringVar(&listSort, "sort", "", "Sort column, optionally with :asc or :desc (e.g. name:desc)")
	listCmd.Flags().StringVar(&listFormat, "format", "table", "Output format (table, json)")
}

// listQuery is everything that shapes a device listing
type listQuery struct {
	Criteria filter.Criteria
	Sort     listview.Sort
	Pager    listview.Pager
}

// listResult is one page of a listing; it is also the JSON output.
type listResult struct {
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Pages    int                `json:"pages"`
	Devices  []inventory.Device `json:"devices"`

	pager listview.Pager
}

// run filters, sorts and pages devices. An out-of-range page is clamped.
func (q listQuery) run(devices []inventory.Device) listResult {
	matched := q.Sort.Apply(filter.Apply(devices, q.Criteria))
	pager := q.Pager.Clamp(len(matched))

	return listResult{
		Total:    len(matched),
		Page:     pager.Page,
		PageSize: pager.PageSize,
		Pages:    pager.PageCount(len(matched)),
		Devices:  listview.Page(matched, pager),
		pager:    pager,
	}
}

// parseSort reads "column", "column:asc" or "column:desc".
func parseSort(raw string) (listview.Sort, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return listview.Sort{}, nil
	}

	name, dir, _ := strings.Cut(raw, ":")
	column, err := listview.ParseColumn(name)
	if err != nil {
		return listview.Sort{}, err
	}

	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
		return listview.Sort{Column: column, Order: listview.OrderAsc}, nil
	case "desc":
		return listview.Sort{Column: column, Order: listview.OrderDesc}, nil
	default:
		return listview.Sort{}, fmt.Errorf("unknown sort order %q (expected asc or desc)", dir)
	}
}

func buildListQuery() (listQuery, error) {
	if listPage < 1 {
		return listQuery{}, fmt.Errorf("--page must be at least 1")
	}
	if listPageSize < 1 {
		return listQuery{}, fmt.Errorf("--page-size must be at least 1")
	}

	sort, err := parseSort(listSort)
	if err != nil {
		return listQuery{}, fmt.Errorf("invalid --sort: %w", err)
	}

	return listQuery{
		Criteria: filter.Criteria{
			Keyword:    strings.TrimSpace(listKeyword),
			Type:       inventory.Type(strings.TrimSpace(listType)),
			Status:     inventory.Status(strings.TrimSpace(listStatus)),
			Department: strings.TrimSpace(listDepartment),
		},
		Sort:  sort,
		Pager: listview.Pager{Page: listPage, PageSize: listPageSize},
	}, nil
}

// fetchInventory loads devices and departments concurrently. Departments
// only supply display names, so failing to load them is not fatal.
func fetchInventory(ctx context.Context, api gateway.DeviceReader) ([]inventory.Device, []inventory.Department, error) {
	var (
		devices     []inventory.Device
		departments []inventory.Department
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		devices, err = api.ListDevices(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		if departments, err = api.ListDepartments(gctx); err != nil {
			logging.Warn("Failed to load departments", zap.Error(err))
			departments = nil
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return devices, departments, nil
}

// departmentNames maps codes to names, falling back to the code itself.
func departmentNames(departments []inventory.Department) func(code string) string {
	names := make(map[string]string, len(departments))
	for _, d := range departments {
		names[d.Code] = d.Name
	}
	return func(code string) string {
		if name, ok := names[code]; ok && name != "" {
			return name
		}
		return code
	}
}

func runList(cmd *cobra.Command, args []string) error {
	if err := checkFormat(listFormat, "table", "json"); err != nil {
		return err
	}
	query, err := buildListQuery()
	if err != nil {
		return err
	}

	client, err := connect(cmd)
	if err != nil {
		return err
	}

	devices, departments, err := fetchInventory(cmd.Context(), client)
	if err != nil {
		return loadError("devices", err)
	}

	result := query.run(devices)
	out := cmd.OutOrStdout()

	if listFormat == "json" {
		return writeJSON(out, result)
	}

	params := []ui.Param{{Key: "API", Value: client.BaseURL}}
	if active := query.Criteria.Active(); active != "" {
		params = append(params, ui.Param{Key: "Filters", Value: active})
	}
	if query.Sort.IsActive() {
		order := "ascending"
		if query.Sort.Order == listview.OrderDesc {
			order = "descending"
		}
		params = append(params, ui.Param{Key: "Sort", Value: query.Sort.Column.String() + " " + order})
	}

	width := ui.GetTerminalWidth()
	fmt.Fprintln(out, ui.NewHeader("Device inventory", "devinv list", params...).SetWidth(width).Render())
	fmt.Fprintln(out, ui.DeviceTable{
		Rows:       result.Devices,
		Pager:      result.pager,
		Total:      result.Total,
		Sort:       query.Sort,
		Department: departmentNames(departments),
	}.Render())
	return nil
}

var showFormat string

// showCmd prints one device
var showCmd = &cobra.Command{
	Use:   "show <code>",
	Short: "Show one device",
	Long: `Fetch a single device by its code and print every field, including
the department name and the record timestamps.`,
	Example: `  devinv show D001
  devinv show D001 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFormat, "format", "text", "Output format (text, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	if err := checkFormat(showFormat, "text", "json"); err != nil {
		return err
	}

	client, err := connect(cmd)
	if err != nil {
		return err
	}

	device, err := client.GetDevice(cmd.Context(), args[0])
	if err != nil {
		return loadError("device "+args[0], err)
	}

	out := cmd.OutOrStdout()
	if showFormat == "json" {
		return writeJSON(out, device)
	}

	var names func(string) string
	if device.Department == nil {
		departments, err := client.ListDepartments(cmd.Context())
		if err != nil {
			logging.Warn("Failed to load departments", zap.Error(err))
		}
		names = departmentNames(departments)
	}

	fmt.Fprintln(out, ui.RenderDevice(*device, names))
	return nil
}

var typesFormat string

// typesCmd lists the device categories
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List device types",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	typesCmd.Flags().StringVar(&typesFormat, "format", "text", "Output format (text, json)")
}

func runTypes(cmd *cobra.Command, args []string) error {
	if err := checkFormat(typesFormat, "text", "json"); err != nil {
		return err
	}

	client, err := connect(cmd)
	if err != nil {
		return err
	}

	types, err := client.ListDeviceTypes(cmd.Context())
	if err != nil {
		return loadError("device types", err)
	}

	out := cmd.OutOrStdout()
	if typesFormat == "json" {
		return writeJSON(out, types)
	}

	for _, t := range types {
		fmt.Fprintf(out, "%s\t%s\n", t, t.Label())
	}
	return nil
}

var departmentsFormat string

// departmentsCmd lists departments, one per code
var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List departments",
	Long: `List departments. The backend may repeat a department code; only one
entry per code is shown.`,
	Args: cobra.NoArgs,
	RunE: runDepartments,
}

func init() {
	departmentsCmd.Flags().StringVar(&departmentsFormat, "format", "text", "Output format (text, json)")
}

func runDepartments(cmd *cobra.Command, args []string) error {
	if err := checkFormat(departmentsFormat, "text", "json"); err != nil {
		return err
	}

	client, err := connect(cmd)
	if err != nil {
		return err
	}

	departments, err := client.ListDepartments(cmd.Context())
	if err != nil {
		return loadError("departments", err)
	}

	out := cmd.OutOrStdout()
	if departmentsFormat == "json" {
		return writeJSON(out, departments)
	}

	if len(departments) == 0 {
		fmt.Fprintln(out, "No departments.")
		return nil
	}
	for _, d := range departments {
		line := fmt.Sprintf("%s\t%s", d.Code, d.Name)
		if d.Description != "" {
			line += "\t" + d.Description
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

var statsFormat string

// statsCmd prints the inventory statistics
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show inventory statistics",
	Long: `Show overview counters, the status breakdown and the count per type.

--format echarts prints the chart options the web dashboard would hand to
ECharts: a doughnut of statuses and a bar chart of types.`,
	Example: `  devinv stats
  devinv stats --format json
  devinv stats --format echarts > charts.json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFormat, "format", "text", "Output format (text, json, echarts)")
}

// echartsOptions is the --format echarts document
type echartsOptions struct {
	Status map[string]any `json:"status"`
	Type   map[string]any `json:"type"`
}

func runStats(cmd *cobra.Command, args []string) error {
	if err := checkFormat(statsFormat, "text", "json", "echarts"); err != nil {
		return err
	}

	client, err := connect(cmd)
	if err != nil {
		return err
	}

	stats, err := client.GetStats(cmd.Context())
	if err != nil {
		return loadError("stats", err)
	}

	out := cmd.OutOrStdout()
	switch statsFormat {
	case "json":
		return writeJSON(out, stats)
	case "echarts":
		return writeJSON(out, echartsOptions{
			Status: charts.StatusPie(*stats).EChartsOption(),
			Type:   charts.TypeBar(*stats).EChartsOption(),
		})
	}

	fmt.Fprintln(out, renderStats(*stats, ui.GetTerminalWidth()))
	return nil
}

func renderStats(stats inventory.Stats, width int) string {
	sections := []string{
		charts.RenderOverview(charts.Overview(stats)),
		"Status",
		charts.RenderPieLegend(charts.StatusPie(stats)),
		"Type",
		charts.RenderBars(charts.TypeBar(stats), width),
	}
	return strings.Join(sections, "\n\n")
}
