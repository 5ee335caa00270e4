package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/echtzeitinfo/echtzeitinfo/internal/board"
	"github.com/echtzeitinfo/echtzeitinfo/internal/config"
	"github.com/echtzeitinfo/echtzeitinfo/internal/display"
	"github.com/echtzeitinfo/echtzeitinfo/internal/output"
	"github.com/echtzeitinfo/echtzeitinfo/internal/render"
	"github.com/echtzeitinfo/echtzeitinfo/internal/scheduler"
	"github.com/echtzeitinfo/echtzeitinfo/internal/tui"
	"github.com/echtzeitinfo/echtzeitinfo/internal/wienerlinien"
)

var version = "0.3.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "echtzeitinfo",
	Short: "Wiener Linien departure board for e-paper displays",
	Long: `echtzeitinfo polls the Wiener Linien real-time API for a set of
configured stops and renders a departure board onto a 7.5" e-paper panel,
alternating partial and full refreshes to keep ghosting at bay.

Running without a subcommand starts the refresh loop. Use simulate mode
(the default display driver) to develop without hardware: every cycle is
written as a PNG into the output directory.

Quick Start:
  1. Start the board loop:     echtzeitinfo -c config.yaml
  2. Render a single frame:    echtzeitinfo preview -c config.yaml
  3. Departures in the shell:  echtzeitinfo departures -c config.yaml
  4. Live terminal board:      echtzeitinfo tui -c config.yaml`,
	Version: version,
	RunE:    runBoard,
}

// Global flags
var (
	flagConfig  string
	flagVerbose bool
)

// Run flags
var (
	flagSimulate  bool
	flagOutputDir string
)

// Departures/preview flags
var (
	flagColor   string
	flagNoCache bool
	flagJSON    bool
	flagOut     string
)

func init() {
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(departuresCmd)
	rootCmd.AddCommand(tuiCmd)

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "config.yaml", "Path to YAML configuration")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	rootCmd.Flags().BoolVar(&flagSimulate, "simulate", false, "Force simulate mode regardless of configured driver")
	rootCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "Override simulate-mode output directory")

	previewCmd.Flags().StringVarP(&flagOut, "out", "o", "preview.png", "Output PNG path")
	previewCmd.Flags().BoolVar(&flagJSON, "json", false, "Print aggregated departures as JSON instead of rendering")
	previewCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Disable response caching")

	departuresCmd.Flags().StringVar(&flagColor, "color", "auto", "Color output: auto, always, never")
	departuresCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Disable response caching")
	departuresCmd.Flags().BoolVar(&flagJSON, "json", false, "Output as JSON")
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Fetch once and render a single frame to a PNG",
	Long: `Fetch departures once, aggregate them and render one board frame
to a PNG file. Useful for layout work without hardware or a running loop.

With --json the aggregated station boards are printed instead of rendered.`,
	Args: cobra.NoArgs,
	RunE: runPreview,
}

var departuresCmd = &cobra.Command{
	Use:   "departures",
	Short: "Print the configured departure boards to the terminal",
	Args:  cobra.NoArgs,
	RunE:  runDepartures,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Live departure board in the terminal",
	Long: `Show the configured stations as a live terminal board, refreshing
on the configured interval.

Keyboard:
  r   refresh now
  q   quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

// setupLogger installs the process-wide text logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// newClient creates the API client for the one-shot commands, cached unless
// disabled.
func newClient(logger *slog.Logger) (*wienerlinien.Client, error) {
	opts := []wienerlinien.ClientOption{wienerlinien.WithLogger(logger)}
	if !flagNoCache {
		opts = append(opts, wienerlinien.WithDefaultCache())
	}
	return wienerlinien.NewClient(opts...)
}

func runBoard(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	// The daemon never caches: countdowns must be live.
	client, err := wienerlinien.NewClient(wienerlinien.WithLogger(logger.With("component", "api")))
	if err != nil {
		return err
	}

	renderer, err := render.New(cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return err
	}

	sink, err := buildSink(cfg, logger)
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Config{
		Stations:         cfg.BoardStations(),
		Interval:         cfg.Interval(),
		FullRefreshEvery: cfg.FullRefreshEvery,
	}, client, renderer, sink, logger.With("component", "scheduler"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting refresh loop",
		"stations", len(cfg.Stations),
		"interval", sched.Interval(),
		"full_refresh_every", cfg.FullRefreshEvery)

	return sched.Run(ctx)
}

// buildSink picks the display variant. --simulate wins over the configured
// driver so a board config can be tried on any machine.
func buildSink(cfg *config.Config, logger *slog.Logger) (display.Sink, error) {
	driver := cfg.Display.Driver
	if flagSimulate {
		driver = config.DriverSimulate
	}

	switch driver {
	case config.DriverSimulate:
		dir := cfg.Display.OutputDir
		if flagOutputDir != "" {
			dir = flagOutputDir
		}
		return display.NewSimulator(dir, logger.With("component", "display")), nil
	case config.DriverEPD7in5:
		return display.NewPanel(cfg.Display.SPIPort, logger.With("component", "display")), nil
	default:
		return nil, fmt.Errorf("%w: unknown display driver %q", config.ErrInvalid, driver)
	}
}

// fetchBoards is the shared fetch-and-aggregate step of the one-shot commands.
func fetchBoards(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]board.StationBoard, time.Time, error) {
	client, err := newClient(logger)
	if err != nil {
		return nil, time.Time{}, err
	}

	raw, err := client.FetchDepartures(ctx, cfg.AllRBLs())
	if err != nil {
		return nil, time.Time{}, err
	}

	now := time.Now().In(client.Timezone())
	return board.Aggregate(cfg.BoardStations(), raw, now), now, nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	boards, now, err := fetchBoards(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(boards)
	}

	renderer, err := render.New(cfg.Display.Width, cfg.Display.Height)
	if err != nil {
		return err
	}
	frame, err := renderer.Render(boards, now)
	if err != nil {
		return err
	}

	file, err := os.Create(flagOut)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if err := png.Encode(file, frame.Img); err != nil {
		return err
	}
	logger.Info("preview written", "path", flagOut)
	return nil
}

func runDepartures(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	boards, now, err := fetchBoards(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(boards)
	}

	colors := output.NewColors(output.ParseColorMode(flagColor))
	output.RenderBoards(os.Stdout, boards, now, output.TableOptions{Colors: colors})
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	model := tui.New(client, cfg.BoardStations(), cfg.Interval())
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
