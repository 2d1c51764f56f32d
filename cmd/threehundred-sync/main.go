package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meltforce/threehundred/internal/app"
	"github.com/meltforce/threehundred/internal/config"
	"github.com/meltforce/threehundred/internal/metrics"
	"github.com/meltforce/threehundred/internal/tracker"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	// Used for flags.
	configPath string
	outPath    string
	days       int
	logLimit   int

	rootCmd = &cobra.Command{
		Use:     "threehundred-sync",
		Short:   "Inspect and move threehundred tracker data.",
		Long:    `threehundred-sync works directly on the tracker's local store: export and import snapshots, push the local snapshot to the remote mirror and print the schedule.`,
		Version: Version,
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write the current snapshot as JSON.",
		Run:   runExportCommand,
	}

	importCmd = &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all progress with a snapshot file.",
		Long:  `Replaces completions, checks, set logs, rest days and the start date with the contents of a snapshot file. A file that is not a JSON object is rejected and nothing changes.`,
		Args:  cobra.ExactArgs(1),
		Run:   runImportCommand,
	}

	pushCmd = &cobra.Command{
		Use:   "push",
		Short: "Push the local snapshot to the remote store.",
		Run:   runPushCommand,
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show sync state, storage stats and recent sync attempts.",
		Run:   runStatusCommand,
	}

	scheduleCmd = &cobra.Command{
		Use:   "schedule",
		Short: "Print the upcoming training days.",
		Run:   runScheduleCommand,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to the config file.")

	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file. Defaults to stdout; use - for stdout.")
	statusCmd.Flags().IntVar(&logLimit, "logs", 10, "Number of recent sync attempts to show.")
	scheduleCmd.Flags().IntVar(&days, "days", 14, "Number of days to print.")

	rootCmd.AddCommand(exportCmd, importCmd, pushCmd, statusCmd, scheduleCmd)
}

func main() {
	// Setup structured JSON logger for errors.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openApp loads the config and opens the tracker, exiting on failure.
func openApp(ctx context.Context) *app.App {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", configPath)
		os.Exit(1)
	}
	a, err := app.Open(ctx, cfg, metrics.NewRegistry(), "sync", slog.Default())
	if err != nil {
		slog.Error("failed to open tracker", "error", err)
		os.Exit(1)
	}
	return a
}

func runExportCommand(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	data, err := a.Tracker.ExportJSON()
	if err != nil {
		slog.Error("failed to export", "error", err)
		os.Exit(1)
	}
	if outPath == "" || outPath == "-" {
		cmd.Println(string(data))
		return
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		slog.Error("failed to write export", "error", err, "path", outPath)
		os.Exit(1)
	}
	cmd.Printf("exported to %s\n", outPath)
}

func runImportCommand(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(args[0])
	if err != nil {
		slog.Error("failed to read snapshot", "error", err, "path", args[0])
		os.Exit(1)
	}

	a := openApp(cmd.Context())
	defer a.Close()

	synced, err := a.Tracker.Import(cmd.Context(), data)
	if err != nil {
		slog.Error("import rejected", "error", err, "path", args[0])
		os.Exit(1)
	}
	p := a.Tracker.Progress()
	cmd.Printf("imported %s: %d/%d workouts completed (synced: %t)\n", args[0], p.Completed, p.Total, synced)
}

func runPushCommand(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	synced, err := a.Tracker.Sync(cmd.Context())
	if err != nil {
		slog.Error("push failed", "error", err)
		os.Exit(1)
	}
	if !synced {
		cmd.Printf("push failed: %s\n", a.Tracker.SyncStatus().LastError)
		os.Exit(1)
	}
	cmd.Printf("pushed to bin %s\n", a.Tracker.SyncStatus().BinID)
}

func runStatusCommand(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	a := openApp(ctx)
	defer a.Close()

	st := a.Tracker.SyncStatus()
	cmd.Printf("remote:   enabled=%t bin=%s online=%t pending=%t\n", st.RemoteEnabled, st.BinID, st.Online, st.Pending)
	cmd.Printf("loaded:   %s\n", st.LoadedFrom)

	stats, err := a.Gateway.Stats(ctx)
	if err != nil {
		slog.Error("failed to read stats", "error", err)
		os.Exit(1)
	}
	cmd.Printf("storage:  %s, snapshot %d bytes\n", stats.Driver, stats.SnapshotBytes)
	cmd.Printf("attempts: %d (%d failed)\n", stats.SyncAttempts, stats.SyncFailures)

	logs, err := a.Gateway.SyncLogs(ctx, logLimit)
	if err != nil {
		slog.Error("failed to read sync logs", "error", err)
		os.Exit(1)
	}
	for _, l := range logs {
		line := l.CreatedAt.Format("2006-01-02 15:04:05") + "  " + l.Direction + "  " + l.Status
		if l.ErrorMessage != nil {
			line += "  " + *l.ErrorMessage
		}
		cmd.Println(line)
	}
}

func runScheduleCommand(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	entries := a.Tracker.Schedule()
	if len(entries) == 0 {
		cmd.Println("no schedule: set a start date first")
		return
	}
	shown := 0
	for _, e := range entries {
		if e.Past {
			continue
		}
		if shown == days {
			break
		}
		cmd.Println(formatEntry(e))
		shown++
	}
}

func formatEntry(e tracker.ScheduleEntry) string {
	day := e.Date.String() + " " + e.Date.Weekday().String()[:3]
	if e.IsRest {
		return day + "  rest (" + string(e.Reason) + ")"
	}
	mark := " "
	if e.Completed {
		mark = "x"
	}
	return day + "  [" + mark + "] " + e.Workout.String() + "  " + string(e.Category) + "  " + strings.Join(e.Preview, " / ")
}
