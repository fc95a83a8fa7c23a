package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/termdemo/internal/config"
	"github.com/san-kum/termdemo/internal/logging"
	"github.com/san-kum/termdemo/internal/replay"
	"github.com/san-kum/termdemo/internal/script"
	"github.com/san-kum/termdemo/internal/trace"
	"github.com/san-kum/termdemo/internal/viz"
)

var (
	configFile string
	dataDir    string
	logLevel   string
	logFile    string
	preset     string
	theme      string
	// Timing overrides in milliseconds
	cooldownMs     int
	startDelayMs   int
	typeIntervalMs int
	// Non-interactive output
	passes    int
	output    string
	interval  int
	logFrame  bool
	readStdin bool
)

// main registers the termdemo commands and runs the interactive player when
// no subcommand is given. It exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "termdemo [script.yaml]",
		Short:         "scripted terminal session replayer",
		Args:          cobra.MaximumNArgs(1),
		RunE:          runPlay,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "recordings directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", script.DefaultPreset, "bundled sequence to use when no script is given")
	rootCmd.PersistentFlags().IntVar(&cooldownMs, "cooldown", 0, "override cooldown before each restart (ms)")
	rootCmd.PersistentFlags().IntVar(&startDelayMs, "start-delay", 0, "override delay before the first step (ms)")
	rootCmd.PersistentFlags().IntVar(&typeIntervalMs, "type-interval", 0, "override per-character typing interval (ms)")

	addPlayFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&theme, "theme", config.DefaultTheme, fmt.Sprintf("color theme (%s)", strings.Join(viz.ThemeNames(), ", ")))
		c.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the TUI runs")
		c.Flags().BoolVar(&logFrame, "log-frames", false, "log every revealed frame at debug level")
	}
	addPlayFlags(rootCmd)

	playCmd := &cobra.Command{
		Use:   "play [script.yaml]",
		Short: "play a sequence in an interactive terminal window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPlay,
	}
	addPlayFlags(playCmd)

	showCmd := &cobra.Command{
		Use:   "show [script.yaml]",
		Short: "print a sequence to stdout in real time without the TUI",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runShow,
	}
	showCmd.Flags().IntVar(&passes, "passes", 1, "stop when this many passes have finished, skipping the last cooldown (0 loops forever)")
	showCmd.Flags().BoolVar(&readStdin, "stdin", false, "read commands from stdin lines: r replays, v toggles visibility")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list bundled sequences",
		RunE:  listPresets,
	}

	exportScriptCmd := &cobra.Command{
		Use:   "export-script [preset]",
		Short: "write a bundled sequence as an editable yaml script",
		Args:  cobra.ExactArgs(1),
		RunE:  exportScript,
	}
	exportScriptCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	recordCmd := &cobra.Command{
		Use:   "record [script.yaml]",
		Short: "record passes of a sequence into the data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  recordSequence,
	}
	recordCmd.Flags().IntVar(&passes, "passes", 1, "number of passes to record")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recordings",
		RunE:  listRecordings,
	}

	castCmd := &cobra.Command{
		Use:   "export-cast [recording_id]",
		Short: "export a recording as an asciinema v2 cast",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCast,
	}
	castCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <id>.cast)")

	timelineCmd := &cobra.Command{
		Use:   "timeline [script.yaml]",
		Short: "plot visible characters over one pass",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotTimeline,
	}
	timelineCmd.Flags().IntVar(&interval, "interval", 50, "sample interval (ms)")

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(playCmd, showCmd, presetsCmd, exportScriptCmd, recordCmd, listCmd, castCmd, timelineCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, if any, and applies flags that were set
// explicitly on the command line.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("preset") {
		cfg.Preset = preset
		cfg.Script = ""
	}
	if flags.Lookup("theme") != nil && flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Lookup("log-file") != nil && flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("cooldown") {
		cfg.Timing.CooldownMs = &cooldownMs
	}
	if flags.Changed("start-delay") {
		cfg.Timing.StartDelayMs = &startDelayMs
	}
	if flags.Changed("type-interval") {
		cfg.Timing.TypeIntervalMs = &typeIntervalMs
	}
	if len(args) > 0 {
		cfg.Script = args[0]
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, interactive bool) (*logging.Logger, io.Closer, error) {
	lvl, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile != "" {
		return logging.NewFile(cfg.LogFile, lvl)
	}
	if interactive {
		return logging.Nop(), nopCloser{}, nil
	}
	return logging.NewStderr(lvl), nopCloser{}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func loadSequence(cfg *config.Config, log *logging.Logger) (*script.Sequence, error) {
	seq, notes, err := cfg.Sequence()
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		log.Warn("script value adjusted", zap.String("note", n))
	}
	return seq, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer log.Sync()

	seq, err := loadSequence(cfg, log)
	if err != nil {
		return err
	}
	log = log.ForSequence(seq.Name())
	log.Info("playing", zap.Int("steps", seq.Len()), zap.String("theme", cfg.Theme))

	return viz.Run(seq, viz.GetTheme(cfg.Theme), replay.WithObserver(log.Observer(logFrame)))
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer log.Sync()

	seq, err := loadSequence(cfg, log)
	if err != nil {
		return err
	}
	log = log.ForSequence(seq.Name())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	obs := logging.Multi(log.Observer(false), replay.StopAfter(passes, cancel))
	r := replay.NewRunner(seq, replay.WithObserver(obs))
	if readStdin {
		go readCommands(ctx, r, os.Stdin, log)
	}

	prevLines := 0
	err = r.Run(ctx, func(v replay.View) {
		lines := trace.Lines(v)
		// Move up over the previous frame and redraw in place.
		if prevLines > 0 {
			fmt.Printf("\x1b[%dA", prevLines)
		}
		for _, l := range lines {
			fmt.Printf("\x1b[2K%s\n", l)
		}
		for i := len(lines); i < prevLines; i++ {
			fmt.Print("\x1b[2K\n")
		}
		if len(lines) > prevLines {
			prevLines = len(lines)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readCommands forwards replay and visibility commands to the runner until
// input ends or the runner stops.
func readCommands(ctx context.Context, r *replay.Runner, in io.Reader, log *logging.Logger) {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		var fn func(*replay.Driver)
		switch strings.TrimSpace(sc.Text()) {
		case "r":
			fn = func(d *replay.Driver) {
				d.SetVisible(true)
				d.Replay()
			}
		case "v":
			fn = func(d *replay.Driver) { d.SetVisible(!d.Visible()) }
		default:
			log.Debug("unknown command", zap.String("input", sc.Text()))
			continue
		}
		if !r.Do(ctx, fn) {
			return
		}
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTEPS\tPASS\tTITLE")
	for _, name := range script.ListPresets() {
		seq := script.Presets[name]
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", name, seq.Len(), seq.PassDuration().Round(time.Millisecond), seq.Title())
	}
	return w.Flush()
}

func exportScript(cmd *cobra.Command, args []string) error {
	seq, err := script.GetPreset(args[0])
	if err != nil {
		return err
	}
	if output != "" {
		if err := script.Save(output, seq); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", output)
		return nil
	}
	data, err := script.Marshal(seq)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func recordSequence(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer log.Sync()

	seq, err := loadSequence(cfg, log)
	if err != nil {
		return err
	}

	st := trace.NewStore(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	frames := trace.Record(seq, passes)
	id, err := st.Save(seq, passes, frames)
	if err != nil {
		return err
	}
	log.ForSequence(seq.Name()).Sugar().Infof("recorded %s: %d frames over %s", id, len(frames), trace.Duration(frames))
	fmt.Printf("recording saved: %s\n", id)
	fmt.Printf("frames: %d\n", len(frames))
	fmt.Printf("duration: %s\n", trace.Duration(frames))
	return nil
}

func listRecordings(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	st := trace.NewStore(cfg.DataDir)
	recs, err := st.List()
	if err != nil {
		return err
	}

	if len(recs) == 0 {
		fmt.Println("no recordings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEQUENCE\tTIME\tPASSES\tFRAMES\tDURATION")

	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			rec.ID,
			rec.Sequence,
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.Passes,
			rec.Frames,
			rec.Duration(),
		)
	}

	return w.Flush()
}

func exportCast(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer log.Sync()
	sugar := log.Sugar()

	id := args[0]
	st := trace.NewStore(cfg.DataDir)
	meta, err := st.Load(id)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(id)
	if err != nil {
		return err
	}

	path := output
	if path == "" {
		path = id + ".cast"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	title := meta.Title
	if title == "" {
		title = meta.Sequence
	}
	if err := trace.WriteCast(f, title, frames); err != nil {
		return err
	}
	sugar.Infof("exported %s (%d frames) to %s", id, len(frames), path)
	fmt.Printf("exported to %s\n", path)
	return nil
}

func plotTimeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	seq, err := loadSequence(cfg, log)
	if err != nil {
		return err
	}
	if interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", interval)
	}

	frames := trace.Record(seq, 1)
	data := trace.Series(frames, time.Duration(interval)*time.Millisecond)
	if len(data) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("sequence: %s\n", seq.Name())
	fmt.Printf("steps: %d\n", seq.Len())
	fmt.Printf("pass: %s\n\n", trace.Duration(frames))

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("visible characters, %dms samples", interval)),
	)
	fmt.Println(graph)
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "termdemo.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
