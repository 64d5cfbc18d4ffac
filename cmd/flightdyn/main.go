package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/flightdyn/internal/analysis"
	"github.com/san-kum/flightdyn/internal/config"
	"github.com/san-kum/flightdyn/internal/logging"
	"github.com/san-kum/flightdyn/internal/metrics"
	"github.com/san-kum/flightdyn/internal/sim"
	"github.com/san-kum/flightdyn/internal/storage"
	"github.com/san-kum/flightdyn/internal/tui"
)

var (
	dataDir    string
	logLevel   string
	preset     string
	configFile string
	duration   float64
	altitude   float64
	speed      float64
	power      float64
	noSave     bool
	asJSON     bool
	column     string
	format     string
	speeds     []float64
)

// main registers the flightdyn commands and exits with status 1 if the
// selected command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "flightdyn",
		Short:        "scripted light aircraft flight dynamics",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".flightdyn", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error, off)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "fly a scripted flight and store the telemetry",
		Args:  cobra.NoArgs,
		RunE:  runFlight,
	}
	addFlightFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&asJSON, "json", false, "print the run as json instead of a summary")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "fly a scripted flight in the terminal cockpit",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addFlightFlags(liveCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "fly the same script from several start speeds in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addFlightFlags(sweepCmd)
	sweepCmd.Flags().Float64SliceVar(&speeds, "speeds", []float64{30, 40, 50}, "start speeds in m/s")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a telemetry column of a stored run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "altitude", "column to plot ("+strings.Join(sim.SampleColumns, ", ")+")")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json or an svg flight profile",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "output format (json, svg)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "find the dominant oscillation of a telemetry column",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "column", "altitude", "column to analyse")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list the built-in flights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for _, name := range config.ListPresets() {
				fmt.Fprintf(w, "%s\t%s\n", name, config.PresetDescription(name))
			}
			return w.Flush()
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration as yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
	addFlightFlags(configCmd)

	coeffsCmd := &cobra.Command{
		Use:   "coeffs",
		Short: "plot the lift and drag curves against angle of attack",
		Args:  cobra.NoArgs,
		RunE:  plotCoefficients,
	}
	coeffsCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	rootCmd.AddCommand(runCmd, liveCmd, sweepCmd, listCmd, plotCmd, exportCmd, analyzeCmd, presetsCmd, configCmd, coeffsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addFlightFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "built-in flight ("+strings.Join(config.ListPresets(), ", ")+")")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Float64Var(&duration, "time", 0, "duration in seconds")
	cmd.Flags().Float64Var(&altitude, "altitude", 0, "start altitude in m")
	cmd.Flags().Float64Var(&speed, "speed", 0, "start speed in m/s")
	cmd.Flags().Float64Var(&power, "power", 0, "start engine power in [0,1]")
}

// resolveConfig layers defaults, the preset, the config file and finally any
// flag the user set explicitly.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if loaded.Preset == "" {
			loaded.Preset = cfg.Preset
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("altitude") {
		cfg.Run.Start.Altitude = altitude
	}
	if flags.Changed("speed") {
		cfg.Run.Start.Speed = speed
	}
	if flags.Changed("power") {
		cfg.Run.Start.Power = power
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRunner(cfg *config.Config, log zerolog.Logger) (*sim.Runner, error) {
	flight, err := sim.NewFlight(cfg.Airplane, cfg.Body, log)
	if err != nil {
		return nil, err
	}
	r, err := sim.NewRunner(flight, cfg.Script, cfg.Run, log)
	if err != nil {
		return nil, err
	}
	for _, m := range metrics.Defaults(cfg.Airplane.Aero.MaxStallAngle, cfg.Body.Gravity) {
		r.AddMetric(m)
	}
	return r, nil
}

func runFlight(cmd *cobra.Command, args []string) error {
	log := logging.New(os.Stderr, logLevel)
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newRunner(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := r.Run(ctx)
	if err != nil {
		return err
	}

	meta := storage.NewMetadata(cfg.Preset, cfg.Run, result)
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		meta.ID = id
		log.Debug().Str("run", id).Str("dir", st.Dir()).Msg("run stored")
	}

	if asJSON {
		return storage.ExportJSON(os.Stdout, meta, result.Samples)
	}
	printSummary(meta, result)
	return nil
}

func printSummary(meta storage.RunMetadata, result *sim.Result) {
	final := result.Final()
	if meta.ID != "" {
		fmt.Printf("run id: %s\n", meta.ID)
	}
	fmt.Printf("frames: %d  physics steps: %d  spring clamps: %d\n", result.Frames, result.PhysicsSteps, result.Clamped)
	fmt.Printf("final: t=%.2fs altitude=%.1fm speed=%.1fm/s power=%.2f\n", final.Time, final.Altitude, final.Speed, final.Power)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, result.Metrics[name])
	}
	w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	// The cockpit owns the terminal; logs would tear the alt screen.
	r, err := newRunner(cfg, zerolog.Nop())
	if err != nil {
		return err
	}
	title := cfg.Preset
	if title == "" {
		title = "flight"
	}
	return tui.Run(r, title)
}

func runSweep(cmd *cobra.Command, args []string) error {
	log := logging.New(os.Stderr, logLevel)
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(speeds) == 0 {
		return fmt.Errorf("no start speeds given")
	}

	builders := make([]sim.Builder, len(speeds))
	for i, v := range speeds {
		v := v
		c := *cfg
		c.Run.Start.Speed = v
		builders[i] = func() (*sim.Runner, error) {
			return newRunner(&c, log.With().Float64("start_speed", v).Logger())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	results, err := sim.RunBatch(ctx, builders)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "START\tFINAL SPEED\tFINAL ALT\tMAX ALT\tSTALL\tERRORS")
	for i, res := range results {
		final := res.Final()
		fmt.Fprintf(w, "%.1f\t%.1f\t%.1f\t%.1f\t%.2f\t%d\n",
			speeds[i],
			final.Speed,
			final.Altitude,
			res.Metrics["max_altitude"],
			res.Metrics["stall_fraction"],
			len(res.Errors),
		)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tFRAMES\tSTEPS\tERRORS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Frames,
			run.Steps,
			len(run.Errors),
		)
	}
	return w.Flush()
}

// loadRun reads a stored run, defaulting to the most recent one.
func loadRun(args []string) (*storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir)
	var (
		meta *storage.RunMetadata
		err  error
	)
	if len(args) > 0 {
		meta, err = st.Load(args[0])
	} else {
		meta, err = st.Latest()
		if err == nil && meta == nil {
			err = fmt.Errorf("no runs in %s", st.Dir())
		}
	}
	if err != nil {
		return nil, nil, err
	}

	samples, err := st.LoadTelemetry(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no telemetry", meta.ID)
	}
	return meta, samples, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args)
	if err != nil {
		return err
	}
	data := sim.Column(samples, column)
	if data == nil {
		return fmt.Errorf("unknown column %q", column)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("samples: %d\n\n", len(samples))
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(column+" vs time"),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		return storage.ExportJSON(os.Stdout, *meta, samples)
	case "svg":
		return storage.ExportSVG(os.Stdout, samples, 800, 300, "#00ff00")
	}
	return fmt.Errorf("unknown format %q", format)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args)
	if err != nil {
		return err
	}
	data := sim.Column(samples, column)
	if data == nil {
		return fmt.Errorf("unknown column %q", column)
	}

	peak, err := analysis.DominantPeriod(data, meta.RenderDt)
	if err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(data)
	fmt.Printf("frequency analysis: %s (%s)\n\n", meta.ID, column)
	fmt.Println(asciigraph.Plot(ps[:max(2, len(ps)/8)],
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	))
	fmt.Println()
	if math.IsInf(peak.Period, 1) {
		fmt.Println("no oscillation found")
		return nil
	}
	fmt.Printf("dominant frequency: %.4f hz\n", peak.Frequency)
	fmt.Printf("period: %.2f s\n", peak.Period)
	return nil
}

func plotCoefficients(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	aero := cfg.Airplane.Aero

	const points = 91
	lift := make([]float64, points)
	drag := make([]float64, points)
	for i := range lift {
		alpha := -math.Pi/2 + math.Pi*float64(i)/float64(points-1)
		lift[i] = aero.LiftCoefficient(alpha)
		drag[i] = aero.DragCoefficient(alpha)
	}

	for _, curve := range []struct {
		data    []float64
		caption string
	}{
		{lift, "lift coefficient, alpha -90° to +90°"},
		{drag, "drag coefficient, alpha -90° to +90°"},
	} {
		fmt.Println(asciigraph.Plot(curve.data,
			asciigraph.Height(10),
			asciigraph.Width(91),
			asciigraph.Caption(curve.caption),
		))
		fmt.Println()
	}
	fmt.Printf("stall at %.1f°, deep stall at %.1f°\n",
		aero.MaxStallAngle*180/math.Pi, aero.DeepStallAngle*180/math.Pi)
	return nil
}
