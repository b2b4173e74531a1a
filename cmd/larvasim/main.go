package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/larvasim/internal/analysis"
	"github.com/san-kum/larvasim/internal/caterpillar"
	"github.com/san-kum/larvasim/internal/config"
	"github.com/san-kum/larvasim/internal/control"
	"github.com/san-kum/larvasim/internal/export"
	"github.com/san-kum/larvasim/internal/metrics"
	"github.com/san-kum/larvasim/internal/sim"
	"github.com/san-kum/larvasim/internal/storage"
	"github.com/san-kum/larvasim/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	dt         float64
	duration   float64
	segments   int
	driverName string

	plotSeries string
	plotWidth  int
	plotHeight int

	exportFormat string
	exportOut    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "larvasim",
		Short: "caterpillar locomotion simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".larvasim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use a preset scenario")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep override")
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration override")
	runCmd.Flags().IntVar(&segments, "segments", 0, "segment count override")
	runCmd.Flags().StringVar(&driverName, "driver", "", "driver override (autonomous, inching, crawling, regulated)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch a simulation live in the terminal",
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().StringVar(&preset, "preset", "", "use a preset scenario")
	liveCmd.Flags().StringVar(&driverName, "driver", "", "driver override")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotSeries, "series", "com_x", "series to plot: "+viz.ListSeries()+", or tensions")
	plotCmd.Flags().IntVar(&plotWidth, "width", 70, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 14, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as json or svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json, svg, trajectory)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "report gait frequency and synchrony of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available preset scenarios",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, plotCmd, exportCmd, analyzeCmd, listCmd, deleteCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file and flag overrides, in that
// order of increasing precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("segments") {
		cfg.Segments = segments
	}
	if cmd.Flags().Changed("driver") {
		cfg.Driver = driverName
	}
	return cfg, nil
}

func buildDriver(cfg *config.Config) (sim.Driver, error) {
	joints := cfg.JointCount()
	grippers := len(cfg.Grippers)

	switch cfg.Driver {
	case "", "autonomous":
		return sim.Autonomous{}, nil
	case "inching":
		return sim.GaitDriver{Gait: sim.InchingGait(joints, grippers, cfg.Gait.Amplitude, cfg.Gait.Omega)}, nil
	case "crawling":
		return sim.GaitDriver{Gait: sim.CrawlingGait(joints, grippers, cfg.Gait.Amplitude, cfg.Gait.Omega, cfg.Gait.Lag)}, nil
	case "regulated":
		reg := control.NewSpeedRegulator(cfg.Control.Kp, cfg.Control.Ki, cfg.Control.Kd, cfg.Control.TargetSpeed)
		return sim.FeedbackDriver{Feedback: reg.Feedback}, nil
	default:
		return nil, fmt.Errorf("unknown driver %q (autonomous, inching, crawling, regulated)", cfg.Driver)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	body, err := cfg.BuildBody()
	if err != nil {
		return err
	}
	driver, err := buildDriver(cfg)
	if err != nil {
		return err
	}

	runner := sim.New(body, driver)
	runner.AddMetric(metrics.NewDisplacement())
	runner.AddMetric(metrics.NewMeanSpeed())
	runner.AddMetric(metrics.NewMeanEnergy())
	runner.AddMetric(metrics.NewEnergyDrift())
	runner.AddMetric(metrics.NewActuationEffort())

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %d-segment body with %s driver...\n", cfg.Segments, cfg.Driver)
	start := time.Now()

	result, err := runner.Run(ctx, sim.Config{
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		RecordEvery: cfg.RecordEvery,
	})
	if err != nil {
		return err
	}

	store := storage.New(dataDir)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	doc := export.NewDocument("", preset, cfg.Driver, cfg.Dt, cfg.Segments, result)
	runID, err := store.SaveRun(ctx, doc, result.Displacement)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d, displacement: %.4f m\n", result.StepsTaken, result.Displacement)
	fmt.Println("\nmetrics:")
	fmt.Print(viz.FormatMetrics(result.Metrics))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	body, err := cfg.BuildBody()
	if err != nil {
		return err
	}
	driver, err := buildDriver(cfg)
	if err != nil {
		return err
	}
	terrain, err := cfg.BuildTerrain()
	if err != nil {
		return err
	}

	model := viz.NewModel(body, driver, cfg.Dt, terrain, func() (*caterpillar.Caterpillar, error) {
		return cfg.BuildBody()
	})
	_, err = tea.NewProgram(model).Run()
	return err
}

func plotRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store := storage.New(dataDir)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.LoadDocument(ctx, args[0])
	if err != nil {
		return err
	}
	frames := doc.ToFrames()

	if plotSeries == "tensions" {
		fmt.Println(viz.PlotTensions(frames, plotWidth, plotHeight))
		return nil
	}
	series, ok := viz.SeriesByName[plotSeries]
	if !ok {
		return fmt.Errorf("unknown series %q (available: %s, tensions)", plotSeries, viz.ListSeries())
	}
	fmt.Println(viz.Plot(frames, series, plotSeries, plotWidth, plotHeight))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store := storage.New(dataDir)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.LoadDocument(ctx, args[0])
	if err != nil {
		return err
	}

	var out string
	switch exportFormat {
	case "json":
		if exportOut == "" {
			return export.EncodeJSON(os.Stdout, doc)
		}
		return export.WriteJSON(exportOut, doc)
	case "svg":
		frames := doc.ToFrames()
		if len(frames) == 0 {
			return fmt.Errorf("run %s has no frames", args[0])
		}
		out = export.BodyToSVG(frames[len(frames)-1], caterpillar.DefaultSomiteRadius, 800, 300)
	case "trajectory":
		out = export.TrajectoryToSVG(doc.ToFrames(), 800, 300, "#00ff00")
	default:
		return fmt.Errorf("unknown format %q (json, svg, trajectory)", exportFormat)
	}

	if exportOut == "" {
		fmt.Println(out)
		return nil
	}
	return os.WriteFile(exportOut, []byte(out), 0644)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store := storage.New(dataDir)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.LoadDocument(ctx, args[0])
	if err != nil {
		return err
	}
	frames := doc.ToFrames()
	if len(frames) < 2 {
		return fmt.Errorf("run %s has too few frames to analyze", args[0])
	}

	frameDt := frames[1].Time - frames[0].Time
	rep := analysis.Analyze(frames, frameDt)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "gait frequency\t%.4f Hz\n", rep.Frequency)
	fmt.Fprintf(w, "phase synchrony\t%.4f\n", rep.Synchrony)
	fmt.Fprintf(w, "stride length\t%.4f m\n", rep.StrideLength)
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store := storage.New(dataDir)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("no stored runs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tDRIVER\tSEGMENTS\tSTEPS\tDISPLACEMENT\tAGE")
	for _, rec := range records {
		name := rec.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.4f m\t%s\n",
			rec.ID, name, rec.Driver, rec.Segments, rec.Steps,
			rec.Displacement, humanize.Time(rec.CreatedAt))
	}
	return w.Flush()
}

func deleteRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	store := storage.New(dataDir)
	if err := store.Init(ctx); err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDRIVER\tSEGMENTS\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%.0fs\n", name, cfg.Driver, cfg.Segments, cfg.Duration)
	}
	return w.Flush()
}
