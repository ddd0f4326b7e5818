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
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/drivelab/internal/config"
	"github.com/san-kum/drivelab/internal/drivetrain"
	"github.com/san-kum/drivelab/internal/export"
	"github.com/san-kum/drivelab/internal/integrators"
	"github.com/san-kum/drivelab/internal/logger"
	"github.com/san-kum/drivelab/internal/speedometer"
	"github.com/san-kum/drivelab/internal/storage"
	"github.com/san-kum/drivelab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFile    string

	duration    float64
	seed        int64
	integrator  string
	frameDt     float64
	jitter      float64
	motorForce  float64
	brakeForce  float64
	steerAngle  float64
	speedMax    float64
	noSave      bool
	outPath     string
	framesOnly  bool
	steerIn     float64
	throttleIn  float64
	brakeIn     bool
	intervals   int
	dialSpeed   float64
	dialSVGPath string
	dialSize    float64
	rasterPath  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "drivelab",
		Short:        "drivetrain and speed dial lab",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logLevel, logFile)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".drivelab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "play the input script headless and store the run",
		Args:  cobra.NoArgs,
		RunE:  runScripted,
	}
	addOverrideFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", 0, "duration (0 = script length)")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "frame jitter seed")
	runCmd.Flags().Float64Var(&frameDt, "frame-dt", 1.0/60, "frame length")
	runCmd.Flags().Float64Var(&jitter, "jitter", 0, "frame length jitter fraction")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "drive with the keyboard and watch the dial",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addOverrideFlags(liveCmd)

	tickCmd := &cobra.Command{
		Use:   "tick",
		Short: "print the wheel commands for one input",
		Args:  cobra.NoArgs,
		RunE:  printTick,
	}
	tickCmd.Flags().Float64Var(&steerIn, "steer", 0, "steer axis [-1, 1]")
	tickCmd.Flags().Float64Var(&throttleIn, "throttle", 0, "throttle axis [-1, 1]")
	tickCmd.Flags().BoolVar(&brakeIn, "brake", false, "handbrake held")
	tickCmd.Flags().Float64Var(&motorForce, "motor-force", drivetrain.DefaultConfig().MotorForce, "motor force")
	tickCmd.Flags().Float64Var(&brakeForce, "brake-force", drivetrain.DefaultConfig().BrakeForce, "brake force")
	tickCmd.Flags().Float64Var(&steerAngle, "max-steer", drivetrain.DefaultConfig().MaxSteerAngle, "max steer angle (degrees)")

	labelsCmd := &cobra.Command{
		Use:   "labels",
		Short: "print the dial labels",
		Args:  cobra.NoArgs,
		RunE:  printLabels,
	}
	labelsCmd.Flags().Float64Var(&speedMax, "speed-max", speedometer.DefaultSpeedMax, "dial full scale")
	labelsCmd.Flags().IntVar(&intervals, "intervals", speedometer.DefaultLabelIntervals, "label intervals")

	dialCmd := &cobra.Command{
		Use:   "dial",
		Short: "draw the dial at a given speed",
		Args:  cobra.NoArgs,
		RunE:  drawDial,
	}
	dialCmd.Flags().Float64Var(&dialSpeed, "speed", 0, "speed to show")
	dialCmd.Flags().Float64Var(&speedMax, "speed-max", speedometer.DefaultSpeedMax, "dial full scale")
	dialCmd.Flags().StringVar(&dialSVGPath, "svg", "", "also write the dial as SVG to this path")
	dialCmd.Flags().Float64Var(&dialSize, "size", 320, "SVG size in pixels")
	dialCmd.Flags().StringVar(&rasterPath, "raster", "", "also write the braille face as dot SVG to this path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run ticks or frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	exportCSVCmd.Flags().BoolVar(&framesOnly, "frames", false, "export frames instead of ticks")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tDURATION\tSEGMENTS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.1fs\t%d\n", name, p.Script.Duration(), len(p.Script.Segments))
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, tickCmd, labelsCmd, dialCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, presetsCmd)
	return rootCmd
}

func addOverrideFlags(cmd *cobra.Command) {
	d := drivetrain.DefaultConfig()
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator,
		fmt.Sprintf("wheel integrator (%s)", strings.Join(integrators.Names(), ", ")))
	cmd.Flags().Float64Var(&motorForce, "motor-force", d.MotorForce, "motor force")
	cmd.Flags().Float64Var(&brakeForce, "brake-force", d.BrakeForce, "brake force")
	cmd.Flags().Float64Var(&steerAngle, "max-steer", d.MaxSteerAngle, "max steer angle (degrees)")
	cmd.Flags().Float64Var(&speedMax, "speed-max", speedometer.DefaultSpeedMax, "dial full scale")
}

// loadConfig resolves defaults, then the preset, then the config file
// layered over it, then any flag the user set explicitly. The logger is
// reinstalled from the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("motor-force") {
		cfg.Drivetrain.MotorForce = motorForce
	}
	if flags.Changed("brake-force") {
		cfg.Drivetrain.BrakeForce = brakeForce
	}
	if flags.Changed("max-steer") {
		cfg.Drivetrain.MaxSteerAngle = steerAngle
	}
	if flags.Changed("speed-max") {
		cfg.Dial.SpeedMax = speedMax
	}
	if flags.Changed("time") {
		cfg.Run.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Run.Seed = seed
	}
	if flags.Changed("frame-dt") {
		cfg.Run.FrameDt = frameDt
	}
	if flags.Changed("jitter") {
		cfg.Run.FrameJitter = jitter
	}
	return cfg, nil
}

func runScripted(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, err := s.loop.Run(ctx, cfg.Script)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d  ticks: %d\n", len(result.Frames), result.FixedSteps)
	fmt.Printf("front visual updates: %s %d  %s %d\n",
		s.left.Name, s.left.Updates(), s.right.Name, s.right.Updates())
	if n := len(result.Errors); n > 0 {
		fmt.Printf("physics errors: %d\n", n)
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		name := preset
		if name == "" {
			name = "run"
		}
		runID, err := st.Save(storage.RunMetadata{
			Name:       name,
			Seed:       cfg.Run.Seed,
			Integrator: cfg.Integrator,
			FixedDt:    cfg.Run.FixedDt,
			FrameDt:    cfg.Run.FrameDt,
			Drivetrain: cfg.Drivetrain,
			Dial:       cfg.Dial,
		}, result)
		if err != nil {
			return err
		}
		logger.Log.Info("run stored", zap.String("id", runID), zap.String("dir", dataDir))
		fmt.Printf("run id: %s\n", runID)
	}

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	return viz.RunDashboard(viz.NewDashboard(s.loop, nil, s.rig, logger.Named("dashboard")))
}

func printTick(cmd *cobra.Command, args []string) error {
	cfg := drivetrain.Config{MotorForce: motorForce, BrakeForce: brakeForce, MaxSteerAngle: steerAngle}
	if err := cfg.Validate(); err != nil {
		return err
	}
	out := drivetrain.Compute(drivetrain.Input{Steer: steerIn, Throttle: throttleIn, Braking: brakeIn}, cfg)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEEL\tMOTOR\tBRAKE\tSTEER")
	for _, wheel := range drivetrain.Wheels {
		c := out[wheel]
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\n", wheel, c.MotorTorque, c.BrakeTorque, c.SteerAngle)
	}
	return w.Flush()
}

func printLabels(cmd *cobra.Command, args []string) error {
	cfg := speedometer.DefaultConfig()
	cfg.SpeedMax = speedMax
	cfg.LabelIntervals = intervals
	if err := cfg.Validate(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEXT\tNORMALIZED\tANGLE")
	for _, l := range speedometer.GenerateLabels(cfg.SpeedMax, cfg.LabelIntervals) {
		fmt.Fprintf(w, "%s\t%.4f\t%.2f\n", l.Text, l.Normalized, l.Angle)
	}
	return w.Flush()
}

func drawDial(cmd *cobra.Command, args []string) error {
	cfg := speedometer.DefaultConfig()
	cfg.SpeedMax = speedMax
	if err := cfg.Validate(); err != nil {
		return err
	}
	dial, err := speedometer.New(cfg)
	if err != nil {
		return err
	}
	face := viz.NewDialFace(40, 20)
	dial.Attach(face)

	shown := speedometer.Clamp(dialSpeed, 0, cfg.SpeedMax)
	face.SetNeedle(speedometer.Rotation(shown, cfg.SpeedMax))

	fmt.Println(face.Render())
	fmt.Printf("speed %.1f  needle %.1f°\n", shown, face.Needle())

	if dialSVGPath != "" {
		if err := os.WriteFile(dialSVGPath, []byte(export.FaceToSVG(face, dialSize)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", dialSVGPath)
	}
	if rasterPath != "" {
		if err := os.WriteFile(rasterPath, []byte(export.CanvasToSVG(face.Canvas(), 4)), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", rasterPath)
	}
	return nil
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
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tFRAMES\tTICKS\tTOP SPEED")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2fs\t%d\t%d\t%.1f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Frames,
			run.Ticks,
			run.Metrics["top_speed"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	ticks, err := st.LoadTicks(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("frames: %d  ticks: %d\n\n", len(frames), len(ticks))

	plot := func(data []float64, caption string) {
		if len(data) < 2 {
			return
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		))
		fmt.Println()
	}

	speeds := storage.Speeds(frames)
	drift := 0.0
	for i, v := range storage.ReplaySpeeds(frames, meta.Dial) {
		drift = math.Max(drift, math.Abs(v-speeds[i]))
	}
	fmt.Printf("replay drift: %.3g\n\n", drift)

	plot(speeds, "dial speed")

	motor := make([]float64, len(ticks))
	steer := make([]float64, len(ticks))
	for i, t := range ticks {
		motor[i] = t.MotorTorque
		steer[i] = t.SteerAngle
	}
	plot(motor, "front motor torque")
	plot(steer, "steer angle (degrees)")
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if framesOnly {
		frames, err := st.LoadFrames(runID)
		if err != nil {
			return err
		}
		return storage.WriteFramesCSV(out, frames)
	}
	ticks, err := st.LoadTicks(runID)
	if err != nil {
		return err
	}
	return storage.WriteTicksCSV(out, ticks)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := storage.ExportJSON(outPath, data); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", outPath)
		return nil
	}
	return storage.ExportJSONTo(os.Stdout, data)
}
