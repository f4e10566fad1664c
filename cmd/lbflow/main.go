package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/csnje/lbflow/internal/analysis"
	"github.com/csnje/lbflow/internal/config"
	"github.com/csnje/lbflow/internal/export"
	"github.com/csnje/lbflow/internal/flow"
	"github.com/csnje/lbflow/internal/geometry"
	"github.com/csnje/lbflow/internal/lattice"
	"github.com/csnje/lbflow/internal/metrics"
	"github.com/csnje/lbflow/internal/render"
	"github.com/csnje/lbflow/internal/storage"
	"github.com/csnje/lbflow/internal/viz"
)

var (
	dataDir    string
	configFile string
	reynolds   float64
	ticks      int
	gifPath    string
	quantity   string
	amplify    bool
	outPath    string
	reList     string
	fps        int
	metricName string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lbflow",
		Short: "lattice Boltzmann flow lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lbflow", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().Float64Var(&reynolds, "re", 0, "Reynolds number override")
	runCmd.Flags().IntVar(&ticks, "ticks", 0, "tick count override")
	runCmd.Flags().StringVar(&gifPath, "gif", "", "record an animated GIF to this path")
	runCmd.Flags().StringVar(&quantity, "quantity", "speed", "quantity to record (density, speed, vorticity)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run with live terminal visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	liveCmd.Flags().Float64Var(&reynolds, "re", 0, "Reynolds number override")
	liveCmd.Flags().IntVar(&fps, "ticks-per-frame", 2, "simulation ticks per rendered frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot metric series of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render the final field of a run to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&quantity, "quantity", "speed", "quantity to render (density, speed, vorticity)")
	renderCmd.Flags().BoolVar(&amplify, "amplify", false, "brighten small deviations")
	renderCmd.Flags().StringVar(&outPath, "out", "field.png", "output file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("%-10s %dx%d re=%.0f obstacle=%s\n",
					name, cfg.Size[0], cfg.Size[1], cfg.Reynolds, cfg.Obstacle.Kind)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark lattice sizes",
		RunE:  benchSizes,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "run a Reynolds number sweep in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepReynolds,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&reList, "re-list", "50,100,200,400", "comma-separated Reynolds numbers")
	sweepCmd.Flags().IntVar(&ticks, "ticks", 0, "tick count override")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the vortex shedding frequency of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&metricName, "metric", "momentum", "metric series to analyse")

	chartCmd := &cobra.Command{
		Use:   "chart [run_id]",
		Short: "export a metric series as an SVG chart",
		Args:  cobra.ExactArgs(1),
		RunE:  chartRun,
	}
	chartCmd.Flags().StringVar(&metricName, "metric", "mass", "metric series to chart")
	chartCmd.Flags().StringVar(&outPath, "out", "series.svg", "output file")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, renderCmd, exportCmd, presetsCmd, benchCmd, sweepCmd, analyzeCmd, chartCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves preset, config file and flag overrides, in that order.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	scenario := "cylinder"
	if len(args) > 0 {
		scenario = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		scenario = strings.TrimSuffix(configFile, ".yaml")
	} else {
		cfg = config.GetPreset(scenario)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", scenario, config.ListPresets())
		}
	}

	if cmd.Flags().Changed("re") {
		cfg.Reynolds = reynolds
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, scenario, nil
}

// buildRunner constructs a lattice from cfg, stamps its obstacles and wraps
// it in a runner with the standard metrics. The Reynolds number may differ
// from cfg.Reynolds during sweeps.
func buildRunner(cfg *config.Config, re float64) (*flow.Runner, error) {
	bounds, err := cfg.Bounds()
	if err != nil {
		return nil, err
	}
	l, err := lattice.New(lattice.D2Q9(), cfg.Size, bounds, cfg.Density, cfg.Velocity)
	if err != nil {
		return nil, err
	}

	shapes, err := cfg.Shapes()
	if err != nil {
		return nil, err
	}
	geometry.Stamp(l, shapes...)

	tau := l.RelaxationTime(cfg.Speed(), cfg.CharacteristicLength(), re)
	r, err := flow.New(l, tau)
	if err != nil {
		return nil, err
	}
	r.AddMetric(metrics.NewMass())
	r.AddMetric(metrics.NewMomentum())
	r.AddMetric(metrics.NewPeakSpeed())
	return r, nil
}

// gifRecorder snapshots the lattice every interval ticks.
type gifRecorder struct {
	anim     *render.Animator
	quantity render.Quantity
	ref      float64
	interval int
}

func (g *gifRecorder) OnTick(l *lattice.Lattice, tick int) {
	if tick%g.interval != 0 {
		return
	}
	hm := render.Snapshot(l, g.quantity, g.ref)
	g.anim.AddFrame(hm.Render(true), 4)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	r, err := buildRunner(cfg, cfg.Reynolds)
	if err != nil {
		return err
	}

	var recorder *gifRecorder
	if gifPath != "" {
		q, err := render.ParseQuantity(quantity)
		if err != nil {
			return err
		}
		ref := 0.0
		if q == render.Density {
			ref = cfg.Density
		}
		recorder = &gifRecorder{
			anim:     render.NewAnimator(),
			quantity: q,
			ref:      ref,
			interval: cfg.DrawEvery,
		}
		r.AddObserver(recorder)
	}

	fmt.Printf("running %s (%dx%d, re=%.0f, tau=%.4f, %d ticks)...\n",
		scenario, cfg.Size[0], cfg.Size[1], cfg.Reynolds, r.Tau(), cfg.Ticks)
	start := time.Now()

	result, err := r.Run(context.Background(), cfg.Ticks)
	if err != nil {
		return err
	}
	result.Reynolds = cfg.Reynolds
	elapsed := time.Since(start)

	runID, err := st.Save(scenario, result, r.Lattice())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v (%.0f ticks/sec)\n", elapsed, float64(result.Ticks)/elapsed.Seconds())
	fmt.Printf("run id: %s\n", runID)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if recorder != nil {
		if err := recorder.anim.WriteGIF(gifPath); err != nil {
			return err
		}
		fmt.Printf("\nwrote %d frames to %s\n", recorder.anim.Len(), gifPath)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	m, err := viz.NewModel(func() (*flow.Runner, error) {
		return buildRunner(cfg, cfg.Reynolds)
	}, scenario, cfg.Density, fps)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m)
	_, err = p.Run()
	return err
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tSIZE\tTICKS\tRE\tTAU")

	for _, run := range runs {
		size := make([]string, len(run.Size))
		for i, s := range run.Size {
			size[i] = strconv.Itoa(s)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.0f\t%.4f\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			strings.Join(size, "x"),
			run.Ticks,
			run.Reynolds,
			run.Tau,
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

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n\n", meta.Scenario)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		graph := asciigraph.Plot(series[name],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	q, err := render.ParseQuantity(quantity)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	if len(meta.Size) != 2 {
		return fmt.Errorf("rendering implemented for 2-D runs only")
	}

	header, rows, err := st.LoadFields(runID)
	if err != nil {
		return err
	}

	col := -1
	for i, name := range header {
		if name == q.String() {
			col = i
		}
	}
	if col == -1 {
		return fmt.Errorf("run has no %s field", q)
	}

	hm := render.NewHeatmap(meta.Size[0], meta.Size[1])
	sum, fluid := 0.0, 0
	for _, row := range rows {
		x, y := int(row[0]), int(row[1])
		if row[2] != 0 { // solid column
			hm.Mask(x, y)
			continue
		}
		hm.Set(x, y, row[col])
		sum += row[col]
		fluid++
	}
	// Deviations from the mean carry the structure for density fields.
	if q == render.Density && fluid > 0 {
		hm.SetReference(sum / float64(fluid))
	}

	if err := render.WritePNG(outPath, hm.Render(amplify)); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s of %s)\n", outPath, q, runID)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	data, ok := series[metricName]
	if !ok {
		return fmt.Errorf("run has no %s series", metricName)
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("metric: %s (%d samples)\n\n", metricName, len(data))

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4+1]
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := analysis.DominantFrequency(data)
	if power == 0 {
		fmt.Println("no dominant frequency found")
		return nil
	}

	fmt.Printf("dominant frequency: %.6f cycles/tick\n", freq)
	fmt.Printf("period: %.1f ticks\n", 1/freq)
	return nil
}

func chartRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	series, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	data, ok := series[metricName]
	if !ok {
		return fmt.Errorf("run has no %s series", metricName)
	}

	if err := export.WriteSeriesSVG(outPath, data, 800, 300, metricName); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s of %s)\n", outPath, metricName, args[0])
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchSizes(cmd *cobra.Command, args []string) error {
	sizes := [][]int{{50, 25}, {100, 50}, {200, 100}, {400, 200}}
	const benchTicks = 100

	fmt.Println("benchmarking D2Q9 lattice")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIZE\tCELLS\tTICKS\tTIME\tTICKS/SEC\tMCELLS/SEC")

	for _, size := range sizes {
		bounds := [][2]lattice.Scheme{
			{lattice.Periodic, lattice.Periodic},
			{lattice.Periodic, lattice.Periodic},
		}
		l, err := lattice.New(lattice.D2Q9(), size, bounds, 1.0, []float64{0.1, 0})
		if err != nil {
			return err
		}
		r, err := flow.New(l, 0.7)
		if err != nil {
			return err
		}

		start := time.Now()
		if _, err := r.Run(context.Background(), benchTicks); err != nil {
			return err
		}
		elapsed := time.Since(start)

		cells := size[0] * size[1]
		ticksPerSec := benchTicks / elapsed.Seconds()
		fmt.Fprintf(w, "%dx%d\t%d\t%d\t%v\t%.1f\t%.2f\n",
			size[0], size[1], cells, benchTicks, elapsed.Round(time.Millisecond),
			ticksPerSec, ticksPerSec*float64(cells)/1e6)
	}

	return w.Flush()
}

func sweepReynolds(cmd *cobra.Command, args []string) error {
	cfg, scenario, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}

	parts := strings.Split(reList, ",")
	res := make([]float64, 0, len(parts))
	for _, p := range parts {
		re, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("bad Reynolds number %q: %w", p, err)
		}
		res = append(res, re)
	}

	e := &flow.Ensemble{
		Build: func(re float64) (*flow.Runner, error) {
			return buildRunner(cfg, re)
		},
		Ticks: cfg.Ticks,
	}

	fmt.Printf("sweeping %s over re=%v (%d ticks each)...\n", scenario, res, cfg.Ticks)
	start := time.Now()
	results, err := e.Run(context.Background(), res)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RE\tTAU\tMASS\tMOMENTUM\tPEAK_SPEED")
	for _, result := range results {
		fmt.Fprintf(w, "%.0f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			result.Reynolds, result.Tau,
			result.Metrics["mass"], result.Metrics["momentum"], result.Metrics["peak_speed"])
	}
	return w.Flush()
}
