package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/kinfit/internal/catalog"
	"github.com/san-kum/kinfit/internal/config"
	"github.com/san-kum/kinfit/internal/estimator"
	"github.com/san-kum/kinfit/internal/export"
	"github.com/san-kum/kinfit/internal/kinetics"
	"github.com/san-kum/kinfit/internal/reactor"
	"github.com/san-kum/kinfit/internal/report"
	"github.com/san-kum/kinfit/internal/residual"
	"github.com/san-kum/kinfit/internal/sensitivity"
	"github.com/san-kum/kinfit/internal/storage"
	"github.com/san-kum/kinfit/internal/tui"
)

var (
	dataDir     string
	configFile  string
	preset      string
	catalogFile string
	// starting guess / simulation parameters
	logA float64
	ea   float64
	dh   float64
	ds   float64
	// simulate flags
	temp    float64
	ca0     float64
	tEnd    float64
	nPoints int
	// fit flags
	timeout  time.Duration
	maxIter  int
	saveRun  bool
	noTruth  bool
	// screen flags
	samples int
	seed    uint64
	// export flags
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kinfit",
		Short: "reversible reaction kinetics fitting lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".kinfit", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration (quick, accurate)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "experiment catalog file (yaml); default is the built-in reference data")

	fitCmd := &cobra.Command{
		Use:   "fit",
		Short: "fit reaction parameters to the experiment catalog",
		RunE:  runFit,
	}
	addGuessFlags(fitCmd)
	fitCmd.Flags().DurationVar(&timeout, "timeout", 0, "wall-clock budget (0 = none)")
	fitCmd.Flags().IntVar(&maxIter, "max-iter", 0, "iteration budget (0 = config default)")
	fitCmd.Flags().BoolVar(&saveRun, "save", false, "persist the run under the data directory")
	fitCmd.Flags().BoolVar(&noTruth, "no-truth", false, "omit the true-parameter comparison rows")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "simulate a single trajectory",
		RunE:  runSimulate,
	}
	addGuessFlags(simulateCmd)
	simulateCmd.Flags().Float64Var(&temp, "temp", 298.15, "temperature (K)")
	simulateCmd.Flags().Float64Var(&ca0, "ca0", 10.0, "starting concentration of A (mol/L)")
	simulateCmd.Flags().Float64Var(&tEnd, "time", 100.0, "end time (s)")
	simulateCmd.Flags().IntVar(&nPoints, "points", 60, "number of samples")

	screenCmd := &cobra.Command{
		Use:   "screen",
		Short: "random sensitivity screening around the starting guess",
		RunE:  runScreen,
	}
	addGuessFlags(screenCmd)
	screenCmd.Flags().IntVar(&samples, "samples", 0, "draws per parameter (0 = config default)")
	screenCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = config default)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the fit with a live terminal view",
		RunE:  runLive,
	}
	addGuessFlags(liveCmd)
	liveCmd.Flags().DurationVar(&timeout, "timeout", 0, "wall-clock budget (0 = none)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved fit runs",
		RunE:  runList,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as SVG charts",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringVar(&outFile, "out", "", "output file prefix (default: run id)")

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "show the experiment catalog",
		RunE:  runCatalog,
	}

	rootCmd.AddCommand(fitCmd, simulateCmd, screenCmd, liveCmd, listCmd, exportCmd, catalogCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addGuessFlags(cmd *cobra.Command) {
	g := catalog.StartingGuess()
	cmd.Flags().Float64Var(&logA, "logA", g.LogA, "log10 pre-exponential factor (s^-1)")
	cmd.Flags().Float64Var(&ea, "ea", g.Ea, "activation energy (kJ/mol)")
	cmd.Flags().Float64Var(&dh, "dh", g.DH, "reaction enthalpy (kJ/mol)")
	cmd.Flags().Float64Var(&ds, "ds", g.DS, "reaction entropy (J/mol/K)")
}

func loadConfig() (*config.Config, error) {
	if preset != "" {
		cfg := config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (have: %v)", preset, config.ListPresets())
		}
		return cfg, nil
	}
	if configFile != "" {
		return config.Load(configFile)
	}
	return config.DefaultConfig(), nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, bool, error) {
	path := catalogFile
	if path == "" {
		path = cfg.Catalog
	}
	if path == "" {
		// Built-in reference data has known true parameters.
		return catalog.Reference(), true, nil
	}
	c, err := catalog.Load(path)
	return c, false, err
}

func guessFromFlags() kinetics.ParameterSet {
	return kinetics.ParameterSet{LogA: logA, Ea: ea, DH: dh, DS: ds}
}

func fitContext() (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

func runFit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if maxIter > 0 {
		cfg.MaxIterations = maxIter
	}

	cat, isReference, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	engine, err := residual.NewEngine(cat, cfg.EngineConfig())
	if err != nil {
		return err
	}
	fitter := estimator.New(engine, cfg.EstimatorOptions())

	ctx, cancel := fitContext()
	defer cancel()

	guess := guessFromFlags()
	res, err := fitter.Fit(ctx, guess)
	if err != nil {
		return err
	}

	report.WriteStatus(os.Stdout, res)
	fmt.Println()

	var truth *kinetics.ParameterSet
	if isReference && !noTruth {
		t := catalog.TrueParameters()
		truth = &t
	}
	if err := report.WriteComparison(os.Stdout, guess, truth, res); err != nil {
		return err
	}
	fmt.Println()

	predicted := make([][]float64, len(cat.Experiments))
	for i, exp := range cat.Experiments {
		// Rendering happens after the fit; a spent --timeout should not
		// suppress the report, so these integrations get a fresh context.
		pred, err := reactor.Simulate(context.Background(), res.Estimate,
			reactor.Condition{T: exp.T, CAStart: exp.CAStart, Times: exp.Times},
			reactor.DefaultSolverOptions())
		if err != nil {
			return err
		}
		predicted[i] = pred
		fmt.Println(report.Overlay(exp, pred, 60, 10))
		fmt.Println()
	}

	if sum, serr := report.Summarize(res.Residuals); serr == nil {
		fmt.Printf("residuals: mean=%.4g stddev=%.4g min=%.4g max=%.4g rmse=%.4g\n",
			sum.Mean, sum.StdDev, sum.Min, sum.Max, sum.RMSE)
	}

	if saveRun {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		runID, err := store.Save(guess, res, cat, predicted)
		if err != nil {
			return err
		}
		fmt.Printf("saved run %s\n", runID)
	}

	return nil
}

func runSimulate(cmd *cobra.Command, args []string) error {
	p := guessFromFlags()

	times, ca, err := reactor.Trajectory(context.Background(), p, temp, ca0, tEnd, nPoints)
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("CA(t), T=%.2f K, 0..%.0f s", temp, tEnd)
	fmt.Println(report.Curve(ca, caption, 60, 12))
	fmt.Println()

	rc, err := kinetics.Coefficients(p, temp)
	if err != nil {
		return err
	}
	fmt.Printf("kf=%.6g s^-1  kr=%.6g s^-1  CA_eq=%.4f mol/L  (t=%.0f..%.0f s)\n",
		rc.Kf, rc.Kr, ca[len(ca)-1], times[0], times[len(times)-1])
	return nil
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if samples > 0 {
		cfg.Samples = samples
	}
	if seed > 0 {
		cfg.Seed = seed
	}

	cat, _, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	engine, err := residual.NewEngine(cat, cfg.EngineConfig())
	if err != nil {
		return err
	}

	opts := sensitivity.DefaultOptions()
	opts.Samples = cfg.Samples
	opts.Seed = cfg.Seed

	effects, err := sensitivity.Screen(context.Background(), engine, guessFromFlags(), opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "parameter\tmean |dSSR|\tstddev")
	for _, e := range effects {
		fmt.Fprintf(tw, "%s\t%.5g\t%.5g\n", e.Name, e.MeanAbs, e.StdDev)
	}
	return tw.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, _, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	engine, err := residual.NewEngine(cat, cfg.EngineConfig())
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel())

	opts := cfg.EstimatorOptions()
	opts.Progress = func(u estimator.ProgressUpdate) {
		p.Send(tui.ProgressMsg(u))
	}
	fitter := estimator.New(engine, opts)

	ctx, cancel := fitContext()
	defer cancel()

	go func() {
		res, err := fitter.Fit(ctx, guessFromFlags())
		p.Send(tui.DoneMsg{Result: res, Err: err})
	}()

	_, err = p.Run()
	return err
}

func runList(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	runs, err := store.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no saved runs")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\ttimestamp\tstatus\titer\tssr\tlogA\tEa\tdH\tdS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.5g\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.ID, r.Timestamp.Format(time.RFC3339), r.Status, r.Iterations, r.SSR,
			r.Estimate.LogA, r.Estimate.Ea, r.Estimate.DH, r.Estimate.DS)
	}
	return tw.Flush()
}

func runExport(cmd *cobra.Command, args []string) error {
	runID := args[0]
	store := storage.New(dataDir)

	meta, err := store.Load(runID)
	if err != nil {
		return err
	}
	fmt.Printf("run %s: %s, SSR=%.5g\n", meta.ID, meta.Status, meta.SSR)

	points, err := store.LoadPredicted(runID)
	if err != nil {
		return err
	}

	byExp := make(map[int][]storage.PredictedPoint)
	for _, pt := range points {
		byExp[pt.Experiment] = append(byExp[pt.Experiment], pt)
	}

	prefix := outFile
	if prefix == "" {
		prefix = runID
	}

	for idx, pts := range byExp {
		if len(pts) == 0 {
			continue
		}

		curve := make([]export.Point, len(pts))
		observed := make([]export.Point, len(pts))
		for i, pt := range pts {
			curve[i] = export.Point{X: pt.Time, Y: pt.Predicted}
			observed[i] = export.Point{X: pt.Time, Y: pt.Observed}
		}

		title := fmt.Sprintf("%s  T=%.2f K", runID, pts[0].Temperature)
		svg := export.FitSVG(curve, observed, 640, 400, title)

		name := fmt.Sprintf("%s_exp%d.svg", prefix, idx)
		if err := os.WriteFile(filepath.Clean(name), []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", name)
	}

	return nil
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cat, _, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "experiment\tT (K)\tcA0 (mol/L)\tsamples\tt_max (s)")
	for i, e := range cat.Experiments {
		fmt.Fprintf(tw, "%d\t%.2f\t%.2f\t%d\t%.0f\n",
			i, e.T, e.CAStart, len(e.Times), e.Times[len(e.Times)-1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Println()

	for _, e := range cat.Experiments {
		fmt.Println(report.Curve(e.CA, fmt.Sprintf("observed CA, T=%.2f K", e.T), 60, 8))
		fmt.Println()
	}
	return nil
}
