package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/samar-v/pulseopt/internal/analysis"
	"github.com/samar-v/pulseopt/internal/automation"
	"github.com/samar-v/pulseopt/internal/config"
	"github.com/samar-v/pulseopt/internal/experiment"
	"github.com/samar-v/pulseopt/internal/export"
	"github.com/samar-v/pulseopt/internal/optim"
	"github.com/samar-v/pulseopt/internal/store"
	"github.com/samar-v/pulseopt/internal/viz"
)

var (
	dataDir      string
	fidelity     string
	tslots       int
	evoTime      float64
	fidErrTarg   float64
	maxIter      int
	maxWallTime  float64
	maxFuncEvals int
	ftol         float64
	numCoeffs    int
	coeffScaling float64
	guessShape   string
	guessScaling float64
	guessOffset  float64
	guessWaves   float64
	ramp         string
	ampLBound    float64
	ampUBound    float64
	bounded      bool
	seed         int64
	// Config file and preset
	configFile string
	preset     string
	// Plot options
	plotInitial bool
	controlIdx  int
	// Sweep and multistart options
	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	numTrials  int
	svgTrace   bool
	svgOut     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pulseopt",
		Short: "quantum control pulse optimization lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pulseopt", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "optimize a control pulse",
		Args:  cobra.ExactArgs(1),
		RunE:  runOptimization,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "optimize with live convergence view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list available systems",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range experiment.ListSystems() {
				fmt.Println(name)
			}
		},
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot optimized control amplitudes",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&plotInitial, "initial", false, "plot the initial pulse instead of the optimized one")

	traceCmd := &cobra.Command{
		Use:   "trace [run_id]",
		Short: "plot the convergence trace",
		Args:  cobra.ExactArgs(1),
		RunE:  traceRun,
	}

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "frequency analysis of the optimized pulse",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}
	spectrumCmd.Flags().IntVar(&controlIdx, "control", 0, "control channel index")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export full run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export amplitude table to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().BoolVar(&plotInitial, "initial", false, "export the initial pulse instead of the optimized one")

	compareCmd := &cobra.Command{
		Use:   "compare [system] [shape1] [shape2] ...",
		Short: "compare guess pulse shapes on the same system",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareShapes,
	}
	addRunFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [system]",
		Short: "list available presets for a system",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for system: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [system]",
		Short: "benchmark objective evaluation cost",
		Args:  cobra.ExactArgs(1),
		RunE:  benchSystem,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "run a scripted batch of optimizations",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [system]",
		Short: "re-optimize while sweeping one parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "evo_time", "parameter to sweep (evo_time, tslots, num_coeffs)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 2.0, "sweep range start")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10.0, "sweep range end")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of sweep points")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render the pulse to an SVG file",
		Args:  cobra.ExactArgs(1),
		RunE:  renderSVG,
	}
	svgCmd.Flags().BoolVar(&plotInitial, "initial", false, "render the initial pulse instead of the optimized one")
	svgCmd.Flags().BoolVar(&svgTrace, "trace", false, "render the convergence trace instead of the pulse")
	svgCmd.Flags().StringVar(&svgOut, "out", "pulse.svg", "output file")

	multistartCmd := &cobra.Command{
		Use:   "multistart [system]",
		Short: "run restarts with different random bases",
		Args:  cobra.ExactArgs(1),
		RunE:  runMultistart,
	}
	addRunFlags(multistartCmd)
	multistartCmd.Flags().IntVar(&numTrials, "trials", 8, "number of restarts")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, systemsCmd, plotCmd, traceCmd, spectrumCmd,
		exportCmd, exportJSONCmd, exportCSVCmd, compareCmd, presetsCmd, benchCmd,
		batchCmd, sweepCmd, multistartCmd, svgCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&fidelity, "fidelity", "PSU", "fidelity error kind (PSU or SU)")
	cmd.Flags().IntVar(&tslots, "tslots", config.DefaultTslots, "number of timeslots")
	cmd.Flags().Float64Var(&evoTime, "evo-time", config.DefaultEvoTime, "total evolution time")
	cmd.Flags().Float64Var(&fidErrTarg, "target", config.DefaultFidErrTarg, "fidelity error target")
	cmd.Flags().IntVar(&maxIter, "max-iter", config.DefaultMaxIter, "iteration limit")
	cmd.Flags().Float64Var(&maxWallTime, "max-time", config.DefaultMaxWallTime, "wall time limit (seconds)")
	cmd.Flags().IntVar(&maxFuncEvals, "max-evals", 0, "function evaluation limit (0 = unlimited)")
	cmd.Flags().Float64Var(&ftol, "ftol", config.DefaultFTol, "function convergence tolerance")
	cmd.Flags().IntVar(&numCoeffs, "coeffs", config.DefaultNumCoeffs, "basis frequencies per control")
	cmd.Flags().Float64Var(&coeffScaling, "coeff-scaling", config.DefaultCoeffScaling, "initial coefficient scaling")
	cmd.Flags().StringVar(&guessShape, "guess", "sine", "guess pulse shape")
	cmd.Flags().Float64Var(&guessScaling, "guess-scaling", 1.0, "guess pulse scaling")
	cmd.Flags().Float64Var(&guessOffset, "guess-offset", 0.0, "guess pulse offset")
	cmd.Flags().Float64Var(&guessWaves, "guess-waves", 1.0, "guess pulse wave count")
	cmd.Flags().StringVar(&ramp, "ramp", "sine", "pulse edge ramp (none, sine, gaussian_edge)")
	cmd.Flags().Float64Var(&ampLBound, "lbound", 0.0, "lower amplitude bound")
	cmd.Flags().Float64Var(&ampUBound, "ubound", 0.0, "upper amplitude bound")
	cmd.Flags().BoolVar(&bounded, "bounded", false, "clip amplitudes to bounds")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves the run parameters with preset values lowest,
// then the config file, then explicitly set flags.
func buildConfig(cmd *cobra.Command, system string) (experiment.Config, error) {
	if preset != "" {
		cfg := config.GetPreset(system, preset)
		if cfg == nil {
			return experiment.Config{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(system))
		}
		applyFileConfig(cmd, cfg)
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return experiment.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		applyFileConfig(cmd, cfg)
	}

	return experiment.Config{
		System:       system,
		Fidelity:     fidelity,
		Tslots:       tslots,
		EvoTime:      evoTime,
		FidErrTarg:   fidErrTarg,
		MaxIter:      maxIter,
		MaxWallTime:  maxWallTime,
		MaxFuncEvals: maxFuncEvals,
		FTol:         ftol,
		NumCoeffs:    numCoeffs,
		CoeffScaling: coeffScaling,
		GuessShape:   guessShape,
		GuessScaling: guessScaling,
		GuessOffset:  guessOffset,
		GuessWaves:   guessWaves,
		Ramp:         ramp,
		AmpLBound:    ampLBound,
		AmpUBound:    ampUBound,
		Bounded:      bounded,
		Seed:         seed,
	}, nil
}

func applyFileConfig(cmd *cobra.Command, cfg *config.Config) {
	if !cmd.Flags().Changed("fidelity") && cfg.Fidelity != "" {
		fidelity = cfg.Fidelity
	}
	if !cmd.Flags().Changed("tslots") && cfg.Tslots != 0 {
		tslots = cfg.Tslots
	}
	if !cmd.Flags().Changed("evo-time") && cfg.EvoTime != 0 {
		evoTime = cfg.EvoTime
	}
	if !cmd.Flags().Changed("target") && cfg.Termination.FidErrTarg != 0 {
		fidErrTarg = cfg.Termination.FidErrTarg
	}
	if !cmd.Flags().Changed("max-iter") && cfg.Termination.MaxIter != 0 {
		maxIter = cfg.Termination.MaxIter
	}
	if !cmd.Flags().Changed("max-time") && cfg.Termination.MaxWallTime != 0 {
		maxWallTime = cfg.Termination.MaxWallTime
	}
	if !cmd.Flags().Changed("max-evals") && cfg.Termination.MaxFuncEvals != 0 {
		maxFuncEvals = cfg.Termination.MaxFuncEvals
	}
	if !cmd.Flags().Changed("ftol") && cfg.Termination.FTol != 0 {
		ftol = cfg.Termination.FTol
	}
	if !cmd.Flags().Changed("coeffs") && cfg.Pulse.NumCoeffs != 0 {
		numCoeffs = cfg.Pulse.NumCoeffs
	}
	if !cmd.Flags().Changed("coeff-scaling") && cfg.Pulse.CoeffScaling != 0 {
		coeffScaling = cfg.Pulse.CoeffScaling
	}
	if !cmd.Flags().Changed("guess") && cfg.Pulse.GuessShape != "" {
		guessShape = cfg.Pulse.GuessShape
	}
	if !cmd.Flags().Changed("guess-scaling") && cfg.Pulse.GuessScaling != 0 {
		guessScaling = cfg.Pulse.GuessScaling
	}
	if !cmd.Flags().Changed("guess-offset") {
		guessOffset = cfg.Pulse.GuessOffset
	}
	if !cmd.Flags().Changed("guess-waves") && cfg.Pulse.GuessWaves != 0 {
		guessWaves = cfg.Pulse.GuessWaves
	}
	if !cmd.Flags().Changed("ramp") && cfg.Pulse.Ramp != "" {
		ramp = cfg.Pulse.Ramp
	}
	if !cmd.Flags().Changed("lbound") {
		ampLBound = cfg.Pulse.AmpLBound
	}
	if !cmd.Flags().Changed("ubound") {
		ampUBound = cfg.Pulse.AmpUBound
	}
	if !cmd.Flags().Changed("bounded") {
		bounded = cfg.Pulse.Bounded
	}
	if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
		seed = cfg.Seed
	}
}

func setupExperiment(cfg experiment.Config) (*experiment.Experiment, error) {
	sys, err := experiment.LookupSystem(cfg.System)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(sys); err != nil {
		return nil, err
	}
	return exp, nil
}

func runOptimization(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("optimizing %s pulse...\n", cfg.System)
	result, err := exp.Run(context.Background(), nil)
	if err != nil {
		return err
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	printSummary(runID, result)
	return nil
}

func printSummary(runID string, result *experiment.Result) {
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("stopped: %s\n", result.Reason)
	fmt.Printf("fidelity error: %.6e (started at %.6e)\n", result.FinalErr, result.InitialErr)
	fmt.Printf("iterations: %d, func evals: %d, runtime: %v\n",
		result.Iterations, result.FuncEvals, result.Runtime.Round(time.Millisecond))
	fmt.Printf("propagator slots: %d computed, %d reused\n", result.SlotsComputed, result.SlotsReused)
	fmt.Println("\npulse metrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := setupExperiment(cfg)
	if err != nil {
		return err
	}

	progress := make(chan optim.Progress, 64)
	done := make(chan viz.Done, 1)

	go func() {
		result, err := exp.Run(context.Background(), func(p optim.Progress) {
			select {
			case progress <- p:
			default:
			}
		})
		close(progress)
		done <- viz.Done{Result: result, Err: err}
	}()

	m := viz.NewModel(cfg.System, cfg.FidErrTarg, cfg.MaxIter, progress, done)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}

	result, runErr := final.(viz.Model).Result()
	if runErr != nil {
		return runErr
	}
	if result == nil {
		// user quit before the optimizer finished
		return nil
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}
	printSummary(runID, result)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tFID_ERR\tTARGET\tITERS\tREASON")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3e\t%.3e\t%d\t%s\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.FinalErr,
			run.FidErrTarg,
			run.Iterations,
			run.Reason,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	which := "final"
	if plotInitial {
		which = "initial"
	}
	_, amps, err := st.LoadAmps(runID, which)
	if err != nil {
		return err
	}
	if len(amps) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("%s pulse, %d timeslots\n\n", which, len(amps))
	fmt.Print(viz.PlotAmplitudes(meta.Labels, amps, 80, 10))
	return nil
}

func traceRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	errs := make([]float64, len(trace))
	for i, p := range trace {
		errs[i] = p.FidErr
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s, stopped: %s\n\n", meta.System, meta.Reason)
	fmt.Println(viz.PlotConvergence(errs, 80, 15))
	return nil
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, amps, err := st.LoadAmps(runID, "final")
	if err != nil {
		return err
	}
	if len(amps) == 0 {
		return fmt.Errorf("no data")
	}
	if controlIdx < 0 || controlIdx >= len(amps[0]) {
		return fmt.Errorf("control index %d out of range (have %d controls)", controlIdx, len(amps[0]))
	}

	data := make([]float64, len(amps))
	for i := range amps {
		data[i] = amps[i][controlIdx]
	}

	ps, err := analysis.PowerSpectrum(data)
	if err != nil {
		return err
	}

	label := fmt.Sprintf("u%d", controlIdx)
	if controlIdx < len(meta.Labels) {
		label = meta.Labels[controlIdx]
	}
	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("system: %s, control: %s\n\n", meta.System, label)

	// ps is already one-sided (n/2+1 coefficients, DC first)
	graph := asciigraph.Plot(ps,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	dt := meta.EvoTime / float64(len(data))
	if len(times) > 1 {
		dt = times[1] - times[0]
	}
	freq := analysis.DominantFrequency(ps, len(data), dt)
	fmt.Printf("dominant frequency: %.3f cycles per time unit\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f time units\n", 1.0/freq)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, initialAmps, err := st.LoadAmps(runID, "initial")
	if err != nil {
		return err
	}
	_, finalAmps, err := st.LoadAmps(runID, "final")
	if err != nil {
		return err
	}

	cfg := experiment.Config{
		System:     meta.System,
		Fidelity:   meta.Fidelity,
		Tslots:     meta.Tslots,
		EvoTime:    meta.EvoTime,
		FidErrTarg: meta.FidErrTarg,
		NumCoeffs:  meta.NumCoeffs,
		Seed:       meta.Seed,
	}
	result := &experiment.Result{
		Times:       times,
		Labels:      meta.Labels,
		InitialAmps: initialAmps,
		FinalAmps:   finalAmps,
		InitialErr:  meta.InitialErr,
		FinalErr:    meta.FinalErr,
		Iterations:  meta.Iterations,
		FuncEvals:   meta.FuncEvals,
		Runtime:     time.Duration(meta.Runtime * float64(time.Second)),
		Reason:      meta.Reason,
		Metrics:     meta.Metrics,
	}

	return store.ExportJSONStdout(cfg, result)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	which := "final"
	if plotInitial {
		which = "initial"
	}
	times, amps, err := st.LoadAmps(runID, which)
	if err != nil {
		return err
	}
	if len(amps) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	for j := range amps[0] {
		if j < len(meta.Labels) {
			header = append(header, meta.Labels[j])
		} else {
			header = append(header, fmt.Sprintf("u%d", j))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range amps {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range amps[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func compareShapes(cmd *cobra.Command, args []string) error {
	system := args[0]
	shapes := args[1:]

	cfg, err := buildConfig(cmd, system)
	if err != nil {
		return err
	}

	fmt.Printf("comparing guess shapes for %s (tslots=%d, evo_time=%.2f, coeffs=%d)\n\n",
		system, cfg.Tslots, cfg.EvoTime, cfg.NumCoeffs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SHAPE\tINITIAL_ERR\tFINAL_ERR\tITERS\tEVALS\tTIME\tREASON")

	for _, shape := range shapes {
		shapeCfg := cfg
		shapeCfg.GuessShape = shape

		exp, err := setupExperiment(shapeCfg)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", shape, err)
			continue
		}

		result, err := exp.Run(context.Background(), nil)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", shape, err)
			continue
		}

		fmt.Fprintf(w, "%s\t%.3e\t%.3e\t%d\t%d\t%v\t%s\n",
			shape, result.InitialErr, result.FinalErr,
			result.Iterations, result.FuncEvals,
			result.Runtime.Round(time.Millisecond), result.Reason)
	}

	return w.Flush()
}

func renderSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var svg string
	if svgTrace {
		trace, err := st.LoadTrace(runID)
		if err != nil {
			return err
		}
		errs := make([]float64, len(trace))
		for i, p := range trace {
			errs[i] = p.FidErr
		}
		svg = export.TraceToSVG(errs, 800, 300)
	} else {
		which := "final"
		if plotInitial {
			which = "initial"
		}
		times, amps, err := st.LoadAmps(runID, which)
		if err != nil {
			return err
		}
		svg = export.PulseToSVG(times, meta.Labels, amps, 800, 400)
	}
	if svg == "" {
		return fmt.Errorf("not enough data to render")
	}
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Println(scenario.Description)
	}
	fmt.Printf("%d steps\n\n", len(scenario.Steps))

	results, err := automation.RunScenario(context.Background(), scenario)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSYSTEM\tRUN_ID\tFINAL_ERR\tREASON")
	for i, r := range results {
		runID, err := st.Save(r.Config, r.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3e\t%s\n", i+1, r.Config.System, runID, r.Result.FinalErr, r.Result.Reason)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	sweep := &automation.Sweep{
		Base:     cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
	}

	fmt.Printf("sweeping %s over [%g, %g] in %d steps\n\n", sweepParam, sweepMin, sweepMax, sweepSteps)

	points, err := automation.RunSweep(context.Background(), sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VALUE\tFINAL_ERR\tITERS\tREASON")
	for _, p := range points {
		fmt.Fprintf(w, "%.4g\t%.3e\t%d\t%s\n", p.ParamValue, p.FinalErr, p.Iterations, p.Reason)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	errs := make([]float64, len(points))
	for i, p := range points {
		errs[i] = p.FinalErr
	}
	fmt.Println()
	fmt.Println(viz.PlotConvergence(errs, 60, 8))
	return nil
}

func runMultistart(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	m := &automation.Multistart{Base: cfg, NumTrials: numTrials, SeedStart: cfg.Seed}

	fmt.Printf("running %d restarts of %s...\n\n", numTrials, cfg.System)
	trials, err := m.Run(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tFINAL_ERR\tTIME\tREASON")
	for _, trial := range trials {
		fmt.Fprintf(w, "%d\t%d\t%.3e\t%v\t%s\n",
			trial.TrialID, trial.Seed, trial.FinalErr,
			trial.Runtime.Round(time.Millisecond), trial.Reason)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	best, err := automation.Best(trials)
	if err != nil {
		return err
	}
	bestCfg := cfg
	bestCfg.Seed = best.Seed
	runID, err := st.Save(bestCfg, best.Result)
	if err != nil {
		return err
	}

	fmt.Printf("\n%d/%d trials reached the target\n", automation.SuccessCount(trials, cfg.FidErrTarg), len(trials))
	fmt.Printf("best trial %d (seed %d) saved as %s\n", best.TrialID, best.Seed, runID)
	return nil
}

func benchSystem(cmd *cobra.Command, args []string) error {
	system := args[0]

	tslotGrid := []int{16, 32, 64}
	coeffGrid := []int{2, 4, 8}

	fmt.Printf("benchmarking %s\n\n", system)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TSLOTS\tCOEFFS\tEVALS\tTIME\tEVALS/SEC")

	for _, ts := range tslotGrid {
		for _, nc := range coeffGrid {
			cfg := experiment.Config{
				System:       system,
				Fidelity:     "PSU",
				Tslots:       ts,
				EvoTime:      config.DefaultEvoTime,
				MaxIter:      100,
				FTol:         1e-12,
				NumCoeffs:    nc,
				CoeffScaling: 1.0,
				GuessShape:   "sine",
				GuessScaling: 1.0,
				GuessWaves:   1.0,
				Ramp:         "sine",
				Seed:         42,
			}

			exp, err := setupExperiment(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := exp.Run(context.Background(), nil)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			evalsPerSec := float64(result.FuncEvals) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n",
				ts, nc, result.FuncEvals, elapsed.Round(time.Millisecond), evalsPerSec)
		}
	}

	return w.Flush()
}
