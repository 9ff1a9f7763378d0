package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/mswell/internal/ad"
	"github.com/san-kum/mswell/internal/config"
	"github.com/san-kum/mswell/internal/deferlog"
	"github.com/san-kum/mswell/internal/hydraulics"
	"github.com/san-kum/mswell/internal/linalg"
	"github.com/san-kum/mswell/internal/msw"
	"github.com/san-kum/mswell/internal/storage"
	"github.com/san-kum/mswell/internal/viz"
)

var (
	dataDir  string
	logLevel string

	// segment geometry and fluid
	diameter  float64
	roughness float64
	length    float64
	area      float64
	rate      float64
	density   float64
	viscosity float64

	// valve
	areaCon float64
	cv      float64

	// emulsion
	waterFraction  float64
	oilFraction    float64
	waterViscosity float64
	oilViscosity   float64
	critical       float64
	width          float64
	maxRatio       float64

	// solve
	preset    string
	method    string
	tolerance float64
	maxNewton int
	save      bool
	asJSON    bool
	wellName  string

	plotCurve bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "mswell",
		Short:        "multi-segment well hydraulics and segment solver",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".mswell", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "log level (trace, debug, info, warn, error)")

	frictionCmd := &cobra.Command{
		Use:   "friction",
		Short: "friction factor and frictional pressure loss of a pipe segment",
		RunE:  runFriction,
	}
	addPipeFlags(frictionCmd)
	frictionCmd.Flags().BoolVar(&plotCurve, "plot", false, "plot friction factor against Reynolds number")

	lossCmd := &cobra.Command{
		Use:   "loss",
		Short: "valve constriction loss and velocity head",
		RunE:  runLoss,
	}
	addPipeFlags(lossCmd)
	lossCmd.Flags().Float64Var(&areaCon, "area-con", 5e-4, "valve constriction area [m2]")
	lossCmd.Flags().Float64Var(&cv, "cv", 0.7, "valve flow coefficient")

	emulsionCmd := &cobra.Command{
		Use:   "emulsion",
		Short: "emulsion viscosity of an oil/water mixture in a SICD",
		RunE:  runEmulsion,
	}
	addEmulsionFlags(emulsionCmd)
	emulsionCmd.Flags().Float64Var(&waterFraction, "water", 0.3, "water volume fraction")
	emulsionCmd.Flags().Float64Var(&oilFraction, "oil", 0.7, "oil volume fraction")
	emulsionCmd.Flags().BoolVar(&plotCurve, "plot", false, "plot viscosity against water fraction")

	solveCmd := &cobra.Command{
		Use:   "solve [config]",
		Short: "solve the segment flow equations of every well",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSolve,
	}
	addSolverFlags(solveCmd)
	solveCmd.Flags().BoolVar(&save, "save", false, "save the results to the data directory")
	solveCmd.Flags().BoolVar(&asJSON, "json", false, "print the results as JSON")
	solveCmd.Flags().BoolVar(&plotCurve, "plot", false, "plot pressure profiles")

	invertCmd := &cobra.Command{
		Use:   "invert [config]",
		Short: "solve one well and print the inverse of its segment matrix",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInvert,
	}
	addSolverFlags(invertCmd)
	invertCmd.Flags().StringVar(&wellName, "well", "", "well to invert (default: first)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				segs := 0
				for _, w := range cfg.Wells {
					segs += len(w.Segments)
				}
				fmt.Printf("  %-14s %d well(s), %d segments\n", name, len(cfg.Wells), segs)
			}
		},
	}

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive SICD emulsion and friction explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			icd := hydraulics.DefaultSICD()
			_, err := tea.NewProgram(viz.NewExplorer(icd), tea.WithAltScreen()).Run()
			return err
		},
	}

	backendCmd := &cobra.Command{
		Use:   "backend",
		Short: "report the direct solver backend of this build",
		Run: func(cmd *cobra.Command, args []string) {
			name, ok := linalg.DirectBackend()
			if ok {
				fmt.Printf("direct backend: %s\n", name)
				return
			}
			fmt.Printf("direct backend: %s not built in (rebuild without -tags nosparselu)\n", name)
		},
	}

	rootCmd.AddCommand(frictionCmd, lossCmd, emulsionCmd, solveCmd, invertCmd,
		listCmd, showCmd, presetsCmd, exploreCmd, backendCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addPipeFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&diameter, "diameter", config.DefaultDiameter, "inner diameter [m]")
	cmd.Flags().Float64Var(&roughness, "roughness", config.DefaultRoughness, "absolute roughness [m]")
	cmd.Flags().Float64Var(&length, "length", config.DefaultLength, "segment length [m]")
	cmd.Flags().Float64Var(&area, "area", 0, "flow area [m2] (default: circular from diameter)")
	cmd.Flags().Float64Var(&rate, "rate", 5, "mass rate [kg/s]")
	cmd.Flags().Float64Var(&density, "density", 900, "density [kg/m3]")
	cmd.Flags().Float64Var(&viscosity, "viscosity", 3e-3, "viscosity [Pa s]")
}

func addEmulsionFlags(cmd *cobra.Command) {
	icd := hydraulics.DefaultSICD()
	cmd.Flags().Float64Var(&waterViscosity, "mu-water", 1e-3, "water viscosity [Pa s]")
	cmd.Flags().Float64Var(&oilViscosity, "mu-oil", 4e-3, "oil viscosity [Pa s]")
	cmd.Flags().Float64Var(&critical, "critical", icd.CriticalWaterCut, "critical water liquid fraction")
	cmd.Flags().Float64Var(&width, "width", icd.WidthTransition, "width of the transition region")
	cmd.Flags().Float64Var(&maxRatio, "max-ratio", icd.MaxViscRatio, "maximum emulsion viscosity ratio")
}

func addSolverFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&method, "method", "direct", "linear solver (direct, iterative, dense)")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "newton residual tolerance")
	cmd.Flags().IntVar(&maxNewton, "max-newton", config.DefaultMaxNewton, "maximum newton iterations")
}

func flowArea() float64 {
	if area > 0 {
		return area
	}
	return math.Pi * diameter * diameter / 4
}

func runFriction(cmd *cobra.Command, args []string) error {
	a := flowArea()
	w, mu, rho := ad.Float(rate), ad.Float(viscosity), ad.Float(density)

	re := hydraulics.Reynolds(a, diameter, w, mu)
	f, err := hydraulics.FrictionFactor(a, diameter, w, roughness, mu)
	if err != nil {
		return err
	}
	dp, err := hydraulics.FrictionPressureLoss(length, diameter, a, roughness, rho, w, mu)
	if err != nil {
		return err
	}

	regime := "transition"
	switch {
	case re.Value() < hydraulics.LaminarReynolds:
		regime = "laminar"
	case re.Value() > hydraulics.TurbulentReynolds:
		regime = "turbulent"
	}

	fmt.Printf("reynolds:        %.1f (%s)\n", re.Value(), regime)
	fmt.Printf("friction factor: %.6g\n", f.Value())
	fmt.Printf("pressure loss:   %.6g Pa over %g m\n", dp.Value(), length)

	if plotCurve {
		chart, err := viz.FrictionPlot(diameter, roughness)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(chart)
	}
	return nil
}

func runLoss(cmd *cobra.Command, args []string) error {
	w, rho := ad.Float(rate), ad.Float(density)
	valve := hydraulics.ValveConstrictionPressureLoss(w, rho, areaCon, cv)
	head := hydraulics.VelocityHead(flowArea(), w, rho)

	if areaCon <= hydraulics.MinConstrictionArea {
		logrus.Warnf("constriction area %g clamped to %g", areaCon, hydraulics.MinConstrictionArea)
	}
	fmt.Printf("valve loss:    %.6g Pa\n", valve.Value())
	fmt.Printf("velocity head: %.6g Pa\n", head.Value())
	return nil
}

func emulsionSICD() hydraulics.SICD {
	icd := hydraulics.DefaultSICD()
	icd.CriticalWaterCut = critical
	icd.WidthTransition = width
	icd.MaxViscRatio = maxRatio
	return icd
}

func runEmulsion(cmd *cobra.Command, args []string) error {
	icd := emulsionSICD()
	mu, err := hydraulics.EmulsionViscosity(ad.Float(waterFraction), ad.Float(waterViscosity),
		ad.Float(oilFraction), ad.Float(oilViscosity), icd)
	if err != nil {
		return err
	}
	fmt.Printf("emulsion viscosity: %.6g Pa s\n", mu.Value())

	if plotCurve {
		chart, err := viz.EmulsionPlot(icd, waterViscosity, oilViscosity)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(chart)
	}
	return nil
}

// loadConfig resolves defaults, preset, config file and flags in that
// order; flags only win when set explicitly.
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	cfg, name := config.DefaultConfig(), "default"

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		name = preset
	}
	if len(args) == 1 {
		loaded, err := config.Load(args[0])
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg, name = loaded, "config"
	}

	if cmd.Flags().Changed("method") || cfg.Solver.Method == "" {
		cfg.Solver.Method = method
	}
	if cmd.Flags().Changed("tol") {
		cfg.Solver.Tolerance = tolerance
	}
	if cmd.Flags().Changed("max-newton") {
		cfg.Solver.MaxNewton = maxNewton
	}
	return cfg, name, nil
}

func flush(log *deferlog.Logger) {
	log.Flush(logrus.StandardLogger())
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	wells, err := cfg.BuildWells()
	if err != nil {
		return err
	}
	defer func() {
		for _, w := range wells {
			w.Close()
		}
	}()

	backend, _ := linalg.DirectBackend()
	results, log, err := msw.SolveAll(context.Background(), wells)
	messages := make([]string, 0, log.Len())
	for _, m := range log.Messages() {
		if m.Category != deferlog.Debug {
			messages = append(messages, fmt.Sprintf("%s: %s", m.Category, m.Text))
		}
	}
	flush(log)
	if err != nil {
		return err
	}

	if asJSON {
		return storage.ExportJSON(os.Stdout, cfg.Solver.Method, backend, results)
	}

	fmt.Println(viz.Summary(results))
	for _, r := range results {
		fmt.Println()
		fmt.Println(viz.Segments(r))
		if plotCurve {
			fmt.Println()
			fmt.Println(viz.ProfilePlot(r))
		}
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Name:      name,
			Method:    cfg.Solver.Method,
			Tolerance: cfg.Solver.Tolerance,
			Backend:   backend,
			Messages:  messages,
		}, results)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
	}
	return nil
}

func runInvert(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	wells, err := cfg.BuildWells()
	if err != nil {
		return err
	}

	well := wells[0]
	if wellName != "" {
		well = nil
		for _, w := range wells {
			if w.Name == wellName {
				well = w
			}
		}
		if well == nil {
			return fmt.Errorf("no well %q in config", wellName)
		}
	}
	defer well.Close()

	if _, err := well.Solve(context.Background()); err != nil {
		flush(well.Logger())
		return err
	}
	inv, err := well.InverseD()
	flush(well.Logger())
	if err != nil {
		return err
	}

	fmt.Printf("inverse of D for %s: %d×%d blocks of %d×%d\n", well.Name, inv.N, inv.N, inv.BlockSize, inv.BlockSize)
	fmt.Println("diagonal blocks:")
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEGMENT\tdp/dR_p\tdp/dR_w\tdw/dR_p\tdw/dR_w")
	for i := 0; i < inv.N; i++ {
		fmt.Fprintf(tw, "%s\t%.4g\t%.4g\t%.4g\t%.4g\n", well.Segments[i].Name,
			inv.At(i, i, 0, 0), inv.At(i, i, 0, 1), inv.At(i, i, 1, 0), inv.At(i, i, 1, 1))
	}
	return tw.Flush()
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tMETHOD\tBACKEND\tWELLS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.Backend,
			len(run.Wells),
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)

	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	fmt.Printf("run %s (%s, method %s, tolerance %g)\n", meta.ID, meta.Name, meta.Method, meta.Tolerance)
	for _, m := range meta.Messages {
		fmt.Printf("  %s\n", m)
	}

	for _, w := range meta.Wells {
		pressures, rates, err := st.Profile(runID, w.Name)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s: %d segments, %d newton iterations, bhp %.3f bar, rate %.4f kg/s\n",
			w.Name, w.Segments, w.Iterations, w.BottomPressure/1e5, w.TopRate)
		fmt.Println(viz.ProfilePlot(&msw.Result{Well: w.Name, Pressures: pressures, Rates: rates}))
	}
	return nil
}
