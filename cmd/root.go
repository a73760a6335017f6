package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	epi "github.com/outbreak-sim/outbreak-sim/epi"
	"github.com/outbreak-sim/outbreak-sim/epi/trace"
)

var (
	// CLI flags for the epidemic scenario
	scenarioPath string  // Path to a scenario YAML file (overrides the flags below)
	population   int     // Closed-population size
	recoveryTime float64 // Mean infectious period (days)
	dataCSV      string  // Comma-separated observed new-infection counts
	seed         int64   // Seed for all random draws
	forecast     int     // Steps to simulate past the observed horizon
	logLevel     string  // Log verbosity level

	// CLI flags for scoring
	r0Value  float64 // Reproduction number to score at (0 = use heuristic guess)
	rhoValue float64 // Reporting probability to score at (0 = use heuristic guess)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "outbreak-sim",
	Short: "Stochastic compartmental epidemic simulator",
}

// loadModel builds the SIR model and engine from the scenario file or,
// when no file is given, from the individual CLI flags.
func loadModel() (*epi.SIRModel, *epi.Engine, int) {
	pop, tau, fc, sd := population, recoveryTime, forecast, seed
	data := parseCounts(dataCSV)
	if scenarioPath != "" {
		cfg, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("Unable to load scenario: %v", err)
		}
		pop, tau, fc, sd, data = cfg.Population, cfg.RecoveryTime, cfg.Forecast, cfg.Seed, cfg.Data
	}
	if len(data) == 0 {
		logrus.Fatalf("No observed counts provided. Pass --data or --scenario.")
	}

	model, err := epi.NewSIRModel(pop, tau, data)
	if err != nil {
		logrus.Fatalf("Invalid model configuration: %v", err)
	}
	engine, err := epi.NewEngine(model, model.Duration(), sd)
	if err != nil {
		logrus.Fatalf("Unable to build engine: %v", err)
	}
	return model, engine, fc
}

// parseCounts splits a comma-separated list of non-negative counts.
func parseCounts(csv string) []float64 {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	counts := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			logrus.Fatalf("Invalid count %q in --data: %v", part, err)
		}
		counts = append(counts, v)
	}
	return counts
}

// simulateCmd forward-samples one epidemic trajectory
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Forward-sample an epidemic trajectory",
	Run: func(cmd *cobra.Command, args []string) {
		setUpLogging()
		model, engine, fc := loadModel()

		logrus.Infof("Starting simulation with population=%d, recovery_time=%.1f, duration=%d, forecast=%d",
			model.Population(), model.RecoveryTime(), model.Duration(), fc)

		traj, err := engine.Simulate(fc)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		record := engine.Record(traj)

		fmt.Printf("R0=%.4f rho=%.4f log_prob=%.4f\n", traj.Globals["R0"], traj.Globals["rho"], traj.LogProb)
		fmt.Println("t,S,I,S2I,I2R,obs,forecast")
		for _, step := range record.Steps {
			fmt.Printf("%d,%.0f,%.0f,%.0f,%.0f,%.0f,%v\n",
				step.T, step.Compartments["S"], step.Compartments["I"],
				step.Transitions["S2I"], step.Transitions["I2R"], step.Observed, step.Forecast)
		}

		summary := trace.Summarize(record)
		logrus.Infof("Simulated %d steps (%d forecast): peak infectious=%.0f, total infected=%.0f, total observed=%.0f",
			summary.Steps, summary.ForecastSteps, summary.Peaks["I"], summary.SeriesTotals["S2I"], summary.TotalObserved)
		logrus.Info("Simulation complete.")
	},
}

// scoreCmd evaluates the log-joint of the heuristic warm-start trajectory
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the heuristic trajectory at fixed parameter values",
	Run: func(cmd *cobra.Command, args []string) {
		setUpLogging()
		model, engine, _ := loadModel()

		guess, err := engine.WarmStart()
		if err != nil {
			logrus.Fatalf("Heuristic warm start failed: %v", err)
		}
		fixed := map[string]float64{"R0": guess.Params["R0"], "rho": guess.Params["rho"]}
		if r0Value > 0 {
			fixed["R0"] = r0Value
		}
		if rhoValue > 0 {
			fixed["rho"] = rhoValue
		}

		params := model.GlobalModel(epi.NewScoreTape(fixed))
		states := engine.StatesFromGuess(params, guess)
		logp, err := engine.LogJoint(fixed, states)
		if err != nil {
			logrus.Fatalf("Scoring failed: %v", err)
		}
		fmt.Printf("R0=%.4f rho=%.4f log_joint=%.4f\n", fixed["R0"], fixed["rho"], logp)
	},
}

// setUpLogging applies the --log flag
func setUpLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{simulateCmd, scoreCmd} {
		c.Flags().StringVar(&scenarioPath, "scenario", "", "Path to a scenario YAML file")
		c.Flags().IntVar(&population, "population", 1000, "Closed-population size")
		c.Flags().Float64Var(&recoveryTime, "recovery-time", 10.0, "Mean infectious period in days")
		c.Flags().StringVar(&dataCSV, "data", "", "Comma-separated observed new-infection counts")
		c.Flags().Int64Var(&seed, "seed", 42, "Seed for random draws")
		c.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	}
	simulateCmd.Flags().IntVar(&forecast, "forecast", 0, "Steps to simulate past the observed horizon")
	scoreCmd.Flags().Float64Var(&r0Value, "r0", 0, "Reproduction number to score at (default: heuristic guess)")
	scoreCmd.Flags().Float64Var(&rhoValue, "rho", 0, "Reporting probability to score at (default: heuristic guess)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(scoreCmd)
}
