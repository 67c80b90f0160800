package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/spiking-sim/spiking-sim/sim"
)

var (
	configPath  string // Path to the YAML network build file
	seed        int64  // Master seed for per-thread random streams
	horizon     int64  // Total simulation time (in ticks)
	sliceLength int64  // Synchronization-window length (in ticks)
	logLevel    string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "spiking-sim",
	Short: "Delay-bounded event distribution kernel for spiking-network simulation",
}

// runCmd builds a network from the config file and executes windows to the
// horizon
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a spiking-network simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if configPath == "" {
			logrus.Fatalf("Network config not provided. Exiting simulation.")
		}
		cfg, err := sim.LoadNetworkConfig(configPath)
		if err != nil {
			logrus.Fatalf("unable to read network config; %v", err)
		}

		// Flags override the file when set explicitly
		if cmd.Flags().Changed("seed") {
			cfg.Seed = seed
		}
		if cmd.Flags().Changed("horizon") {
			cfg.Horizon = horizon
		}
		if cmd.Flags().Changed("slice") {
			cfg.SliceLength = sliceLength
		}

		logrus.Infof("Starting simulation with %d nodes, slice=%dticks, horizon=%dticks, seed=%d",
			len(cfg.Nodes), cfg.SliceLength, cfg.Horizon, cfg.Seed)

		startTime := time.Now()

		net, _, err := cfg.Build(&logTransport{})
		if err != nil {
			logrus.Fatalf("unable to build network; %v", err)
		}
		s, err := sim.NewSimulator(net, cfg.SliceLength, cfg.Horizon)
		if err != nil {
			logrus.Fatalf("unable to configure simulator; %v", err)
		}
		if err := s.Run(); err != nil {
			logrus.Fatalf("simulation failed; %v", err)
		}
		s.Metrics.Print(startTime)

		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML network build file")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Master seed for per-thread random streams")
	runCmd.Flags().Int64Var(&horizon, "horizon", 100000, "Total simulation horizon (in ticks)")
	runCmd.Flags().Int64Var(&sliceLength, "slice", 0, "Synchronization-window length (in ticks)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
