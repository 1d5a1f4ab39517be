package main

import (
	"os"

	"github.com/spf13/cobra"
)

// SetupCLI constructs the cobra command hierarchy for xv6sched.
func SetupCLI() *cobra.Command {
	root.AddCommand(runCmd)
	root.AddCommand(killCmd)
	return root
}

var root = &cobra.Command{
	Use:   "xv6sched",
	Short: "Drive an in-process xv6sched scheduler for interactive inspection.",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fork a batch of CPU-bound workers and report the resulting process table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		numCPU, _ := fs.GetInt(numCPUFlag)
		numWorkers, _ := fs.GetInt(workersFlag)
		ticksEach, _ := fs.GetInt(ticksFlag)
		return runYieldDemo(numCPU, numWorkers, ticksEach)
	},
}

var killCmd = &cobra.Command{
	Use:   "kill-demo",
	Short: "Fork a worker that sleeps forever, then kill it and show it wake.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := cmd.Flags()
		sig, _ := fs.GetString(signalFlag)
		return runKillDemo(sig)
	},
}

const (
	numCPUFlag  = "cpus"
	workersFlag = "workers"
	ticksFlag   = "ticks"
	signalFlag  = "signal"
)

func init() {
	runCmd.Flags().Int(numCPUFlag, 1, "Number of per-CPU scheduler loops to run concurrently.")
	runCmd.Flags().Int(workersFlag, 4, "Number of worker processes to fork off init.")
	runCmd.Flags().Int(ticksFlag, 5, "Number of times each worker yields before exiting.")

	killCmd.Flags().StringP(signalFlag, "s", "SIGKILL", "Signal name or number to report when killing the sleeper (SIGKILL, SIGTERM, SIGINT, SIGSTOP, or a number).")
}

