// hipster runs graph searches over grid and graph scenarios.
//
// Usage:
//
//	hipster scenarios
//	hipster solve --scenario=<name> | --file=<path> [--algorithm=astar] [--epsilon=1]
//	hipster compare --scenario=<name> | --file=<path>
//	hipster serve [--addr=:8080]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/hipster/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
	trace     bool
}

// shutdownTracing is set when --trace installed a tracer provider.
var shutdownTracing func(context.Context) error

var rootCmd = &cobra.Command{
	Use:   "hipster",
	Short: "Run heuristic graph searches over grid and graph scenarios",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat, cmd.ErrOrStderr())
		if rootFlags.trace {
			shutdownTracing, err = initTracing(cmd.ErrOrStderr())
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if shutdownTracing == nil {
			return nil
		}
		defer func() { shutdownTracing = nil }()
		return shutdownTracing(cmd.Context())
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&rootFlags.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	f.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")
	f.BoolVar(&rootFlags.trace, "trace", false, "Print OpenTelemetry spans to stderr")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
