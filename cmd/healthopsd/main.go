// Command healthopsd runs the component health registry.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "healthopsd",
		Short:         "Component health registry daemon",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "healthops.yaml", "Path to the YAML configuration")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Override log.level (debug|info|warn|error|critical)")

	cmd.AddCommand(runCmd(flags))
	cmd.AddCommand(checkCmd(flags))
	cmd.AddCommand(validateCmd(flags))
	return cmd
}
