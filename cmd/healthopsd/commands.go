package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthops/config"
	"github.com/jonwraymond/healthops/health"
	"github.com/jonwraymond/healthops/monitor"
)

var errNotHealthy = errors.New("overall health is not healthy")

func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Sweep components periodically and serve the health endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m, err := monitor.New(ctx, cfg, monitor.WithLogWriter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := m.Close(shutdownCtx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "telemetry shutdown: %v\n", err)
				}
			}()

			return m.Run(ctx)
		},
	}
}

// checkReport is the JSON printed by the check command.
type checkReport struct {
	Status      health.State                      `json:"status"`
	LastChecked time.Time                         `json:"last_checked"`
	Components  map[string]health.ComponentStatus `json:"components"`
}

func checkCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one sweep, print the snapshot and exit non-zero unless healthy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			m, err := monitor.New(ctx, cfg, monitor.WithLogWriter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer func() { _ = m.Close(context.WithoutCancel(ctx)) }()

			snap := m.SweepOnce(ctx)
			overall := m.Registry().OverallHealth()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(checkReport{
				Status:      overall,
				LastChecked: snap.LastChecked,
				Components:  snap.Components,
			}); err != nil {
				return err
			}

			if overall != health.StateHealthy {
				return fmt.Errorf("%w: %s", errNotHealthy, overall)
			}
			return nil
		},
	}
}

func validateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d components, %d probed, policy %s)\n",
				flags.configPath, len(cfg.Components), len(cfg.ProbedComponents()), cfg.Sweep.Policy)
			return nil
		},
	}
}
