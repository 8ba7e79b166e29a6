package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/rental-portal/internal/backend"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the portal backend health endpoint",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	health := backend.NewHealth(
		cfg.Backend.BaseURL,
		cfg.Health.TTLDuration(),
		cfg.Health.TimeoutDuration(),
		nil,
		nil,
		logger,
	)

	if !health.Healthy(commandContext(cmd), time.Now()) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: unhealthy\n", cfg.Backend.BaseURL)
		return fmt.Errorf("backend unhealthy")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: healthy\n", cfg.Backend.BaseURL)
	return nil
}
