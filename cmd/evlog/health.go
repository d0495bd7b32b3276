package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/evlog/internal/client"
	"github.com/groblegark/evlog/internal/ui"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the liveness of the evlog server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := apiClient.Health(context.Background())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]string{"status": status})
		} else {
			fmt.Printf("Health: %s\n", ui.RenderOK(status))
		}

		if status != "ok" {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

var readyCmd = &cobra.Command{
	Use:   "ready",
	Short: "Check whether the evlog server is ready for traffic",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := apiClient.Ready(context.Background())
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) {
				if jsonOutput {
					printJSON(map[string]any{"ready": false, "error": apiErr.Message})
				} else {
					fmt.Printf("Ready: %s (%s)\n", ui.RenderWarn("no"), apiErr.Message)
				}
				return fmt.Errorf("not ready")
			}
			return fmt.Errorf("checking readiness: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]string{"status": status})
		} else {
			fmt.Printf("Ready: %s\n", ui.RenderOK(status))
		}
		return nil
	},
}
