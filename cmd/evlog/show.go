package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/groblegark/evlog/internal/client"
)

var showCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show a single event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		event, err := apiClient.GetEvent(context.Background(), args[0])
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				return fmt.Errorf("event %q not found", args[0])
			}
			return fmt.Errorf("fetching event: %w", err)
		}

		if jsonOutput {
			printJSON(event)
		} else {
			printEvent(event)
		}
		return nil
	},
}
