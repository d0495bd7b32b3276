package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/evlog/internal/model"
)

var postCmd = &cobra.Command{
	Use:   "post <source> <type> [payload-json]",
	Short: "Record a new event",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := &model.EventDraft{
			Source: args[0],
			Type:   args[1],
		}
		if len(args) == 3 {
			if !json.Valid([]byte(args[2])) {
				return fmt.Errorf("payload is not valid JSON: %s", args[2])
			}
			draft.Payload = json.RawMessage(args[2])
		}

		event, err := apiClient.CreateEvent(context.Background(), draft)
		if err != nil {
			return fmt.Errorf("recording event: %w", err)
		}

		if jsonOutput {
			printJSON(event)
		} else {
			printEvent(event)
		}
		return nil
	},
}
