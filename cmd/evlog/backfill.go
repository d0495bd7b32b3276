package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/evlog/internal/client"
	"github.com/groblegark/evlog/internal/ui"
)

var (
	backfillLimit int
	backfillSince string
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Replay stored events into the search mirror",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := client.BackfillOptions{Limit: backfillLimit}
		if backfillSince != "" {
			since, err := time.Parse(time.RFC3339, backfillSince)
			if err != nil {
				return fmt.Errorf("invalid --since, use RFC 3339 (e.g. 2026-01-02T15:04:05Z): %w", err)
			}
			opts.Since = since
		}

		result, err := apiClient.Backfill(context.Background(), opts)
		if err != nil {
			return fmt.Errorf("backfill: %w", err)
		}

		if jsonOutput {
			printJSON(result)
			return nil
		}

		fmt.Printf("Synced:    %d\n", result.Synced)
		fmt.Printf("Attempted: %d\n", result.Attempted)
		if len(result.Errors) > 0 {
			fmt.Printf("Errors:    %s\n", ui.RenderWarn(fmt.Sprintf("%d (first %d shown)", result.Attempted-result.Synced, len(result.Errors))))
			for _, e := range result.Errors {
				fmt.Printf("  - %s\n", e)
			}
		}
		return nil
	},
}

func init() {
	backfillCmd.Flags().IntVar(&backfillLimit, "limit", 0, "maximum events to replay (server clamps to 200000)")
	backfillCmd.Flags().StringVar(&backfillSince, "since", "", "only replay events created at or after this RFC 3339 timestamp")
}
