package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/groblegark/evlog/internal/client"
)

var (
	listSource string
	listType   string
	listSearch string
	listLimit  int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List events, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := apiClient.ListEvents(context.Background(), client.ListOptions{
			Source: listSource,
			Type:   listType,
			Search: listSearch,
			Limit:  listLimit,
		})
		if err != nil {
			return fmt.Errorf("listing events: %w", err)
		}

		if jsonOutput {
			printJSON(events)
			return nil
		}
		if len(events) == 0 {
			fmt.Println("no events")
			return nil
		}
		printEventTable(events)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listSource, "source", "", "filter by source")
	listCmd.Flags().StringVar(&listType, "type", "", "filter by type")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "payload substring filter")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum events to return (server clamps to 500)")
}
