package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/groblegark/evlog/internal/model"
	"github.com/groblegark/evlog/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printEvent(e *model.Event) {
	fmt.Printf("ID:         %s\n", ui.RenderAccent(e.ID))
	fmt.Printf("Source:     %s\n", e.Source)
	fmt.Printf("Type:       %s\n", e.Type)
	fmt.Printf("Instance:   %s\n", e.Instance)
	fmt.Printf("Created At: %s\n", ui.RenderMuted(e.CreatedAt.Format("2006-01-02 15:04:05 MST")))
	if len(e.Payload) > 0 {
		pretty, err := json.MarshalIndent(json.RawMessage(e.Payload), "", "  ")
		if err != nil {
			fmt.Printf("Payload:    %s\n", string(e.Payload))
		} else {
			fmt.Printf("Payload:    %s\n", string(pretty))
		}
	}
}

func printEventTable(events []*model.Event) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTYPE\tCREATED\tINSTANCE")
	for _, e := range events {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ui.RenderAccent(e.ID),
			e.Source,
			e.Type,
			ui.RenderMuted(e.CreatedAt.Format("2006-01-02 15:04:05")),
			e.Instance,
		)
	}
	w.Flush()
	fmt.Printf("\n%d events\n", len(events))
}
