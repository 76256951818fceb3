package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List, search or count events without the assistant",
	RunE:  runEvents,
}

func init() {
	eventsCmd.Flags().Int("limit", 20, "Maximum number of events to show (0 for all)")
	eventsCmd.Flags().Int("offset", 0, "Number of events to skip")
	eventsCmd.Flags().String("search", "", "Keyword to match against title and location")
	eventsCmd.Flags().Bool("count", false, "Print only the number of events")
}

func runEvents(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := buildApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	if countOnly, _ := cmd.Flags().GetBool("count"); countOnly {
		n, err := a.service.Count(ctx, a.owner)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, n)
		return nil
	}

	if query, _ := cmd.Flags().GetString("search"); query != "" {
		events, err := a.service.Search(ctx, a.owner, query)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(out, "No matching events.")
			return nil
		}
		for i, ev := range events {
			fmt.Fprintf(out, "%d. %s\n", i+1, formatEvent(ev))
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")

	events, err := a.service.Events(ctx, a.owner, limit, offset)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "No events.")
		return nil
	}
	for i, ev := range events {
		fmt.Fprintf(out, "%d. %s\n", offset+i+1, formatEvent(ev))
	}
	return nil
}
