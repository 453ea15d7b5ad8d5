package main

import (
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/mealbook/pkg/api"
)

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Track body weight",
}

var (
	weightDate  string
	weightSort  string
	weightRange string
)

var weightAddCmd = &cobra.Command{
	Use:   "add <weight>",
	Short: "Record a weight measurement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}
		req := &api.AddEntryRequest{Weight: args[0]}
		if weightDate != "" {
			d, err := time.ParseInLocation(dateLayout, weightDate, time.Local)
			if err != nil {
				return fmt.Errorf("invalid date %q, want YYYY-MM-DD", weightDate)
			}
			req.Date = d.UnixMilli()
		}
		res, err := c.weights.AddEntry(cmd.Context(), connect.NewRequest(req))
		if err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "recorded %.1f on %s", res.Msg.Entry.Weight, formatDate(res.Msg.Entry.Date))
		return nil
	},
}

var weightRmCmd = &cobra.Command{
	Use:   "rm <entry-id>",
	Short: "Delete a weight entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}
		if _, err := c.weights.DeleteEntry(cmd.Context(), connect.NewRequest(&api.DeleteEntryRequest{Id: args[0]})); err != nil {
			return err
		}
		printOK(cmd.OutOrStdout(), "deleted entry %s", args[0])
		return nil
	},
}

var weightLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List weight entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}
		res, err := c.weights.ListEntries(cmd.Context(), connect.NewRequest(&api.ListEntriesRequest{Sort: weightSort}))
		if err != nil {
			return err
		}
		if len(res.Msg.Entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no entries yet"))
		}
		changes := weightChanges(res.Msg.Entries)
		for i, e := range res.Msg.Entries {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %6.1f  %s  %s\n",
				labelStyle.Render(formatDate(e.Date)), e.Weight, renderChange(changes[i]), dimStyle.Render(e.Id))
		}
		return nil
	},
}

var weightProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show weight change and a chart for a time range",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := connectClients()
		if err != nil {
			return err
		}
		res, err := c.weights.GetProgress(cmd.Context(), connect.NewRequest(&api.GetProgressRequest{Range: weightRange}))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if p := res.Msg.Progress; p != nil {
			fmt.Fprintf(out, "%s %s\n\n", headerStyle.Render("Progress"), p.Summary)
		} else {
			fmt.Fprintln(out, dimStyle.Render("add at least two entries to see progress"))
		}
		fmt.Fprint(out, renderChart(res.Msg.Points))
		return nil
	},
}

func init() {
	weightAddCmd.Flags().StringVar(&weightDate, "date", "", "day of the measurement, YYYY-MM-DD (default now)")
	weightLsCmd.Flags().StringVar(&weightSort, "sort", "desc", "asc or desc")
	weightProgressCmd.Flags().StringVar(&weightRange, "range", "month", "week, month, year or all")

	weightCmd.AddCommand(weightAddCmd, weightRmCmd, weightLsCmd, weightProgressCmd)
}

// weightChanges returns, for each entry, its difference from the entry
// listed after it, formatted to one decimal. The last entry has "-".
func weightChanges(entries []*api.WeightEntry) []string {
	changes := make([]string, len(entries))
	for i, e := range entries {
		if i == len(entries)-1 {
			changes[i] = "-"
			continue
		}
		changes[i] = fmt.Sprintf("%.1f", e.Weight-entries[i+1].Weight)
	}
	return changes
}

func formatDate(ms int64) string {
	return time.UnixMilli(ms).Format(dateLayout)
}
