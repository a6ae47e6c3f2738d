/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/josephgoksu/PlanWise/internal/history"
	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
	showOutput   planOutputFlags
	deleteForce  bool
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"ls"},
	Short:   "List, show and delete saved plans",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return historyListCmd.RunE(cmd, args)
	},
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved plans, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := app.History()
		if err != nil {
			return err
		}
		records, err := store.List(historyLimit)
		if err != nil {
			return err
		}

		if historyJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if records == nil {
				records = []*history.Record{}
			}
			return enc.Encode(records)
		}

		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No plans yet. Create one with 'planwise generate'.")
			return nil
		}

		table := &ui.Table{
			Headers:  []string{"ID", "CREATED", "KIND", "TOPIC", "DURATION", "TITLE"},
			MaxWidth: 48,
		}
		for _, r := range records {
			table.Rows = append(table.Rows, []string{
				shortID(r.ID),
				r.Created.Local().Format("2006-01-02 15:04"),
				string(r.Kind),
				r.Topic,
				r.Duration,
				r.Title(),
			})
		}
		fmt.Fprint(cmd.OutOrStdout(), table.Render())
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <plan-id>",
	Short: "Render a saved plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := app.History()
		if err != nil {
			return err
		}
		rec, err := store.Get(args[0])
		if err != nil {
			return err
		}
		plan, err := planner.PlanFromRecord(rec)
		if err != nil {
			return err
		}

		if showOutput.view && ui.IsInteractive() {
			return openViewer(plan, rec.Title())
		}
		if err := writePlan(cmd, plan.Blocks, showOutput.format, showOutput.out, app.RenderOptions(plan.Vocabulary, rec.Title())); err != nil {
			return err
		}
		if rec.Summary != "" && showOutput.out == "" && ui.IsTerminal(cmd.OutOrStdout()) {
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderInfoPanel("Summary", rec.Summary))
		}
		if showOutput.copy {
			if err := ui.CopyToClipboard(rec.Text); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn("copy failed: "+err.Error()))
			}
		}
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:     "delete <plan-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a saved plan",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := app.History()
		if err != nil {
			return err
		}
		rec, err := store.Get(args[0])
		if err != nil {
			return err
		}
		if !deleteForce && ui.IsInteractive() {
			fmt.Fprintf(cmd.ErrOrStderr(), "Delete %s (%s)? [y/N]: ", shortID(rec.ID), ui.Truncate(rec.Title(), 50))
			var answer string
			_, _ = fmt.Fscanln(cmd.InOrStdin(), &answer)
			if answer != "y" && answer != "Y" && answer != "yes" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
				return nil
			}
		}
		if err := store.Delete(rec.ID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("deleted "+rec.ID))
		return nil
	},
}

// shortIDLen covers "plan-" and eight hex digits; Get accepts any unique prefix.
const shortIDLen = 13

// shortID is the id prefix shown in listings.
func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)

	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of plans to list (0 = all)")
		c.Flags().BoolVar(&historyJSON, "json", false, "print the records as JSON")
	}
	showOutput.register(historyShowCmd)
	historyDeleteCmd.Flags().BoolVarP(&deleteForce, "force", "y", false, "do not ask for confirmation")
}
