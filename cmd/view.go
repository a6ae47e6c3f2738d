/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"

	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/render"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <plan-id>",
	Short: "Open a saved plan in the interactive viewer",
	Long: `Open a plan from history in a scrollable full-screen viewer.

Keys: arrows/j/k scroll, g/G jump to top/bottom, c copies the raw plan, q quits.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsInteractive() {
			return errors.New("the viewer needs an interactive terminal: use 'planwise history show' instead")
		}
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
		return openViewer(plan, rec.Title())
	},
}

// openViewer shows plan full screen, re-rendering on resize.
func openViewer(plan *planner.Plan, title string) error {
	m := ui.NewViewer(title, plan.Text, func(width int) string {
		opts := app.RenderOptions(plan.Vocabulary, title)
		opts.Width = width
		out, err := render.String(render.NewTerminal(opts), plan.Blocks)
		if err != nil {
			return plan.Text
		}
		return out
	})
	return ui.RunViewer(m)
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
