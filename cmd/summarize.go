/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/josephgoksu/PlanWise/internal/telemetry"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
)

var summarizeCmd = &cobra.Command{
	Use:     "summarize <plan-id>",
	Aliases: []string{"summary"},
	Short:   "Summarize a saved plan",
	Long:    `Ask the model for a short summary of a saved plan and store it with the plan.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app.askTelemetryConsent(cmd)

		ctx := cmd.Context()
		svc, gen, err := app.Planner(ctx, true)
		if err != nil {
			return err
		}

		start := time.Now()
		summary, err := withSpinner(cmd, "Summarizing plan...", func() (string, error) {
			return svc.SummarizeStored(ctx, args[0])
		})
		app.telemetry.Track(telemetry.EventPlanSummarized, telemetry.Generation{
			Provider:   gen.provider,
			Model:      gen.model,
			Vocabulary: svc.Vocabulary().Name,
			Elapsed:    time.Since(start),
			Err:        err,
		}.Props())
		gen.logUsage()
		if err != nil && summary == "" {
			return err
		}
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn(err.Error()))
		}

		if ui.IsTerminal(cmd.OutOrStdout()) {
			fmt.Fprintln(cmd.OutOrStdout(), ui.RenderInfoPanel("Summary", summary))
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), summary)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
