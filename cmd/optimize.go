/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/telemetry"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
)

var (
	optInstructions string
	optOutput       planOutputFlags
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <plan-id>",
	Short: "Revise a saved plan",
	Long: `Ask the model to revise a saved plan following your instructions. The revision keeps the plan's format and is saved as a child of
the original. Plan ids may be abbreviated to any unique prefix.`,
	Example: `  planwise optimize 3f2a --instructions "Move workouts to mornings"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app.askTelemetryConsent(cmd)

		ctx := cmd.Context()
		svc, gen, err := app.Planner(ctx, true)
		if err != nil {
			return err
		}

		start := time.Now()
		plan, err := withSpinner(cmd, "Optimizing plan...", func() (*planner.Plan, error) {
			return svc.OptimizeStored(ctx, args[0], optInstructions)
		})
		app.telemetry.Track(telemetry.EventPlanOptimized, telemetry.Generation{
			Provider:   gen.provider,
			Model:      gen.model,
			Vocabulary: svc.Vocabulary().Name,
			Attempts:   planAttempts(plan),
			Elapsed:    time.Since(start),
			Err:        err,
		}.Props())
		gen.logUsage()
		if plan == nil {
			return err
		}
		if err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn(err.Error()))
		}
		return showPlan(cmd, plan, optOutput)
	},
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVarP(&optInstructions, "instructions", "i", "", "what to change in the plan")
	optOutput.register(optimizeCmd)

	_ = optimizeCmd.MarkFlagRequired("instructions")
}
