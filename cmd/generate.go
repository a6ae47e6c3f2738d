/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/telemetry"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
)

// planOutputFlags are shared by commands that print a plan.
type planOutputFlags struct {
	format string
	out    string
	copy   bool
	view   bool
}

func (f *planOutputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "output format: terminal, plain, markdown, html, json, yaml, pdf (default render.format)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the rendered plan to a file")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "copy the raw plan text to the clipboard")
	cmd.Flags().BoolVar(&f.view, "view", false, "open the plan in the interactive viewer")
}

var (
	genRequest planner.Request
	genNoSave  bool
	genOutput  planOutputFlags
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new plan",
	Long: `Generate a plan with the configured model.

Topic is one of Study, Fitness, Work or Life Tasks; duration is one of Daily,
Weekly, Monthly or Yearly. Both are case-insensitive.`,
	Example: `  planwise generate --topic study --task "Linear algebra" --task "Essay draft" --time "3 hours" --duration daily
  planwise generate --topic fitness --task "Run 5k" --time "45 minutes" --duration weekly --goals "Sub-25 minute 5k" -f markdown -o plan.md`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, genRequest)
	},
}

func runGenerate(cmd *cobra.Command, req planner.Request) error {
	app.askTelemetryConsent(cmd)

	req = req.Normalize()
	if err := req.Validate().Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, gen, err := app.Planner(ctx, !genNoSave && !app.cfg.History.Disabled)
	if err != nil {
		return err
	}

	start := time.Now()
	plan, err := withSpinner(cmd, fmt.Sprintf("Generating your %s %s plan...", strings.ToLower(req.Duration), req.Topic),
		func() (*planner.Plan, error) { return svc.Generate(ctx, req) })
	app.telemetry.Track(telemetry.EventPlanGenerated, telemetry.Generation{
		Provider:   gen.provider,
		Model:      gen.model,
		Topic:      req.Topic,
		Duration:   req.Duration,
		Vocabulary: app.vocab.Name,
		Attempts:   planAttempts(plan),
		Elapsed:    time.Since(start),
		Err:        err,
	}.Props())
	gen.logUsage()
	if plan == nil {
		return err
	}
	if err != nil {
		// Generated but not saved: still show it.
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn(err.Error()))
	}

	return showPlan(cmd, plan, genOutput)
}

// showPlan prints, copies or opens a plan according to the output flags.
func showPlan(cmd *cobra.Command, plan *planner.Plan, flags planOutputFlags) error {
	for _, w := range plan.Check.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn(w.Message))
	}

	title := ui.FirstLine(plan.Text)
	opts := app.RenderOptions(plan.Vocabulary, title)

	if flags.view && ui.IsInteractive() {
		if err := openViewer(plan, title); err != nil {
			return err
		}
	} else if err := writePlan(cmd, plan.Blocks, flags.format, flags.out, opts); err != nil {
		return err
	}

	if flags.copy {
		if err := ui.CopyToClipboard(plan.Text); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Warn("copy failed: "+err.Error()))
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Success("plan copied to clipboard"))
		}
	}
	if plan.ID != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.StyleSubtle.Render("saved as "+plan.ID))
	}
	return nil
}

// withSpinner runs fn with a spinner on interactive terminals.
func withSpinner[T any](cmd *cobra.Command, label string, fn func() (T, error)) (T, error) {
	if !ui.IsTerminal(cmd.ErrOrStderr()) {
		return fn()
	}
	s := ui.NewSpinner(label)
	s.SetOutput(cmd.ErrOrStderr())
	s.Start()
	defer s.Stop()
	return fn()
}

func planAttempts(p *planner.Plan) int {
	if p == nil {
		return 0
	}
	return p.Attempts
}

func init() {
	rootCmd.AddCommand(generateCmd)

	f := generateCmd.Flags()
	f.StringVarP(&genRequest.Topic, "topic", "t", "", "plan topic: Study, Fitness, Work or Life Tasks")
	f.StringArrayVar(&genRequest.Tasks, "task", nil, "a task to schedule (repeatable)")
	f.StringVar(&genRequest.AvailableTime, "time", "", "time available, e.g. \"3 hours per day\"")
	f.StringVarP(&genRequest.Duration, "duration", "d", "", "plan duration: Daily, Weekly, Monthly or Yearly")
	f.StringVarP(&genRequest.CustomGoals, "goals", "g", "", "optional goals to plan towards")
	f.BoolVar(&genNoSave, "no-save", false, "do not store the plan in history")
	genOutput.register(generateCmd)

	_ = generateCmd.MarkFlagRequired("topic")
	_ = generateCmd.MarkFlagRequired("task")
	_ = generateCmd.MarkFlagRequired("time")
	_ = generateCmd.MarkFlagRequired("duration")
}
