/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/PlanWise/internal/telemetry"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
)

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage anonymous usage statistics",
	Long: `PlanWise can send anonymous usage events (command, provider, model, plan
topic and duration, success or failure kind). Plan text, tasks, goals and
prompts are never sent.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether telemetry is enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tcfg, err := telemetry.Load(app.configDir)
		if err != nil {
			return err
		}
		state := "disabled"
		if tcfg.IsEnabled() {
			state = "enabled"
		}
		if !tcfg.ConsentAsked {
			state += " (not asked yet)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Telemetry: %s\n", state)
		if app.cfg.Telemetry.APIKey == "" {
			fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSubtle.Render("No telemetry.apiKey configured: no events are sent."))
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSubtle.Render("Settings: "+tcfg.Path()))
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Allow anonymous usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, true)
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Stop sending usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, false)
	},
}

func setTelemetry(cmd *cobra.Command, enabled bool) error {
	tcfg, err := telemetry.Load(app.configDir)
	if err != nil {
		return err
	}
	if enabled {
		tcfg.Enable()
	} else {
		tcfg.Disable()
	}
	if err := tcfg.Save(); err != nil {
		return err
	}
	if enabled {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("telemetry enabled"))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("telemetry disabled"))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd, telemetryEnableCmd, telemetryDisableCmd)
}
