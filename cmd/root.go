/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/josephgoksu/PlanWise/internal/logger"
	"github.com/josephgoksu/PlanWise/internal/telemetry"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables debug logging.
	verbose bool
	// version is the application version, set at build time.
	version = "0.1.0"

	// v holds the resolved configuration for this run.
	v = viper.New()
	// app is set up by the root command before any subcommand runs.
	app *runtime
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "planwise",
	Short: "PlanWise - AI daily, weekly, monthly and yearly plans",
	Long: `PlanWise asks a language model for a structured plan (Study, Fitness, Work
or Life Tasks), renders it for the terminal, Markdown, HTML, JSON, YAML or PDF,
and keeps a history of the plans you generate, optimize and summarize.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		app = rt
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			app.Close()
		}
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	defer logger.HandlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, ui.Error(userMessage(err)))
	if app != nil {
		app.telemetry.Track(telemetry.EventCommandError, telemetry.CommandErrorProps(cmd.Name(), err))
		app.Close()
	}
	logger.WithComponent("cli").Debug("command failed", "command", cmd.CommandPath(), "elapsed", time.Since(start), "error", err)
	stop()
	os.Exit(1)
}

// userMessage returns the one-line message shown for a failed command.
func userMessage(err error) string {
	var ge *llm.GenerationError
	if errors.As(err, &ge) {
		return llm.UserMessage(err)
	}
	return err.Error()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.planwise/.planwise.yaml, ~/.planwise/config.yaml or $HOME/.planwise.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	_ = v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
