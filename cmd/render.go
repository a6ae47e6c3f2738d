/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/josephgoksu/PlanWise/internal/plantext"
	"github.com/josephgoksu/PlanWise/internal/telemetry"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/josephgoksu/PlanWise/internal/watch"
	"github.com/spf13/cobra"
)

var (
	renderFormat  string
	renderMarkers string
	renderOut     string
	renderWatch   bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render existing plan text",
	Long: `Parse plan text written in the emoji or Markdown marker convention and
render it. Reads stdin when no file is given or the file is "-".`,
	Example: `  planwise render plan.txt
  cat plan.md | planwise render --markers markdown -f html -o plan.html
  planwise render plan.txt --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}

		vocab := app.vocab
		if renderMarkers != "" {
			var err error
			if vocab, err = plantext.VocabularyByName(renderMarkers); err != nil {
				return err
			}
		}

		if renderWatch {
			if path == "-" {
				return errors.New("--watch needs a file argument")
			}
			return watchRender(cmd, path, vocab)
		}

		text, err := readInput(cmd, path)
		if err != nil {
			return err
		}
		return renderText(cmd, text, vocab)
	},
}

func renderText(cmd *cobra.Command, text string, vocab *plantext.Vocabulary) error {
	blocks := plantext.NewParser(vocab).Parse(text)
	opts := app.RenderOptions(vocab, ui.FirstLine(text))
	if err := writePlan(cmd, blocks, renderFormat, renderOut, opts); err != nil {
		return err
	}
	format := renderFormat
	if format == "" {
		format = app.cfg.Render.Format
	}
	app.telemetry.Track(telemetry.EventPlanRendered, telemetry.RenderProps(format, vocab.Name, len(blocks)))
	return nil
}

// watchRender renders path now and again after every change until the
// command's context is cancelled.
func watchRender(cmd *cobra.Command, path string, vocab *plantext.Vocabulary) error {
	text, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	if err := renderText(cmd, text, vocab); err != nil {
		return err
	}

	w, err := watch.New(path, func(text string) error {
		if renderOut == "" && ui.IsTerminal(cmd.OutOrStdout()) {
			clearScreen(cmd.OutOrStdout())
		}
		return renderText(cmd, text, vocab)
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ui.StyleSubtle.Render("watching "+path+" (Ctrl+C to stop)"))
	return w.Run(cmd.Context())
}

func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

func init() {
	rootCmd.AddCommand(renderCmd)

	f := renderCmd.Flags()
	f.StringVarP(&renderFormat, "format", "f", "", "output format: terminal, plain, markdown, html, json, yaml, pdf (default render.format)")
	f.StringVarP(&renderMarkers, "markers", "m", "", "marker vocabulary of the input: emoji or markdown (default render.markers)")
	f.StringVarP(&renderOut, "out", "o", "", "write the rendered plan to a file")
	f.BoolVarP(&renderWatch, "watch", "w", false, "re-render whenever the file changes")
}
