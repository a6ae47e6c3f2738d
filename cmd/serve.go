/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/PlanWise/internal/server"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
)

var (
	servePort    int
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PlanWise HTTP API",
	Long: `Serve plan generation, rendering and history over HTTP.

Endpoints:
  POST   /api/render                 render plan text
  GET    /api/plans                  list saved plans
  POST   /api/plans                  generate a plan
  GET    /api/plans/{id}             fetch a plan
  DELETE /api/plans/{id}             delete a plan
  POST   /api/plans/{id}/optimize    revise a plan
  POST   /api/plans/{id}/summary     summarize a plan
  GET    /plans/{id}                 the plan as a standalone HTML page`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, _, err := app.Planner(ctx, true)
		if err != nil {
			return err
		}
		store, err := app.History()
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = app.cfg.Server.Port
		}
		srv, err := server.New(server.Config{
			Port:    port,
			Planner: svc,
			History: store,
			Origins: serveOrigins,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.ErrOrStderr(), ui.Success(fmt.Sprintf("PlanWise API listening on http://localhost%s", srv.Addr())))
		fmt.Fprintln(cmd.ErrOrStderr(), ui.StyleSubtle.Render("Press Ctrl+C to stop"))
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default server.port)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", []string{"http://localhost:3000", "http://localhost:5173"}, "allowed CORS origin (repeatable)")
}
