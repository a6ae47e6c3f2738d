/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/PlanWise/internal/config"
	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
)

var modelsProvider string

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known models and their prices",
	Long: `List the models PlanWise knows defaults and prices for. Any other model id
can still be set with 'planwise config set llm.model <id>'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if modelsProvider != "" {
			if _, err := llm.ValidateProvider(modelsProvider); err != nil {
				return err
			}
		}

		current, err := config.LoadLLMConfig(v)
		if err != nil {
			return err
		}

		table := &ui.Table{Headers: []string{"", "PROVIDER", "MODEL", "PRICE (IN/OUT)", "DEFAULT"}}
		for _, m := range llm.ListModels(modelsProvider) {
			active := ""
			if string(current.Provider) == m.Provider && current.Model == m.ID {
				active = "*"
			}
			def := ""
			if m.IsDefault {
				def = "yes"
			}
			table.Rows = append(table.Rows, []string{active, m.Provider, m.ID, m.PriceInfo, def})
		}
		fmt.Fprint(cmd.OutOrStdout(), table.Render())
		fmt.Fprintf(cmd.OutOrStdout(), "\nActive: %s/%s\n", current.Provider, current.Model)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringVarP(&modelsProvider, "provider", "p", "", "only list models for this provider")
}
