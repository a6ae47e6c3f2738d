/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/josephgoksu/PlanWise/internal/config"
	"github.com/josephgoksu/PlanWise/internal/llm"
	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change PlanWise settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		llmCfg, err := config.LoadLLMConfig(v)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		cfg := app.cfg

		source := v.ConfigFileUsed()
		if source == "" {
			source = "(none, using defaults and environment)"
		}
		ui.RenderPageHeader(out, "PlanWise configuration", source)

		rows := [][2]string{
			{"llm.provider", string(llmCfg.Provider)},
			{"llm.model", llmCfg.Model},
			{"llm.baseURL", llmCfg.BaseURL},
			{"llm.temperature", strconv.FormatFloat(float64(llmCfg.Temperature), 'g', -1, 32)},
			{"llm.topK", strconv.Itoa(llmCfg.TopK)},
			{"llm.topP", strconv.FormatFloat(float64(llmCfg.TopP), 'g', -1, 32)},
			{"llm.maxOutputTokens", strconv.Itoa(llmCfg.MaxOutputTokens)},
			{"llm.timeoutSeconds", strconv.Itoa(int(llmCfg.Timeout.Seconds()))},
			{"render.markers", cfg.Render.Markers},
			{"render.format", cfg.Render.Format},
			{"render.width", widthLabel(cfg.Render.Width)},
			{"history.path", config.HistoryPath(v)},
			{"history.disabled", strconv.FormatBool(cfg.History.Disabled)},
			{"prompts.dir", config.PromptsDir(v)},
			{"server.port", strconv.Itoa(cfg.Server.Port)},
			{"log.level", cfg.Log.Level},
			{"log.file", cfg.Log.File},
		}

		table := &ui.Table{Headers: []string{"KEY", "VALUE"}}
		for _, r := range rows {
			table.Rows = append(table.Rows, []string{r[0], r[1]})
		}
		for _, p := range keyedProviders() {
			key := config.ResolveAPIKey(v, p)
			value := config.MaskKey(key)
			if value == "" {
				value = "(not set: " + strings.Join(config.ProviderEnvVars[p], " or ") + ")"
			}
			table.Rows = append(table.Rows, []string{"llm.apiKeys." + string(p), value})
		}
		fmt.Fprint(out, table.Render())
		return nil
	},
}

func widthLabel(w int) string {
	if w == 0 {
		return "0 (terminal width)"
	}
	return strconv.Itoa(w)
}

func keyedProviders() []llm.Provider {
	var out []llm.Provider
	for p := range config.ProviderEnvVars {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save a setting in the global config file",
	Example: `  planwise config set llm.provider openai
  planwise config set llm.apiKeys.openai sk-...
  planwise config set render.markers markdown`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, raw := args[0], args[1]
		value := parseConfigValue(raw)

		// Reject values Load would refuse on the next run.
		v.Set(key, value)
		if _, err := config.Load(v); err != nil {
			return err
		}

		path, err := config.SetGlobalValue(key, value)
		if err != nil {
			return err
		}
		shown := raw
		if strings.HasPrefix(key, "llm.apiKeys.") || strings.HasSuffix(strings.ToLower(key), "apikey") {
			shown = config.MaskKey(raw)
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("%s = %s (%s)", key, shown, path)))
		return nil
	},
}

// parseConfigValue keeps numbers and booleans typed in the YAML file.
func parseConfigValue(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil && (raw == "true" || raw == "false") {
		return b
	}
	if i, err := strconv.Atoi(raw); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && strings.Contains(raw, ".") {
		return f
	}
	return raw
}

var configPromptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage prompt template overrides",
}

var configPromptsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in prompt templates for editing",
	Long: `Write the built-in prompt templates to the prompts directory (prompts.dir,
default ~/.planwise/prompts). Existing files are left untouched. Edited
templates replace the built-in ones on the next run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := config.PromptsDir(v)
		if dir == "" {
			return fmt.Errorf("no prompts directory: set prompts.dir")
		}
		loader := planner.NewPromptLoader(appFs, dir)
		written, err := loader.WriteDefaults()
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Success("wrote "+path))
		}
		if len(written) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "All prompt templates already exist in "+dir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd, configPromptsCmd)
	configPromptsCmd.AddCommand(configPromptsInitCmd)
}
