package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hourlog/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. API keys are masked.`,
	Example: `
  # Show active configuration
  hourlog config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Config file loaded from:", configPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No config file loaded; showing defaults and environment values.")
		}
		printConfig(cmd.OutOrStdout(), cfg)
	},
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintf(out, "openai.api_key: %s\n", maskSecret(cfg.OpenAI.APIKey))
	fmt.Fprintf(out, "openai.model: %s\n", cfg.OpenAI.Model)
	fmt.Fprintf(out, "openai.base_url: %s\n", cfg.OpenAI.BaseURL)
	fmt.Fprintf(out, "openai.max_tokens: %d\n", cfg.OpenAI.MaxTokens)
	fmt.Fprintf(out, "openai.temperature: %g\n", cfg.OpenAI.Temperature)
	fmt.Fprintf(out, "gemini.api_key: %s\n", maskSecret(cfg.Gemini.APIKey))
	fmt.Fprintf(out, "gemini.url: %s\n", cfg.Gemini.URL)
	fmt.Fprintf(out, "remote.timeout: %s\n", cfg.Remote.Timeout)
	fmt.Fprintf(out, "taxonomy.path: %s\n", cfg.Taxonomy.Path)
	fmt.Fprintf(out, "extract.strategies: %s\n", strings.Join(cfg.Extract.Strategies, ", "))
	fmt.Fprintf(out, "extract.report_errors: %t\n", cfg.Extract.ReportErrors)
	fmt.Fprintf(out, "server.port: %d\n", cfg.Server.Port)
	fmt.Fprintf(out, "server.allowed_origins: %s\n", strings.Join(cfg.Server.AllowedOrigins, ", "))
	fmt.Fprintf(out, "log.level: %s\n", cfg.Log.Level)
	fmt.Fprintf(out, "log.json: %t\n", cfg.Log.JSON)
}

func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return "(not set)"
	case len(value) <= 8:
		return "****"
	default:
		return value[:4] + "****" + value[len(value)-2:]
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
