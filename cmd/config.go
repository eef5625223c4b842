package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hourlog configuration file values.",
	Long: `Create and display the hourlog configuration file.

The configuration stores:
- openai.* / gemini.* endpoint settings (API keys preferably via environment)
- remote.timeout for remote strategy requests
- taxonomy.path of the project/task/subtask definition file
- extract.strategies order and extract.report_errors
- server.port / server.allowed_origins
- log.level / log.json`,
	Example: `
  # Create default config in $HOME/.hourlog.yaml
  hourlog config create

  # Show active config and source file
  hourlog config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
