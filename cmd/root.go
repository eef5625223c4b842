/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hourlog/config"
	"hourlog/internal/logging"
)

var (
	cfgFile    string
	dotEnvFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hourlog",
	Short: "Extract structured time-log records from free-form text.",
	Long: `
**********************************************
*                 HOURLOG                    *
**********************************************

This CLI turns unstructured hour reports (chat messages, e-mails, notes) into
structured time-log records. Extraction tries a chain of strategies in order:
two hosted language models and a deterministic line scanner that needs no
network. Records can be printed, exported to CSV or Excel, stored in a local
SQLite database, or served over an HTTP API.
`,
	Example: `
  # Create configuration file
  hourlog config create

  # Parse a report from a file
  hourlog parse -i ./report.txt

  # Parse from stdin with the deterministic scanner only
  cat report.txt | hourlog parse --strategy regex

  # Force every record onto one subtask and store the batch
  hourlog parse -i ./report.txt --task Marketing --task Campaign --save

  # Serve the HTTP API
  hourlog serve --port 8001

  # Export daily summary
  hourlog export --mode daily --output ./daily-summary.csv
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetDefault(logging.New(logging.Config{
			Level: logging.ParseLevel(viper.GetString(config.KeyLogLevel)),
			JSON:  viper.GetBool(config.KeyLogJSON),
		}))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.hourlog.yaml, then ./.hourlog.yaml)")
	rootCmd.PersistentFlags().StringVar(&dotEnvFile, "env-file", ".env", "Environment file loaded before configuration (missing file is ignored)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		fmt.Fprintln(os.Stderr, "Ignoring env file:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".hourlog" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hourlog")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// A missing file is fine: defaults and environment variables still apply.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Could not read config file:", err)
		}
	}
}
