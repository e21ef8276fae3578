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
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrsync/config"
)

const envPrefix = "HRSYNC"

var (
	cfgFile  string
	envFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hrsync",
	Short: "Validate working time files and submit them to HRworks.",
	Long: `
**********************************************
*                 HRSYNC                     *
**********************************************

This CLI reads working time files (CSV, Excel), validates every row locally
(headers, duplicates, date and time formats, overlapping intervals per person),
checks project status and team membership against HRworks, and submits all
entries in a single batch. Any failure aborts the run before anything is sent.

Supported input formats:
- CSV: .csv (semicolon separated)
- Excel: .xlsx, .xlsm (sheet "Arbeitszeiten")
`,
	Example: `
  # Create configuration file
  hrsync config create

  # Validate a file locally without contacting HRworks
  hrsync check -i ./arbeitszeiten.csv

  # Validate against HRworks without submitting
  hrsync import -i ./arbeitszeiten.csv --dry-run

  # Submit working times
  hrsync import -i ./arbeitszeiten.xlsx

  # Project column holds names instead of numbers
  hrsync import -i ./arbeitszeiten.csv --mode name

  # Write a preview of the converted entries
  hrsync convert -i ./arbeitszeiten.csv -o ./preview.xlsx

  # Show recorded import runs
  hrsync history --limit 10
`,
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

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.hrsync.yaml, then ./.hrsync.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file with HRWORKS_ACCESS_KEY / HRWORKS_SECRET_ACCESS_KEY (ignored when missing)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override: debug|info|warn|error")
}

// initConfig reads in config file, the dotenv file and ENV variables if set.
func initConfig() {
	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".hrsync" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hrsync")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in. Defaults apply otherwise.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Config file %s could not be read: %v\n", cfgFile, err)
	}
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
