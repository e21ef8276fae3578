package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrsync/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Secrets are masked.`,
	Example: `
  # Show active configuration
  hrsync config show
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults and environment overrides.")
		}
		printConfig(os.Stdout, cfg)
		return nil
	},
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintf(w, "%s: %s\n", config.KeyHRworksBaseURL, cfg.HRworks.BaseURL)
	fmt.Fprintf(w, "%s: %s\n", config.KeyHRworksAccessKey, maskSecret(cfg.HRworks.AccessKey))
	fmt.Fprintf(w, "%s: %s\n", config.KeyHRworksSecretAccessKey, maskSecret(cfg.HRworks.SecretAccessKey))
	fmt.Fprintf(w, "%s: %s\n", config.KeyHRworksTimeout, cfg.HRworks.Timeout)
	fmt.Fprintf(w, "%s: %g\n", config.KeyHRworksRequestsPerSecond, cfg.HRworks.RequestsPerSecond)
	fmt.Fprintf(w, "%s: %s\n", config.KeyImportMode, cfg.Import.Mode)
	fmt.Fprintf(w, "%s: %s\n", config.KeyImportTimezone, cfg.Import.Timezone)
	fmt.Fprintf(w, "%s: %s\n", config.KeyImportEncoding, cfg.Import.Encoding)
	fmt.Fprintf(w, "%s: %t\n", config.KeyHistoryEnabled, cfg.History.Enabled)
	fmt.Fprintf(w, "%s: %s\n", config.KeyHistoryDBPath, cfg.History.DBPath)
	fmt.Fprintf(w, "%s: %s\n", config.KeyLogLevel, cfg.Log.Level)
}

// maskSecret keeps the last four characters of values longer than eight.
func maskSecret(value string) string {
	switch {
	case value == "":
		return "(not set)"
	case len(value) <= 8:
		return "********"
	default:
		return "********" + value[len(value)-4:]
	}
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
