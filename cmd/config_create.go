package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrsync/config"
)

var (
	configCreateForce    bool
	configCreateMode     string
	configCreateTimezone string
	configCreateEncoding string
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

The import section can be seeded with --mode, --timezone and --encoding.
If a configuration file is already in use, no new file is written unless --force is set.`,
	Example: `
  # Create default config at $HOME/.hrsync.yaml
  hrsync config create

  # Seed name mode for files exported from legacy Excel
  hrsync config create --mode name --encoding windows-1252

  # Replace an existing config with a fresh template
  hrsync config create --force
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(config.ImportConfig{
			Mode:     configCreateMode,
			Timezone: configCreateTimezone,
			Encoding: configCreateEncoding,
		}, configCreateForce)
	},
}

func saveDefaultConfig(seed config.ImportConfig, force bool) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	content := config.ExampleYAMLFor(seed)
	if _, err := config.ValidateYAMLContent([]byte(content)); err != nil {
		return fmt.Errorf("invalid config values: %w", err)
	}

	created, err := writeConfigTemplate(configPath, content, force)
	if err != nil {
		return err
	}

	if created {
		fmt.Printf("New config file created at: %s\n", configPath)
		return nil
	}

	fmt.Printf("Config file already exists at: %s (use --force to replace it)\n", configPath)
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)

	configCreateCmd.Flags().BoolVar(&configCreateForce, "force", false, "Overwrite an existing config file")
	configCreateCmd.Flags().StringVar(&configCreateMode, "mode", "", "Seed import.mode: id|name")
	configCreateCmd.Flags().StringVar(&configCreateTimezone, "timezone", "", "Seed import.timezone (IANA name)")
	configCreateCmd.Flags().StringVar(&configCreateEncoding, "encoding", "", "Seed import.encoding: utf-8|utf-16|windows-1252")
}
