package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"hrsync/config"
)

var configDeleteHistory bool

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by hrsync.

With --history the configured history database is removed as well.
If no configuration file is active, the command returns an error.`,
	Example: `
  # Delete active config
  hrsync config delete

  # Delete config at a custom path
  hrsync --configFile ./custom-hrsync.yaml config delete

  # Delete config and recorded import runs
  hrsync config delete --history
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			return fmt.Errorf("no configuration file found")
		}

		var historyDB string
		if configDeleteHistory {
			cfg, err := config.LoadAndValidate()
			if err != nil {
				return err
			}
			historyDB = cfg.History.DBPath
		}

		removed, err := deleteConfigFiles(configPath, historyDB)
		for _, path := range removed {
			fmt.Printf("Deleted: %s\n", path)
		}
		return err
	},
}

// deleteConfigFiles removes the config file and, when set, the history
// database. A missing history database is not an error.
func deleteConfigFiles(configPath, historyDB string) ([]string, error) {
	if err := os.Remove(configPath); err != nil {
		return nil, fmt.Errorf("error deleting configuration file: %w", err)
	}
	removed := []string{configPath}

	if strings.TrimSpace(historyDB) == "" {
		return removed, nil
	}
	if err := os.Remove(historyDB); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return removed, nil
		}
		return removed, fmt.Errorf("error deleting history database: %w", err)
	}
	return append(removed, historyDB), nil
}

func init() {
	configCmd.AddCommand(configDeleteCmd)

	configDeleteCmd.Flags().BoolVar(&configDeleteHistory, "history", false, "Also delete the history database (history.db_path)")
}
