package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage hrsync configuration file values.",
	Long: `Create, edit, display, and delete the hrsync configuration file.

The configuration stores:
- hrworks.base_url / access_key / secret_access_key / timeout / requests_per_second
- import.mode / timezone / encoding
- history.enabled / db_path
- log.level

Every key can be overridden by an HRSYNC_ environment variable, e.g. HRSYNC_IMPORT_TIMEZONE.`,
	Example: `
  # Create default config in $HOME/.hrsync.yaml
  hrsync config create

  # Show active config and source file
  hrsync config show

  # Open active config in editor (creates example if missing)
  hrsync config edit

  # Delete active config file
  hrsync config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
