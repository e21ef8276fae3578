package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"hrsync/config"
	"hrsync/hrworks"
)

var (
	projectsAccessKey       string
	projectsSecretAccessKey string
	projectsTimeout         time.Duration
	projectsMembers         bool
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Inspect HRworks working time projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects visible to the configured credentials",
	Example: `
  # List projects with number, name and status
  hrsync projects list

  # Include active team members
  hrsync projects list --members
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		creds, err := resolveCredentials(projectsAccessKey, projectsSecretAccessKey, cfg.HRworks, nil)
		if err != nil {
			return err
		}

		client, err := connectHRworks(cfg.HRworks, creds, resolveTimeout(projectsTimeout, cfg.HRworks), logger)
		if err != nil {
			return err
		}
		projects, err := client.ListProjects(context.Background())
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		out := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer out.Flush()
		fmt.Fprintln(out, "NUMBER\tNAME\tSTATUS")
		for _, project := range projects {
			fmt.Fprintf(out, "%d\t%s\t%s\n", project.Number, project.Name, project.Status)
			if !projectsMembers {
				continue
			}
			for _, member := range project.TeamMembers {
				if member.Status == hrworks.StatusActive {
					fmt.Fprintf(out, "\t  %s\t\n", member.PersonnelNumber)
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(projectsCmd)
	projectsCmd.AddCommand(projectsListCmd)

	projectsListCmd.Flags().StringVar(&projectsAccessKey, "access-key", "", "HRworks access key")
	projectsListCmd.Flags().StringVar(&projectsSecretAccessKey, "secret-access-key", "", "HRworks secret access key")
	projectsListCmd.Flags().DurationVar(&projectsTimeout, "timeout", 0, "Timeout per HRworks request (default from config)")
	projectsListCmd.Flags().BoolVar(&projectsMembers, "members", false, "Print active team members below each project")
}
