package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hrsync/config"
	"hrsync/output"
)

var (
	convertInput       string
	convertInputFormat string
	convertMode        string
	convertEncoding    string
	convertTimezone    string
	convertFormat      string
	convertOutput      string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Write a preview of the converted working times to CSV/Excel",
	Long: `Run the local validation stages and write the resulting entries with their UTC
begin and end times to a preview file.

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Preview as CSV
  hrsync convert -i ./arbeitszeiten.xlsx -o ./preview.csv

  # Preview as Excel
  hrsync convert -i ./arbeitszeiten.csv -o ./preview.xlsx

  # Force Excel format independent of extension
  hrsync convert -i ./arbeitszeiten.csv --format excel -o ./preview.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		format := convertFormat
		if strings.TrimSpace(format) == "" {
			format = detectOutputFormat(convertOutput)
		}
		writer, err := output.WriterForFormat(format)
		if err != nil {
			return err
		}
		cmd.SilenceUsage = true

		result, err := runLocal(cfg, convertInput, convertInputFormat, convertMode, convertEncoding, convertTimezone)
		if err != nil {
			return err
		}
		if err := writer.Write(convertOutput, result.Batch.Resolved); err != nil {
			return err
		}

		fmt.Printf("Convert completed. Rows: %d, Format: %s, File: %s\n", len(result.Batch.Resolved), format, convertOutput)
		return nil
	},
}

func detectOutputFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "Input file (.csv, .xlsx, .xlsm)")
	convertCmd.Flags().StringVar(&convertInputFormat, "input-format", "", "Input format: csv|excel (optional, inferred from extension)")
	convertCmd.Flags().StringVar(&convertMode, "mode", "", "Project column mode: id|name (default from config)")
	convertCmd.Flags().StringVar(&convertEncoding, "encoding", "", "CSV encoding: utf-8|utf-16|windows-1252 (default from config)")
	convertCmd.Flags().StringVar(&convertTimezone, "timezone", "", "Timezone of the civil dates and times (default from config)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file path")

	_ = convertCmd.MarkFlagRequired("input")
	_ = convertCmd.MarkFlagRequired("output")
}
