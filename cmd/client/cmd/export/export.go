package export

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
)

var outputPath string

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export Pine Labs details as CSV",
	Long: `Downloads the full Pine Labs detail set as CSV, joined with each
mapping's store name and brand. Writes to --output or to stdout.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client not initialized")
		}

		data, err := app.ExportCSV(cmd.Context(), outputPath)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}

		if outputPath != "" {
			color.Green("Exported %d bytes to %s", len(data), outputPath)
			return nil
		}

		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	ExportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the CSV to this file")
}
