package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
	"finmap/internal/domain/mapping"
)

var listFormat string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List finance mappings",
	Long: `Lists the caller's finance mappings. When the server is reachable the
local cache is refreshed first; otherwise cached data is shown.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client not initialized")
		}

		items, err := app.ListMappings(cmd.Context())
		if err != nil {
			return fmt.Errorf("list mappings: %w", err)
		}

		switch listFormat {
		case "json":
			return printMappingsJSON(items)
		default:
			return printMappingsTable(items)
		}
	},
}

func printMappingsTable(items []mapping.Item) error {
	if len(items) == 0 {
		fmt.Println("No mappings found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tStore\tBrand\tFinancier\tStore Code\tMID\tRequester\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t---\t---\t\n")

	for _, m := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			m.ID,
			truncate(m.StoreName, 30),
			truncate(m.Brand, 20),
			truncate(m.Financier, 20),
			m.StoreCode,
			m.MID,
			truncate(m.Requester, 20),
		)
	}

	w.Flush()
	fmt.Printf("\nTotal: %d\n", len(items))
	return nil
}

func printMappingsJSON(items []mapping.Item) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(items)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func init() {
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table, json)")
}
