package pinelabs

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
	"finmap/internal/domain/pinelabs"
)

var (
	listMappingID int
	listTerm      string
	listFormat    string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List Pine Labs detail rows",
	Long: `Lists detail rows joined with their mapping's store name and brand.
Filter by mapping id or by a free-text term over every column.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client not initialized")
		}

		rows, err := app.ListDetails(cmd.Context(), listMappingID, listTerm)
		if err != nil {
			return fmt.Errorf("list details: %w", err)
		}

		switch listFormat {
		case "json":
			return printDetailsJSON(rows)
		default:
			return printDetailsTable(rows)
		}
	},
}

func printDetailsTable(rows []pinelabs.Row) error {
	if len(rows) == 0 {
		fmt.Println("No detail rows found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tMapping\tStore\tBrand\tPOS ID\tTID\tSerial\tStore ID\t\n")
	fmt.Fprintf(w, "---\t---\t---\t---\t---\t---\t---\t---\t\n")

	for _, r := range rows {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.ID, r.MappingID, r.StoreName, r.Brand,
			r.PosID, r.TID, r.SerialNo, r.StoreID)
	}

	w.Flush()
	fmt.Printf("\nTotal: %d\n", len(rows))
	return nil
}

func printDetailsJSON(rows []pinelabs.Row) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rows)
}

func init() {
	ListCmd.Flags().IntVarP(&listMappingID, "mapping", "m", 0, "filter by mapping id")
	ListCmd.Flags().StringVarP(&listTerm, "term", "t", "", "free-text filter")
	ListCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "output format (table, json)")
}
