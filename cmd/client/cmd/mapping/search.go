package mapping

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
)

var (
	searchBrand  string
	searchLimit  int
	searchOffset int
)

var SearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search finance mappings",
	Long: `Searches mappings by free text over store name, brand, financier and
store code. Admins search across every user.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client not initialized")
		}

		term := ""
		if len(args) > 0 {
			term = args[0]
		}

		mappings, err := app.SearchMappings(cmd.Context(), term, searchBrand, searchLimit, searchOffset)
		if err != nil {
			return fmt.Errorf("search mappings: %w", err)
		}

		if len(mappings) == 0 {
			fmt.Println("No mappings found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ID\tStore\tBrand\tFinancier\tStore Code\tMID\t\n")
		fmt.Fprintf(w, "---\t---\t---\t---\t---\t---\t\n")

		for _, m := range mappings {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
				m.ID,
				truncate(m.StoreName, 30),
				truncate(m.Brand, 20),
				truncate(m.Financier, 20),
				m.StoreCode,
				m.MID,
			)
		}

		w.Flush()
		fmt.Printf("\nTotal: %d\n", len(mappings))
		return nil
	},
}

func init() {
	SearchCmd.Flags().StringVarP(&searchBrand, "brand", "b", "", "exact brand filter")
	SearchCmd.Flags().IntVar(&searchLimit, "limit", 50, "page size")
	SearchCmd.Flags().IntVar(&searchOffset, "offset", 0, "page offset")
}
