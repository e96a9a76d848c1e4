package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
)

var getFormat string

var GetCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show one finance mapping",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client not initialized")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid mapping id: %w", err)
		}

		m, err := app.GetMapping(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get mapping: %w", err)
		}

		if getFormat == "json" {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(m)
		}

		fmt.Printf("ID:         %d\n", m.ID)
		fmt.Printf("Store:      %s\n", m.StoreName)
		fmt.Printf("Brand:      %s\n", m.Brand)
		fmt.Printf("Financier:  %s\n", m.Financier)
		fmt.Printf("Store code: %s\n", m.StoreCode)
		fmt.Printf("MID:        %s\n", m.MID)
		fmt.Printf("Requester:  %s\n", m.Requester)
		if !m.CreatedAt.IsZero() {
			fmt.Printf("Created:    %s\n", m.CreatedAt.Format("2006-01-02 15:04"))
		}

		return nil
	},
}

func init() {
	GetCmd.Flags().StringVarP(&getFormat, "format", "f", "human", "output format (human, json)")
}
