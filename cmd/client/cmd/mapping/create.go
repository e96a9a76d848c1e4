package mapping

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
	"finmap/internal/domain/mapping"
)

var (
	createStoreName string
	createBrand     string
	createFinancier string
	createStoreCode string
	createMID       string
	createRequester string
)

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a finance mapping",
	Long:  `Creates a new store/brand/financier mapping owned by the caller.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client not initialized")
		}

		if createStoreName == "" || createBrand == "" {
			return fmt.Errorf("--store and --brand are required")
		}

		id, err := app.CreateMapping(cmd.Context(), mapping.Mapping{
			StoreName: createStoreName,
			Brand:     createBrand,
			Financier: createFinancier,
			StoreCode: createStoreCode,
			MID:       createMID,
			Requester: createRequester,
		})
		if err != nil {
			return fmt.Errorf("create mapping: %w", err)
		}

		color.Green("Mapping created with id %d", id)
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVarP(&createStoreName, "store", "s", "", "store name (required)")
	CreateCmd.Flags().StringVarP(&createBrand, "brand", "b", "", "brand (required)")
	CreateCmd.Flags().StringVar(&createFinancier, "financier", "", "financier")
	CreateCmd.Flags().StringVar(&createStoreCode, "store-code", "", "store code")
	CreateCmd.Flags().StringVar(&createMID, "mid", "", "merchant id")
	CreateCmd.Flags().StringVar(&createRequester, "requester", "", "requester")
}
