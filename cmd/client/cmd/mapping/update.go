package mapping

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
)

var (
	updateStoreName string
	updateBrand     string
	updateFinancier string
	updateStoreCode string
	updateMID       string
	updateRequester string
)

var UpdateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Update a finance mapping",
	Long: `Updates a mapping. Flags that are not given keep their current value;
ownership never changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client not initialized")
		}

		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid mapping id: %w", err)
		}

		current, err := app.GetMapping(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get mapping: %w", err)
		}

		m := *current
		if cmd.Flags().Changed("store") {
			m.StoreName = updateStoreName
		}
		if cmd.Flags().Changed("brand") {
			m.Brand = updateBrand
		}
		if cmd.Flags().Changed("financier") {
			m.Financier = updateFinancier
		}
		if cmd.Flags().Changed("store-code") {
			m.StoreCode = updateStoreCode
		}
		if cmd.Flags().Changed("mid") {
			m.MID = updateMID
		}
		if cmd.Flags().Changed("requester") {
			m.Requester = updateRequester
		}

		if err := app.UpdateMapping(cmd.Context(), m); err != nil {
			return fmt.Errorf("update mapping: %w", err)
		}

		color.Green("Mapping %d updated", id)
		return nil
	},
}

func init() {
	UpdateCmd.Flags().StringVarP(&updateStoreName, "store", "s", "", "store name")
	UpdateCmd.Flags().StringVarP(&updateBrand, "brand", "b", "", "brand")
	UpdateCmd.Flags().StringVar(&updateFinancier, "financier", "", "financier")
	UpdateCmd.Flags().StringVar(&updateStoreCode, "store-code", "", "store code")
	UpdateCmd.Flags().StringVar(&updateMID, "mid", "", "merchant id")
	UpdateCmd.Flags().StringVar(&updateRequester, "requester", "", "requester")
}
