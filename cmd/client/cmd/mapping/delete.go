package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
)

var deleteForce bool

var DeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a finance mapping",
	Long:  `Deletes a mapping together with all of its Pine Labs detail rows.`,
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

		if !deleteForce {
			fmt.Printf("Delete mapping %d and all of its detail rows? [y/N]: ", id)
			var answer string
			_, _ = fmt.Scanln(&answer)
			if strings.ToLower(answer) != "y" {
				fmt.Println("Cancelled")
				return nil
			}
		}

		if err := app.DeleteMapping(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete mapping: %w", err)
		}

		color.Green("Mapping %d deleted", id)
		return nil
	},
}

func init() {
	DeleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "skip the confirmation prompt")
}
