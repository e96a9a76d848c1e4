package pinelabs

import (
	"github.com/spf13/cobra"
)

// PineLabsCmd groups Pine Labs terminal detail operations.
var PineLabsCmd = &cobra.Command{
	Use:   "pinelabs",
	Short: "Manage Pine Labs terminal details",
	Long:  `List, replace and delete the Pine Labs detail rows of finance mappings.`,
}
