package mapping

import (
	"github.com/spf13/cobra"
)

// MappingCmd groups finance mapping operations.
var MappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Manage finance mappings",
	Long:  `Create, list, search, update and delete store/brand/financier mappings.`,
}
