package auth

import (
	"github.com/spf13/cobra"
)

// AuthCmd groups account operations.
var AuthCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the user account",
	Long:  `Registration, login and logout.`,
}
