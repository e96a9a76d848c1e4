package auth

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"finmap/cmd/client/cmd/types"
	"finmap/internal/app/client"
)

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the finmap server",
	Long: `Authenticates against the finmap server.

The issued token is stored locally and used for all further operations.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok {
			return fmt.Errorf("client not initialized")
		}

		fmt.Print("Login: ")
		var login string
		_, _ = fmt.Scanln(&login)

		fmt.Print("Password: ")
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		fmt.Println()

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if _, err := app.Login(ctx, login, string(password)); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}

		color.Green("Logged in successfully.")

		fmt.Println("Refreshing local cache...")
		if err := app.Refresh(ctx); err != nil {
			color.Yellow("Warning: cache refresh failed: %v", err)
			fmt.Println("You can keep working; listings will use cached data.")
		} else {
			fmt.Println("Cache is up to date.")
		}

		return nil
	},
}
