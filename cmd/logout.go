package cmd

import (
	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear local auth state",
	Long: `Sign out of the study platform.

Logout is purely local: the stored token, user and any active study
session are removed from the state database. No server call is made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		flow := internal.NewAuthFlow(app.store, app.client, app.router)
		flow.Logout()

		internal.PrintSuccess("Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
