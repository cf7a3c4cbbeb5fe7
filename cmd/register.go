package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"github.com/studyplatform/studyctl/internal"
)

var (
	registerUsername string
	registerEmail    string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new study platform account.

Registration never signs you in: after the confirmation the login
prompt appears so you can authenticate with the new credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newAppContext()
		if err != nil {
			return err
		}
		defer app.Close()

		username := registerUsername
		if username == "" {
			if username, err = promptLine("Username"); err != nil {
				return err
			}
		}
		email := registerEmail
		if email == "" {
			if email, err = promptLine("Email"); err != nil {
				return err
			}
		}
		password, err := promptPassword("Password")
		if err != nil {
			return err
		}

		flow := internal.NewAuthFlow(app.store, app.client, app.router)

		ctx := context.Background()
		err = internal.ShowPending(ctx, "Creating account...", func() error {
			_, registerErr := flow.Register(ctx, username, email, password)
			return registerErr
		})
		if err != nil {
			var valErr *internal.ValidationError
			if errors.As(err, &valErr) {
				internal.PrintError("Please fill in all required fields")
				return err
			}
			internal.PrintError(internal.UserMessage(err, internal.RegisterFailedMessage))
			return err
		}

		internal.PrintSuccess(internal.RegisterSuccessMessage)

		// Leave the confirmation on screen briefly, then offer login.
		time.Sleep(internal.LoginPromptDelay)
		loginUsername = username
		return runLogin(app)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username for the new account")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "Email for the new account")
}
