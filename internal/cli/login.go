package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(a **app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := (*a).session.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("signed in as %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := (*a).session.SignOut(); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		},
	}
}
