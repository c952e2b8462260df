package main

import (
	"context"
	"fmt"

	"cards-marketplace/internal/service"

	"github.com/spf13/cobra"
)

func newLoginCmd(withApp appRunner) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when omitted)")

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		if email == "" {
			line, err := a.readLine("Email: ")
			if err != nil {
				return err
			}
			email = line
		}
		if password == "" {
			line, err := a.readLine("Password: ")
			if err != nil {
				return err
			}
			password = line
		}

		user, err := a.auth.Login(ctx, email, password)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Signed in as %s <%s>\n", user.Name, user.Email)
		return nil
	})
	return cmd
}

func newRegisterCmd(withApp appRunner) *cobra.Command {
	var form service.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "display name")
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "repeat the password (defaults to --password)")
	cmd.Flags().BoolVar(&form.AcceptTerms, "accept-terms", false, "accept the terms of use")

	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		if !cmd.Flags().Changed("confirm-password") {
			form.ConfirmPassword = form.Password
		}

		userID, err := a.auth.Register(ctx, form)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Account %s created, run `marketplace login` to sign in\n", userID)
		return nil
	})
	return cmd
}

func newLogoutCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the session and cached data",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		return a.auth.Logout(ctx)
	})
	return cmd
}

func newMeCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = withApp(func(ctx context.Context, a *app, args []string) error {
		if err := a.requireLogin(); err != nil {
			return err
		}

		profile, err := a.auth.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s <%s>\nid: %s\ncards: %d\n", profile.Name, profile.Email, profile.ID, len(profile.Cards))
		return nil
	})
	return cmd
}
