package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"smartwaste-dashboard/internal/api"
	"smartwaste-dashboard/internal/session"
)

func addLogin(topLevel *cobra.Command) {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session token.",
		Example: `
dashboard login --username admin@smartwaste.lk --password '...'
SMARTWASTE_PASSWORD=... dashboard login -u admin@smartwaste.lk
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("SMARTWASTE_PASSWORD")
			}
			if username == "" || password == "" {
				return errors.New("username and password are required")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := session.Open(cfg.StateDir)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			auth, err := api.New(cfg.APIURL, "").Authenticate(ctx, username, password)
			if err != nil {
				return fmt.Errorf("login failed: %s", api.Message(err, "Invalid username or password"))
			}
			if err := store.SaveToken(auth.Token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n",
				color.New(color.Bold).Sprint(auth.Username), auth.Role.Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username (email).")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password; falls back to $SMARTWASTE_PASSWORD.")
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := session.Open(cfg.StateDir)
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
	topLevel.AddCommand(cmd)
}

// signedIn returns a client carrying the saved token.
func signedIn(cfg Config) (*api.Client, *session.Store, error) {
	store, err := session.Open(cfg.StateDir)
	if err != nil {
		return nil, nil, err
	}
	token, err := store.Token()
	if err != nil {
		return nil, nil, err
	}
	if token == "" {
		return nil, nil, errors.New("not signed in; run `dashboard login` first")
	}
	return api.New(cfg.APIURL, token), store, nil
}
