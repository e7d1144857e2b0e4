package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tgienger/taskdash/internal/forms"
	"go.uber.org/zap"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			creds := forms.Credentials{Email: email, Password: password}
			if err := forms.Login(cmd.Context(), s.client, s.store, creds); err != nil {
				s.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
				if errors.Is(err, forms.ErrInvalidCredentials) {
					return writeErr(cmd, forms.ErrInvalidCredentials)
				}
				return writeErr(cmd, err)
			}

			s.logger.Info("logged in", zap.String("email", email))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", envOr("TASKDASH_PASSWORD", ""), "Account password (or set TASKDASH_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer s.Close()

			if err := s.store.ClearToken(); err != nil {
				return writeErr(cmd, fmt.Errorf("clear token: %w", err))
			}
			s.logger.Info("logged out")
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return err
		},
	}
}
