package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"unihub/internal/auth"
	"unihub/pkg/models"
)

func newTokenCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored bearer token",
	}

	var (
		user           models.User
		secret, issuer string
		ttl            time.Duration
	)
	sign := &cobra.Command{
		Use:   "sign",
		Short: "Sign a development token with a shared secret and store it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user.OpenID == "" {
				return errors.New("--sub is required")
			}
			if secret == "" {
				return errors.New("--secret is required")
			}
			ts := auth.TokenService{Secret: []byte(secret), Issuer: issuer, Duration: ttl}
			tok, exp, err := ts.Sign(user)
			if err != nil {
				return err
			}
			if err := saveToken(opts.tokenPath, tok); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ token for %s (%s) valid until %s\n",
				user.OpenID, auth.NormalizeRole(user.Role), exp.Format(time.RFC3339))
			return nil
		},
	}
	fl := sign.Flags()
	fl.StringVar(&user.OpenID, "sub", "", "subject (open id)")
	fl.StringVar(&user.Name, "name", "", "display name")
	fl.StringVar(&user.Email, "email", "", "email address")
	fl.StringVar(&user.Role, "role", auth.RoleUser, "user or admin")
	fl.StringVar(&user.LoginMethod, "login-method", "dev", "login method claim")
	fl.StringVar(&secret, "secret", "", "shared HS256 secret")
	fl.StringVar(&issuer, "issuer", "unihub", "issuer claim")
	fl.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := clearToken(opts.tokenPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✅ token removed")
			return nil
		},
	}

	cmd.AddCommand(sign, clearCmd)
	return cmd
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user behind the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := opts.client().Me(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), u)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> role=%s\n", u.OpenID, u.Email, u.Role)
			return nil
		},
	}
}
