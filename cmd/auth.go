package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/gsamples/internal/google"
	"github.com/teemow/gsamples/internal/logging"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored credentials",
	}
	cmd.AddCommand(newAuthLoginCmd(a))
	cmd.AddCommand(newAuthLogoutCmd(a))
	cmd.AddCommand(newAuthStatusCmd(a))
	return cmd
}

// profilesFor resolves --service. An empty name selects every profile.
func profilesFor(name string) ([]google.ServiceProfile, error) {
	if name == "" {
		names := google.ProfileNames()
		profiles := make([]google.ServiceProfile, 0, len(names))
		for _, n := range names {
			p, _ := google.ProfileByName(n)
			profiles = append(profiles, p)
		}
		return profiles, nil
	}

	p, err := google.ProfileByName(name)
	if err != nil {
		return nil, err
	}
	return []google.ServiceProfile{p}, nil
}

func newAuthLoginCmd(a *app) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize a service and store its credential",
		Long: `Run the OAuth 2.0 authorization flow for a service and store the
resulting credential, replacing any stored one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := google.ProfileByName(service)
			if err != nil {
				return err
			}

			flow, err := a.newFlow(cmd, profile)
			if err != nil {
				return err
			}

			store := flow.Store()
			if err := store.Init(); err != nil {
				return err
			}

			tok, err := flow.Authorize(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to authorize %s: %w", profile.Name, err)
			}
			if err := store.Write(tok); err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}

			a.logger.Info("Stored credential",
				logging.Service(profile.Name),
				logging.Token("access_token", tok.AccessToken),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Authorized %s.\n", profile.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service to authorize: calendar, drive or youtube")
	_ = cmd.MarkFlagRequired("service")

	return cmd
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := profilesFor(service)
			if err != nil {
				return err
			}

			for _, p := range profiles {
				store, err := a.store(p)
				if err != nil {
					return err
				}
				if err := store.Invalidate(); err != nil {
					return fmt.Errorf("failed to remove %s credential: %w", p.Name, err)
				}
				a.logger.Debug("Removed credential", logging.Service(p.Name), logging.Path(store.Path()))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service to log out of (default: all)")

	return cmd
}

func newAuthStatusCmd(a *app) *cobra.Command {
	var service string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which services have a stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profiles, err := profilesFor(service)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range profiles {
				store, err := a.store(p)
				if err != nil {
					return err
				}
				tok, err := store.Read()
				switch {
				case errors.Is(err, google.ErrNoCredential):
					fmt.Fprintf(out, "%s: not authorized\n", p.Name)
				case err != nil:
					fmt.Fprintf(out, "%s: unreadable credential (%v)\n", p.Name, err)
				case tok.Valid():
					fmt.Fprintf(out, "%s: authorized, expires %s\n", p.Name, tok.Expiry.Format(time.RFC3339))
				case tok.RefreshToken != "":
					fmt.Fprintf(out, "%s: authorized, refresh on next use\n", p.Name)
				default:
					fmt.Fprintf(out, "%s: expired\n", p.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&service, "service", "", "Service to check (default: all)")

	return cmd
}
