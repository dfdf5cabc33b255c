package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/rrdash/internal/client/rr"
	"github.com/garrettladley/rrdash/internal/externalauth"
	"github.com/garrettladley/rrdash/internal/validator"
	"github.com/garrettladley/rrdash/internal/xerrors"
	"github.com/garrettladley/rrdash/internal/xslog"
)

const telegramTimeout = 5 * time.Minute

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := prompt(cmd, "Email", &email); err != nil {
				return err
			}
			if err := prompt(cmd, "Password", &password); err != nil {
				return err
			}

			resp, err := a.client.Auth.Login(cmd.Context(), rr.LoginRequest{Email: email, Password: password})
			if err != nil {
				return formError(err)
			}
			a.logger.Info("signed in", xslog.UserID(resp.ID))
			cmd.Println("Signed in.")
			return nil
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when empty)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			a.session.Logout()
			cmd.Println("Signed out.")
			return nil
		}),
	}
}

func registerCmd() *cobra.Command {
	var req rr.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			for _, f := range []struct {
				label string
				dst   *string
			}{
				{"First name", &req.FirstName},
				{"Last name", &req.SecondName},
				{"Email", &req.Email},
				{"Password", &req.Password},
			} {
				if err := prompt(cmd, f.label, f.dst); err != nil {
					return err
				}
			}

			if err := a.client.Auth.Register(cmd.Context(), req); err != nil {
				return formError(err)
			}
			cmd.Println("Account created. Run `rrdash login` to sign in.")
			return nil
		}),
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.SecondName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	return cmd
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			id, ok := a.session.CurrentUserID()
			if !a.session.IsAuthenticated() {
				cmd.Println("Not signed in.")
				return nil
			}

			settings, err := a.client.User.Settings(cmd.Context())
			if err != nil {
				if ok {
					cmd.Printf("Signed in as %s (profile unavailable: %s)\n", id, xerrors.Message(err))
					return nil
				}
				return errors.New(xerrors.Message(err))
			}

			cmd.Printf("%s %s <%s>\n", settings.FirstName, settings.LastName, settings.Email)
			if ok {
				cmd.Printf("id:        %s\n", id)
			}
			cmd.Printf("password:  %t\ntelegram:  %t\n", settings.HasPassword, settings.HasTelegram)
			return nil
		}),
	}
}

func telegramCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "telegram",
		Short: "Sign in with Telegram",
	}
	cmd.AddCommand(telegramLoginCmd(), telegramConfirmCmd())
	return cmd
}

func telegramLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Open the Telegram login widget in a browser",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), telegramTimeout)
			defer cancel()

			open := func(url string) error {
				cmd.Printf("Complete the Telegram login at %s\n", url)
				return externalauth.OpenBrowser(url)
			}
			payload, err := externalauth.Await(ctx, a.cfg.TelegramBot, a.logger, open)
			if err != nil {
				return fmt.Errorf("telegram login failed: %w", err)
			}

			_, err = a.client.Auth.TelegramLogin(ctx, payload)
			if xerrors.HasCode(err, xerrors.CodeNeedEndRegistration) {
				tempID := xerrors.AsAPIError(err).Field("tempId")
				cmd.Println("This Telegram account has no user yet. Finish registration with:")
				cmd.Printf("  rrdash telegram confirm --temp-id %s --email <email>\n", tempID)
				return nil
			}
			if err != nil {
				return formError(err)
			}
			cmd.Println("Signed in with Telegram.")
			return nil
		}),
	}
}

func telegramConfirmCmd() *cobra.Command {
	var req rr.TelegramConfirmRequest

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Finish registering a Telegram account",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if req.TempID == "" {
				return errors.New("--temp-id is required")
			}
			if err := prompt(cmd, "Email", &req.Email); err != nil {
				return err
			}

			if _, err := a.client.Auth.TelegramConfirm(cmd.Context(), req); err != nil {
				return formError(err)
			}
			cmd.Println("Registration complete. Signed in with Telegram.")
			return nil
		}),
	}
	cmd.Flags().StringVar(&req.TempID, "temp-id", "", "id returned by `telegram login`")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	return cmd
}

var stdin *bufio.Reader

// prompt reads a line from stdin when *dst is empty.
func prompt(cmd *cobra.Command, label string, dst *string) error {
	if *dst != "" {
		return nil
	}
	if stdin == nil {
		stdin = bufio.NewReader(cmd.InOrStdin())
	}
	cmd.Printf("%s: ", label)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	*dst = strings.TrimSpace(line)
	if *dst == "" {
		return fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return nil
}

// formError turns an auth error into the message a form would show.
func formError(err error) error {
	var verr *validator.Error
	if errors.As(err, &verr) {
		field, msg := verr.First()
		return fmt.Errorf("%s: %s", field, msg)
	}
	s := xerrors.Route(err)
	if s.IsField() {
		return fmt.Errorf("%s: %s", s.Field, s.Message)
	}
	return errors.New(s.Message)
}
