package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/garrettladley/rrdash/internal/version"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "rrdash",
		Short:   "RR interval analytics in your terminal",
		Version: version.Get(),
		RunE:    runTUI,
	}

	rootCmd.AddCommand(
		loginCmd(),
		logoutCmd(),
		registerCmd(),
		whoamiCmd(),
		telegramCmd(),
		panelCmd(),
		compareCmd(),
		linkCmd(),
		reportsCmd(),
		devicesCmd(),
		tuiCmd(),
	)

	if err := fang.Execute(context.Background(), rootCmd, fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM)); err != nil {
		os.Exit(1)
	}
}

// withApp opens the app around a command body.
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, ctx, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		cmd.SetContext(ctx)

		err = run(cmd, a, args)
		if a.expired() {
			cmd.PrintErrln("Your session has expired. Run `rrdash login` to sign in again.")
		}
		return err
	}
}
