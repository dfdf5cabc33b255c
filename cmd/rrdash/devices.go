package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/rrdash/internal/xerrors"
)

func devicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devices",
		Short: "Manage recording devices",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List devices linked to the account",
			RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
				devices, err := a.client.Devices.List(cmd.Context())
				if err != nil {
					return errors.New(xerrors.Message(err))
				}
				rows := make([][]string, len(devices))
				for i, d := range devices {
					rows[i] = []string{d.ID, d.DeviceName, d.CreatedAt.Local().Format(time.DateTime)}
				}
				cmd.Println(newTable("id", "name", "added").Rows(rows...).String())
				return nil
			}),
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Unlink a device",
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
				if err := a.client.Devices.Delete(cmd.Context(), args[0]); err != nil {
					return errors.New(xerrors.Message(err))
				}
				cmd.Println("Deleted.")
				return nil
			}),
		},
	)
	return cmd
}
