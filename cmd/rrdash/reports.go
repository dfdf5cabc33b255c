package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/garrettladley/rrdash/internal/repository"
)

func reportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Saved comparison reports",
	}
	cmd.AddCommand(reportsListCmd(), reportsShowCmd(), reportsDeleteCmd())
	return cmd
}

func reportsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			repo, err := a.reports(cmd.Context())
			if err != nil {
				return err
			}
			userID, _ := a.session.CurrentUserID()
			reports, err := repo.List(cmd.Context(), userID, limit)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				cmd.Println("No saved reports.")
				return nil
			}

			rows := make([][]string, len(reports))
			for i, r := range reports {
				mean := "--"
				if r.Delta != nil {
					mean = fmt.Sprintf("%+.1f%%", r.Delta.MeanChange)
				}
				rows[i] = []string{r.ID, r.Name, r.CreatedAt.Local().Format(time.DateTime), mean}
			}
			cmd.Println(newTable("id", "name", "saved", "mean change").Rows(rows...).String())
			return nil
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", repository.DefaultPageSize, "maximum number of reports")
	return cmd
}

func reportsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved report",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			repo, err := a.reports(cmd.Context())
			if err != nil {
				return err
			}
			r, err := repo.Get(cmd.Context(), args[0])
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("no report with id %s", args[0])
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s\nPeriod 1 %s\nPeriod 2 %s\n", r.Name, r.Period1, r.Period2)
			fmt.Fprintln(w, newTable("metric", "period 1", "period 2").Rows(statsRows(r.Statistics1, r.Statistics2)...).String())
			if r.Delta != nil {
				fmt.Fprintln(w, newTable("change", "value").Rows(deltaRows(r.Delta)...).String())
			}
			return nil
		}),
	}
}

func reportsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			repo, err := a.reports(cmd.Context())
			if err != nil {
				return err
			}
			if err := repo.Delete(cmd.Context(), args[0]); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("no report with id %s", args[0])
				}
				return err
			}
			cmd.Println("Deleted.")
			return nil
		}),
	}
}
