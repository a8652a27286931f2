package cli

import (
	"fmt"

	"github.com/alexanderramin/prodsched/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHolidayCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holiday",
		Short: "Manage non-working days",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:     "list",
			Aliases: []string{"ls"},
			Short:   "List holidays",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				holidays, err := app.Holidays.List(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHolidays(holidays))
				return nil
			},
		},
		newHolidayAddCmd(app),
		newHolidayRmCmd(app),
	)

	return cmd
}

func newHolidayAddCmd(app *App) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "add DATE",
		Short: "Register a non-working day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseLocalTime(args[0], app.location())
			if err != nil {
				return err
			}
			if err := app.Holidays.Add(cmd.Context(), date, kind); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added holiday %s\n", formatter.FormatDate(date))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "company", "Holiday kind, e.g. public or company")
	return cmd
}

func newHolidayRmCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm DATE",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a holiday",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseLocalTime(args[0], app.location())
			if err != nil {
				return err
			}
			ok, err := app.confirm(cmd, yes, fmt.Sprintf("Remove holiday %s?", formatter.FormatDate(date)))
			if err != nil || !ok {
				return err
			}
			if err := app.Holidays.Delete(cmd.Context(), date); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed holiday %s\n", formatter.FormatDate(date))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
