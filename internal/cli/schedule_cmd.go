package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/prodsched/internal/cli/formatter"
	"github.com/alexanderramin/prodsched/internal/contract"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and inspect the production schedule",
	}

	cmd.AddCommand(
		newScheduleGenerateCmd(app),
		newScheduleListCmd(app),
		newScheduleClearCmd(app),
		newScheduleGridCmd(app),
		newScheduleProgressCmd(app),
	)

	return cmd
}

func newScheduleGenerateCmd(app *App) *cobra.Command {
	var hours int
	var enable, disable []string
	capacity := capacityFlag{}
	start := newTimeFlag(app.location())

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Replace the stored schedule with a fresh run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("hours") {
				hours = app.defaultHours()
			}
			req := contract.NewGenerateRequest(hours)

			overrides, err := buildConstraintOverrides(enable, disable, capacity)
			if err != nil {
				return err
			}
			req.ResourceConstraints = overrides
			if t := start.Value(); t != nil {
				req.Now = t
			}

			resp, err := app.Schedule.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGenerate(resp))
			return nil
		},
	}

	cmd.Flags().IntVar(&hours, "hours", 8, "Shift length in hours (8-12); defaults to the configured value")
	cmd.Flags().StringSliceVar(&enable, "enable", nil, "Treat machine TYPE as a contended resource (repeatable)")
	cmd.Flags().StringSliceVar(&disable, "disable", nil, "Schedule steps of machine TYPE without a machine (repeatable)")
	cmd.Flags().Var(capacity, "capacity", "Limit machine TYPE to its first N machines, as TYPE=N (repeatable)")
	cmd.Flags().Var(start, "start", "Plan from this time instead of now")

	return cmd
}

// buildConstraintOverrides turns the constraint flags into per-type
// overrides. A capacity alone implies the type is enabled.
func buildConstraintOverrides(enable, disable []string, capacity capacityFlag) (map[string]contract.ResourceConstraint, error) {
	out := make(map[string]contract.ResourceConstraint)
	for _, mt := range enable {
		mt = strings.ToUpper(strings.TrimSpace(mt))
		out[mt] = contract.ResourceConstraint{Enabled: true, Capacity: capacity[mt]}
	}
	for _, mt := range disable {
		mt = strings.ToUpper(strings.TrimSpace(mt))
		if _, ok := out[mt]; ok {
			return nil, fmt.Errorf("machine type %s is both enabled and disabled", mt)
		}
		if _, ok := capacity[mt]; ok {
			return nil, fmt.Errorf("machine type %s is disabled but has a capacity", mt)
		}
		out[mt] = contract.ResourceConstraint{Enabled: false}
	}
	for mt, n := range capacity {
		if _, ok := out[mt]; !ok {
			out[mt] = contract.ResourceConstraint{Enabled: true, Capacity: n}
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func newScheduleListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the stored schedule",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Schedule.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntries(resp))
			return nil
		},
	}
}

func newScheduleClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := app.confirm(cmd, yes, "Delete every scheduled entry?")
			if err != nil || !ok {
				return err
			}
			resp, err := app.Schedule.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatClear(resp))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newScheduleGridCmd(app *App) *cobra.Command {
	from := newTimeFlag(app.location())

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Show machine load for one week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Reports.WeeklyGrid(cmd.Context(), from.Value())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWeeklyGrid(resp))
			return nil
		},
	}

	cmd.Flags().Var(from, "from", "First day of the grid (default: first planned day)")
	return cmd
}

func newScheduleProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress",
		Short: "Show planned finish and delivery risk per product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Reports.Progress(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProgress(resp, app.now().In(app.location())))
			return nil
		},
	}
}
