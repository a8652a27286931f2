package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/prodsched/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the settings file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if app.Config == nil {
					return errors.New("no configuration loaded")
				}
				out, err := app.Config.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			},
		},
		&cobra.Command{
			Use:   "init [PATH]",
			Short: "Write the default settings file",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				path := os.Getenv(config.EnvConfigPath)
				if len(args) == 1 {
					path = args[0]
				}
				if path == "" {
					path = config.DefaultPath()
				}
				written, err := config.WriteDefault(path)
				if err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				if !written {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already exists; left unchanged\n", path)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			},
		},
	)

	return cmd
}
