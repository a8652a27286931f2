package cli

import (
	"fmt"

	"github.com/alexanderramin/prodsched/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load plant master data from a JSON or YAML file",
		Long: `Load products, processes, machines, purchase orders, finished stock and
holidays from FILE. Records are upserted by ID, so re-importing an edited
file updates it in place. Files ending in .yaml or .yml are read as YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Import.ImportPlant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatImport(resp))
			return nil
		},
	}
}
