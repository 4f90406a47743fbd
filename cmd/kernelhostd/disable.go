package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDisableCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Disable an enabled plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := app.Plugins.Disable(id); err != nil {
				return newCLIError(exitPluginOrStage, "disable plugin", fmt.Sprintf("disabling %q", id), err, "Core plugins cannot be disabled; check `kernelhostd list plugins` for the is_core flag.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "disabled %s\n", id)
			return nil
		},
	}
}
