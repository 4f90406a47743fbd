package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnableCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Enable a disabled plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := app.Plugins.Enable(id); err != nil {
				return newCLIError(exitPluginOrStage, "enable plugin", fmt.Sprintf("enabling %q", id), err, "Check that the plugin id exists; see `kernelhostd list plugins`.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "enabled %s\n", id)
			return nil
		},
	}
}
