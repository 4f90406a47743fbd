package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "kernelhostd",
		Short:         "kernelhostd hosts the plugin kernel: list, enable, disable and drive plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newEnableCmd(app))
	cmd.AddCommand(newDisableCmd(app))
	cmd.AddCommand(newRunStageCmd(app))

	return cmd
}
