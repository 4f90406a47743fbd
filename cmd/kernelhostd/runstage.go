package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kernelforge/kernel/internal/stage"
)

func newRunStageCmd(app *appContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run-stage <id>",
		Short: "Execute a single registered stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRunStage(cmd, app, args[0], dryRun)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Describe what the stage would do instead of executing it")
	return cmd
}

func runRunStage(cmd *cobra.Command, app *appContext, id string, dryRun bool) error {
	mode := stage.Live
	if dryRun {
		mode = stage.DryRun
	}
	stageCtx := stage.NewContext(mode, "", cmd.Flags().Args())

	outcome := app.Stages.Execute(cmd.Context(), id, stageCtx)
	switch outcome.Status {
	case stage.Success:
		fmt.Fprintf(cmd.OutOrStdout(), "stage %s: success\n", id)
		return nil
	case stage.Skipped:
		fmt.Fprintf(cmd.OutOrStdout(), "stage %s: skipped (%s)\n", id, outcome.Reason)
		return nil
	default:
		return newCLIError(exitPluginOrStage, "run stage", fmt.Sprintf("executing %q", id), outcome.Err, "Check the stage id with its owning plugin's documentation.")
	}
}
