package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(app *appContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List kernel resources",
	}
	cmd.AddCommand(newListPluginsCmd(app))
	return cmd
}

func newListPluginsCmd(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List every registered plugin and its lifecycle state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListPlugins(cmd, app)
		},
	}
}

func runListPlugins(cmd *cobra.Command, app *appContext) error {
	registry := app.Plugins.Registry()
	ids := registry.List()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATE")
	for _, id := range ids {
		state, _ := registry.State(id)
		fmt.Fprintf(w, "%s\t%s\n", id, state.String())
	}
	return w.Flush()
}
