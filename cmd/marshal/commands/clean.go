package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/marshal/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Forget recorded build state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")

			return c.app.Clean(cmd.Context(), app.CleanOptions{
				Build: true,
				Gen:   all,
			})
		},
	}

	cmd.Flags().BoolP("all", "a", false, "Also remove generated scripts, configs and overlays")

	return cmd
}
