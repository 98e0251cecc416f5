package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/marshal/internal/app"
)

func (c *CLI) newLaunchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch <workload>",
		Short: "Boot a built workload in the emulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workdir, _ := cmd.Flags().GetString("workdir")
			job, _ := cmd.Flags().GetString("job")

			return c.app.Launch(cmd.Context(), args[0], app.LaunchOptions{
				WorkloadsDir: workdir,
				Job:          job,
			})
		},
	}
	cmd.Flags().StringP("job", "J", "", "Launch the named job of the workload")
	return cmd
}
