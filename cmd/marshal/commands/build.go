package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/marshal/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [workloads...]",
		Short: "Build the binaries and images of workloads",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return nil
			}
			workdir, _ := cmd.Flags().GetString("workdir")
			binOnly, _ := cmd.Flags().GetBool("binonly")
			imgOnly, _ := cmd.Flags().GetBool("imgonly")
			jobs, _ := cmd.Flags().GetInt("jobs")
			watch, _ := cmd.Flags().GetBool("watch")
			progress, _ := cmd.Flags().GetBool("progress")

			opts := app.BuildOptions{
				WorkloadsDir: workdir,
				BinOnly:      binOnly,
				ImgOnly:      imgOnly,
				Parallelism:  jobs,
				Progress:     progress,
			}
			if watch {
				return c.app.Watch(cmd.Context(), args, opts)
			}
			return c.app.Build(cmd.Context(), args, opts)
		},
	}
	cmd.Flags().BoolP("binonly", "B", false, "Only build binaries")
	cmd.Flags().BoolP("imgonly", "I", false, "Only build images")
	cmd.Flags().IntP("jobs", "j", 0, "Number of tasks to run in parallel (default: number of CPUs)")
	cmd.Flags().Bool("watch", false, "Rebuild when source files change")
	cmd.Flags().BoolP("progress", "p", false, "Show live task progress")
	cmd.MarkFlagsMutuallyExclusive("binonly", "imgonly")
	cmd.MarkFlagsMutuallyExclusive("progress", "watch")
	return cmd
}
