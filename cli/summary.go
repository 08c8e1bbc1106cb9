package cli

import (
	"github.com/spf13/cobra"

	"tm/export"
	"tm/render"
)

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [task|size]",
		Short: "Summarize time spent on a task, a size class, or every size class",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			target := ""
			if len(args) == 1 {
				target = args[0]
			}
			report, err := svc.Summarize(target)
			if err != nil {
				return err
			}
			if report.Task != nil {
				return render.TaskSummary(cmd.OutOrStdout(), *report.Task)
			}
			return render.SizeSummaries(cmd.OutOrStdout(), report.Sizes)
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc, err := export.ForFormat(format)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			return enc.Encode(cmd.OutOrStdout(), export.Records(svc.Tasks(), svc.Now()))
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or protojson")
	return cmd
}
