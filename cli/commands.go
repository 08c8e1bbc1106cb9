package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tm/domain/command"
)

func (a *app) startCmd() *cobra.Command {
	return a.mutating(command.KindStart, "start <task>", "Start (or resume) timing a task")
}

func (a *app) stopCmd() *cobra.Command {
	return a.mutating(command.KindStop, "stop <task>", "Stop timing an active task")
}

func (a *app) renameCmd() *cobra.Command {
	return a.mutating(command.KindRename, "rename <task> <new-name>", "Rename a task")
}

func (a *app) describeCmd() *cobra.Command {
	cmd := a.mutating(command.KindDescribe, "describe <task> <text...> [size]",
		"Set a task description; a trailing S, M, L or XL also sets the size")
	// flags end at the task name; dashed words belong to the description
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (a *app) sizeCmd() *cobra.Command {
	return a.mutating(command.KindSize, "size <task> <S|M|L|XL>", "Set a task size")
}

func (a *app) deleteCmd() *cobra.Command {
	return a.mutating(command.KindDelete, "delete <task>", "Delete a task and its history")
}

// mutating builds a subcommand that appends one record. Argument checks are
// left to the service so every caller gets the same errors.
func (a *app) mutating(kind command.Kind, use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			c, err := svc.Execute(cmd.Context(), string(kind), args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), confirmation(c))
			return nil
		},
	}
}

func confirmation(c command.Command) string {
	switch c := c.(type) {
	case command.Start:
		return "Started task " + c.Name
	case command.Stop:
		return "Stopped task " + c.Name
	case command.Rename:
		return "Renamed task " + c.From + " to " + c.To
	case command.Describe:
		return "Described task " + c.Name
	case command.Resize:
		return "Set size of task " + c.Name + " to " + c.Size.String()
	case command.Delete:
		return "Deleted task " + c.Name
	}
	return command.Encode(c)
}
