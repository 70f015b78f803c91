package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli"
	"github.com/thenoetrevino/tablo/internal/types"
)

// ShowCmd returns the task show subcommand
func ShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Long:  "Display all details of a task including description, checklist, assignees and cover.",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cliInstance.CloseQuietly()

	task, err := cliInstance.App.TaskService.GetTask(cmd.Context(), types.TaskID(args[0]))
	if err != nil {
		return formatter.FailWithSuggestion(err, "List task ids with: tablo task list")
	}

	if formatter.Quiet {
		return formatter.Println(task.ID.String())
	}
	if formatter.JSON {
		return formatter.Success(map[string]any{"task": task})
	}

	_, err = fmt.Fprintln(formatter.Out, renderDetail(task))
	return err
}
