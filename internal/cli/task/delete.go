package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli"
	"github.com/thenoetrevino/tablo/internal/types"
)

// DeleteCmd returns the task delete subcommand
func DeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task and its cover image",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	taskID := types.TaskID(args[0])

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cliInstance.CloseQuietly()

	if err := cliInstance.App.TaskService.DeleteTask(cmd.Context(), taskID); err != nil {
		return formatter.FailWithSuggestion(err, "List task ids with: tablo task list")
	}

	if formatter.Quiet {
		return formatter.Println(taskID.String())
	}
	if formatter.JSON {
		return formatter.Success(map[string]any{"task_id": taskID, "deleted": true})
	}

	_, werr := fmt.Fprintf(formatter.Out, "✓ Task %s deleted\n", taskID)
	return werr
}
