package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
	"github.com/thenoetrevino/tablo/internal/types"
)

// CheckCmd returns the task check subcommand
func CheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <id> <item-id>",
		Short: "Mark a checklist item done",
		Long: `Mark a checklist item done, or not done with --undo.
Item ids are shown by: tablo task show <id>`,
		Args: cobra.ExactArgs(2),
		RunE: runCheck,
	}

	cmd.Flags().Bool("undo", false, "Mark the item as not done")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	undo, _ := cmd.Flags().GetBool("undo")

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cliInstance.CloseQuietly()

	task, err := cliInstance.App.TaskService.SetChecklistItemDone(cmd.Context(),
		types.TaskID(args[0]), types.ChecklistItemID(args[1]), !undo)
	if err != nil {
		return formatter.FailWithSuggestion(err, "Show item ids with: tablo task show "+args[0])
	}

	progress := taskservice.ChecklistProgress(task.Checklist)
	if formatter.Quiet {
		return formatter.Println(fmt.Sprintf("%d", progress))
	}
	if formatter.JSON {
		return formatter.Success(map[string]any{"task_id": task.ID, "checklist": task.Checklist, "progress": progress})
	}

	_, err = fmt.Fprintf(formatter.Out, "✓ Checklist of task %s is %d%% done\n", task.ID, progress)
	return err
}
