package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli"
	"github.com/thenoetrevino/tablo/internal/types"
)

// MoveCmd returns the task move subcommand
func MoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <id> <column>",
		Short: "Move a task to another column",
		Long: `Move a task to the end of another column by id or title.

Examples:
  tablo task move 1756857600000-k3x9qa doing
  tablo task move 1756857600000-k3x9qa "To Do"
  tablo task move 1756857600000-k3x9qa done --json
`,
		Args: cobra.ExactArgs(2),
		RunE: runMove,
	}

	cli.AddOutputFlags(cmd)

	return cmd
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := cli.NewFormatter(cmd)
	taskID := types.TaskID(args[0])

	target, err := cli.ParseColumn(args[1])
	if err != nil {
		return formatter.FailWithSuggestion(err, "Available columns: "+cli.FormatAvailableColumns())
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cliInstance.CloseQuietly()

	store := cliInstance.App.TaskService
	before, err := store.GetTask(ctx, taskID)
	if err != nil {
		return formatter.Fail(err)
	}

	if before.ColumnID != target {
		if err := store.MoveTask(ctx, taskID, target); err != nil {
			return formatter.Fail(err)
		}
	}

	if formatter.Quiet {
		return formatter.Println(taskID.String())
	}
	if formatter.JSON {
		return formatter.Success(map[string]any{
			"task_id":     taskID,
			"from_column": before.ColumnID,
			"to_column":   target,
		})
	}

	// Human-readable output
	if before.ColumnID == target {
		_, err = fmt.Fprintf(formatter.Out, "Task %s is already in '%s'\n", taskID, target.Title())
	} else {
		_, err = fmt.Fprintf(formatter.Out, "Task %s moved to '%s'\n", taskID, target.Title())
	}
	return err
}
