package task

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
	"github.com/thenoetrevino/tablo/internal/types"
)

var errNothingToUpdate = errors.New("at least one field flag is required")

// UpdateCmd returns the task update subcommand
func UpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update task fields",
		Long: `Update one or more fields of a task. Only the given flags change.

Examples:
  tablo task update 1756857600000-k3x9qa --title="New title"
  tablo task update 1756857600000-k3x9qa --label="" --priority=low
  tablo task update 1756857600000-k3x9qa --assignee=ana --due=2025-10-01 --json
`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}

	cmd.Flags().String("title", "", "New task title")
	cmd.Flags().String("description", "", "New task description (use - for stdin)")
	cmd.Flags().StringSlice("assignee", nil, "Replace assignees, comma separated")
	cmd.Flags().String("due", "", "New due date (YYYY-MM-DD, empty to clear)")
	cmd.Flags().String("label", "", "New label: feature, bug, issue (empty to clear)")
	cmd.Flags().String("priority", "", "New priority: low, medium, high (empty to clear)")
	cmd.Flags().StringArray("attachment", nil, "Replace attachments (repeatable)")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)
	flags := cmd.Flags()

	req := taskservice.UpdateTaskRequest{TaskID: types.TaskID(args[0])}
	changed := false

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		changed = true
		v, _ := flags.GetString(name)
		return &v
	}
	req.Title = stringFlag("title")
	req.DueDate = stringFlag("due")
	req.Label = stringFlag("label")
	req.Priority = stringFlag("priority")
	if d := stringFlag("description"); d != nil {
		description, err := cli.ReadDescription(*d, cmd.InOrStdin())
		if err != nil {
			return formatter.Fail(err)
		}
		req.Description = &description
	}
	if flags.Changed("assignee") {
		changed = true
		assignees, _ := flags.GetStringSlice("assignee")
		req.Assignee = &assignees
	}
	if flags.Changed("attachment") {
		changed = true
		attachments, _ := flags.GetStringArray("attachment")
		req.Attachments = &attachments
	}

	if !changed {
		_ = formatter.ErrorWithSuggestion("NO_UPDATES", errNothingToUpdate.Error(),
			"Use --title, --description, --assignee, --due, --label, --priority or --attachment")
		return cli.Exit(cli.ExitUsage, errNothingToUpdate)
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cliInstance.CloseQuietly()

	task, err := cliInstance.App.TaskService.UpdateTask(cmd.Context(), req)
	if err != nil {
		return formatter.Fail(err)
	}

	if formatter.Quiet {
		return formatter.Println(task.ID.String())
	}
	if formatter.JSON {
		return formatter.Success(map[string]any{"task": task})
	}

	_, werr := fmt.Fprintf(formatter.Out, "✓ Task %s updated\n", task.ID)
	return werr
}
