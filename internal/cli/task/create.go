package task

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli"
	"github.com/thenoetrevino/tablo/internal/models"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
)

// CreateCmd returns the task create subcommand
func CreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long: `Create a new task at the end of a column.

Examples:
  # Simple task (human-readable output)
  tablo task create --title="Fix bug"

  # JSON output for agents
  tablo task create --title="Fix bug" --column=doing --json

  # Quiet mode for bash capture
  TASK_ID=$(tablo task create --title="Fix bug" --quiet)

  # Full example with all options
  tablo task create \
    --title="Add authentication" \
    --description="Token based login" \
    --column=todo \
    --label=feature \
    --priority=high \
    --due=2025-09-03 \
    --assignee=ana,bob \
    --item="Design" --item="Implement" \
    --cover=./mockup.png
`,
		RunE: runCreate,
	}

	// Required flags
	cmd.Flags().String("title", "", "Task title (required)")
	if err := cmd.MarkFlagRequired("title"); err != nil {
		slog.Error("failed to mark flag as required", "error", err)
	}

	// Optional flags
	cmd.Flags().String("column", "todo", "Column: "+cli.FormatAvailableColumns())
	cmd.Flags().String("description", "", "Task description (use - for stdin)")
	cmd.Flags().StringSlice("assignee", nil, "Assignees, comma separated")
	cmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().String("label", "", "Label: feature, bug, issue")
	cmd.Flags().String("priority", "", "Priority: low, medium, high")
	cmd.Flags().StringArray("item", nil, "Checklist item (repeatable)")
	cmd.Flags().StringArray("attachment", nil, "Attachment reference (repeatable)")
	cmd.Flags().String("cover", "", "Cover image file")

	cli.AddOutputFlags(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)

	title, _ := cmd.Flags().GetString("title")
	columnName, _ := cmd.Flags().GetString("column")
	description, _ := cmd.Flags().GetString("description")
	assignees, _ := cmd.Flags().GetStringSlice("assignee")
	due, _ := cmd.Flags().GetString("due")
	label, _ := cmd.Flags().GetString("label")
	priority, _ := cmd.Flags().GetString("priority")
	items, _ := cmd.Flags().GetStringArray("item")
	attachments, _ := cmd.Flags().GetStringArray("attachment")
	coverPath, _ := cmd.Flags().GetString("cover")

	columnID, err := cli.ParseColumn(columnName)
	if err != nil {
		return formatter.FailWithSuggestion(err, "Available columns: "+cli.FormatAvailableColumns())
	}

	description, err = cli.ReadDescription(description, cmd.InOrStdin())
	if err != nil {
		return formatter.Fail(err)
	}

	req := taskservice.CreateTaskRequest{
		ColumnID:    columnID,
		Title:       title,
		Description: description,
		Assignee:    assignees,
		DueDate:     due,
		Label:       label,
		Priority:    priority,
		Checklist:   checklistFromTexts(items),
		Attachments: attachments,
	}
	if coverPath != "" {
		if req.Cover, err = readCover(coverPath, ""); err != nil {
			return formatter.Fail(err)
		}
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cliInstance.CloseQuietly()

	task, err := cliInstance.App.TaskService.CreateTask(cmd.Context(), req)
	if task == nil {
		return formatter.Fail(err)
	}
	if err != nil {
		// the task exists; only its cover is missing
		slog.Warn("task created without cover", "task_id", task.ID, "error", err)
	}

	if formatter.Quiet {
		return formatter.Println(task.ID.String())
	}
	if formatter.JSON {
		return formatter.Success(map[string]any{"task": task})
	}

	_, werr := fmt.Fprintf(formatter.Out, "✓ Task '%s' created in %s (ID: %s)\n", task.Title, task.ColumnID.Title(), task.ID)
	return werr
}

func checklistFromTexts(texts []string) []models.ChecklistItem {
	if len(texts) == 0 {
		return nil
	}
	items := make([]models.ChecklistItem, 0, len(texts))
	for _, text := range texts {
		items = append(items, models.ChecklistItem{Text: text})
	}
	return items
}
