package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli"
	"github.com/thenoetrevino/tablo/internal/cli/styles"
	"github.com/thenoetrevino/tablo/internal/models"
	"github.com/thenoetrevino/tablo/internal/types"
)

type listedTask struct {
	ID       types.TaskID    `json:"id"`
	Title    string          `json:"title"`
	ColumnID types.ColumnID  `json:"columnId"`
	Label    models.Label    `json:"label"`
	Priority models.Priority `json:"priority,omitempty"`
	DueDate  string          `json:"dueDate,omitempty"`
}

// ListCmd returns the task list subcommand
func ListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "List all tasks in board order, optionally limited to one column.",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cmd.Flags().String("column", "", "Only list tasks of this column")
	cli.AddOutputFlags(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)

	var only types.ColumnID
	if name, _ := cmd.Flags().GetString("column"); name != "" {
		id, err := cli.ParseColumn(name)
		if err != nil {
			return formatter.FailWithSuggestion(err, "Available columns: "+cli.FormatAvailableColumns())
		}
		only = id
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cliInstance.CloseQuietly()

	tasks := []listedTask{}
	cliInstance.App.TaskService.Read(func(board *models.Board, _ uint64) {
		for _, col := range board.Columns {
			if only != "" && col.ID != only {
				continue
			}
			for _, t := range col.Tasks {
				tasks = append(tasks, listedTask{
					ID:       t.ID,
					Title:    t.Title,
					ColumnID: col.ID,
					Label:    t.Label,
					Priority: t.Priority,
					DueDate:  t.DueDate,
				})
			}
		}
	})

	if formatter.Quiet {
		for _, t := range tasks {
			if err := formatter.Println(t.ID.String()); err != nil {
				return err
			}
		}
		return nil
	}
	if formatter.JSON {
		return formatter.Success(map[string]any{"tasks": tasks})
	}

	if len(tasks) == 0 {
		_, err := fmt.Fprintln(formatter.Out, "No tasks found")
		return err
	}

	var out strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&out, "%s  %-8s %s", styles.SubtitleStyle.Render(t.ID.String()), t.ColumnID, t.Title)
		if badge := styles.LabelBadge(t.Label); badge != "" {
			out.WriteString(" " + badge)
		}
		if t.DueDate != "" {
			out.WriteString(" " + styles.SubtitleStyle.Render("due "+t.DueDate))
		}
		out.WriteString("\n")
	}
	_, err = fmt.Fprint(formatter.Out, out.String())
	return err
}
