// Package board implements the board command: the whole board, optionally
// narrowed by a search query and filters.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/thenoetrevino/tablo/internal/cli"
	"github.com/thenoetrevino/tablo/internal/cli/styles"
	"github.com/thenoetrevino/tablo/internal/models"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
	"github.com/thenoetrevino/tablo/internal/user"
)

var errUnknownUser = errors.New("cannot tell who you are; set " + user.EnvName)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board",
		Long: `Show all columns with their tasks. Search and filters narrow the
visible tasks without changing the board.

The search matches titles, descriptions, labels, priorities, assignees and
written forms of the due date ("3 September 2025", "03/09/2025").

Examples:
  tablo board
  tablo board --search="september"
  tablo board --label=bug --assignee=ana
  tablo board --mine
  tablo board --due=2025-09-03 --json
`,
		Args: cobra.NoArgs,
		RunE: runBoard,
	}

	cmd.Flags().String("search", "", "Free text search")
	cmd.Flags().String("label", "", "Only tasks with this label")
	cmd.Flags().String("assignee", "", "Only tasks with a matching assignee")
	cmd.Flags().String("due", "", "Only tasks due on this day (YYYY-MM-DD)")
	cmd.Flags().Bool("mine", false, "Only tasks assigned to you")
	cmd.MarkFlagsMutuallyExclusive("mine", "assignee")
	cli.AddOutputFlags(cmd)

	return cmd
}

type boardOutput struct {
	Columns       []*models.Column     `json:"columns"`
	SearchQuery   string               `json:"searchQuery"`
	FilterOptions models.FilterOptions `json:"filterOptions"`
	IsFiltering   bool                 `json:"isFiltering"`
}

func runBoard(cmd *cobra.Command, args []string) error {
	formatter := cli.NewFormatter(cmd)

	search, _ := cmd.Flags().GetString("search")
	label, _ := cmd.Flags().GetString("label")
	assignee, _ := cmd.Flags().GetString("assignee")
	due, _ := cmd.Flags().GetString("due")
	if mine, _ := cmd.Flags().GetBool("mine"); mine {
		if assignee = user.CurrentName(); assignee == "" {
			_ = formatter.ErrorWithSuggestion("UNKNOWN_USER", errUnknownUser.Error(), "Use --assignee instead")
			return cli.Exit(cli.ExitUsage, errUnknownUser)
		}
	}

	cliInstance, err := cli.Open(cmd, formatter)
	if err != nil {
		return err
	}
	defer cliInstance.CloseQuietly()

	view := cliInstance.App.View
	view.SetSearchQuery(search)
	view.SetFilterOptions(models.FilterOptions{Label: label, Assignee: assignee, DueDate: due})

	out := boardOutput{
		SearchQuery:   view.SearchQuery(),
		FilterOptions: view.FilterOptions(),
		IsFiltering:   view.IsFiltering(),
	}

	var (
		rendered string
		raw      []byte
		ids      []string
	)
	// the visible board may share the live columns; finish with it in Read
	view.Read(func(visible *models.Board) {
		switch {
		case formatter.Quiet:
			for _, t := range visible.Tasks() {
				ids = append(ids, t.ID.String())
			}
		case formatter.JSON:
			out.Columns = visible.Columns
			raw, err = sonic.Marshal(map[string]any{"success": true, "data": out})
		default:
			rendered = Render(visible)
		}
	})
	if err != nil {
		return formatter.Fail(err)
	}

	switch {
	case formatter.Quiet:
		for _, id := range ids {
			if err := formatter.Println(id); err != nil {
				return err
			}
		}
		return nil
	case formatter.JSON:
		_, err = fmt.Fprintln(formatter.Out, string(raw))
		return err
	}

	if out.IsFiltering {
		fmt.Fprintln(formatter.Out, styles.SubtitleStyle.Render(describeFilters(out)))
	}
	_, err = fmt.Fprintln(formatter.Out, rendered)
	return err
}

// Render lays the columns out side by side
func Render(board *models.Board) string {
	columns := make([]string, 0, len(board.Columns))
	for _, col := range board.Columns {
		columns = append(columns, renderColumn(col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderColumn(col *models.Column) string {
	var b strings.Builder
	b.WriteString(styles.ColumnHeaderStyle.Render(fmt.Sprintf("%s (%d)", col.Title, len(col.Tasks))))
	b.WriteString("\n")

	if len(col.Tasks) == 0 {
		b.WriteString(styles.SubtitleStyle.Render("no tasks"))
	}
	for _, t := range col.Tasks {
		b.WriteString(renderCard(t))
		b.WriteString("\n")
	}
	return styles.ColumnStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderCard(t *models.Task) string {
	lines := []string{styles.TitleStyle.Render(t.Title)}

	var meta []string
	if badge := styles.LabelBadge(t.Label); badge != "" {
		meta = append(meta, badge)
	}
	if p := styles.PriorityText(t.Priority); p != "" {
		meta = append(meta, p)
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, " "))
	}
	if t.DueDate != "" {
		lines = append(lines, styles.SubtitleStyle.Render("due "+t.DueDate))
	}
	if len(t.Assignee) > 0 {
		lines = append(lines, styles.ValueStyle.Render("@"+strings.Join(t.Assignee, " @")))
	}
	if len(t.Checklist) > 0 {
		lines = append(lines, styles.ProgressBar(taskservice.ChecklistProgress(t.Checklist), 10))
	}
	if t.HasCover() {
		lines = append(lines, styles.SubtitleStyle.Render("▣ cover"))
	}
	lines = append(lines, styles.SubtitleStyle.Render(t.ID.String()))

	return styles.TaskCardStyle.Render(strings.Join(lines, "\n"))
}

func describeFilters(out boardOutput) string {
	var parts []string
	if out.SearchQuery != "" {
		parts = append(parts, fmt.Sprintf("search %q", out.SearchQuery))
	}
	if f := out.FilterOptions; !f.IsZero() {
		if f.Label != "" {
			parts = append(parts, "label "+f.Label)
		}
		if f.Assignee != "" {
			parts = append(parts, "assignee "+f.Assignee)
		}
		if f.DueDate != "" {
			parts = append(parts, "due "+f.DueDate)
		}
	}
	return "Filtered by " + strings.Join(parts, ", ")
}
