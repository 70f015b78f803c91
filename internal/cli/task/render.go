package task

import (
	"fmt"
	"strings"

	"github.com/thenoetrevino/tablo/internal/cli/styles"
	"github.com/thenoetrevino/tablo/internal/models"
	taskservice "github.com/thenoetrevino/tablo/internal/services/task"
)

// renderDetail renders the full card of a task
func renderDetail(task *models.Task) string {
	var content strings.Builder

	content.WriteString(styles.TitleStyle.Render(task.Title))
	content.WriteString("\n")
	content.WriteString(styles.SubtitleStyle.Render(task.ID.String()))
	content.WriteString("\n\n")

	if badge := styles.LabelBadge(task.Label); badge != "" {
		content.WriteString(badge + " ")
	}
	if p := styles.PriorityText(task.Priority); p != "" {
		content.WriteString(p)
	}
	if task.Label != models.LabelUndefined || task.Priority != models.PriorityNone {
		content.WriteString("\n\n")
	}

	// Description
	if task.Description != "" {
		content.WriteString(styles.SectionStyle.Render("Description"))
		content.WriteString("\n")
		for _, line := range strings.Split(task.Description, "\n") {
			content.WriteString("  " + styles.ValueStyle.Render(line) + "\n")
		}
		content.WriteString("\n")
	}

	field := func(name, value string) {
		fmt.Fprintf(&content, "%s %s\n", styles.LabelStyle.Render(name+":"), styles.ValueStyle.Render(value))
	}
	field("Column", task.ColumnID.Title())
	if task.DueDate != "" {
		field("Due", task.DueDate)
	}
	if len(task.Assignee) > 0 {
		field("Assignees", strings.Join(task.Assignee, ", "))
	}
	if task.HasCover() {
		field("Cover", coverSummary(task.CoverImage))
	}
	if !task.CreatedAt.IsZero() {
		fmt.Fprintf(&content, "%s %s\n",
			styles.LabelStyle.Render("Created:"),
			styles.SubtitleStyle.Render(task.CreatedAt.Local().Format("Jan 2, 2006 3:04 PM")),
		)
	}

	if len(task.Checklist) > 0 {
		content.WriteString(styles.SectionStyle.Render("Checklist"))
		content.WriteString("  " + styles.ProgressBar(taskservice.ChecklistProgress(task.Checklist), 10) + "\n")
		for _, item := range task.Checklist {
			box := "[ ]"
			if item.Done {
				box = "[x]"
			}
			fmt.Fprintf(&content, "  %s %s %s\n", box, styles.ValueStyle.Render(item.Text), styles.SubtitleStyle.Render(string(item.ID)))
		}
	}

	if len(task.Attachments) > 0 {
		content.WriteString(styles.SectionStyle.Render("Attachments"))
		content.WriteString("\n")
		for _, a := range task.Attachments {
			content.WriteString("  " + styles.ValueStyle.Render(a) + "\n")
		}
	}

	return styles.CardStyle.Render(strings.TrimRight(content.String(), "\n"))
}

// coverSummary describes a data URI without printing its payload
func coverSummary(uri string) string {
	meta, data, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "unreadable"
	}
	mediaType := strings.TrimSuffix(meta, ";base64")
	return fmt.Sprintf("%s, %d bytes", mediaType, len(data)*3/4)
}
