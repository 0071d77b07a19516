package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SummaryData struct {
	Total        int
	Pending      int
	DonePercent  int
	ProgressView string
}

type FilterChipData struct {
	Label  string
	Count  int
	Active bool
}

type TaskRowData struct {
	ID        int
	Title     string
	Priority  string
	Completed bool
	Due       string
}

type TaskListData struct {
	Rows    []TaskRowData
	Cursor  int
	Focused bool
}

type FormData struct {
	Active    bool
	Field     string
	TitleView string
	Priority  string
	DueView   string
}

type HelpPanelData struct {
	Markdown string
	HelpView string
}

var (
	cardStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2).Width(22)
	chipStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("7"))
	activeChipStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("27"))
	doneRowStyle    = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	cursorRowStyle  = lipgloss.NewStyle().Bold(true)
	emptyStyle      = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	priorityStyles  = map[string]lipgloss.Style{
		"High":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"Low":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func RenderSummaryCards(data SummaryData) string {
	total := cardStyle.Render(fmt.Sprintf("%d\nTotal", data.Total))
	pending := cardStyle.Render(fmt.Sprintf("%d\nPending", data.Pending))
	done := fmt.Sprintf("%d%%\nDone", data.DonePercent)
	if data.ProgressView != "" {
		done += "\n" + data.ProgressView
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, total, pending, cardStyle.Render(done))
}

func RenderFilterChips(chips []FilterChipData) string {
	parts := make([]string, 0, len(chips))
	for _, chip := range chips {
		label := fmt.Sprintf("%s %d", chip.Label, chip.Count)
		if chip.Active {
			parts = append(parts, activeChipStyle.Render(label))
			continue
		}
		parts = append(parts, chipStyle.Render(label))
	}
	return strings.Join(parts, " ")
}

func RenderTaskList(data TaskListData) string {
	if len(data.Rows) == 0 {
		return emptyStyle.Render("No tasks found.")
	}
	var b strings.Builder
	for i, row := range data.Rows {
		cursor := " "
		if data.Focused && i == data.Cursor {
			cursor = ">"
		}
		check := "[ ]"
		if row.Completed {
			check = "[x]"
		}
		title := row.Title
		if row.Completed {
			title = doneRowStyle.Render(title)
		} else if data.Focused && i == data.Cursor {
			title = cursorRowStyle.Render(title)
		}
		line := fmt.Sprintf("%s %s #%d %s %s", cursor, check, row.ID, title, priorityBadge(row.Priority))
		if row.Due != "" {
			line += " due:" + row.Due
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderForm(data FormData) string {
	var b strings.Builder
	b.WriteString("new task:\n")
	b.WriteString(fieldMarker(data, "title") + data.TitleView + "\n")
	b.WriteString(fieldMarker(data, "priority") + "priority: < " + data.Priority + " >\n")
	b.WriteString(fieldMarker(data, "due") + data.DueView)
	if data.Active {
		b.WriteString("\nactions: [enter]add [up/down]field [left/right]priority [esc]cancel")
	}
	return b.String()
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command:\n" + inputView
}

func RenderHelpPanel(data HelpPanelData) string {
	return strings.TrimSpace(RenderMarkdown(data.Markdown) + "\n\n" + data.HelpView)
}

func priorityBadge(priority string) string {
	style, ok := priorityStyles[priority]
	if !ok {
		return "[" + priority + "]"
	}
	return style.Render("[" + priority + "]")
}

func fieldMarker(data FormData, field string) string {
	if data.Active && data.Field == field {
		return "> "
	}
	return "  "
}
