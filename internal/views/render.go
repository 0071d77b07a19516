package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	AppTitle    = "Task Manager"
	AppSubtitle = "Stay organized, get things done."
)

type AppData struct {
	Summary    SummaryData
	Filters    []FilterChipData
	SortLabel  string
	SearchView string
	FormView   string
	ListView   string
	Palette    string
	Help       string
	StatusLine string
	IsError    bool
	Footer     string
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func RenderApp(data AppData) string {
	header := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(AppTitle),
		subtitleStyle.Render(AppSubtitle),
	)

	controls := strings.Join([]string{
		data.SearchView,
		RenderFilterChips(data.Filters) + "   sort: " + data.SortLabel,
		"",
		data.ListView,
	}, "\n")

	lines := []string{
		header,
		RenderSummaryCards(data.Summary),
		panelStyle.Width(72).Render(data.FormView),
		panelStyle.Width(72).Render(controls),
	}
	if data.Palette != "" {
		lines = append(lines, panelStyle.Width(72).Render(data.Palette))
	}
	if data.Help != "" {
		lines = append(lines, panelStyle.Width(72).Render(data.Help))
	}
	if data.StatusLine != "" {
		if data.IsError {
			lines = append(lines, errorStyle.Render(data.StatusLine))
		} else {
			lines = append(lines, statusStyle.Render(data.StatusLine))
		}
	}
	if data.Footer != "" {
		lines = append(lines, footerStyle.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, "dark")
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
