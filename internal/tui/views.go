package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/cashflow/internal/cli"
)

// wideLayout is the width from which overview panels sit side by side.
const wideLayout = 110

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		"",
		m.renderBody(),
		"",
		m.help.View(m.keymap),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render(cli.ChartIcon + " Cashflow Dashboard")
	period := m.theme.Subtitle.Render(cli.PeriodLabel(m.result))
	return title + "  " + period
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := TabOverview; t < tabCount; t++ {
		style := m.theme.TabInactive
		if t == m.tab {
			style = m.theme.TabActive
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderBody() string {
	switch m.tab {
	case TabCategories:
		return m.renderCategories()
	case TabFlow:
		return cli.RenderFlow(m.result.MoneyFlow)
	case TabHeatmap:
		return cli.RenderHeatmap(m.result.Heatmap)
	default:
		return m.renderOverview()
	}
}

func (m Model) renderOverview() string {
	summary := cli.RenderSummary(m.result.Summary)
	monthly := cli.RenderMonthly(m.result.Monthly)
	if m.width >= wideLayout {
		return lipgloss.JoinHorizontal(lipgloss.Top, summary, "  ", monthly)
	}
	return lipgloss.JoinVertical(lipgloss.Left, summary, "", monthly)
}

func (m Model) renderCategories() string {
	if len(m.result.Categories) == 0 {
		return m.theme.Subtitle.Render("No spending in this period")
	}

	legend := make([]string, 0, len(m.result.Categories))
	for _, c := range m.result.Categories {
		legend = append(legend, cli.Swatch(c.Color)+" "+c.Name)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Box.Render(m.categories.View()),
		"  ",
		strings.Join(legend, "\n"),
	)
}
