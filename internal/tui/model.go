// Package tui is an interactive terminal dashboard over one analytics result.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/cashflow/internal/analytics"
	"github.com/Veraticus/cashflow/internal/cli"
	"github.com/Veraticus/cashflow/internal/tui/themes"
)

// Tab is one page of the dashboard.
type Tab int

// Dashboard tabs, in display order.
const (
	TabOverview Tab = iota
	TabCategories
	TabFlow
	TabHeatmap
	tabCount
)

var tabNames = [...]string{"Overview", "Categories", "Flow", "Heatmap"}

func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "Unknown"
	}
	return tabNames[t]
}

// chrome is the number of lines taken by header, tabs and help.
const chrome = 6

// Model holds the dashboard state.
type Model struct {
	result     *analytics.Result
	theme      themes.Theme
	help       help.Model
	categories table.Model
	keymap     KeyMap
	tab        Tab
	width      int
	height     int
	quitting   bool
}

// NewDashboard creates a dashboard model for result.
func NewDashboard(result *analytics.Result, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newModel(result, cfg)
}

func newModel(result *analytics.Result, cfg Config) Model {
	if result == nil {
		result = &analytics.Result{}
	}

	m := Model{
		result:     result,
		theme:      cfg.Theme,
		help:       help.New(),
		keymap:     DefaultKeyMap(),
		tab:        TabOverview,
		width:      cfg.Width,
		height:     cfg.Height,
		categories: newCategoryTable(result.Categories, cfg.Theme),
	}
	m.handleResize()
	return m
}

func newCategoryTable(categories []analytics.CategoryTotal, theme themes.Theme) table.Model {
	columns := []table.Column{
		{Title: "Category", Width: 24},
		{Title: "Amount", Width: 14},
		{Title: "Share", Width: 8},
		{Title: "Color", Width: 8},
	}

	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Amount)
	}

	rows := make([]table.Row, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, table.Row{c.Name, cli.FormatMoney(c.Amount), cli.Share(c.Amount, total), c.Color})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(false)
	s.Selected = theme.Selected
	t.SetStyles(s)

	return t
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.NextTab):
			m.tab = (m.tab + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keymap.PrevTab):
			m.tab = (m.tab + tabCount - 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	if m.tab == TabCategories {
		var cmd tea.Cmd
		m.categories, cmd = m.categories.Update(msg)
		return m, cmd
	}

	return m, nil
}

// ActiveTab returns the tab currently shown.
func (m Model) ActiveTab() Tab {
	return m.tab
}

// SelectedCategory returns the name of the highlighted category row.
func (m Model) SelectedCategory() string {
	row := m.categories.SelectedRow()
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// handleResize adjusts component sizes when terminal resizes.
func (m *Model) handleResize() {
	m.help.Width = m.width
	m.categories.SetHeight(max(m.height-chrome, 3))
}
