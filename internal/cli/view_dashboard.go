package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sitewise/internal/cli/formatter"
	"github.com/alexanderramin/sitewise/internal/service"
)

// ── messages ─────────────────────────────────────────────────────────────────

// dashboardLoadedMsg signals that dashboard data has been computed.
type dashboardLoadedMsg struct {
	data *service.Dashboard
	err  error
}

// ── keys ─────────────────────────────────────────────────────────────────────

type dashboardKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func newDashboardKeyMap() dashboardKeyMap {
	return dashboardKeyMap{
		Next:    key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "next")),
		Prev:    key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k dashboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Refresh, k.Quit}
}

func (k dashboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// ── model ────────────────────────────────────────────────────────────────────

// dashboardModel shows one dashboard section per tab.
type dashboardModel struct {
	app     *App
	data    *service.Dashboard
	loading bool
	err     error

	tab     int
	width   int
	spinner spinner.Model
	keys    dashboardKeyMap
	help    help.Model
}

func newDashboardModel(app *App) *dashboardModel {
	return &dashboardModel{
		app:     app,
		loading: true,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(formatter.ColorHeader)),
		),
		keys: newDashboardKeyMap(),
		help: help.New(),
	}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *dashboardModel) load() tea.Cmd {
	app := m.app
	return func() tea.Msg {
		now := app.now()
		d, err := app.Dashboard.Build(context.Background(), service.DashboardRequest{Now: &now})
		return dashboardLoadedMsg{data: d, err: err}
	}
}

func (m *dashboardModel) section() formatter.DashboardSection {
	return formatter.DashboardSections[m.tab]
}

// ── update ───────────────────────────────────────────────────────────────────

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.data = msg.data
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		n := len(formatter.DashboardSections)
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.tab = (m.tab + 1) % n
		case key.Matches(msg, m.keys.Prev):
			m.tab = (m.tab + n - 1) % n
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.load())
		default:
			// Number keys jump straight to a tab.
			if i, err := strconv.Atoi(msg.String()); err == nil && i >= 1 && i <= n {
				m.tab = i - 1
			}
		}
	}

	return m, nil
}

// ── view rendering ───────────────────────────────────────────────────────────

var (
	tabActive   = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true).Underline(true).Padding(0, 1)
	tabInactive = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
)

func (m *dashboardModel) View() string {
	var b strings.Builder
	b.WriteString("\n" + m.renderTabs() + "\n\n")

	switch {
	case m.loading && m.data == nil:
		b.WriteString("  " + m.spinner.View() + formatter.Dim(" Computing dashboard...") + "\n")
	case m.err != nil:
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.data != nil:
		b.WriteString(formatter.FormatDashboardSection(m.data, m.section(), m.app.Config.Analytics.WindowDays))
		b.WriteString("\n")
		status := "Generated " + m.data.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")
		if m.loading {
			status = m.spinner.View() + " Refreshing..."
		}
		b.WriteString("\n" + formatter.Dim(status) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}

func (m *dashboardModel) renderTabs() string {
	tabs := make([]string, 0, len(formatter.DashboardSections))
	for i, s := range formatter.DashboardSections {
		label := strconv.Itoa(i+1) + " " + string(s)
		if i == m.tab {
			tabs = append(tabs, tabActive.Render(label))
			continue
		}
		tabs = append(tabs, tabInactive.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
