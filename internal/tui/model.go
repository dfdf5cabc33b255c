package tui

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/garrettladley/rrdash/internal/query"
	"github.com/garrettladley/rrdash/internal/tui/components/auth"
	"github.com/garrettladley/rrdash/internal/tui/components/footer"
	"github.com/garrettladley/rrdash/internal/tui/theme"
	"github.com/garrettladley/rrdash/internal/visibility"
	"github.com/garrettladley/rrdash/internal/xslog"
)

var _ tea.Model = (*Model)(nil)

type Page uint8

const (
	PagePanel Page = iota
	PageComparison
)

func (p Page) String() string {
	if p == PageComparison {
		return "comparison"
	}
	return "panel"
}

var bindings = []footer.Binding{
	{Key: "tab", Help: "switch"},
	{Key: "1-5", Help: "toggle view"},
	{Key: "a/h", Help: "show/hide all"},
	{Key: "[ ]", Help: "shift period"},
	{Key: "r", Help: "refresh"},
	{Key: "q", Help: "quit"},
}

// applyBinding is only offered while the current page has something to commit.
var applyBinding = footer.Binding{Key: "enter", Help: "apply"}

type Model struct {
	ready          bool
	splash         bool
	page           Page
	viewportWidth  int
	viewportHeight int
	theme          theme.Theme
	deps           Deps
	auth           auth.Indicator
	summaries      [2]query.Summary
}

func New(deps Deps) Model {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	return Model{
		splash: true,
		page:   PagePanel,
		theme:  theme.New(),
		deps:   deps,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		tea.Tick(splashDuration, func(time.Time) tea.Msg {
			return SplashTickMsg{}
		}),
		checkAuthCmd(m.deps.Session),
		listenCmd(m.deps.Ctx, m.deps.Events),
	)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewportWidth = msg.Width
		m.viewportHeight = msg.Height
		m.ready = true

	case tea.KeyMsg:
		return m, m.handleKey(msg.String())

	case SplashTickMsg:
		m.splash = false

	case AuthStatusMsg:
		m.auth.Checked = true
		m.auth.Authenticated = msg.Authenticated
		m.auth.UserID = msg.UserID

	case LoadedMsg:
		m.summaries[msg.Page] = msg.Summary
		if err := msg.Summary.First(); err != nil && m.deps.Logger != nil {
			m.deps.Logger.Debug("dashboard load failed", xslog.View(msg.Page.String()), xslog.Error(err))
		}

	case ViewUpdatedMsg:
		return m, listenCmd(m.deps.Ctx, m.deps.Events)

	case SessionExpiredMsg:
		m.auth.Checked = true
		m.auth.Authenticated = false
		m.auth.UserID = ""
		m.auth.Expired = true
		return m, listenCmd(m.deps.Ctx, m.deps.Events)
	}

	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		if m.deps.Cancel != nil {
			m.deps.Cancel()
		}
		return tea.Quit
	case "tab":
		if m.deps.Comparison == nil {
			return nil
		}
		m.page = 1 - m.page
		return m.load(m.page)
	case "1", "2", "3", "4", "5":
		views := visibility.Views()
		m.gate().Toggle(views[key[0]-'1'])
		return m.load(m.page)
	case "a":
		m.gate().ShowAll()
		return m.load(m.page)
	case "h":
		m.gate().HideAll()
	case "enter":
		return m.apply(m.page)
	case "r":
		return m.refresh(m.page)
	case "[":
		return m.shift(-1)
	case "]":
		return m.shift(1)
	}
	return nil
}

func (m *Model) gate() *visibility.Gate {
	if m.page == PageComparison {
		return m.deps.Comparison.Gate
	}
	return m.deps.Panel.Gate
}

func (m *Model) load(page Page) tea.Cmd {
	switch {
	case page == PagePanel && m.deps.Panel != nil:
		return loadCmd(m.deps.Ctx, page, m.deps.Panel.Load)
	case page == PageComparison && m.deps.Comparison != nil:
		return loadCmd(m.deps.Ctx, page, m.deps.Comparison.Load)
	}
	return nil
}

func (m *Model) refresh(page Page) tea.Cmd {
	switch {
	case page == PagePanel && m.deps.Panel != nil:
		return loadCmd(m.deps.Ctx, page, m.deps.Panel.Refresh)
	case page == PageComparison && m.deps.Comparison != nil:
		return loadCmd(m.deps.Ctx, page, m.deps.Comparison.Refresh)
	}
	return nil
}

// apply commits the page's drafts and fetches. It does nothing when the
// applied periods are already current.
func (m *Model) apply(page Page) tea.Cmd {
	if !m.pending(page) {
		return nil
	}
	switch page {
	case PageComparison:
		return loadCmd(m.deps.Ctx, page, m.deps.Comparison.Apply)
	default:
		return loadCmd(m.deps.Ctx, page, m.deps.Panel.Apply)
	}
}

func (m *Model) pending(page Page) bool {
	switch {
	case page == PagePanel && m.deps.Panel != nil:
		return m.deps.Panel.Pending()
	case page == PageComparison && m.deps.Comparison != nil:
		return m.deps.Comparison.Pending()
	}
	return false
}

// unapplied reports a draft that differs from the applied period.
func (m *Model) unapplied(page Page) bool {
	switch {
	case page == PagePanel && m.deps.Panel != nil:
		return m.deps.Panel.Controller.HasUnappliedChanges()
	case page == PageComparison && m.deps.Comparison != nil:
		return m.deps.Comparison.Controller.HasUnappliedChanges()
	}
	return false
}

func (m *Model) bindings() []footer.Binding {
	if !m.pending(m.page) {
		return bindings
	}
	return append([]footer.Binding{applyBinding}, bindings...)
}

// shift moves every draft period of the current page by its own length.
// The change waits for enter.
func (m *Model) shift(dir int) tea.Cmd {
	if m.page == PageComparison {
		c := m.deps.Comparison
		if c == nil {
			return nil
		}
		for i := range c.Controller.Len() {
			r := c.Controller.Draft(i)
			if err := c.SetDraftRange(i, r.Shift(time.Duration(dir)*r.Duration())); err != nil {
				return nil
			}
		}
		return nil
	}

	p := m.deps.Panel
	if p == nil {
		return nil
	}
	r := p.Controller.Draft(0)
	_ = p.SetDraftRange(r.Shift(time.Duration(dir) * r.Duration()))
	return nil
}

func (m *Model) View() tea.View {
	view := tea.NewView("")
	view.AltScreen = true

	// splash uses pure black BG, everything else uses default dark
	if m.splash {
		view.BackgroundColor = theme.ColorBlack
	} else {
		view.BackgroundColor = m.theme.Background()
	}

	if !m.ready {
		return view
	}

	if m.splash {
		view.SetContent(lipgloss.Place(
			m.viewportWidth,
			m.viewportHeight,
			lipgloss.Center,
			lipgloss.Center,
			m.LogoView(),
		))
		return view
	}

	var body string
	switch m.page {
	case PageComparison:
		body = m.ComparisonView()
	default:
		body = m.PanelView()
	}

	bar := footer.New(m.bindings(), m.auth.Render(), m.viewportWidth).Render()
	body = lipgloss.NewStyle().
		Padding(1, 2).
		Height(max(m.viewportHeight-lipgloss.Height(bar), 0)).
		Render(body)

	view.SetContent(lipgloss.JoinVertical(lipgloss.Left, body, bar))
	return view
}
