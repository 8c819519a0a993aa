// Package ui is the terminal front end: a bubbletea program that renders
// what the navigation engine tells it to and turns keys into engine calls.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"

	"streamit/internal/app"
	"streamit/internal/media"
	"streamit/internal/player"
	"streamit/internal/provider"
)

// Engine is the navigation engine the TUI drives.
type Engine interface {
	Start(ctx context.Context) error
	SelectSearchQuery(query string)
	SubmitSearch() bool
	OpenTitle(ctx context.Context, id string) error
	Play(ctx context.Context) error
	Home(ctx context.Context) error
	Explore(ctx context.Context) error
	About(ctx context.Context) error
	Back(ctx context.Context) bool
	Forward(ctx context.Context) bool
	SelectStreamProvider(id string) error
	SelectSeason(season int) error
	SelectEpisode(episode int) error
	EmbedURL() string
}

// Options configures the model.
type Options struct {
	Engine   Engine
	Launcher player.Launcher
	Recent   []media.HistoryEntry
	// History reloads the recently viewed list whenever home is shown.
	History func(ctx context.Context) ([]media.HistoryEntry, error)
	Copy    func(string) error
	Context context.Context
	Logger  *slog.Logger
}

type opDoneMsg struct{ err error }

type statusMsg struct{ text string }

type recentMsg struct{ entries []media.HistoryEntry }

type listItem struct {
	id    string
	label string
	meta  string
}

// Model is the bubbletea model.
type Model struct {
	engine   Engine
	launcher player.Launcher
	copy     func(string) error
	history  func(context.Context) ([]media.HistoryEntry, error)
	ctx      context.Context
	logger   *slog.Logger

	input     textinput.Model
	filter    textinput.Model
	filtering bool
	spin      spinner.Model

	section   app.Section
	loading   bool
	listFocus bool
	cursor    int
	query     string
	results   []media.Title
	featured  []media.Title
	recent    []media.HistoryEntry
	details   media.Title
	player    app.PlayerView
	errMsg    string
	status    string
	width     int
}

// New creates the model.
func New(opts Options) Model {
	if opts.Launcher == nil {
		opts.Launcher = player.New("browser")
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "Search movies and series"
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 60
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorAccent)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorText)
	ti.Focus()

	fi := textinput.New()
	fi.Placeholder = "Type to filter..."
	fi.Prompt = "Filter: "
	fi.CharLimit = 100
	fi.PromptStyle = metaStyle

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return Model{
		engine:   opts.Engine,
		launcher: opts.Launcher,
		copy:     opts.Copy,
		history:  opts.History,
		ctx:      opts.Context,
		logger:   opts.Logger,
		input:    ti,
		filter:   fi,
		spin:     s,
		section:  app.SectionHome,
		recent:   opts.Recent,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.do(m.engine.Start))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 20 {
			m.input.Width = msg.Width - 20
			m.filter.Width = msg.Width - 20
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loadingMsg:
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, m.spin.Tick

	case sectionMsg:
		m.enter(msg.section)
		if msg.section == app.SectionHome {
			m.query, m.results = "", nil
			return m, tea.Batch(m.syncFocus(), m.loadRecent())
		}
		return m, m.syncFocus()

	case resultsMsg:
		typing := m.inputActive()
		m.enter(app.SectionResults)
		m.query = msg.query
		m.results = msg.titles
		m.cursor = 0
		if !typing {
			m.input.SetValue(msg.query)
		}
		return m, m.syncFocus()

	case featuredMsg:
		m.enter(app.SectionExplore)
		m.featured = msg.titles
		m.cursor = 0
		return m, m.syncFocus()

	case recentMsg:
		m.recent = msg.entries
		if m.section == app.SectionHome && m.cursor >= len(m.visibleItems()) {
			m.cursor = 0
		}
		return m, nil

	case detailsMsg:
		m.enter(app.SectionDetails)
		m.details = msg.title
		return m, m.syncFocus()

	case playerMsg:
		m.enter(app.SectionPlayer)
		m.player = msg.view
		return m, m.syncFocus()

	case errorMsg:
		m.enter(app.SectionError)
		m.errMsg = msg.message
		return m, m.syncFocus()

	case opDoneMsg:
		if msg.err != nil && !errors.Is(msg.err, app.ErrSuperseded) {
			m.logger.Debug("engine call failed", "error", msg.err)
		}
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// enter switches the displayed section, resetting list state when the
// section actually changes.
func (m *Model) enter(s app.Section) {
	if m.section != s {
		m.cursor = 0
		m.listFocus = false
		m.stopFilter()
	}
	m.section = s
	m.loading = false
}

func (m *Model) syncFocus() tea.Cmd {
	if m.inputActive() {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m Model) inputActive() bool {
	return (m.section == app.SectionHome || m.section == app.SectionResults) && !m.listFocus && !m.filtering
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	m.status = ""

	switch {
	case m.filtering:
		return m.updateFilter(msg)
	case m.inputActive():
		return m.updateInput(msg)
	}
	return m.updateNav(msg)
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		items := m.visibleItems()
		if m.query != "" && strings.TrimSpace(m.input.Value()) == m.query && m.cursor < len(items) {
			return m, m.open(items[m.cursor].id)
		}
		eng := m.engine
		return m, func() tea.Msg {
			eng.SubmitSearch()
			return nil
		}
	case "down", "tab":
		if len(m.visibleItems()) > 0 {
			m.listFocus = true
			m.input.Blur()
		}
		return m, nil
	case "esc":
		if m.input.Value() != "" {
			m.input.SetValue("")
			m.engine.SelectSearchQuery("")
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.engine.SelectSearchQuery(v)
	}
	return m, cmd
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopFilter()
		m.cursor = 0
		return m, m.syncFocus()
	case "enter":
		items := m.visibleItems()
		if m.cursor >= len(items) {
			return m, nil
		}
		id := items[m.cursor].id
		m.stopFilter()
		return m, m.open(id)
	case "up", "down":
		m.moveCursor(msg.String())
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.cursor = 0
	return m, cmd
}

func (m *Model) stopFilter() {
	m.filtering = false
	m.filter.SetValue("")
	m.filter.Blur()
}

func (m Model) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		return m, tea.Quit
	case "b", "esc", "backspace", "alt+left":
		return m, m.do(func(ctx context.Context) error {
			m.engine.Back(ctx)
			return nil
		})
	case "f", "alt+right":
		return m, m.do(func(ctx context.Context) error {
			m.engine.Forward(ctx)
			return nil
		})
	case "h":
		m.input.SetValue("")
		return m, m.do(m.engine.Home)
	case "e":
		return m, m.do(m.engine.Explore)
	case "a":
		return m, m.do(m.engine.About)
	case "s":
		m.listFocus = false
		if m.section == app.SectionHome || m.section == app.SectionResults {
			return m, m.syncFocus()
		}
		m.input.SetValue("")
		return m, m.do(m.engine.Home)
	}

	switch m.section {
	case app.SectionHome, app.SectionResults, app.SectionExplore:
		return m.updateList(key)
	case app.SectionDetails:
		if key == "enter" || key == "p" {
			return m, m.do(m.engine.Play)
		}
	case app.SectionPlayer:
		return m.updatePlayer(key)
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	items := m.visibleItems()
	switch key {
	case "up", "k", "down", "j":
		m.moveCursor(key)
	case "enter":
		if m.cursor < len(items) {
			return m, m.open(items[m.cursor].id)
		}
	case "/":
		if len(m.listItems()) > 0 {
			m.filtering = true
			m.cursor = 0
			m.filter.SetValue("")
			return m, m.filter.Focus()
		}
	case "tab":
		if m.section == app.SectionHome || m.section == app.SectionResults {
			m.listFocus = false
			return m, m.syncFocus()
		}
	}
	return m, nil
}

func (m *Model) moveCursor(key string) {
	n := len(m.visibleItems())
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	}
}

func (m Model) updatePlayer(key string) (tea.Model, tea.Cmd) {
	v := m.player
	var err error
	switch key {
	case "]", "[":
		if id := stepProvider(v, key == "]"); id != "" {
			err = m.engine.SelectStreamProvider(id)
		}
	case "n", "N":
		if ep := stepEpisode(v, key == "n"); ep > 0 {
			err = m.engine.SelectEpisode(ep)
		}
	case ">", "<":
		if season := stepSeason(v, key == ">"); season > 0 {
			err = m.engine.SelectSeason(season)
		}
	case "o":
		return m, m.openExternal()
	case "y":
		return m, m.copyURL()
	}
	if err != nil {
		m.status = err.Error()
	}
	return m, nil
}

func stepProvider(v app.PlayerView, forward bool) string {
	if len(v.Providers) == 0 {
		return ""
	}
	i := slices.IndexFunc(v.Providers, func(p provider.Entry) bool { return p.ID == v.Provider.ID })
	switch {
	case i < 0:
		i = 0
	case forward:
		i = (i + 1) % len(v.Providers)
	default:
		i = (i - 1 + len(v.Providers)) % len(v.Providers)
	}
	return v.Providers[i].ID
}

func stepEpisode(v app.PlayerView, forward bool) int {
	if !v.IsTV {
		return 0
	}
	if len(v.Episodes) == 0 {
		return step(v.Episode, forward)
	}
	i := slices.IndexFunc(v.Episodes, func(e media.Episode) bool { return e.Number == v.Episode })
	if forward {
		i++
	} else {
		i--
	}
	if i < 0 || i >= len(v.Episodes) {
		return 0
	}
	return v.Episodes[i].Number
}

func stepSeason(v app.PlayerView, forward bool) int {
	if !v.IsTV {
		return 0
	}
	if len(v.Seasons) == 0 {
		return step(v.Season, forward)
	}
	i := slices.Index(v.Seasons, v.Season)
	if forward {
		i++
	} else {
		i--
	}
	if i < 0 || i >= len(v.Seasons) {
		return 0
	}
	return v.Seasons[i]
}

func step(n int, forward bool) int {
	if forward {
		return n + 1
	}
	if n > 1 {
		return n - 1
	}
	return 0
}

func (m Model) openExternal() tea.Cmd {
	url := m.engine.EmbedURL()
	if url == "" {
		return status("Nothing to open yet.")
	}
	l, title := m.launcher, m.player.Title.DisplayName()
	return func() tea.Msg {
		if err := l.Open(url, title); err != nil {
			return statusMsg{"Could not open: " + err.Error()}
		}
		return statusMsg{"Opened in " + l.Name() + "."}
	}
}

func (m Model) copyURL() tea.Cmd {
	url := m.engine.EmbedURL()
	if url == "" {
		return status("Nothing to copy yet.")
	}
	copyFn := m.copy
	return func() tea.Msg {
		if err := copyFn(url); err != nil {
			return statusMsg{"Could not copy: " + err.Error()}
		}
		return statusMsg{"Embed URL copied to clipboard."}
	}
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text} }
}

// do runs an engine call off the update loop.
func (m Model) do(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg { return opDoneMsg{err: fn(ctx)} }
}

// loadRecent re-reads the history. A failed read keeps the current list.
func (m Model) loadRecent() tea.Cmd {
	if m.history == nil {
		return nil
	}
	load, ctx, logger := m.history, m.ctx, m.logger
	return func() tea.Msg {
		entries, err := load(ctx)
		if err != nil {
			logger.Warn("could not reload history", "error", err)
			return nil
		}
		return recentMsg{entries}
	}
}

func (m Model) open(id string) tea.Cmd {
	eng := m.engine
	return m.do(func(ctx context.Context) error { return eng.OpenTitle(ctx, id) })
}

// listItems returns the selectable rows of the current section.
func (m Model) listItems() []listItem {
	switch m.section {
	case app.SectionHome:
		items := make([]listItem, 0, len(m.recent))
		for _, e := range m.recent {
			items = append(items, listItem{id: e.ID, label: e.Title, meta: humanize.Time(e.ViewedAt)})
		}
		return items
	case app.SectionResults:
		return titleItems(m.results)
	case app.SectionExplore:
		return titleItems(m.featured)
	}
	return nil
}

// visibleItems applies the fuzzy filter to listItems.
func (m Model) visibleItems() []listItem {
	items := m.listItems()
	q := m.filter.Value()
	if !m.filtering || q == "" {
		return items
	}

	labels := make([]string, len(items))
	for i, it := range items {
		labels[i] = it.label
	}
	matches := fuzzy.Find(q, labels)
	out := make([]listItem, 0, len(matches))
	for _, match := range matches {
		out = append(out, items[match.Index])
	}
	return out
}

func titleItems(titles []media.Title) []listItem {
	items := make([]listItem, 0, len(titles))
	for _, t := range titles {
		items = append(items, listItem{id: t.ID, label: t.DisplayName(), meta: titleMeta(t)})
	}
	return items
}

func titleMeta(t media.Title) string {
	parts := []string{t.MediaType().String()}
	if t.Rating != nil && t.Rating.VoteCount > 0 {
		parts = append(parts, fmt.Sprintf("%.1f (%s votes)", t.Rating.AggregateRating, humanize.Comma(int64(t.Rating.VoteCount))))
	}
	return strings.Join(parts, " | ")
}
