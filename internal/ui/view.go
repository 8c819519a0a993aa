package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"streamit/internal/app"
	"streamit/internal/media"
)

const aboutText = `streamit finds movies and series in a public title catalog and
resolves an embeddable player page for them from one of several
third-party providers. Nothing is downloaded or hosted locally.`

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.headerText()))
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spin.View() + " Loading...\n\n")
	}

	switch m.section {
	case app.SectionHome:
		m.viewHome(&b)
	case app.SectionResults:
		m.viewResults(&b)
	case app.SectionExplore:
		b.WriteString(subtitleStyle.Render("Featured") + "\n")
		m.viewList(&b, "Nothing featured right now.")
	case app.SectionDetails:
		m.viewDetails(&b)
	case app.SectionPlayer:
		m.viewPlayer(&b)
	case app.SectionAbout:
		b.WriteString(subtitleStyle.Render("About") + "\n\n")
		b.WriteString(m.wrap(aboutText) + "\n")
	case app.SectionError:
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(m.helpText()))
	if m.status != "" {
		b.WriteString("\n" + noticeStyle.Render(m.status))
	}
	return b.String()
}

// headerText is the title of the window: the open title and what is being
// done with it, or the application name.
func (m Model) headerText() string {
	switch m.section {
	case app.SectionDetails:
		return m.details.PrimaryTitle + " - Details"
	case app.SectionPlayer:
		return m.player.Title.PrimaryTitle + " - Playing"
	default:
		return "streamit"
	}
}

func (m Model) viewHome(b *strings.Builder) {
	b.WriteString(boxStyle.Render(m.input.View()) + "\n\n")
	if len(m.recent) == 0 {
		b.WriteString(metaStyle.Render("Type at least three characters to search.") + "\n")
		return
	}
	b.WriteString(subtitleStyle.Render("Recently viewed") + "\n")
	m.viewList(b, "")
}

func (m Model) viewResults(b *strings.Builder) {
	b.WriteString(boxStyle.Render(m.input.View()) + "\n\n")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Results for %q", m.query)) + "\n")
	m.viewList(b, "No titles found.")
}

func (m Model) viewList(b *strings.Builder, empty string) {
	if m.filtering {
		b.WriteString(m.filter.View() + "\n")
	}

	items := m.visibleItems()
	if len(items) == 0 {
		if empty != "" {
			b.WriteString(metaStyle.Render(empty) + "\n")
		}
		return
	}

	showCursor := !m.inputActive()
	for i, it := range items {
		line := it.label
		if it.meta != "" {
			line += "  " + metaStyle.Render(it.meta)
		}
		if showCursor && i == m.cursor {
			b.WriteString(selectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}
}

func (m Model) viewDetails(b *strings.Builder) {
	t := m.details
	b.WriteString(subtitleStyle.Render(t.DisplayName()) + "\n")

	meta := []string{t.MediaType().String()}
	if t.MediaType() == media.TV {
		meta = append(meta, t.Years())
	}
	if mins := t.RuntimeMinutes(); mins > 0 {
		meta = append(meta, fmt.Sprintf("%d min", mins))
	}
	if t.Rating != nil && t.Rating.VoteCount > 0 {
		meta = append(meta, fmt.Sprintf("rated %.1f/10 by %s users",
			t.Rating.AggregateRating, humanize.Comma(int64(t.Rating.VoteCount))))
	}
	b.WriteString(metaStyle.Render(strings.Join(meta, " | ")) + "\n\n")

	if t.Plot != "" {
		b.WriteString(m.wrap(t.Plot) + "\n")
	}
	if t.PosterURL != "" {
		b.WriteString("\n" + metaStyle.Render("Poster: "+t.PosterURL) + "\n")
	}
}

func (m Model) viewPlayer(b *strings.Builder) {
	v := m.player
	heading := v.Title.DisplayName()
	if v.IsTV && v.Season > 0 {
		heading += fmt.Sprintf("  S%02dE%02d", v.Season, v.Episode)
		if ep := m.currentEpisode(); ep != "" {
			heading += "  " + ep
		}
	}
	b.WriteString(subtitleStyle.Render(heading) + "\n\n")

	if v.IsTV && len(v.Seasons) > 0 {
		parts := make([]string, len(v.Seasons))
		for i, s := range v.Seasons {
			label := fmt.Sprintf("S%d", s)
			if s == v.Season {
				label = activeStyle.Render(label)
			}
			parts[i] = label
		}
		b.WriteString("Seasons:   " + strings.Join(parts, " ") + "\n")
	}

	names := make([]string, len(v.Providers))
	for i, p := range v.Providers {
		name := p.Name
		if p.ID == v.Provider.ID {
			name = activeStyle.Render(name)
		}
		names[i] = name
	}
	b.WriteString("Providers: " + strings.Join(names, " ") + "\n\n")

	switch v.Status {
	case app.EmbedLoading:
		b.WriteString(m.spin.View() + " Resolving embed...\n")
	case app.EmbedReady:
		b.WriteString(boxStyle.Render(v.EmbedURL) + "\n")
	case app.EmbedUnsupported:
		name := v.Provider.Name
		if name == "" {
			name = "No provider"
		}
		b.WriteString(errorStyle.Render(name+" cannot play this title. Pick another provider.") + "\n")
	case app.EmbedNotReady:
		b.WriteString(noticeStyle.Render("Select a season and episode.") + "\n")
	}

	if v.Notice != "" {
		b.WriteString(noticeStyle.Render(v.Notice) + "\n")
	}
}

func (m Model) currentEpisode() string {
	for _, e := range m.player.Episodes {
		if e.Number == m.player.Episode {
			return e.Title
		}
	}
	return ""
}

func (m Model) wrap(s string) string {
	w := m.width - 4
	if w < 20 {
		w = 76
	}
	return lipgloss.NewStyle().Width(w).Render(s)
}

func (m Model) helpText() string {
	switch {
	case m.filtering:
		return "enter open • ↑/↓ move • esc clear filter"
	case m.inputActive():
		return "enter search • tab/↓ results • esc clear • ctrl+c quit"
	}

	common := "b back • f forward • h home • e explore • a about • q quit"
	switch m.section {
	case app.SectionHome, app.SectionResults:
		return "enter open • j/k move • / filter • tab search • " + common
	case app.SectionExplore:
		return "enter open • j/k move • / filter • s search • " + common
	case app.SectionDetails:
		return "p play • s search • " + common
	case app.SectionPlayer:
		help := "[/] provider • o open • y copy URL • "
		if m.player.IsTV {
			help += "n/N episode • </> season • "
		}
		return help + common
	default:
		return "s search • " + common
	}
}
