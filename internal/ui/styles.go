package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#be95ff")
	colorMuted  = lipgloss.Color("#767676")
	colorText   = lipgloss.Color("#f2f4f8")
	colorGood   = lipgloss.Color("#42be65")
	colorWarn   = lipgloss.Color("#ee5396")
	colorInfo   = lipgloss.Color("#78a9ff")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(colorAccent).
			Padding(0, 1).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d1aaff")).Bold(true)

	itemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(colorText)

	selectedStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(colorAccent).Bold(true)

	activeStyle = lipgloss.NewStyle().Foreground(colorGood).Bold(true)

	metaStyle = lipgloss.NewStyle().Foreground(colorMuted)

	errorStyle = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)

	noticeStyle = lipgloss.NewStyle().Foreground(colorInfo).Italic(true)

	helpStyle = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#393939")).
			Padding(0, 1)
)
