package page

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	labelStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	successStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Bold(true)

	heroAccentColor        = lipgloss.Color("#ff8c00")
	heroEmberColor         = lipgloss.Color("#2b1400")
	heroTextColor          = lipgloss.Color("#fff4d0")
	heroSecondaryTextColor = lipgloss.Color("#ffb347")

	heroTitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(heroAccentColor)
	taglineStyle       = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	alertBoxStyle      = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2).Bold(true)
	panelStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	activePanelStyle   = panelStyle.Copy().BorderForeground(heroAccentColor)
	hasFilePanelStyle  = panelStyle.Copy().BorderForeground(lipgloss.Color("#a3be8c"))
	processingStyle    = panelStyle.Copy().BorderForeground(lipgloss.Color("#8ecae6")).BorderStyle(lipgloss.ThickBorder())
	buttonStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(heroSecondaryTextColor).Padding(0, 1)
	disabledButton     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("236")).Padding(0, 1)
	resultBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(heroAccentColor).Foreground(heroTextColor).Background(heroEmberColor).Padding(0, 2)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroEmberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		" █████╗   ██╗   ██████╗  ██╗   ██╗  ████████╗  ███████╗  ",
		"██╔══██╗  ██║  ██╔════╝  ██║   ██║  ╚══██╔══╝  ██╔════╝  ",
		"███████║  ██║  ██║       ██║   ██║     ██║     ███████╗  ",
		"██╔══██║  ██║  ██║       ██║   ██║     ██║     ╚════██║  ",
		"██║  ██║  ██║  ╚██████╗  ╚██████╔╝     ██║     ███████║  ",
		"╚═╝  ╚═╝  ╚═╝   ╚═════╝   ╚═════╝      ╚═╝     ╚══════╝  ",
	}
)

// renderLogo draws the block-letter logo with a one-cell drop shadow.
func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}

	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	paint := func(dx, dy int, style lipgloss.Style) {
		for y, runes := range lineRunes {
			for x, r := range runes {
				if r == ' ' {
					continue
				}
				grid[y+dy][x+dx] = cell{r: r, style: style}
			}
		}
	}
	paint(1, 1, logoShadowStyle)
	paint(0, 0, logoFaceStyle)

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
