package page

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/aicuts/internal/form"
	"github.com/csheth/aicuts/internal/shapes"
)

var fieldLabels = [fieldCount]string{
	fieldFirstName: "First name",
	fieldLastName:  "Last name",
	fieldSubject:   "Subject",
	fieldPhoto:     "Photo",
}

func (m *model) View() string {
	parts := []string{m.heroView()}
	if m.alert != "" {
		parts = append(parts, m.alertView())
	}
	parts = append(parts, m.panelsView())
	if m.results.visible {
		parts = append(parts, m.resultsView())
	}
	if m.visibility.Any() {
		parts = append(parts, m.recommendationsView())
	}
	parts = append(parts, m.statusView(), m.keyLegendView())
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	if m.layout.compactHero {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			heroTitleStyle.Render("AICUTS"),
			taglineStyle.Render(heroTagline),
		)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		renderLogo(),
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) alertView() string {
	body := joinNonEmpty([]string{
		m.layout.wrap(m.alert),
		helperStyle.Render("Press Enter to dismiss."),
	})
	return alertBoxStyle.Render(body)
}

func (m *model) panelsView() string {
	contact := m.contactPanel()
	upload := m.uploadPanel()
	if m.layout.columns > 1 {
		return lipgloss.JoinHorizontal(lipgloss.Top, contact, strings.Repeat(" ", panelGutter), upload)
	}
	return lipgloss.JoinVertical(lipgloss.Left, contact, upload)
}

func (m *model) contactPanel() string {
	rows := []string{sectionHeaderStyle.Render("Contact Us")}
	for _, f := range contactFields {
		rows = append(rows, labelStyle.Render(fieldLabels[f]), m.inputs[f].View())
	}
	hint := "Enter to send."
	if m.contactPending {
		hint = m.spinner.View() + " Sending…"
	}
	rows = append(rows, helperStyle.Render(hint))

	style := panelStyle
	if m.focus != fieldPhoto {
		style = activePanelStyle
	}
	return style.Width(m.layout.panelWidth - 2).Render(strings.Join(rows, "\n"))
}

func (m *model) uploadPanel() string {
	rows := []string{
		sectionHeaderStyle.Render("Find Your Cut"),
		buttonStyle.Render(m.fileButton) + helperStyle.Render("  type a path, Enter to select"),
		m.inputs[fieldPhoto].View(),
	}
	if m.fileInfo.visible {
		rows = append(rows, labelStyle.Render(m.fileInfo.name)+" "+helperStyle.Render("("+m.fileInfo.size+")"))
	}
	rows = append(rows, m.analyzeView())

	style := panelStyle
	switch {
	case m.region.processing:
		style = processingStyle
	case m.region.hasFile:
		style = hasFilePanelStyle
	case m.focus == fieldPhoto:
		style = activePanelStyle
	}
	return style.Width(m.layout.panelWidth - 2).Render(strings.Join(rows, "\n"))
}

func (m *model) analyzeView() string {
	switch {
	case m.analyze.loading:
		return disabledButton.Render(m.spinner.View() + " Analyzing…")
	case m.analyze.disabled:
		return disabledButton.Render(m.analyze.label)
	default:
		return buttonStyle.Render(m.analyze.label) + helperStyle.Render("  Ctrl+U")
	}
}

func (m *model) resultsView() string {
	lines := []string{
		heroTitleStyle.Render("Your Results"),
		successStyle.Render(m.results.faceShape),
		m.results.confidence,
		"Image: " + DescribeImage(m.results.imageSrc),
	}
	return resultBoxStyle.Render(strings.Join(lines, "\n"))
}

// DescribeImage summarizes the result image. Data URLs are too long to print.
func DescribeImage(src string) string {
	if src == "" {
		return "none returned"
	}
	if !strings.HasPrefix(src, "data:") {
		return src
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return "inline image"
	}
	mediaType := strings.TrimSuffix(meta, ";base64")
	if mediaType == "" {
		mediaType = "image"
	}
	size := int64(len(payload))
	if strings.HasSuffix(meta, ";base64") {
		size = int64(len(payload)*3/4 - strings.Count(payload, "="))
	}
	return fmt.Sprintf("annotated %s, %s inline", mediaType, form.FormatSize(size))
}

func (m *model) recommendationsView() string {
	var sections []string
	for _, shape := range shapes.All {
		if m.visibility.Details[shape] {
			sections = append(sections, m.detailBlock(shape))
		}
	}
	var cards []string
	for _, style := range m.visibility.VisibleStyles() {
		cards = append(cards, m.styleCard(style))
	}
	if len(cards) > 0 {
		sections = append(sections, sectionHeaderStyle.Render("Recommended Hairstyles")+"\n"+strings.Join(cards, "\n"))
	}
	return joinNonEmpty(sections)
}

func (m *model) detailBlock(shape shapes.Shape) string {
	if m.config.Catalog == nil {
		return sectionHeaderStyle.Render(string(shape))
	}
	detail, ok := m.config.Catalog.Shapes[shape]
	if !ok {
		return sectionHeaderStyle.Render(string(shape))
	}
	rows := []string{sectionHeaderStyle.Render(detail.Title), m.layout.wrap(detail.Summary)}
	for _, tip := range detail.Tips {
		rows = append(rows, " • "+strings.ReplaceAll(m.layout.wrap(tip), "\n", "\n   "))
	}
	return strings.Join(rows, "\n")
}

func (m *model) styleCard(style shapes.Hairstyle) string {
	title := labelStyle.Render(m.config.Catalog.StyleName(style))
	if m.config.Catalog == nil {
		return " • " + title
	}
	desc := m.config.Catalog.Hairstyles[style].Description
	if desc == "" {
		return " • " + title
	}
	return " • " + title + "\n" + helperStyle.Render(indentMultiline(m.layout.wrap(desc), "   "))
}

func (m *model) statusView() string {
	stats := []string{m.infoMessage}
	if badge := m.lastJob.badge(); badge != "" {
		stats = append(stats, badge)
	}
	if m.config.BaseURL != "" {
		stats = append(stats, "API "+m.config.BaseURL)
	}
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Tab", "Next field"},
		{"Enter", "Send / select photo"},
		{"Ctrl+U", "Analyze photo"},
		{"Ctrl+X", "Clear photo"},
		{"Esc", "Dismiss or quit"},
		{"Ctrl+C", "Quit"},
	}
	const columns = 3
	var rows []string
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}
