package page

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

const (
	minPanelWidth       = 36
	horizontalPadding   = 4
	panelGutter         = 2
	panelChrome         = 4
	sideBySideThreshold = 100
	logoMinWidth        = 60
)

type pageLayout struct {
	windowWidth  int
	windowHeight int
	columns      int
	panelWidth   int
	wrapWidth    int
	compactHero  bool
}

func newPageLayout() pageLayout {
	return pageLayout{
		columns:    1,
		panelWidth: 76,
		wrapWidth:  72,
	}
}

// Update recomputes panel geometry. Wide terminals put the contact and
// upload panels side by side.
func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	inner := width - horizontalPadding
	if inner < minPanelWidth {
		inner = minPanelWidth
	}
	l.columns = 1
	l.panelWidth = inner
	if width >= sideBySideThreshold {
		l.columns = 2
		l.panelWidth = (inner - panelGutter) / 2
	}
	l.wrapWidth = l.panelWidth - panelChrome
	if l.wrapWidth < 20 {
		l.wrapWidth = 20
	}
	l.compactHero = width < logoMinWidth
}

func (l pageLayout) wrap(text string) string {
	return wordwrap.String(text, l.wrapWidth)
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}
