package page

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/csheth/aicuts/internal/api"
	"github.com/csheth/aicuts/internal/form"
	"github.com/csheth/aicuts/internal/shapes"
)

const (
	fileButtonChoose = "Choose File"
	fileButtonChange = "Change File"
	analyzeLabel     = "Analyze My Face"
)

// analyzeButton is the upload form's submit control.
type analyzeButton struct {
	label    string
	disabled bool
	loading  bool
}

// uploadRegion carries the marks the upload panel is styled by.
type uploadRegion struct {
	hasFile    bool
	processing bool
}

type fileInfo struct {
	visible bool
	name    string
	size    string
}

type resultsSection struct {
	visible    bool
	imageSrc   string
	faceShape  string
	confidence string
}

// enterLoading disables the analyze control while an upload is in flight.
// Calling it twice is harmless.
func (m *model) enterLoading() {
	m.analyze.disabled = true
	m.analyze.loading = true
	m.region.processing = true
	m.region.hasFile = false
}

// exitLoading restores the analyze control. The has-file mark comes back only
// if the photo input still holds a selection.
func (m *model) exitLoading() {
	m.analyze.disabled = false
	m.analyze.loading = false
	m.analyze.label = analyzeLabel
	m.region.processing = false
	if m.selection != nil {
		m.region.hasFile = true
	}
}

// selectFile reacts to a change of the photo input.
func (m *model) selectFile() {
	path := strings.TrimSpace(m.inputs[fieldPhoto].Value())
	if path == "" {
		m.clearFileSelection()
		return
	}
	ref, err := form.Inspect(expandHome(path))
	if err != nil {
		m.clearFileSelection()
		m.showAlert(err.Error())
		return
	}
	m.selection = &ref
	m.selectedInput = path
	m.fileInfo = fileInfo{visible: true, name: ref.Name, size: form.FormatSize(ref.Size)}
	if !m.region.processing {
		m.region.hasFile = true
	}
	m.fileButton = fileButtonChange
	m.infoMessage = "Press Ctrl+U to analyze the photo."
}

// clearFileSelection resets the photo input and everything derived from it.
func (m *model) clearFileSelection() {
	m.selection = nil
	m.selectedInput = ""
	m.inputs[fieldPhoto].SetValue("")
	m.fileInfo = fileInfo{}
	m.region.hasFile = false
	m.fileButton = fileButtonChoose
}

func (m *model) showResults(c api.Classification) {
	m.results = resultsSection{
		visible:    true,
		imageSrc:   c.Image,
		faceShape:  faceShapeText(c),
		confidence: confidenceText(c),
	}
	m.toggleRecommendations(strings.ToLower(c.FaceShape))
}

func faceShapeText(c api.Classification) string {
	return fmt.Sprintf("Face Shape: %s", c.FaceShape)
}

func confidenceText(c api.Classification) string {
	return fmt.Sprintf("Confidence: %.1f%%", c.Confidence*100)
}

// Summary returns the lines the results section shows for c.
func Summary(c api.Classification) []string {
	return []string{faceShapeText(c), confidenceText(c), "Image: " + DescribeImage(c.Image)}
}

// toggleRecommendations hides every detail and hairstyle block, then shows
// the ones mapped to label.
func (m *model) toggleRecommendations(label string) {
	v := shapes.Plan(label)
	switch {
	case v.Shape == "" && label != "":
		log.Printf("[page] unknown face shape %q; no recommendations shown", label)
	case v.Shape != "" && string(v.Shape) != label:
		log.Printf("[page] face shape %q normalized to %q", label, v.Shape)
	}
	m.visibility = v
}

func (m *model) showAlert(message string) {
	m.alert = message
}

func (m *model) dismissAlert() {
	m.alert = ""
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
