package page

import (
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/aicuts/internal/api"
	"github.com/csheth/aicuts/internal/form"
	"github.com/csheth/aicuts/internal/shapes"
)

// Config wires runtime options into the page program.
type Config struct {
	Client  api.Client
	Catalog *shapes.Catalog
	// Timeout bounds each request. Zero means defaultRequestTimeout.
	Timeout time.Duration
	// BaseURL is only displayed.
	BaseURL string
}

const defaultRequestTimeout = 60 * time.Second

const heroTagline = "Upload a photo, learn your face shape, find your cut."

type field int

const (
	fieldFirstName field = iota
	fieldLastName
	fieldSubject
	fieldPhoto
	fieldCount
)

var contactFields = []field{fieldFirstName, fieldLastName, fieldSubject}

type model struct {
	config Config
	layout pageLayout
	jobs   *jobBus

	inputs  [fieldCount]textinput.Model
	focus   field
	spinner spinner.Model

	contactPending bool
	selection      *form.FileRef
	selectedInput  string
	fileInfo       fileInfo
	fileButton     string
	region         uploadRegion
	analyze        analyzeButton
	results        resultsSection
	visibility     shapes.Visibility

	alert       string
	infoMessage string
	lastJob     jobSnapshot
}

type contactResultMsg struct {
	result api.Result[api.ContactReply]
}

type uploadResultMsg struct {
	name   string
	result api.Result[api.Classification]
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Catalog == nil {
		catalog, err := shapes.DefaultCatalog()
		if err != nil {
			log.Printf("[page] embedded catalog unavailable: %v", err)
		}
		config.Catalog = catalog
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultRequestTimeout
	}

	first := textinput.New()
	first.Placeholder = "First name"
	first.CharLimit = 80
	first.Width = 32

	last := textinput.New()
	last.Placeholder = "Last name"
	last.CharLimit = 80
	last.Width = 32

	subject := textinput.New()
	subject.Placeholder = "What would you like to ask?"
	subject.CharLimit = 300
	subject.Width = 48

	photo := textinput.New()
	photo.Placeholder = "~/Pictures/me.jpg"
	photo.CharLimit = 512
	photo.Width = 48

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	m := &model{
		config:      config,
		layout:      newPageLayout(),
		jobs:        newJobBus(),
		inputs:      [fieldCount]textinput.Model{first, last, subject, photo},
		spinner:     spin,
		fileButton:  fileButtonChoose,
		analyze:     analyzeButton{label: analyzeLabel},
		visibility:  shapes.Hidden(),
		infoMessage: "Send us a message, or choose a photo to analyze.",
	}
	m.setFocus(fieldFirstName)
	return m
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.analyze.loading || m.contactPending {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		return m, nil
	case jobSignalMsg:
		m.lastJob = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		m.lastJob = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case contactResultMsg:
		m.handleContactResult(msg)
		return m, nil
	case uploadResultMsg:
		m.handleUploadResult(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	// Alerts block the page until dismissed.
	if m.alert != "" {
		switch key.Type {
		case tea.KeyEnter, tea.KeyEsc:
			m.dismissAlert()
		}
		return m, nil
	}

	switch key.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % fieldCount)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, nil
	case tea.KeyCtrlU:
		return m, m.submitUpload()
	case tea.KeyCtrlX:
		m.clearFileSelection()
		m.infoMessage = "Photo selection cleared."
		return m, nil
	case tea.KeyEnter:
		if m.focus == fieldPhoto {
			m.selectFile()
			return m, nil
		}
		return m, m.submitContact()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(key)
	return m, cmd
}

func (m *model) setFocus(f field) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = f
	m.inputs[f].Focus()
}

// submitContact validates the contact fields and starts the request.
func (m *model) submitContact() tea.Cmd {
	if m.contactPending {
		m.infoMessage = "Your message is still being sent…"
		return nil
	}
	contact, err := form.ValidateContact(
		m.inputs[fieldFirstName].Value(),
		m.inputs[fieldLastName].Value(),
		m.inputs[fieldSubject].Value(),
	)
	if err != nil {
		m.showAlert(err.Error())
		return nil
	}
	if m.config.Client == nil {
		m.showAlert(contactRetryMessage)
		return nil
	}
	m.contactPending = true
	m.infoMessage = "Sending message…"
	return tea.Batch(
		m.jobs.Start(jobKindContact, contactJob(m.config.Client, contact, m.config.Timeout)),
		m.spinner.Tick,
	)
}

func (m *model) handleContactResult(msg contactResultMsg) {
	m.contactPending = false
	res := msg.result
	switch res.Kind {
	case api.Succeeded:
		message := res.Message
		if message == "" {
			message = "Message sent."
		}
		m.showAlert(message)
		for _, f := range contactFields {
			m.inputs[f].SetValue("")
		}
		m.infoMessage = "Thanks! We will get back to you."
	case api.Rejected:
		m.showAlert(res.Message)
		m.infoMessage = "Message not sent."
	default:
		log.Printf("[page] contact request failed: %v", res.Err)
		m.showAlert(contactRetryMessage)
		m.infoMessage = "Message not sent."
	}
}

// submitUpload validates the current selection and starts the classification.
func (m *model) submitUpload() tea.Cmd {
	if m.analyze.disabled {
		m.infoMessage = "Analysis already in progress…"
		return nil
	}
	// The photo field may have been edited since the last Enter.
	if strings.TrimSpace(m.inputs[fieldPhoto].Value()) != m.selectedInput {
		m.selectFile()
		if m.alert != "" {
			return nil
		}
	}
	ref, err := form.ValidateUpload(m.selection)
	if err != nil {
		m.showAlert(err.Error())
		return nil
	}
	if m.config.Client == nil {
		m.showAlert(uploadRetryMessage)
		return nil
	}
	m.enterLoading()
	m.infoMessage = "Analyzing " + ref.Name + "…"
	return tea.Batch(
		m.jobs.Start(jobKindUpload, uploadJob(m.config.Client, ref, m.config.Timeout)),
		m.spinner.Tick,
	)
}

func (m *model) handleUploadResult(msg uploadResultMsg) {
	m.exitLoading()
	res := msg.result
	switch res.Kind {
	case api.Succeeded:
		m.showResults(res.Value)
		m.clearFileSelection()
		m.infoMessage = "Analysis complete for " + msg.name + "."
	case api.Rejected:
		m.showAlert(res.Message)
		m.infoMessage = "Analysis failed. Try another photo."
	default:
		log.Printf("[page] upload of %s failed: %v", msg.name, res.Err)
		m.showAlert(uploadRetryMessage)
		m.infoMessage = "Analysis failed. Try again."
	}
}

const (
	contactRetryMessage = "Error sending message. Please try again."
	uploadRetryMessage  = "Error uploading file. Please try again."
)
