package page

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/aicuts/internal/api"
	"github.com/csheth/aicuts/internal/form"
	"github.com/csheth/aicuts/internal/shapes"
)

type recordedUpload struct {
	name      string
	mediaType string
	size      int64
	content   []byte
}

type fakeClient struct {
	mu       sync.Mutex
	contacts []api.ContactRequest
	uploads  []recordedUpload

	contactResult api.Result[api.ContactReply]
	uploadResult  api.Result[api.Classification]
}

func (f *fakeClient) SendContact(ctx context.Context, req api.ContactRequest) api.Result[api.ContactReply] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.contacts = append(f.contacts, req)
	return f.contactResult
}

func (f *fakeClient) Classify(ctx context.Context, req api.UploadRequest) api.Result[api.Classification] {
	data, _ := io.ReadAll(req.Content)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, recordedUpload{name: req.Name, mediaType: req.MediaType, size: req.Size, content: data})
	return f.uploadResult
}

func (f *fakeClient) contactCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.contacts)
}

func (f *fakeClient) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func newTestModel(t *testing.T, client api.Client) *model {
	t.Helper()
	teaModel, ok := New(Config{Client: client}).(*model)
	if !ok {
		t.Fatalf("expected *model, got %T", teaModel)
	}
	return teaModel
}

var cmdType = reflect.TypeOf((*tea.Cmd)(nil)).Elem()

// drain runs cmd and any batched or sequenced commands it expands to,
// returning the produced messages in order. Spinner ticks are dropped.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	v := reflect.ValueOf(msg)
	if v.IsValid() && v.Kind() == reflect.Slice && v.Type().Elem() == cmdType {
		var out []tea.Msg
		for i := 0; i < v.Len(); i++ {
			inner, _ := v.Index(i).Interface().(tea.Cmd)
			out = append(out, drain(inner)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	if strings.HasPrefix(reflect.TypeOf(msg).String(), "spinner.") {
		return nil
	}
	return []tea.Msg{msg}
}

// run feeds every message produced by cmd back into the model.
func run(m *model, cmd tea.Cmd) {
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}
}

func fillContact(m *model, first, last, subject string) {
	m.inputs[fieldFirstName].SetValue(first)
	m.inputs[fieldLastName].SetValue(last)
	m.inputs[fieldSubject].SetValue(subject)
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func selectPath(m *model, path string) {
	m.inputs[fieldPhoto].SetValue(path)
	m.selectFile()
}

func TestContactValidationBlocksRequest(t *testing.T) {
	cases := []struct {
		name                 string
		first, last, subject string
		want                 error
	}{
		{"empty subject", "Ada", "Lovelace", "   ", form.ErrEmptyField},
		{"short first", "A", "Lovelace", "Booking a consultation", form.ErrFirstNameShort},
		{"long last", "Ada", strings.Repeat("l", 51), "Booking a consultation", form.ErrLastNameLong},
		{"short subject", "Ada", "Lovelace", "Hi there", form.ErrSubjectShort},
		{"first rule wins", "A", "L", "short", form.ErrFirstNameShort},
	}
	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := &fakeClient{}
			m := newTestModel(t, client)
			fillContact(m, tt.first, tt.last, tt.subject)

			if cmd := m.submitContact(); cmd != nil {
				t.Fatalf("invalid form should not start a request")
			}
			if m.alert != tt.want.Error() {
				t.Fatalf("alert mismatch: got %q want %q", m.alert, tt.want.Error())
			}
			if m.contactPending {
				t.Fatal("contact should not be pending after a validation failure")
			}
			if client.contactCount() != 0 {
				t.Fatalf("expected no requests, got %d", client.contactCount())
			}
		})
	}
}

func TestContactSuccessClearsFields(t *testing.T) {
	client := &fakeClient{contactResult: api.Result[api.ContactReply]{
		Kind:    api.Succeeded,
		Message: "Message sent successfully!",
		Value:   api.ContactReply{Success: true, Message: "Message sent successfully!"},
	}}
	m := newTestModel(t, client)
	fillContact(m, "  Ada ", "Lovelace", "Booking a consultation ")

	cmd := m.submitContact()
	if cmd == nil || !m.contactPending {
		t.Fatal("valid form should start a pending request")
	}
	run(m, cmd)

	if client.contactCount() != 1 {
		t.Fatalf("expected one request, got %d", client.contactCount())
	}
	got := client.contacts[0]
	if got.FirstName != "Ada" || got.Subject != "Booking a consultation" {
		t.Fatalf("request should carry trimmed values, got %+v", got)
	}
	if m.alert != "Message sent successfully!" {
		t.Fatalf("unexpected alert %q", m.alert)
	}
	for _, f := range contactFields {
		if v := m.inputs[f].Value(); v != "" {
			t.Fatalf("field %d not cleared: %q", f, v)
		}
	}
	if m.contactPending {
		t.Fatal("pending flag should reset")
	}
	if m.lastJob.Kind != jobKindContact || m.lastJob.Status != jobStatusSucceeded {
		t.Fatalf("unexpected job snapshot %+v", m.lastJob)
	}
}

func TestContactFailuresKeepFields(t *testing.T) {
	cases := []struct {
		name   string
		result api.Result[api.ContactReply]
		alert  string
	}{
		{
			name:   "rejected",
			result: api.Result[api.ContactReply]{Kind: api.Rejected, Message: "You can only submit one contact form per day."},
			alert:  "You can only submit one contact form per day.",
		},
		{
			name:   "transport",
			result: api.Result[api.ContactReply]{Kind: api.Failed, Err: errors.New("connection refused")},
			alert:  contactRetryMessage,
		},
	}
	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newTestModel(t, &fakeClient{contactResult: tt.result})
			fillContact(m, "Ada", "Lovelace", "Booking a consultation")
			run(m, m.submitContact())

			if m.alert != tt.alert {
				t.Fatalf("alert mismatch: got %q want %q", m.alert, tt.alert)
			}
			if m.inputs[fieldFirstName].Value() != "Ada" || m.inputs[fieldSubject].Value() != "Booking a consultation" {
				t.Fatal("fields should keep their contents")
			}
			if m.lastJob.Status != jobStatusFailed {
				t.Fatalf("job should be reported failed, got %s", m.lastJob.Status)
			}
		})
	}
}

func TestContactSecondSubmitIgnoredWhilePending(t *testing.T) {
	client := &fakeClient{contactResult: api.Result[api.ContactReply]{Kind: api.Succeeded, Message: "ok"}}
	m := newTestModel(t, client)
	fillContact(m, "Ada", "Lovelace", "Booking a consultation")

	first := m.submitContact()
	if first == nil {
		t.Fatal("first submit should start a request")
	}
	if second := m.submitContact(); second != nil {
		t.Fatal("second submit should be ignored while pending")
	}
	run(m, first)
	if client.contactCount() != 1 {
		t.Fatalf("expected a single request, got %d", client.contactCount())
	}
}

func TestUploadValidationBlocksRequest(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &fakeClient{})
	if cmd := m.submitUpload(); cmd != nil {
		t.Fatal("no file selected should not start a request")
	}
	if m.alert != form.ErrNoFile.Error() {
		t.Fatalf("unexpected alert %q", m.alert)
	}
	if m.analyze.disabled || m.region.processing {
		t.Fatal("validation failure must not enter the loading state")
	}

	m.dismissAlert()
	selectPath(m, writeFile(t, "notes.txt", []byte("plain text")))
	if cmd := m.submitUpload(); cmd != nil {
		t.Fatal("non-image should not start a request")
	}
	if m.alert != form.ErrUnsupportedType.Error() {
		t.Fatalf("unexpected alert %q", m.alert)
	}
}

func TestUploadTooLargeChecksSizeBeforeExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "huge.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.Truncate(form.MaxUploadBytes + 1); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	f.Close()

	m := newTestModel(t, &fakeClient{})
	selectPath(m, path)
	if m.submitUpload() != nil {
		t.Fatal("oversized file should not start a request")
	}
	if m.alert != form.ErrFileTooLarge.Error() {
		t.Fatalf("unexpected alert %q", m.alert)
	}
}

func TestUploadSuccessShowsResults(t *testing.T) {
	client := &fakeClient{uploadResult: api.Result[api.Classification]{
		Kind: api.Succeeded,
		Value: api.Classification{
			Success:    true,
			FaceShape:  "Round",
			Confidence: 0.873,
			Image:      "data:image/jpeg;base64,/9j/4AAQSkZJRg==",
		},
	}}
	m := newTestModel(t, client)
	selectPath(m, writeFile(t, "me.png", pngHeader))

	cmd := m.submitUpload()
	if cmd == nil {
		t.Fatal("valid selection should start an upload")
	}
	if !m.analyze.disabled || !m.analyze.loading || !m.region.processing || m.region.hasFile {
		t.Fatalf("loading state not entered: %+v %+v", m.analyze, m.region)
	}
	run(m, cmd)

	if client.uploadCount() != 1 {
		t.Fatalf("expected one upload, got %d", client.uploadCount())
	}
	up := client.uploads[0]
	if up.name != "me.png" || up.mediaType != "image/png" || up.size != int64(len(pngHeader)) {
		t.Fatalf("unexpected upload %+v", up)
	}
	if string(up.content) != string(pngHeader) {
		t.Fatal("upload should stream the file content")
	}

	if !m.results.visible {
		t.Fatal("results should be visible")
	}
	if m.results.faceShape != "Face Shape: Round" {
		t.Fatalf("face shape text: %q", m.results.faceShape)
	}
	if m.results.confidence != "Confidence: 87.3%" {
		t.Fatalf("confidence text: %q", m.results.confidence)
	}
	if m.visibility.Shape != shapes.Round || !m.visibility.Details[shapes.Round] {
		t.Fatalf("round details should be shown: %+v", m.visibility)
	}
	want := []shapes.Hairstyle{shapes.Pompadour, shapes.HighFade, shapes.SidePart}
	if got := m.visibility.VisibleStyles(); !reflect.DeepEqual(got, want) {
		t.Fatalf("visible styles: got %v want %v", got, want)
	}
	if m.selection != nil || m.inputs[fieldPhoto].Value() != "" || m.fileInfo.visible {
		t.Fatal("file input should be cleared after success")
	}
	if m.fileButton != fileButtonChoose || m.region.hasFile {
		t.Fatal("upload region should be reset after success")
	}
	if m.analyze.disabled || m.analyze.loading || m.region.processing {
		t.Fatal("loading state should be cleared")
	}
	if m.alert != "" {
		t.Fatalf("success should not alert, got %q", m.alert)
	}
}

func TestUploadRejectedKeepsSelection(t *testing.T) {
	t.Parallel()

	client := &fakeClient{uploadResult: api.Result[api.Classification]{
		Kind:    api.Rejected,
		Message: "No face shape detected. Try a clearer image with better lighting.",
	}}
	m := newTestModel(t, client)
	selectPath(m, writeFile(t, "blurry.png", pngHeader))
	run(m, m.submitUpload())

	if m.alert != "No face shape detected. Try a clearer image with better lighting." {
		t.Fatalf("unexpected alert %q", m.alert)
	}
	if m.selection == nil || m.selection.Name != "blurry.png" {
		t.Fatal("selection should be kept")
	}
	if !m.region.hasFile || m.region.processing || m.analyze.disabled {
		t.Fatalf("loading should exit with the has-file mark restored: %+v %+v", m.region, m.analyze)
	}
	if m.results.visible {
		t.Fatal("results should stay hidden")
	}
}

func TestUploadTransportFailureClearsLoading(t *testing.T) {
	t.Parallel()

	client := &fakeClient{uploadResult: api.Result[api.Classification]{Kind: api.Failed, Err: errors.New("timeout")}}
	m := newTestModel(t, client)
	selectPath(m, writeFile(t, "me.jpg", pngHeader))
	run(m, m.submitUpload())

	if m.alert != uploadRetryMessage {
		t.Fatalf("unexpected alert %q", m.alert)
	}
	if m.analyze.loading || m.analyze.disabled || m.region.processing {
		t.Fatal("loading state should be cleared")
	}
}

func TestUploadOfVanishedFileFails(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	m := newTestModel(t, client)
	path := writeFile(t, "gone.png", pngHeader)
	selectPath(m, path)
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	run(m, m.submitUpload())

	if client.uploadCount() != 0 {
		t.Fatal("no request should be made for an unreadable file")
	}
	if m.alert != uploadRetryMessage {
		t.Fatalf("unexpected alert %q", m.alert)
	}
}

func TestUploadIgnoredWhileLoading(t *testing.T) {
	t.Parallel()

	client := &fakeClient{uploadResult: api.Result[api.Classification]{Kind: api.Succeeded}}
	m := newTestModel(t, client)
	selectPath(m, writeFile(t, "me.png", pngHeader))

	first := m.submitUpload()
	if first == nil {
		t.Fatal("first submit should start an upload")
	}
	if second := m.submitUpload(); second != nil {
		t.Fatal("second submit should be ignored while loading")
	}
	run(m, first)
	if client.uploadCount() != 1 {
		t.Fatalf("expected one upload, got %d", client.uploadCount())
	}
}

func TestUploadFollowsEditedPhotoField(t *testing.T) {
	t.Parallel()

	client := &fakeClient{uploadResult: api.Result[api.Classification]{Kind: api.Succeeded}}
	m := newTestModel(t, client)
	selectPath(m, writeFile(t, "first.png", pngHeader))
	m.inputs[fieldPhoto].SetValue(writeFile(t, "second.gif", []byte("GIF89a-data")))

	run(m, m.submitUpload())

	if client.uploadCount() != 1 {
		t.Fatalf("expected one upload, got %d", client.uploadCount())
	}
	if up := client.uploads[0]; up.name != "second.gif" || up.mediaType != "image/gif" {
		t.Fatalf("upload should use the edited path, got %+v", up)
	}
}

func TestUploadWithEditedMissingPathAlerts(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	m := newTestModel(t, client)
	selectPath(m, writeFile(t, "first.png", pngHeader))
	m.inputs[fieldPhoto].SetValue(filepath.Join(t.TempDir(), "missing.png"))

	if cmd := m.submitUpload(); cmd != nil {
		t.Fatal("no upload should start for a missing file")
	}
	if m.alert == "" {
		t.Fatal("missing file should alert")
	}
	if m.selection != nil || m.analyze.disabled {
		t.Fatalf("selection should be cleared without loading: %+v", m.analyze)
	}
	if client.uploadCount() != 0 {
		t.Fatal("no request should be made")
	}
}

func TestLoadingStateIsIdempotent(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	selectPath(m, writeFile(t, "me.png", pngHeader))

	m.enterLoading()
	once := m.analyze
	m.enterLoading()
	if m.analyze != once || !m.region.processing || m.region.hasFile {
		t.Fatalf("second enter changed state: %+v %+v", m.analyze, m.region)
	}

	m.exitLoading()
	m.exitLoading()
	if m.analyze.disabled || m.analyze.loading || m.analyze.label != analyzeLabel {
		t.Fatalf("exit should restore the control: %+v", m.analyze)
	}
	if !m.region.hasFile || m.region.processing {
		t.Fatalf("exit should restore has-file: %+v", m.region)
	}

	m.clearFileSelection()
	m.enterLoading()
	m.exitLoading()
	if m.region.hasFile {
		t.Fatal("has-file should not return without a selection")
	}
}

func TestSelectFilePresentsInfo(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	selectPath(m, writeFile(t, "portrait.png", pngHeader))

	if !m.fileInfo.visible || m.fileInfo.name != "portrait.png" || m.fileInfo.size != "16 Bytes" {
		t.Fatalf("unexpected file info %+v", m.fileInfo)
	}
	if !m.region.hasFile || m.fileButton != fileButtonChange {
		t.Fatal("region should be marked and button relabelled")
	}

	selectPath(m, "")
	if m.fileInfo.visible || m.region.hasFile || m.fileButton != fileButtonChoose || m.selection != nil {
		t.Fatal("empty path should clear the selection")
	}
}

func TestSelectMissingFileAlertsAndClears(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	selectPath(m, writeFile(t, "portrait.png", pngHeader))
	selectPath(m, filepath.Join(t.TempDir(), "absent.png"))

	if m.alert == "" {
		t.Fatal("missing file should raise an alert")
	}
	if m.selection != nil || m.fileInfo.visible || m.fileButton != fileButtonChoose {
		t.Fatal("missing file should be treated as no file")
	}
}

func TestToggleRecommendations(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	m.toggleRecommendations("ovale")
	if m.visibility.Shape != shapes.Oval || !m.visibility.Details[shapes.Oval] {
		t.Fatalf("ovale should show the oval block: %+v", m.visibility)
	}
	want := []shapes.Hairstyle{shapes.Quiff, shapes.Buzz, shapes.Waves}
	if got := m.visibility.VisibleStyles(); !reflect.DeepEqual(got, want) {
		t.Fatalf("visible styles: got %v want %v", got, want)
	}

	m.toggleRecommendations("heart")
	if m.visibility.Any() {
		t.Fatal("unknown shape should hide every block")
	}
}

func TestAlertSwallowsKeysUntilDismissed(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	m.showAlert("Please fill in all fields.")
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.inputs[fieldFirstName].Value() != "" {
		t.Fatal("typing should be blocked while an alert is shown")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.alert != "" {
		t.Fatal("enter should dismiss the alert")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.inputs[fieldFirstName].Value() != "x" {
		t.Fatalf("typing should reach the focused field, got %q", m.inputs[fieldFirstName].Value())
	}
}

func TestKeyRouting(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	for i := 0; i < int(fieldPhoto); i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
	if m.focus != fieldPhoto || !m.inputs[fieldPhoto].Focused() || m.inputs[fieldFirstName].Focused() {
		t.Fatalf("tab should move focus to the photo field, got %d", m.focus)
	}

	m.inputs[fieldPhoto].SetValue(writeFile(t, "me.gif", []byte("GIF89a")))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.selection == nil || m.selection.Name != "me.gif" {
		t.Fatal("enter in the photo field should select the file")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	if m.selection != nil {
		t.Fatal("ctrl+x should clear the selection")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focus != fieldSubject {
		t.Fatalf("shift+tab should move back, got %d", m.focus)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("ctrl+c should produce a quit message")
	}
}

func TestViewRendersResultsAndRecommendations(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.showResults(api.Classification{FaceShape: "Square", Confidence: 0.5, Image: "https://example.com/a.jpg"})

	view := m.View()
	for _, want := range []string{"Face Shape: Square", "Confidence: 50.0%", "https://example.com/a.jpg", "Square face", "Crew Cut", "Pompadour"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
	if strings.Contains(view, "Textured Crop") {
		t.Fatal("unmapped hairstyles should stay hidden")
	}
}

func TestDescribeImage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		src  string
		want string
	}{
		{"", "none returned"},
		{"https://example.com/a.jpg", "https://example.com/a.jpg"},
		{"data:image/jpeg;base64,/9j/4AAQSkZJRg==", "annotated image/jpeg, 10 Bytes inline"},
		{"data:broken", "inline image"},
	}
	for _, tt := range cases {
		if got := DescribeImage(tt.src); got != tt.want {
			t.Fatalf("DescribeImage(%q) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestSummaryMatchesResultsSection(t *testing.T) {
	t.Parallel()

	c := api.Classification{FaceShape: "Oval", Confidence: 0.9166, Image: "https://example.com/x.jpg"}
	want := []string{"Face Shape: Oval", "Confidence: 91.7%", "Image: https://example.com/x.jpg"}
	if got := Summary(c); !reflect.DeepEqual(got, want) {
		t.Fatalf("Summary() = %v, want %v", got, want)
	}
}
