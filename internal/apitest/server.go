// Package apitest runs a scripted stand-in for the face-shape service.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Reply scripts one endpoint. A non-empty Raw body is written verbatim,
// otherwise Body is encoded as JSON.
type Reply struct {
	Status int
	Body   any
	Raw    string
}

// Contact is a decoded contact submission as the service saw it.
type Contact struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Subject   string `json:"subject"`
	RequestID string `json:"-"`
}

// Upload is a received photo as the service saw it.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Size        int
	RequestID   string
}

// Server records requests and answers them with the scripted replies.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	contact  Reply
	upload   Reply
	contacts []Contact
	uploads  []Upload
}

// DefaultImage is the data URL returned by the default upload reply.
const DefaultImage = "data:image/jpeg;base64,/9j/4AAQSkZJRg=="

// New starts a server answering both endpoints with success. It is closed
// when the test ends.
func New(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		contact: Reply{Status: http.StatusOK, Body: map[string]any{
			"success": true,
			"message": "Message sent successfully!",
		}},
		upload: Reply{Status: http.StatusOK, Body: map[string]any{
			"success":    true,
			"message":    "Face shape detected",
			"face_shape": "Round",
			"confidence": 0.873,
			"image":      DefaultImage,
		}},
	}
	s.Server = httptest.NewServer(s.router())
	tb.Cleanup(s.Close)
	return s
}

func (s *Server) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/api/contact", s.handleContact)
	r.Post("/api/upload", s.handleUpload)
	return r
}

// ReplyContact replaces the scripted /api/contact reply.
func (s *Server) ReplyContact(reply Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contact = reply
}

// ReplyUpload replaces the scripted /api/upload reply.
func (s *Server) ReplyUpload(reply Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = reply
}

// Contacts returns the contact submissions received so far.
func (s *Server) Contacts() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Contact(nil), s.contacts...)
}

// Uploads returns the uploads received so far.
func (s *Server) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Upload(nil), s.uploads...)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var c Contact
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeReply(w, Reply{Status: http.StatusBadRequest, Body: map[string]any{
			"success": false,
			"message": "Invalid request format.",
		}})
		return
	}
	c.RequestID = r.Header.Get("X-Request-ID")

	s.mu.Lock()
	s.contacts = append(s.contacts, c)
	reply := s.contact
	s.mu.Unlock()
	writeReply(w, reply)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeReply(w, Reply{Status: http.StatusBadRequest, Body: map[string]any{
			"success": false,
			"message": "No file part in the request.",
		}})
		return
	}
	defer file.Close()
	data, _ := io.ReadAll(file)

	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{
		Field:       "file",
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        len(data),
		RequestID:   r.Header.Get("X-Request-ID"),
	})
	reply := s.upload
	s.mu.Unlock()
	writeReply(w, reply)
}

func writeReply(w http.ResponseWriter, reply Reply) {
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	if reply.Raw != "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply.Raw)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(reply.Body)
}
