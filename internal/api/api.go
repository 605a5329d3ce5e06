package api

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultHTTPTimeout = 60 * time.Second

// Config describes how to reach the face-shape service.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the contact and upload endpoints.
type Client interface {
	SendContact(ctx context.Context, req ContactRequest) Result[ContactReply]
	Classify(ctx context.Context, req UploadRequest) Result[Classification]
}

// ContactRequest is the JSON body of POST /api/contact.
type ContactRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Subject   string `json:"subject"`
}

// ContactReply is the JSON body answered by /api/contact.
type ContactReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// UploadRequest carries one photo for POST /api/upload.
type UploadRequest struct {
	Name      string
	MediaType string
	Size      int64
	Content   io.Reader
}

// Classification is the JSON body answered by /api/upload.
type Classification struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message"`
	Image      string  `json:"image"`
	FaceShape  string  `json:"face_shape"`
	Confidence float64 `json:"confidence"`
}

// Kind tags the outcome of one request.
type Kind int

const (
	// Succeeded means the service answered and reported success.
	Succeeded Kind = iota
	// Rejected means the service answered but reported failure.
	Rejected
	// Failed means no usable answer arrived: network error, timeout or a body
	// that is not JSON.
	Failed
)

func (k Kind) String() string {
	switch k {
	case Succeeded:
		return "succeeded"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one request. Message holds the server message for
// Succeeded and Rejected; Err holds the cause for Failed.
type Result[T any] struct {
	Kind    Kind
	Value   T
	Message string
	Err     error
}

// New builds an HTTP client for the service at cfg.BaseURL.
func New(cfg Config) Client {
	return &httpClient{
		base:   strings.TrimRight(cfg.BaseURL, "/"),
		client: pickHTTPClient(cfg.HTTPClient),
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Classification can take a while on a cold model; callers bound each request with a context.
	return &http.Client{Timeout: defaultHTTPTimeout}
}
