package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/google/uuid"
)

// Responses embed the annotated photo as a data URL, so allow room for it.
const maxResponseBytes = 32 << 20

const rejectedFallback = "The service rejected the request."

type httpClient struct {
	base   string
	client *http.Client
}

func (c *httpClient) SendContact(ctx context.Context, req ContactRequest) Result[ContactReply] {
	buf, err := json.Marshal(req)
	if err != nil {
		return failed[ContactReply](err)
	}
	var reply ContactReply
	if err := c.post(ctx, "/api/contact", "application/json", bytes.NewReader(buf), &reply); err != nil {
		return failed[ContactReply](err)
	}
	return settle(reply, reply.Success, reply.Message)
}

func (c *httpClient) Classify(ctx context.Context, req UploadRequest) Result[Classification] {
	if req.Content == nil {
		return failed[Classification](errors.New("upload content is required"))
	}
	body, contentType := encodeUpload(req)
	var reply Classification
	if err := c.post(ctx, "/api/upload", contentType, body, &reply); err != nil {
		return failed[Classification](err)
	}
	return settle(reply, reply.Success, reply.Message)
}

// encodeUpload streams the multipart body through a pipe so the file is read
// as the transport sends it.
func encodeUpload(req UploadRequest) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	mediaType := req.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	go func() {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(req.Name)))
		header.Set("Content-Type", mediaType)
		part, err := writer.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, req.Content); err != nil {
			pw.CloseWithError(fmt.Errorf("reading %s: %w", req.Name, err))
			return
		}
		pw.CloseWithError(writer.Close())
	}()
	return pr, writer.FormDataContentType()
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// post sends body and decodes the JSON object answer into out. The HTTP
// status is ignored: the service reports failures as JSON with success=false.
// Any other payload, null included, is a transport error.
func (c *httpClient) post(ctx context.Context, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, body)
	if err != nil {
		if closer, ok := body.(io.Closer); ok {
			closer.Close()
		}
		return err
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[api] %s %s failed (id=%s): %v", http.MethodPost, path, requestID, err)
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	log.Printf("[api] %s %s -> %s (id=%s, %d bytes)", http.MethodPost, path, resp.Status, requestID, len(raw))
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("decoding %s response (%s): not a JSON object", path, resp.Status)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s response (%s): %w", path, resp.Status, err)
	}
	return nil
}

func settle[T any](value T, success bool, message string) Result[T] {
	if success {
		return Result[T]{Kind: Succeeded, Value: value, Message: message}
	}
	if strings.TrimSpace(message) == "" {
		message = rejectedFallback
	}
	return Result[T]{Kind: Rejected, Value: value, Message: message}
}

func failed[T any](err error) Result[T] {
	return Result[T]{Kind: Failed, Err: err}
}
