package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// NoTextReturned stands in for a success response that carries no text field.
const NoTextReturned = "No text returned"

const DefaultEndpoint = "http://localhost:8000/transcribe/"

type Config struct {
	Endpoint string
}

func DefaultConfig() Config {
	return Config{Endpoint: DefaultEndpoint}
}

// Client uploads finished recordings to a transcription service.
type Client struct {
	client   *http.Client
	endpoint string
}

// NewClient returns a client that waits on the service with no timeout and never retries.
func NewClient(config Config) *Client {
	return &Client{
		client:   &http.Client{},
		endpoint: config.Endpoint,
	}
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send uploads the artifact at path as the multipart "file" field and returns
// the transcribed text. Errors are *ArtifactError, *NetworkError or *ServerError.
func (c *Client) Send(ctx context.Context, path string) (string, error) {
	audio, err := os.ReadFile(path)
	if err != nil {
		return "", &ArtifactError{Path: path, Err: err}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", &NetworkError{Err: fmt.Errorf("create form file: %w", err)}
	}
	if _, err := part.Write(audio); err != nil {
		return "", &NetworkError{Err: fmt.Errorf("copy audio data: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return "", &NetworkError{Err: fmt.Errorf("close writer: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", &NetworkError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("transcriber: request failed after %v: %v", duration, err)
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("transcriber: service returned status %d: %s", resp.StatusCode, string(raw))
		return "", &ServerError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", &ServerError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}

	text := NoTextReturned
	if v, ok := payload["text"]; ok && v != nil {
		if s, ok := v.(string); ok {
			text = s
		} else {
			text = fmt.Sprint(v)
		}
	}

	log.Printf("transcriber: sent %d bytes in %v: %q", len(audio), duration, text)
	return text, nil
}

// errorMessage prefers the service's {"error": ...} field, then the raw body, then the status text.
func errorMessage(status int, raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if body := strings.TrimSpace(string(raw)); body != "" {
		return body
	}
	return http.StatusText(status)
}
