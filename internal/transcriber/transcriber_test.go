package transcriber

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/holdtalk/holdtalk/internal/testutil"
)

func writeArtifact(t *testing.T) (string, []byte) {
	t.Helper()
	path := testutil.WriteWAV(t, t.TempDir(), 1.2)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return path, data
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.Endpoint != "http://localhost:8000/transcribe/" {
		t.Errorf("default endpoint = %s", config.Endpoint)
	}
}

func TestClient_Send(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		wantText string
	}{
		{
			name:     "text returned",
			status:   http.StatusOK,
			body:     map[string]string{"text": "你好"},
			wantText: "你好",
		},
		{
			name:     "missing text field",
			status:   http.StatusOK,
			body:     map[string]string{"other": "value"},
			wantText: NoTextReturned,
		},
		{
			name:     "empty text is kept",
			status:   http.StatusOK,
			body:     map[string]string{"text": ""},
			wantText: "",
		},
		{
			name:     "non-200 success status",
			status:   http.StatusCreated,
			body:     map[string]string{"text": "created"},
			wantText: "created",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := testutil.NewTranscriptionStub(t, tt.status, tt.body)
			path, data := writeArtifact(t)

			client := NewClient(Config{Endpoint: stub.URL()})
			text, err := client.Send(context.Background(), path)
			if err != nil {
				t.Fatalf("Send() error = %v", err)
			}
			if text != tt.wantText {
				t.Errorf("Send() = %q, want %q", text, tt.wantText)
			}

			uploads := stub.Uploads()
			if len(uploads) != 1 {
				t.Fatalf("expected exactly one upload, got %d", len(uploads))
			}
			if uploads[0].FileName != filepath.Base(path) {
				t.Errorf("upload filename = %q, want %q", uploads[0].FileName, filepath.Base(path))
			}
			if !bytes.Equal(uploads[0].Data, data) {
				t.Error("uploaded bytes differ from the artifact")
			}
		})
	}
}

func TestClient_Send_ServerFailure(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        any
		wantMessage string
	}{
		{
			name:        "error payload",
			status:      http.StatusInternalServerError,
			body:        map[string]string{"error": "model unavailable"},
			wantMessage: "model unavailable",
		},
		{
			name:        "plain text body",
			status:      http.StatusBadGateway,
			body:        "upstream down",
			wantMessage: "upstream down",
		},
		{
			name:        "empty body",
			status:      http.StatusServiceUnavailable,
			body:        "",
			wantMessage: http.StatusText(http.StatusServiceUnavailable),
		},
		{
			name:        "success with invalid json",
			status:      http.StatusOK,
			body:        "not json",
			wantMessage: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := testutil.NewTranscriptionStub(t, tt.status, tt.body)
			path, _ := writeArtifact(t)

			client := NewClient(Config{Endpoint: stub.URL()})
			_, err := client.Send(context.Background(), path)
			if err == nil {
				t.Fatal("Send() should fail")
			}

			var serverErr *ServerError
			if !errors.As(err, &serverErr) {
				t.Fatalf("error should be *ServerError, got %T: %v", err, err)
			}
			if serverErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", serverErr.StatusCode, tt.status)
			}
			if tt.wantMessage != "" && serverErr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", serverErr.Message, tt.wantMessage)
			}
		})
	}
}

func TestClient_Send_NetworkFailure(t *testing.T) {
	stub := testutil.NewTranscriptionStub(t, http.StatusOK, map[string]string{"text": "x"})
	url := stub.URL()
	stub.Server.Close()

	path, _ := writeArtifact(t)
	client := NewClient(Config{Endpoint: url})

	_, err := client.Send(context.Background(), path)
	if !IsNetworkError(err) {
		t.Errorf("expected network error, got %T: %v", err, err)
	}
	if IsServerError(err) {
		t.Error("network failure should not be classified as a server error")
	}
}

func TestClient_Send_MissingArtifact(t *testing.T) {
	stub := testutil.NewTranscriptionStub(t, http.StatusOK, map[string]string{"text": "x"})
	client := NewClient(Config{Endpoint: stub.URL()})

	_, err := client.Send(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))

	var artifactErr *ArtifactError
	if !errors.As(err, &artifactErr) {
		t.Fatalf("expected *ArtifactError, got %T: %v", err, err)
	}
	if len(stub.Uploads()) != 0 {
		t.Error("no request should be made when the artifact cannot be read")
	}
}

func TestNewClient_NoTimeout(t *testing.T) {
	client := NewClient(DefaultConfig())
	if client.client.Timeout != 0 {
		t.Errorf("client should not time out, got %v", client.client.Timeout)
	}
	if client.Endpoint() != DefaultEndpoint {
		t.Errorf("Endpoint() = %s", client.Endpoint())
	}
}
