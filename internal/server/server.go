package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultAddr     = ":8000"
	DefaultPath     = "/transcribe/"
	DefaultLanguage = "zh"

	maxUploadMemory = 32 << 20
)

// Server accepts audio uploads and answers with the transcribed text.
// Every failure is reported as HTTP 500 with an "error" field.
type Server struct {
	path       string
	settings   func() Settings
	newBackend func(Settings) (Backend, error)
	converters *converters
	tempDir    string
}

// New builds a server whose backend settings are read on every request, so a
// reloaded configuration applies without a restart.
func New(path string, settings func() Settings) *Server {
	if path == "" {
		path = DefaultPath
	}
	return &Server{
		path:       path,
		settings:   settings,
		newBackend: NewBackend,
		converters: newConverters(),
		tempDir:    os.TempDir(),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+s.path, s.handleTranscribe)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok\n")
	})
	return mux
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	start := time.Now()

	text, err := s.transcribe(r, id)
	if err != nil {
		log.Printf("Server: request %s failed: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	log.Printf("Server: request %s transcribed in %v", id, time.Since(start).Round(time.Millisecond))
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) transcribe(r *http.Request, id string) (string, error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return "", fmt.Errorf("parse upload: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", fmt.Errorf("missing file field: %w", err)
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = ".wav"
	}
	tmpPath := filepath.Join(s.tempDir, "holdtalk-"+id+ext)

	if err := writeTemp(tmpPath, file); err != nil {
		return "", err
	}
	defer os.Remove(tmpPath)

	settings := s.settings()
	backend, err := s.newBackend(settings)
	if err != nil {
		return "", err
	}
	text, err := backend.Transcribe(r.Context(), tmpPath)
	if err != nil {
		return "", err
	}
	return s.converters.apply(settings.Convert, text)
}

func writeTemp(path string, src io.Reader) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	return f.Close()
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Server: failed to write response: %v", err)
	}
}

// ListenAndServe serves h on addr until ctx is done, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: h,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http listen and serve: %w", err)
		}
	}()

	log.Printf("Server: listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("Server: shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}
