package whisper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

const DefaultBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// ProgressFunc is called during download with bytes downloaded and total
type ProgressFunc func(downloaded, total uint64)

// Store manages downloaded checkpoints in one directory.
type Store struct {
	Dir     string
	BaseURL string
	Client  *http.Client
}

// DefaultDir returns $XDG_DATA_HOME/holdtalk/models, or ~/.local/share/holdtalk/models.
func DefaultDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "holdtalk", "models"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "holdtalk", "models"), nil
}

func DefaultStore() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get models directory: %w", err)
	}
	return &Store{Dir: dir, BaseURL: DefaultBaseURL}, nil
}

// Path returns where the model is (or would be) stored.
func (s *Store) Path(id string) (string, error) {
	m, ok := Lookup(id)
	if !ok {
		return "", fmt.Errorf("unknown model: %s", id)
	}
	return filepath.Join(s.Dir, m.Filename), nil
}

func (s *Store) Installed(id string) bool {
	path, err := s.Path(id)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}

func (s *Store) ListInstalled() []string {
	var installed []string
	for _, m := range models {
		if s.Installed(m.ID) {
			installed = append(installed, m.ID)
		}
	}
	return installed
}

// Download fetches the model into a temp file and renames it into place
// once complete, so a cancelled download never looks installed.
func (s *Store) Download(ctx context.Context, id string, onProgress ProgressFunc) error {
	m, ok := Lookup(id)
	if !ok {
		return fmt.Errorf("unknown model: %s", id)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create models directory: %w", err)
	}

	destPath := filepath.Join(s.Dir, m.Filename)
	tempPath := destPath + ".downloading"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL()+"/"+m.Filename, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client().Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %s", resp.Status)
	}

	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempPath) // no-op after a successful rename

	total := m.SizeBytes
	if resp.ContentLength > 0 {
		total = uint64(resp.ContentLength)
	}
	var body io.Reader = resp.Body
	if onProgress != nil {
		body = io.TeeReader(resp.Body, &progressWriter{total: total, fn: onProgress})
	}

	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		return fmt.Errorf("failed to download %s after %s: %w", id, humanize.Bytes(fileSize(tempPath)), err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		return fmt.Errorf("failed to finalize download: %w", err)
	}
	return nil
}

func (s *Store) Remove(id string) error {
	path, err := s.Path(id)
	if err != nil {
		return err
	}
	if !s.Installed(id) {
		return fmt.Errorf("model not installed: %s", id)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove model: %w", err)
	}
	return nil
}

func (s *Store) baseURL() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return DefaultBaseURL
}

func (s *Store) client() *http.Client {
	if s.Client != nil {
		return s.Client
	}
	return http.DefaultClient
}

// SizeLabel renders a model size like "466 MB".
func SizeLabel(m Model) string {
	return humanize.Bytes(m.SizeBytes)
}

type progressWriter struct {
	done  uint64
	total uint64
	fn    ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.done += uint64(len(b))
	p.fn(p.done, p.total)
	return len(b), nil
}

func fileSize(path string) uint64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return uint64(info.Size())
}
