package server

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/holdtalk/holdtalk/internal/language"
	"github.com/sashabaranov/go-openai"
)

// Settings selects and configures the transcription backend.
type Settings struct {
	Backend       string // "openai" or "whisper-cpp"
	Model         string
	Language      string
	APIKey        string
	BaseURL       string // OpenAI-compatible API root, empty for api.openai.com
	WhisperBinary string
	ModelPath     string
	Threads       int
	Convert       string // OpenCC conversion applied to every transcript, empty for none
}

// Backend turns an audio file into text.
type Backend interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

func NewBackend(s Settings) (Backend, error) {
	switch s.Backend {
	case "openai":
		return NewOpenAIBackend(s), nil
	case "whisper-cpp":
		return NewWhisperCppBackend(s), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", s.Backend)
	}
}

// OpenAIBackend calls the audio transcription endpoint of an OpenAI-compatible API.
type OpenAIBackend struct {
	client   *openai.Client
	model    string
	language string
}

func NewOpenAIBackend(s Settings) *OpenAIBackend {
	cfg := openai.DefaultConfig(s.APIKey)
	if s.BaseURL != "" {
		cfg.BaseURL = s.BaseURL
	}
	model := s.Model
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIBackend{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		language: s.Language,
	}
}

func (b *OpenAIBackend) Transcribe(ctx context.Context, path string) (string, error) {
	req := openai.AudioRequest{
		Model:    b.model,
		FilePath: path,
		Language: b.language,
	}

	start := time.Now()
	resp, err := b.client.CreateTranscription(ctx, req)
	duration := time.Since(start)

	if err != nil {
		log.Printf("openai-backend: API call failed after %v: %v", duration, err)
		return "", fmt.Errorf("openai transcription: %w", err)
	}

	log.Printf("openai-backend: transcribed %s in %v: %q", path, duration, resp.Text)
	return resp.Text, nil
}

// WhisperCppBackend runs a local whisper.cpp binary.
type WhisperCppBackend struct {
	binary    string
	modelPath string
	language  string
	threads   int
}

func NewWhisperCppBackend(s Settings) *WhisperCppBackend {
	binary := s.WhisperBinary
	if binary == "" {
		binary = "whisper-cli"
	}
	return &WhisperCppBackend{
		binary:    binary,
		modelPath: s.ModelPath,
		language:  s.Language,
		threads:   s.Threads,
	}
}

func (b *WhisperCppBackend) args(path string) []string {
	args := []string{
		"-m", b.modelPath,
		"-l", language.ForBackend(b.language, "whisper-cpp"),
		"-nt", // no timestamps
		"-np", // no progress
		"-f", path,
	}
	if b.threads > 0 {
		args = append(args, "-t", strconv.Itoa(b.threads))
	}
	return args
}

func (b *WhisperCppBackend) Transcribe(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(b.modelPath); err != nil {
		return "", fmt.Errorf("model file not found: %s", b.modelPath)
	}

	binPath, err := exec.LookPath(b.binary)
	if err != nil {
		return "", fmt.Errorf("%s not found: install whisper.cpp first", b.binary)
	}

	cmd := exec.CommandContext(ctx, binPath, b.args(path)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Printf("whisper-cpp: command failed after %v: %v\nstderr: %s", duration, err, stderr.String())
		return "", fmt.Errorf("%s failed: %w", b.binary, err)
	}

	// with -nt the transcription is printed as plain text
	text := strings.TrimSpace(stdout.String())

	log.Printf("whisper-cpp: transcribed %s in %v: %q", path, duration, text)
	return text, nil
}
