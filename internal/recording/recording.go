package recording

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
)

// OutputPlaceholder is replaced with the artifact path in the capture command.
const OutputPlaceholder = "{output}"

var (
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
)

type Config struct {
	Command    []string
	OutputPath string
}

func DefaultConfig() Config {
	return Config{
		Command:    []string{"ffmpeg", "-y", "-f", "alsa", "-i", "plughw:0,0", OutputPlaceholder},
		OutputPath: DefaultOutputPath(),
	}
}

// DefaultOutputPath returns ~/.cache/holdtalk/recording.wav, falling back to the temp dir.
func DefaultOutputPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "holdtalk", "recording.wav")
}

// Recorder owns one external capture process at a time.
type Recorder struct {
	config Config

	mu  sync.Mutex // guards cmd
	cmd *exec.Cmd
}

func NewRecorder(config Config) *Recorder {
	return &Recorder{config: config}
}

func NewDefaultRecorder() *Recorder { return NewRecorder(DefaultConfig()) }

func (r *Recorder) OutputPath() string {
	return r.config.OutputPath
}

func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// Args returns the capture command with the output placeholder substituted.
func (r *Recorder) Args() []string {
	args := make([]string, len(r.config.Command))
	for i, a := range r.config.Command {
		args[i] = strings.ReplaceAll(a, OutputPlaceholder, r.config.OutputPath)
	}
	return args
}

// Start launches the capture process with stdout and stderr discarded.
// A failed launch leaves the recorder ready for another attempt.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	if err := r.validateConfig(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.config.OutputPath), 0o700); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	args := r.Args()
	cmd := exec.Command(args[0], args[1:]...)
	// nil stdout/stderr are connected to the null device
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", args[0], err)
	}

	log.Printf("Recording: started %s (pid %d)", args[0], cmd.Process.Pid)
	r.cmd = cmd
	return nil
}

// Stop sends SIGTERM and blocks until the process exits. There is no kill
// escalation and no timeout: a capture process that ignores SIGTERM blocks
// the caller indefinitely.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	cmd := r.cmd
	r.cmd = nil
	r.mu.Unlock()

	if cmd == nil {
		return ErrNotRecording
	}

	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Already gone; reap it so it does not linger as a zombie.
		_ = cmd.Wait()
		return fmt.Errorf("signal capture process: %w", err)
	}

	if err := normalizeWaitErr(cmd.Wait()); err != nil {
		return fmt.Errorf("wait for capture process: %w", err)
	}

	log.Printf("Recording: capture process exited")
	return nil
}

// normalizeWaitErr treats a non-zero exit as a clean stop: capture tools
// commonly exit non-zero when interrupted.
func normalizeWaitErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func (r *Recorder) validateConfig() error {
	if len(r.config.Command) == 0 || r.config.Command[0] == "" {
		return fmt.Errorf("invalid Command: empty")
	}
	if r.config.OutputPath == "" {
		return fmt.Errorf("invalid OutputPath: empty")
	}
	return nil
}
