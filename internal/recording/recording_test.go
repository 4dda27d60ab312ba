package recording

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// waitScript ignores nothing: it exits cleanly on SIGTERM.
const waitScript = `trap 'exit 0' TERM; while :; do sleep 0.05; done`

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	t.Run("default values", func(t *testing.T) {
		want := []string{"ffmpeg", "-y", "-f", "alsa", "-i", "plughw:0,0", OutputPlaceholder}
		if !reflect.DeepEqual(config.Command, want) {
			t.Errorf("default command = %v, want %v", config.Command, want)
		}
		if filepath.Base(config.OutputPath) != "recording.wav" {
			t.Errorf("default output should end in recording.wav, got %s", config.OutputPath)
		}
	})
}

func TestRecorderArgs(t *testing.T) {
	recorder := NewRecorder(Config{
		Command:    []string{"ffmpeg", "-y", "-i", "default", OutputPlaceholder},
		OutputPath: "/tmp/out.wav",
	})

	want := []string{"ffmpeg", "-y", "-i", "default", "/tmp/out.wav"}
	if got := recorder.Args(); !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestRecorderLifecycle(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "nested", "out.wav")

	recorder := NewRecorder(Config{
		Command:    []string{"sh", "-c", `printf x > "$0"; ` + waitScript, OutputPlaceholder},
		OutputPath: output,
	})

	if recorder.IsRecording() {
		t.Fatal("recorder should not be recording initially")
	}

	if err := recorder.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !recorder.IsRecording() {
		t.Error("recorder should be recording after Start")
	}

	if err := recorder.Start(); !errors.Is(err, ErrAlreadyRecording) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRecording", err)
	}

	// give the script time to write the artifact
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(output); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("capture command never wrote the output file")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := recorder.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if recorder.IsRecording() {
		t.Error("recorder should not be recording after Stop")
	}

	if err := recorder.Start(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if err := recorder.Stop(); err != nil {
		t.Fatalf("second Stop() failed: %v", err)
	}
}

func TestRecorderErrorConditions(t *testing.T) {
	t.Run("stop without start", func(t *testing.T) {
		recorder := NewRecorder(Config{Command: []string{"true"}, OutputPath: filepath.Join(t.TempDir(), "a.wav")})
		if err := recorder.Stop(); !errors.Is(err, ErrNotRecording) {
			t.Errorf("Stop() error = %v, want ErrNotRecording", err)
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		recorder := NewRecorder(Config{
			Command:    []string{"holdtalk-no-such-binary", OutputPlaceholder},
			OutputPath: filepath.Join(t.TempDir(), "a.wav"),
		})
		if err := recorder.Start(); err == nil {
			t.Fatal("Start() should fail for a missing binary")
		}
		if recorder.IsRecording() {
			t.Error("failed Start should leave the recorder idle")
		}
	})

	t.Run("empty command", func(t *testing.T) {
		recorder := NewRecorder(Config{OutputPath: filepath.Join(t.TempDir(), "a.wav")})
		if err := recorder.Start(); err == nil {
			t.Error("Start() should fail with an empty command")
		}
	})

	t.Run("empty output path", func(t *testing.T) {
		recorder := NewRecorder(Config{Command: []string{"true"}})
		if err := recorder.Start(); err == nil {
			t.Error("Start() should fail with an empty output path")
		}
	})

	t.Run("non-zero exit on stop is clean", func(t *testing.T) {
		recorder := NewRecorder(Config{
			Command:    []string{"sh", "-c", `trap 'exit 255' TERM; while :; do sleep 0.05; done`},
			OutputPath: filepath.Join(t.TempDir(), "a.wav"),
		})
		if err := recorder.Start(); err != nil {
			t.Fatalf("Start() failed: %v", err)
		}
		if err := recorder.Stop(); err != nil {
			t.Errorf("Stop() should treat an exit status as a clean stop, got %v", err)
		}
	})
}
