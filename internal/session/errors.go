package session

import (
	"errors"
	"fmt"

	"github.com/holdtalk/holdtalk/internal/injection"
	"github.com/holdtalk/holdtalk/internal/transcriber"
)

// Kind classifies a failure inside one dictation cycle.
type Kind string

const (
	CaptureStartFailure   Kind = "capture_start"
	CaptureStopFailure    Kind = "capture_stop"
	DurationReadFailure   Kind = "duration_read"
	ArtifactReadFailure   Kind = "artifact_read"
	NetworkFailure        Kind = "network"
	ServerFailure         Kind = "server"
	ClipboardReadFailure  Kind = "clipboard_read"
	ClipboardWriteFailure Kind = "clipboard_write"
	PasteFailure          Kind = "paste"
	CleanupFailure        Kind = "cleanup"
)

// Error is a classified session failure. None of them are fatal; the session
// reports the error and returns to idle.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failure: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}

func classifySend(err error) *Error {
	var artifactErr *transcriber.ArtifactError
	switch {
	case errors.As(err, &artifactErr):
		return newError(ArtifactReadFailure, err)
	case transcriber.IsNetworkError(err):
		return newError(NetworkFailure, err)
	default:
		return newError(ServerFailure, err)
	}
}

var stepKinds = map[injection.Step]Kind{
	injection.StepClipboardRead:    ClipboardReadFailure,
	injection.StepClipboardWrite:   ClipboardWriteFailure,
	injection.StepPaste:            PasteFailure,
	injection.StepClipboardRestore: ClipboardWriteFailure,
}

// pasteLanded reports whether an injection error left the paste itself intact,
// i.e. only the clipboard read or restore failed.
func pasteLanded(err error) bool {
	if err == nil {
		return true
	}
	parts := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts = joined.Unwrap()
	}
	for _, part := range parts {
		var stepErr *injection.StepError
		if !errors.As(part, &stepErr) {
			return false
		}
		if stepErr.Step == injection.StepClipboardWrite || stepErr.Step == injection.StepPaste {
			return false
		}
	}
	return true
}

// classifyInject splits a joined injection error into one *Error per failed step.
func classifyInject(err error) []*Error {
	if err == nil {
		return nil
	}

	parts := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts = joined.Unwrap()
	}

	out := make([]*Error, 0, len(parts))
	for _, part := range parts {
		kind := PasteFailure
		var stepErr *injection.StepError
		if errors.As(part, &stepErr) {
			if k, ok := stepKinds[stepErr.Step]; ok {
				kind = k
			}
		}
		out = append(out, newError(kind, part))
	}
	return out
}
