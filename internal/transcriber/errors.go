package transcriber

import (
	"errors"
	"fmt"
)

// ArtifactError means the recording could not be read before upload.
type ArtifactError struct {
	Path string
	Err  error
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("read artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactError) Unwrap() error { return e.Err }

// NetworkError covers request construction and transport failures.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	if e == nil || e.Err == nil {
		return "transcription request failed"
	}
	return "transcription request failed: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ServerError is a non-2xx status or an unreadable success body.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("transcription service status %d: %s", e.StatusCode, e.Message)
}

func IsServerError(err error) bool {
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}

func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
