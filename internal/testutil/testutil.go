package testutil

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// EncodeWAV wraps raw 16-bit PCM in a WAV container.
func EncodeWAV(pcm []byte, sampleRate, channels int) []byte {
	var buf bytes.Buffer

	const bitsPerSample = 16
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// WriteWAV writes a silent mono 16 kHz clip of the given length into dir and returns its path.
func WriteWAV(t *testing.T, dir string, seconds float64) string {
	t.Helper()

	const sampleRate = 16000
	frames := int(seconds * sampleRate)
	pcm := make([]byte, frames*2)

	path := filepath.Join(dir, "clip.wav")
	if err := os.WriteFile(path, EncodeWAV(pcm, sampleRate, 1), 0o600); err != nil {
		t.Fatalf("failed to write wav: %v", err)
	}
	return path
}

// Upload is one request received by a TranscriptionStub.
type Upload struct {
	FileName string
	Data     []byte
}

// TranscriptionStub is an httptest server speaking the transcription wire contract.
type TranscriptionStub struct {
	Server *httptest.Server

	mu      sync.Mutex
	status  int
	body    any
	uploads []Upload
}

// NewTranscriptionStub starts a stub that answers every upload with status and a JSON body.
func NewTranscriptionStub(t *testing.T, status int, body any) *TranscriptionStub {
	t.Helper()

	s := &TranscriptionStub{status: status, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Server.Close)
	return s
}

func (s *TranscriptionStub) URL() string {
	return s.Server.URL + "/transcribe/"
}

func (s *TranscriptionStub) Uploads() []Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Upload, len(s.uploads))
	copy(out, s.uploads)
	return out
}

func (s *TranscriptionStub) handle(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, _ := io.ReadAll(file)

	s.mu.Lock()
	s.uploads = append(s.uploads, Upload{FileName: header.Filename, Data: data})
	status, body := s.status, s.body
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if raw, ok := body.(string); ok {
		io.WriteString(w, raw)
		return
	}
	json.NewEncoder(w).Encode(body)
}
