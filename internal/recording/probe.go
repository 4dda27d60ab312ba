package recording

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

var ErrInvalidArtifact = errors.New("invalid audio artifact")

// ProbeDuration returns the length in seconds of the WAV file at path,
// computed as frames / sample rate. Any error means the duration is unavailable.
func ProbeDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if err := d.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if d.PCMChunk == nil {
		return 0, fmt.Errorf("%w: no data chunk", ErrInvalidArtifact)
	}

	frameSize := int(d.NumChans) * int(d.BitDepth) / 8
	if d.SampleRate == 0 || frameSize == 0 {
		return 0, fmt.Errorf("%w: rate=%d channels=%d depth=%d",
			ErrInvalidArtifact, d.SampleRate, d.NumChans, d.BitDepth)
	}

	frames := d.PCMSize / frameSize
	return float64(frames) / float64(d.SampleRate), nil
}
