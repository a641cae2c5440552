package wav

import "errors"

var (
	// ErrUnsupportedFormat is returned for files that are not WAV by
	// extension, or WAV files with an encoding this package cannot play.
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	// ErrNotWAV is returned when the RIFF/WAVE header is missing or broken.
	ErrNotWAV = errors.New("not a WAV file")
	// ErrEmptyData is returned when the data chunk holds no samples.
	ErrEmptyData = errors.New("WAV file has no audio data")
)
