package align

import (
	"errors"

	"forcealign/internal/textnorm"
)

var (
	// ErrStartBeyondAudio reports a segment starting at or after the end of the audio.
	ErrStartBeyondAudio = errors.New("original start time longer than audio duration")
	// ErrBacktrackFailed reports a path that could not consume every token.
	ErrBacktrackFailed = errors.New("backtrack failed")
	// ErrNoAlignableChars reports text with no character in the vocabulary.
	ErrNoAlignableChars = textnorm.ErrNoAlignableChars

	// ErrMalformedEmission reports an empty, ragged or non-finite emission matrix.
	ErrMalformedEmission = errors.New("malformed emission matrix")
	// ErrTokenOutOfRange reports a token or blank id outside the emission width.
	ErrTokenOutOfRange = errors.New("token id outside vocabulary range")
	// ErrUnknownMethod reports an unsupported interpolation method.
	ErrUnknownMethod = errors.New("unknown interpolation method")
)

// IsSoftFailure reports whether err only means the segment keeps its
// original timing.
func IsSoftFailure(err error) bool {
	return errors.Is(err, ErrNoAlignableChars) ||
		errors.Is(err, ErrStartBeyondAudio) ||
		errors.Is(err, ErrBacktrackFailed)
}
