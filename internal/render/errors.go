package render

import (
	"errors"
	"fmt"
)

// Sentinel errors for unrecoverable configuration/input faults. Callers
// distinguish them with errors.Is.
var (
	// ErrEmptyScript means the script had no usable text after filtering
	// blank lines. No filesystem or subprocess work happens in this case.
	ErrEmptyScript = errors.New("script has no usable text")

	// ErrEncoderNotFound means no ffmpeg binary could be resolved on this
	// host. Raised at startup, before any render is attempted.
	ErrEncoderNotFound = errors.New("ffmpeg binary not found")

	// ErrBackgroundMissing means no background asset is configured and the
	// generated-color fallback is disabled.
	ErrBackgroundMissing = errors.New("no usable background asset configured")
)

// SynthesisError wraps a failure from the speech-synthesis provider.
// Fatal per render; the caller layer may choose to retry.
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("speech synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// EncodeError carries the encoder's captured stderr so an operator can tell
// bad input from a bad environment.
type EncodeError struct {
	Stderr string
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("ffmpeg encode failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("ffmpeg encode failed: %v", e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// PublishError wraps a storage upload failure. Local temp files are still
// cleaned up when this is returned.
type PublishError struct {
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("video upload failed: %v", e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
