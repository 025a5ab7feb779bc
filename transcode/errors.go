package transcode

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches every *DecodeError via errors.Is
	ErrDecode = errors.New("audio decode failed")

	ErrEmptyInput    = errors.New("empty audio data")
	ErrUnknownFormat = errors.New("unrecognized audio format")
	ErrNoAudio       = errors.New("stream holds no audio frames")
)

// DecodeError reports a failure to turn encoded bytes into PCM
type DecodeError struct {
	Format Format
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" || e.Format == FormatUnknown {
		return fmt.Sprintf("decode: %v", e.Err)
	}
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDecode) hold for any DecodeError
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func decodeErr(format Format, err error) error {
	return &DecodeError{Format: format, Err: err}
}
