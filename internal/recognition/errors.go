package recognition

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInsecureTransport Kind = "insecure_transport"
	KindService           Kind = "service"
	KindNotABuilding      Kind = "not_a_building"
	KindLandmarkNotFound  Kind = "landmark_not_found"
)

// Error is a terminal identification failure. Use errors.Is with the
// package sentinels to match on Kind.
type Error struct {
	Kind  Kind
	Stage Stage
	Label string
	Err   error
}

var (
	ErrInsecureTransport = &Error{Kind: KindInsecureTransport}
	ErrService           = &Error{Kind: KindService}
	ErrNotABuilding      = &Error{Kind: KindNotABuilding}
	ErrLandmarkNotFound  = &Error{Kind: KindLandmarkNotFound}

	ErrEmptyImage = errors.New("captured image is empty")
)

func (e *Error) Error() string {
	msg := "identify: " + string(e.Kind)
	if e.Stage != "" {
		msg += " at " + string(e.Stage)
	}
	if e.Label != "" {
		msg += fmt.Sprintf(" (label %q)", e.Label)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf returns the failure kind of err, or "" when err is not an
// identification failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
