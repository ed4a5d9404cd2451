package session

import "errors"

var (
	// ErrNoContentConfigured is reported when a start is attempted with
	// neither explicit nor default content
	ErrNoContentConfigured = errors.New("pip: no content configured")

	// ErrPlatformUnsupported is advisory: the device cannot do PiP.
	// Detected once at construction; later operations still run and fail
	// at the platform layer.
	ErrPlatformUnsupported = errors.New("pip: platform does not support picture-in-picture")

	// ErrStartTimedOut is reported when the start-possible predicate
	// never became true within the retry budget
	ErrStartTimedOut = errors.New("pip: start retries exhausted")

	// ErrAnchorTimedOut is reported when the anchor view never acquired
	// a window within the retry budget
	ErrAnchorTimedOut = errors.New("pip: anchor attach retries exhausted")

	// ErrRestoreInProgress guards stop during a restore negotiation
	ErrRestoreInProgress = errors.New("pip: restore negotiation in progress")
)
