package reportflow

import (
	"errors"
	"fmt"
	"strings"

	"childguard/backend/internal/localization"
)

var (
	// ErrPermissionDenied means the user refused location access at submit time.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrWrongStep is returned when evidence is attached outside step 2.
	ErrWrongStep = errors.New("evidence can only be attached on step 2")
	// ErrReadOnlyField is returned when the user edits the profile-sourced phone.
	ErrReadOnlyField = errors.New("field is set from the reporter profile")
)

// ValidationError lists required fields left empty.
type ValidationError struct {
	Missing []Field
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + e.fieldList()
}

func (e *ValidationError) fieldList() string {
	names := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// DeviceIOError wraps a failed device call (position fix or file read).
type DeviceIOError struct {
	Op  string
	URI string
	Err error
}

func (e *DeviceIOError) Error() string {
	if e.URI != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URI, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DeviceIOError) Unwrap() error { return e.Err }

// SubmissionError wraps a transport failure or non-2xx response.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string { return "submit report: " + e.Err.Error() }

func (e *SubmissionError) Unwrap() error { return e.Err }

// UserMessage turns any error from the flow into the single message shown
// to the user.
func UserMessage(err error, l *localization.Localizer, lang string) string {
	var (
		validation *ValidationError
		deviceErr  *DeviceIOError
	)
	switch {
	case err == nil:
		return l.GetString(lang, localization.KeySubmitted)
	case errors.As(err, &validation):
		return l.Format(lang, localization.KeyMissingFields, validation.fieldList())
	case errors.Is(err, ErrPermissionDenied):
		return l.GetString(lang, localization.KeyPermissionDenied)
	case errors.As(err, &deviceErr) && deviceErr.URI != "":
		return l.GetString(lang, localization.KeyEvidenceFailed)
	case errors.As(err, &deviceErr):
		return l.GetString(lang, localization.KeyLocationFailed)
	default:
		return l.GetString(lang, localization.KeySubmitFailed)
	}
}
