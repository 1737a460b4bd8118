package reminders

import "errors"

var (
	ErrNameRequired = errors.New("name is required")
	ErrTimeRequired = errors.New("time is required")
	ErrInvalidTime  = errors.New("invalid time, expected HH:MM")
	ErrFutureDay    = errors.New("cannot mark a medication as taken on a future day")

	ErrMedicationNotFound = errors.New("medication not found")
	ErrEventNotFound      = errors.New("event not found")

	// ErrPersist wraps save failures. The in-memory change is kept.
	ErrPersist = errors.New("failed to save reminders")
)

// IsValidation reports whether err rejects user input, as opposed to a
// missing item or a storage failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrTimeRequired) ||
		errors.Is(err, ErrInvalidTime) ||
		errors.Is(err, ErrFutureDay)
}
