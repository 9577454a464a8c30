package meetings

import "github.com/pkg/errors"

type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindForbidden
)

// Error is a failure that is reported to the invoking user only.
// TextID points into the i18n catalogue.
type Error struct {
	Kind   ErrorKind
	Reason string
	TextID string
}

func (e *Error) Error() string {
	return e.Reason
}

var (
	ErrInvalidDateTime = &Error{KindValidation, "invalid date or time", "plugins.meetings.errors.invalid-datetime"}
	ErrNotInFuture     = &Error{KindValidation, "meeting date is not in the future", "plugins.meetings.errors.not-in-future"}
	ErrNoParticipants  = &Error{KindValidation, "no participants mentioned", "plugins.meetings.errors.no-participants"}
	ErrInvalidInput    = &Error{KindValidation, "title or agenda is empty", "plugins.meetings.errors.invalid-input"}
	ErrNotFound        = &Error{KindNotFound, "meeting not found", "plugins.meetings.errors.not-found"}
	ErrForbidden       = &Error{KindForbidden, "not allowed to cancel this meeting", "plugins.meetings.errors.forbidden-cancel"}
	ErrScheduleDenied  = &Error{KindForbidden, "not allowed to schedule meetings", "plugins.meetings.errors.forbidden-schedule"}
)

// IsNotFound reports whether err means the meeting does not exist
func IsNotFound(err error) bool {
	var meetingErr *Error
	return errors.As(err, &meetingErr) && meetingErr.Kind == KindNotFound
}
