package lifecycle

import (
	"errors"
	"fmt"

	"github.com/anoexpected/stemhub-backend/internal/model"
)

// ErrFeedbackRequired is returned when a rejection carries no feedback
// text. A reviewer must always explain a rejection.
var ErrFeedbackRequired = errors.New("lifecycle: rejection requires non-empty feedback")

// InvalidTransitionError is returned for any transition not defined in the
// lifecycle table. It is never a silent no-op: a disallowed transition
// means either a caller bug or a lost race against another reviewer.
type InvalidTransitionError struct {
	From model.ContentState
	To   model.ContentState
	Role model.Role
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("lifecycle: invalid transition %s -> %s (role %s)", e.From, e.To, e.Role)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
