package service

import (
	"errors"
	"fmt"

	"github.com/anoexpected/stemhub-backend/internal/authz"
)

// ErrUnauthenticated indicates the request carried no resolved actor.
var ErrUnauthenticated = errors.New("service: unauthenticated")

// ForbiddenError carries the gate's deny reason so handlers can log it
// while still returning a plain 403 to the client.
type ForbiddenError struct {
	Reason authz.Reason
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("service: forbidden (%s)", e.Reason)
}

// decisionErr converts a deny decision into the matching service error.
func decisionErr(d authz.Decision) error {
	if d.Reason == authz.ReasonUnauthenticated {
		return ErrUnauthenticated
	}
	return &ForbiddenError{Reason: d.Reason}
}
