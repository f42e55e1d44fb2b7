package authz

import "github.com/anoexpected/stemhub-backend/internal/model"

// Reason classifies why a request was allowed or denied.
type Reason string

const (
	ReasonAllowed          Reason = "ALLOWED"
	ReasonUnauthenticated  Reason = "UNAUTHENTICATED"
	ReasonInsufficientRole Reason = "INSUFFICIENT_ROLE"
	ReasonNotOwner         Reason = "NOT_OWNER"
)

// Decision is the ephemeral result of an authorization check. It is never
// persisted; callers map it to a transport status (401/403) and log the
// reason.
type Decision struct {
	Allowed bool
	Reason  Reason
}

var (
	allow = Decision{Allowed: true, Reason: ReasonAllowed}
)

func deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Gate is the enforcement point for role and ownership checks. It holds
// an immutable permission table injected at startup so tests can swap in
// alternate tables without touching shared state.
type Gate struct {
	table *PermissionTable
}

// NewGate creates a Gate over the given permission table.
func NewGate(table *PermissionTable) *Gate {
	return &Gate{table: table}
}

// Authorize decides whether the actor may perform the action, optionally
// against a specific content item. Checks run in order: authentication,
// role validity, coarse permission, then ownership for ownership-scoped
// actions. A malformed role on the actor record is returned as an
// UnknownRoleError rather than folded into a deny decision.
func (g *Gate) Authorize(actor *model.Actor, action Action, item *model.ContentItem) (Decision, error) {
	if actor == nil {
		return deny(ReasonUnauthenticated), nil
	}

	if !actor.Role.Valid() {
		return deny(ReasonInsufficientRole), &model.UnknownRoleError{Role: actor.Role}
	}

	if !g.table.Allows(actor.Role, action) {
		return deny(ReasonInsufficientRole), nil
	}

	if item != nil && OwnershipScoped(action) && !CanMutate(actor, item) {
		return deny(ReasonNotOwner), nil
	}

	return allow, nil
}
