// Package authz implements the authorization core: a static permission
// table over role sets, a per-item ownership policy and a pure decision
// gate. It performs no I/O; callers load the actor and target item first
// and map the decision to a transport response.
package authz

// Action is a string code for a category of operation a caller may attempt.
type Action string

const (
	// ActionAccessContent allows reading published notes, quizzes and
	// past papers. Granted to every role.
	ActionAccessContent Action = "content:access"

	// ActionCreateContent allows creating new draft content.
	ActionCreateContent Action = "content:create"

	// ActionEditOwnContent allows editing and submitting one's own drafts.
	// Ownership-scoped: the gate additionally requires CanMutate.
	ActionEditOwnContent Action = "content:edit_own"

	// ActionReviewContent allows approving or rejecting pending content.
	ActionReviewContent Action = "content:review"

	// ActionViewReviewQueue allows listing pending submissions and
	// subscribing to the review event stream.
	ActionViewReviewQueue Action = "review:queue"

	// ActionManageCurriculum allows writing exam boards, subjects and topics.
	ActionManageCurriculum Action = "curriculum:manage"

	// ActionManageUsers allows listing users and changing their roles.
	ActionManageUsers Action = "users:manage"
)

// AllActions is a slice of all defined actions.
var AllActions = []Action{
	ActionAccessContent,
	ActionCreateContent,
	ActionEditOwnContent,
	ActionReviewContent,
	ActionViewReviewQueue,
	ActionManageCurriculum,
	ActionManageUsers,
}

// ownershipScoped marks actions whose item-level check must also pass.
var ownershipScoped = map[Action]bool{
	ActionEditOwnContent: true,
}

// OwnershipScoped reports whether the action requires the ownership policy
// to be evaluated in addition to the role check.
func OwnershipScoped(action Action) bool {
	return ownershipScoped[action]
}
