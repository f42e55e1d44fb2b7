package authz

import "github.com/anoexpected/stemhub-backend/internal/model"

// PermissionTable maps each action to the set of roles allowed to perform
// it. The table is built once at startup and never mutated; role sets are
// explicit rather than minimum thresholds because not every action is
// monotonic in the role order.
type PermissionTable struct {
	allowed map[Action]map[model.Role]struct{}
}

// NewPermissionTable builds an immutable table from explicit role sets.
func NewPermissionTable(grants map[Action][]model.Role) *PermissionTable {
	allowed := make(map[Action]map[model.Role]struct{}, len(grants))
	for action, roles := range grants {
		set := make(map[model.Role]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		allowed[action] = set
	}
	return &PermissionTable{allowed: allowed}
}

// DefaultTable returns the production permission table.
func DefaultTable() *PermissionTable {
	return NewPermissionTable(map[Action][]model.Role{
		ActionAccessContent:    {model.RoleStudent, model.RoleContributor, model.RoleAdmin},
		ActionCreateContent:    {model.RoleContributor, model.RoleAdmin},
		ActionEditOwnContent:   {model.RoleContributor, model.RoleAdmin},
		ActionReviewContent:    {model.RoleAdmin},
		ActionViewReviewQueue:  {model.RoleAdmin},
		ActionManageCurriculum: {model.RoleAdmin},
		ActionManageUsers:      {model.RoleAdmin},
	})
}

// Allows reports whether the role is in the allowed set for the action.
// Unknown actions allow nothing.
func (t *PermissionTable) Allows(role model.Role, action Action) bool {
	set, ok := t.allowed[action]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// Actions returns every action the table knows about.
func (t *PermissionTable) Actions() []Action {
	actions := make([]Action, 0, len(t.allowed))
	for a := range t.allowed {
		actions = append(actions, a)
	}
	return actions
}
