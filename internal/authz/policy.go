package authz

import "github.com/anoexpected/stemhub-backend/internal/model"

// CanMutate is the per-item ownership policy: an admin may mutate any
// item; a contributor may mutate only items they own. Students and
// non-owning contributors may mutate nothing. This check is evaluated in
// addition to the coarse permission check, never instead of it.
func CanMutate(actor *model.Actor, item *model.ContentItem) bool {
	if actor == nil || item == nil {
		return false
	}
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleContributor:
		return actor.ID == item.OwnerID
	default:
		return false
	}
}
