// Package authz centralizes the ownership predicate that used to be
// duplicated inline at every mutation call site.
package authz

import "lapak/internal/models"

// CanModify reports whether an actor may mutate a resource owned by
// ownerID. Admins may mutate anything; everyone else only what they own.
func CanModify(actorRole, actorID, ownerID string) bool {
	if actorRole == models.RoleAdmin {
		return true
	}
	return actorID != "" && actorID == ownerID
}
