// Package authz holds the document-level authorization rules. The
// decision functions are pure: identity and resource facts in, verdict
// out, no store access.
package authz

import (
	"github.com/kavin1122/task-management/internal/model"
)

// CanModify reports whether the identity may mutate or delete a
// resource created by createdBy: admins may touch anything, everyone
// else only what they created. Tasks are deliberately not guarded by
// this rule; any authenticated identity may mutate any task.
func CanModify(id model.Identity, createdBy int64) bool {
	return id.Role == model.RoleAdmin || id.UserID == createdBy
}
