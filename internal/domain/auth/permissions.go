package auth

import "context"

const (
	PermRequestsRead   = "requests.read"
	PermRequestsWrite  = "requests.write"
	PermRequestsReview = "requests.review"
	PermRequestsModify = "requests.modify"
	PermUsersRead      = "users.read"
	PermCalendarRead   = "calendar.read"
	PermAuditRead      = "audit.read"
)

var RolePermissions = map[string][]string{
	RoleWorker: {
		PermRequestsRead,
		PermRequestsWrite,
		PermRequestsReview,
		PermUsersRead,
		PermCalendarRead,
	},
	RoleManager: {
		PermRequestsRead,
		PermRequestsWrite,
		PermRequestsReview,
		PermRequestsModify,
		PermUsersRead,
		PermCalendarRead,
		PermAuditRead,
	},
}

// StaticPermissions resolves permissions from the code-defined role map.
// Roles here are fixed per deployment so there is no roles table to consult.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, granted := range RolePermissions[role] {
		if granted == permission {
			return true, nil
		}
	}
	return false, nil
}
