package application

import "permkit/internal/domain"

// CRUDScopes generates the four conventional scopes for a resource:
// read, write, delete and admin, in that order. displayName defaults to the
// resource name when empty.
func CRUDScopes(resource, displayName string) []domain.PermissionScope {
	if displayName == "" {
		displayName = resource
	}
	return []domain.PermissionScope{
		{
			ID:          resource + ":read",
			Name:        "Read " + displayName,
			Description: "View " + displayName + " data",
			Resource:    resource,
			Action:      "read",
		},
		{
			ID:          resource + ":write",
			Name:        "Write " + displayName,
			Description: "Create and update " + displayName + " data",
			Resource:    resource,
			Action:      "write",
		},
		{
			ID:          resource + ":delete",
			Name:        "Delete " + displayName,
			Description: "Delete " + displayName + " data",
			Resource:    resource,
			Action:      "delete",
		},
		{
			ID:          resource + ":admin",
			Name:        "Admin " + displayName,
			Description: "Full administrative access to " + displayName,
			Resource:    resource,
			Action:      "admin",
		},
	}
}

// TribalScopes generates the four tribe-hierarchy scopes for a resource:
// member, officer, director and ceo, in that order. displayName defaults to
// the resource name when empty.
func TribalScopes(resource, displayName string) []domain.PermissionScope {
	if displayName == "" {
		displayName = resource
	}
	ranks := []struct {
		action string
		label  string
	}{
		{"member", "Member"},
		{"officer", "Officer"},
		{"director", "Director"},
		{"ceo", "CEO"},
	}
	scopes := make([]domain.PermissionScope, 0, len(ranks))
	for _, rank := range ranks {
		scopes = append(scopes, domain.PermissionScope{
			ID:          resource + ":" + rank.action,
			Name:        displayName + " " + rank.label,
			Description: rank.label + " access to " + displayName,
			Resource:    resource,
			Action:      rank.action,
		})
	}
	return scopes
}
