package application

import (
	"strings"
	"time"

	"permkit/internal/domain"
	"permkit/internal/ports"
)

// MemberReadStrategy is the reference resolution policy. Admins are allowed
// every scope in the catalog; a user holding an active role whose name
// contains "member" (case-insensitive) is allowed every read-action scope.
// Every other (role, scope) combination produces no entry at all. Consumers
// with a real role model are expected to supply their own ports.ResolverStrategy.
type MemberReadStrategy struct{}

func (MemberReadStrategy) Resolve(user domain.UserRecord, roles []domain.RoleRecord, catalog domain.PermissionCatalog) []domain.Permission {
	if user.IsAdmin {
		permissions := make([]domain.Permission, 0, len(catalog.Permissions))
		for _, scope := range catalog.Permissions {
			permissions = append(permissions, domain.Permission{Scope: scope, Effect: domain.EffectAllow})
		}
		return permissions
	}

	recordsByName := make(map[string]domain.RoleRecord, len(roles))
	for _, role := range roles {
		if _, ok := recordsByName[role.Name]; !ok {
			recordsByName[role.Name] = role
		}
	}

	allowed := map[string]bool{}
	for _, claim := range user.Roles {
		record, ok := recordsByName[claim]
		if !ok || !record.IsActive {
			continue
		}
		if strings.Contains(strings.ToLower(record.Name), "member") {
			for _, scope := range catalog.Permissions {
				if scope.Action == "read" {
					allowed[scope.ID] = true
				}
			}
		}
	}

	// Emit in catalog order so resolution stays deterministic.
	var permissions []domain.Permission
	for _, scope := range catalog.Permissions {
		if allowed[scope.ID] {
			permissions = append(permissions, domain.Permission{Scope: scope, Effect: domain.EffectAllow})
		}
	}
	return permissions
}

// PermissionResolver turns identity data and a catalog into a per-request
// decision set using a pluggable strategy.
type PermissionResolver struct {
	strategy ports.ResolverStrategy
}

// NewPermissionResolver builds a resolver. A nil strategy falls back to
// MemberReadStrategy.
func NewPermissionResolver(strategy ports.ResolverStrategy) *PermissionResolver {
	if strategy == nil {
		strategy = MemberReadStrategy{}
	}
	return &PermissionResolver{strategy: strategy}
}

// Resolve computes the caller-owned decision set for one user against one
// catalog. The result is ephemeral and must not be cached across requests.
func (r *PermissionResolver) Resolve(user domain.UserRecord, roles []domain.RoleRecord, catalog domain.PermissionCatalog) *domain.ResolvedPermissions {
	return &domain.ResolvedPermissions{
		User:        user,
		Roles:       roles,
		Permissions: r.strategy.Resolve(user, roles, catalog),
		IsAdmin:     user.IsAdmin,
		FetchedAt:   time.Now().UTC(),
	}
}
