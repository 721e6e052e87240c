package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permkit/internal/domain"
)

func fleetCatalog(t *testing.T) domain.PermissionCatalog {
	t.Helper()
	catalog, err := NewCatalogBuilder("acme", "1.0.0").
		AddPermissionScope(scope("fleet:read", "fleet", "read")).
		AddPermissionScope(scope("fleet:write", "fleet", "write")).
		Build()
	require.NoError(t, err)
	return catalog
}

func activeRole(name string) domain.RoleRecord {
	return domain.RoleRecord{ID: 1, Name: name, CreatedBy: "ops", IsActive: true}
}

func TestResolve_AdminAllowsEveryScope(t *testing.T) {
	catalog, err := NewCatalogBuilder("acme", "1.0.0").
		AddPermissionScopes(CRUDScopes("fleet", "")).
		AddPermissionScopes(TribalScopes("tribes", "")).
		Build()
	require.NoError(t, err)

	resolver := NewPermissionResolver(nil)
	resolved := resolver.Resolve(
		domain.UserRecord{EthAddress: "0xabc", IsAdmin: true, Roles: []string{"whatever"}},
		nil,
		catalog,
	)

	require.Len(t, resolved.Permissions, len(catalog.Permissions))
	for i, p := range resolved.Permissions {
		assert.Equal(t, catalog.Permissions[i], p.Scope)
		assert.Equal(t, domain.EffectAllow, p.Effect)
	}
	assert.True(t, resolved.Admin())
}

func TestResolve_MemberRoleIsReadOnly(t *testing.T) {
	catalog := fleetCatalog(t)
	resolver := NewPermissionResolver(nil)

	resolved := resolver.Resolve(
		domain.UserRecord{EthAddress: "0xabc", Roles: []string{"Fleet Member"}},
		[]domain.RoleRecord{activeRole("Fleet Member")},
		catalog,
	)

	require.Len(t, resolved.Permissions, 1)
	assert.Equal(t, "fleet:read", resolved.Permissions[0].Scope.ID)
	assert.Equal(t, domain.EffectAllow, resolved.Permissions[0].Effect)
	assert.True(t, resolved.HasPermission("fleet:read", domain.EffectAllow))
	assert.False(t, resolved.HasPermission("fleet:write", domain.EffectAllow))
}

func TestResolve_MemberMatchIsCaseInsensitive(t *testing.T) {
	catalog := fleetCatalog(t)
	resolver := NewPermissionResolver(nil)

	resolved := resolver.Resolve(
		domain.UserRecord{EthAddress: "0xabc", Roles: []string{"FLEET MEMBERS"}},
		[]domain.RoleRecord{activeRole("FLEET MEMBERS")},
		catalog,
	)
	assert.True(t, resolved.HasPermission("fleet:read", domain.EffectAllow))
}

func TestResolve_InactiveRoleGrantsNothing(t *testing.T) {
	catalog := fleetCatalog(t)
	resolver := NewPermissionResolver(nil)

	role := activeRole("Fleet Member")
	role.IsActive = false
	resolved := resolver.Resolve(
		domain.UserRecord{EthAddress: "0xabc", Roles: []string{"Fleet Member"}},
		[]domain.RoleRecord{role},
		catalog,
	)

	assert.Empty(t, resolved.Permissions)
	assert.False(t, resolved.HasPermission("fleet:read", domain.EffectAllow))
	// The claim itself is unaffected by the active flag.
	assert.True(t, resolved.HasRole("Fleet Member"))
}

func TestResolve_UnknownClaimIsSkipped(t *testing.T) {
	catalog := fleetCatalog(t)
	resolver := NewPermissionResolver(nil)

	resolved := resolver.Resolve(
		domain.UserRecord{EthAddress: "0xabc", Roles: []string{"Fleet Member"}},
		[]domain.RoleRecord{activeRole("Logistics Member")},
		catalog,
	)
	assert.Empty(t, resolved.Permissions)
}

func TestResolve_NonMemberRoleProducesNoEntries(t *testing.T) {
	catalog := fleetCatalog(t)
	resolver := NewPermissionResolver(nil)

	resolved := resolver.Resolve(
		domain.UserRecord{EthAddress: "0xabc", Roles: []string{"Fleet Director"}},
		[]domain.RoleRecord{activeRole("Fleet Director")},
		catalog,
	)
	assert.Empty(t, resolved.Permissions)
}

func TestResolve_MultipleMemberRolesDoNotDuplicate(t *testing.T) {
	catalog := fleetCatalog(t)
	resolver := NewPermissionResolver(nil)

	resolved := resolver.Resolve(
		domain.UserRecord{EthAddress: "0xabc", Roles: []string{"Fleet Member", "Tribe Member"}},
		[]domain.RoleRecord{activeRole("Fleet Member"), activeRole("Tribe Member")},
		catalog,
	)
	require.Len(t, resolved.Permissions, 1)
	assert.Equal(t, "fleet:read", resolved.Permissions[0].Scope.ID)
}

type allowAllStrategy struct{}

func (allowAllStrategy) Resolve(_ domain.UserRecord, _ []domain.RoleRecord, catalog domain.PermissionCatalog) []domain.Permission {
	out := make([]domain.Permission, 0, len(catalog.Permissions))
	for _, s := range catalog.Permissions {
		out = append(out, domain.Permission{Scope: s, Effect: domain.EffectAllow})
	}
	return out
}

func TestResolver_CustomStrategy(t *testing.T) {
	catalog := fleetCatalog(t)
	resolver := NewPermissionResolver(allowAllStrategy{})

	resolved := resolver.Resolve(domain.UserRecord{EthAddress: "0xabc"}, nil, catalog)
	assert.Len(t, resolved.Permissions, 2)
	assert.False(t, resolved.FetchedAt.IsZero())
}
