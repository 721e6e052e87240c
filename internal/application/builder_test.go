package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"permkit/internal/domain"
)

func scope(id, resource, action string) domain.PermissionScope {
	return domain.PermissionScope{ID: id, Name: id, Resource: resource, Action: action}
}

func TestCatalogBuilder_PreservesInsertionOrder(t *testing.T) {
	catalog, err := NewCatalogBuilder("acme", "1.0.0").
		AddPermissionScope(scope("tribes:read", "tribes", "read")).
		AddPermissionScope(scope("fleet:write", "fleet", "write")).
		AddPermissionScope(scope("fleet:read", "fleet", "read")).
		Build()
	require.NoError(t, err)

	ids := make([]string, 0, len(catalog.Permissions))
	for _, s := range catalog.Permissions {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"tribes:read", "fleet:write", "fleet:read"}, ids)
	assert.False(t, catalog.LastUpdated.IsZero())
}

func TestCatalogBuilder_VersionDefaults(t *testing.T) {
	catalog, err := NewCatalogBuilder("acme", "").
		AddPermissionScope(scope("tribes:read", "tribes", "read")).
		Build()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", catalog.Version)
}

func TestCatalogBuilder_DefaultPermissionRequiresRegisteredScope(t *testing.T) {
	_, err := NewCatalogBuilder("acme", "1.0.0").
		AddDefaultPermission("tribes:read", domain.EffectAllow).
		AddPermissionScope(scope("tribes:read", "tribes", "read")).
		Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), "scope not found")
}

func TestCatalogBuilder_DefaultPermissionBindsRegisteredScope(t *testing.T) {
	registered := scope("tribes:read", "tribes", "read")
	catalog, err := NewCatalogBuilder("acme", "1.0.0").
		AddPermissionScope(registered).
		AddDefaultPermission("tribes:read", domain.EffectAllow).
		Build()
	require.NoError(t, err)
	require.Len(t, catalog.DefaultPermissions, 1)
	assert.Equal(t, registered, catalog.DefaultPermissions[0].Scope)
	assert.Equal(t, domain.EffectAllow, catalog.DefaultPermissions[0].Effect)
}

func TestCatalogBuilder_DefaultPermissionEffectDefaultsToDeny(t *testing.T) {
	catalog, err := NewCatalogBuilder("acme", "1.0.0").
		AddPermissionScope(scope("fleet:delete", "fleet", "delete")).
		AddDefaultPermission("fleet:delete", "").
		Build()
	require.NoError(t, err)
	require.Len(t, catalog.DefaultPermissions, 1)
	assert.Equal(t, domain.EffectDeny, catalog.DefaultPermissions[0].Effect)
}

func TestCatalogBuilder_DuplicateScopeFirstRegisteredWins(t *testing.T) {
	first := scope("fleet:read", "fleet", "read")
	second := first
	second.Name = "Shadowed"
	catalog, err := NewCatalogBuilder("acme", "1.0.0").
		AddPermissionScope(first).
		AddPermissionScope(second).
		AddDefaultPermission("fleet:read", domain.EffectAllow).
		Build()
	require.NoError(t, err)
	assert.Len(t, catalog.Permissions, 2)

	got, ok := catalog.ScopeByID("fleet:read")
	require.True(t, ok)
	assert.Equal(t, first, got)
	assert.Equal(t, first, catalog.DefaultPermissions[0].Scope)
}

func TestCatalogBuilder_BuildValidation(t *testing.T) {
	_, err := NewCatalogBuilder("", "1.0.0").
		AddPermissionScope(scope("tribes:read", "tribes", "read")).
		Build()
	require.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), "application name")

	_, err = NewCatalogBuilder("acme", "1.0.0").Build()
	require.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), "at least one permission scope")
}

func TestCatalogBuilder_FrozenAfterBuild(t *testing.T) {
	b := NewCatalogBuilder("acme", "1.0.0").
		AddPermissionScope(scope("tribes:read", "tribes", "read"))
	_, err := b.Build()
	require.NoError(t, err)

	_, err = b.Build()
	require.ErrorIs(t, err, domain.ErrConfig)
	assert.Contains(t, err.Error(), "already built")
}
