package application

import (
	"fmt"
	"time"

	"permkit/internal/domain"
)

// CatalogBuilder stages scope declarations and default-permission bindings,
// then finalizes them into an immutable domain.PermissionCatalog. Methods are
// chainable; the first staging error is kept and reported by Build, which is
// where all validation happens. After a successful Build the builder is
// frozen and any further use is a config error.
type CatalogBuilder struct {
	applicationName string
	version         string
	scopes          []domain.PermissionScope
	defaults        []domain.Permission
	lastUpdated     time.Time
	built           bool
	err             error
}

// NewCatalogBuilder starts a builder for the named application. An empty
// version defaults to "1.0.0". The application name is not validated here;
// Build rejects an empty one.
func NewCatalogBuilder(applicationName, version string) *CatalogBuilder {
	if version == "" {
		version = "1.0.0"
	}
	return &CatalogBuilder{applicationName: applicationName, version: version}
}

func (b *CatalogBuilder) stageErr(err error) *CatalogBuilder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// AddPermissionScope appends a scope to the catalog in insertion order.
// Duplicate IDs are not rejected; consumers index left to right, so the
// first-registered scope wins on lookup.
func (b *CatalogBuilder) AddPermissionScope(scope domain.PermissionScope) *CatalogBuilder {
	if b.built {
		return b.stageErr(fmt.Errorf("%w: builder already finalized", domain.ErrConfig))
	}
	b.scopes = append(b.scopes, scope)
	return b
}

// AddPermissionScopes appends scopes in order, typically the output of
// CRUDScopes or TribalScopes.
func (b *CatalogBuilder) AddPermissionScopes(scopes []domain.PermissionScope) *CatalogBuilder {
	for _, scope := range scopes {
		b.AddPermissionScope(scope)
	}
	return b
}

// AddDefaultPermission binds an effect to an already-registered scope for
// unauthenticated or unresolved callers. The scope must have been added
// before this call; referencing one added later is a config error. An empty
// effect defaults to deny.
func (b *CatalogBuilder) AddDefaultPermission(scopeID string, effect domain.PermissionEffect) *CatalogBuilder {
	if b.built {
		return b.stageErr(fmt.Errorf("%w: builder already finalized", domain.ErrConfig))
	}
	if effect == "" {
		effect = domain.EffectDeny
	}
	for _, scope := range b.scopes {
		if scope.ID == scopeID {
			b.defaults = append(b.defaults, domain.Permission{Scope: scope, Effect: effect})
			return b
		}
	}
	return b.stageErr(fmt.Errorf("%w: scope not found: %q", domain.ErrConfig, scopeID))
}

// Build validates the staged catalog and finalizes it. On success the
// returned catalog owns its own slices and the builder refuses further use.
func (b *CatalogBuilder) Build() (domain.PermissionCatalog, error) {
	if b.built {
		return domain.PermissionCatalog{}, fmt.Errorf("%w: catalog already built", domain.ErrConfig)
	}
	if b.err != nil {
		return domain.PermissionCatalog{}, b.err
	}
	if b.applicationName == "" {
		return domain.PermissionCatalog{}, fmt.Errorf("%w: application name is required", domain.ErrConfig)
	}
	if b.version == "" {
		return domain.PermissionCatalog{}, fmt.Errorf("%w: version is required", domain.ErrConfig)
	}
	if len(b.scopes) == 0 {
		return domain.PermissionCatalog{}, fmt.Errorf("%w: at least one permission scope is required", domain.ErrConfig)
	}
	if b.lastUpdated.IsZero() {
		b.lastUpdated = time.Now().UTC()
	}
	catalog := domain.PermissionCatalog{
		ApplicationName:    b.applicationName,
		Version:            b.version,
		Permissions:        make([]domain.PermissionScope, len(b.scopes)),
		DefaultPermissions: make([]domain.Permission, len(b.defaults)),
		LastUpdated:        b.lastUpdated,
	}
	copy(catalog.Permissions, b.scopes)
	copy(catalog.DefaultPermissions, b.defaults)
	if len(catalog.DefaultPermissions) == 0 {
		catalog.DefaultPermissions = nil
	}
	b.built = true
	return catalog, nil
}
