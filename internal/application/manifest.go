package application

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"permkit/internal/domain"
)

// Manifest is the YAML form of a catalog declaration. Pattern entries expand
// before raw scopes, and both expand before defaults, so a default may
// reference any scope declared in the same document.
//
//	applicationName: acme
//	version: 1.0.0
//	crud:
//	  - resource: fleet
//	    displayName: Fleet Ops
//	tribal:
//	  - resource: warehouse
//	scopes:
//	  - id: tribes:read
//	    name: Read Tribes
//	    resource: tribes
//	    action: read
//	defaults:
//	  - scope: tribes:read
//	    effect: allow
type Manifest struct {
	ApplicationName string        `yaml:"applicationName"`
	Version         string        `yaml:"version"`
	CRUD            []PatternDecl `yaml:"crud"`
	Tribal          []PatternDecl `yaml:"tribal"`
	Scopes          []ScopeDecl   `yaml:"scopes"`
	Defaults        []DefaultDecl `yaml:"defaults"`
}

type PatternDecl struct {
	Resource    string `yaml:"resource"`
	DisplayName string `yaml:"displayName"`
}

type ScopeDecl struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Resource    string `yaml:"resource"`
	Action      string `yaml:"action"`
}

type DefaultDecl struct {
	Scope  string `yaml:"scope"`
	Effect string `yaml:"effect"`
}

// Builder stages the manifest into a catalog builder. Validation still
// happens at Build, same as hand-assembled catalogs.
func (m Manifest) Builder() *CatalogBuilder {
	b := NewCatalogBuilder(m.ApplicationName, m.Version)
	for _, p := range m.CRUD {
		b.AddPermissionScopes(CRUDScopes(p.Resource, p.DisplayName))
	}
	for _, p := range m.Tribal {
		b.AddPermissionScopes(TribalScopes(p.Resource, p.DisplayName))
	}
	for _, s := range m.Scopes {
		b.AddPermissionScope(domain.PermissionScope{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			Resource:    s.Resource,
			Action:      s.Action,
		})
	}
	for _, d := range m.Defaults {
		b.AddDefaultPermission(d.Scope, domain.PermissionEffect(d.Effect))
	}
	return b
}

// ParseManifest decodes a YAML catalog declaration.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: invalid catalog manifest: %v", domain.ErrConfig, err)
	}
	return m, nil
}

// BuildFromManifestFile reads, decodes and builds a catalog from a YAML file.
func BuildFromManifestFile(path string) (domain.PermissionCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PermissionCatalog{}, fmt.Errorf("%w: read catalog manifest: %v", domain.ErrConfig, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return domain.PermissionCatalog{}, err
	}
	return m.Builder().Build()
}
