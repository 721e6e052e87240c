package domain

import "time"

// PermissionEffect is the outcome bound to a scope. There is no third state:
// the absence of a Permission entry means "no decision", not deny.
type PermissionEffect string

const (
	EffectAllow PermissionEffect = "allow"
	EffectDeny  PermissionEffect = "deny"
)

// PermissionScope identifies one grantable capability. IDs follow the
// "<resource>:<action>" convention and are expected to be unique within a
// catalog; lookups scan left to right, so on duplicate registration the
// first-registered scope wins.
type PermissionScope struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Resource    string `json:"resource"`
	Action      string `json:"action"`
}

// Permission binds a scope to an effect: if the scope applies, the effect is X.
type Permission struct {
	Scope  PermissionScope  `json:"scope"`
	Effect PermissionEffect `json:"effect"`
}

// PermissionCatalog is an application's full permission declaration. It is
// produced once by the catalog builder and never mutated afterwards, which
// makes unsynchronized concurrent reads safe.
type PermissionCatalog struct {
	ApplicationName    string            `json:"applicationName"`
	Version            string            `json:"version"`
	Permissions        []PermissionScope `json:"permissions"`
	DefaultPermissions []Permission      `json:"defaultPermissions,omitempty"`
	LastUpdated        time.Time         `json:"lastUpdated"`
}

// ScopeByID returns the first scope whose ID matches.
func (c PermissionCatalog) ScopeByID(id string) (PermissionScope, bool) {
	for _, scope := range c.Permissions {
		if scope.ID == id {
			return scope, true
		}
	}
	return PermissionScope{}, false
}

// DefaultDecisions returns the decision set for callers that never
// authenticated. It is a separate lookup path and is not merged into
// per-user resolution.
func (c PermissionCatalog) DefaultDecisions() []Permission {
	out := make([]Permission, len(c.DefaultPermissions))
	copy(out, c.DefaultPermissions)
	return out
}

// UserRecord is the identity service's view of an authenticated caller.
// Roles carries role-name claims only; resolving them against full role
// records is the resolver's job.
type UserRecord struct {
	EthAddress    string   `json:"ethAddress"`
	CharacterName string   `json:"characterName"`
	Roles         []string `json:"roles"`
	IsAdmin       bool     `json:"isAdmin"`
	TribeID       *int     `json:"tribeId,omitempty"`
}

// RoleRecord is a full role definition from the identity service. A role
// with IsActive false must not count toward any permission grant.
type RoleRecord struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsActive    bool      `json:"isActive"`
}

// ResolvedPermissions is the per-request outcome of resolving one user
// against one catalog. It is owned by the caller that requested it and is
// never persisted or shared across requests.
type ResolvedPermissions struct {
	User        UserRecord   `json:"user"`
	Roles       []RoleRecord `json:"roles"`
	Permissions []Permission `json:"permissions"`
	IsAdmin     bool         `json:"isAdmin"`
	FetchedAt   time.Time    `json:"fetchedAt"`
}
