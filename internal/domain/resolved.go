package domain

// Query helpers over a resolved decision set. All of them tolerate a nil
// receiver (no resolution has completed yet) by answering false.

// HasPermission reports whether the decision set contains an entry for
// scopeID with the wanted effect. An empty effect means allow. Absence of an
// entry is neither allow nor deny; the query answers false.
func (r *ResolvedPermissions) HasPermission(scopeID string, effect PermissionEffect) bool {
	if r == nil {
		return false
	}
	if effect == "" {
		effect = EffectAllow
	}
	for _, p := range r.Permissions {
		if p.Scope.ID == scopeID && p.Effect == effect {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether at least one of the scope IDs is allowed.
func (r *ResolvedPermissions) HasAnyPermission(scopeIDs ...string) bool {
	if r == nil {
		return false
	}
	for _, id := range scopeIDs {
		if r.HasPermission(id, EffectAllow) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every one of the scope IDs is allowed.
func (r *ResolvedPermissions) HasAllPermissions(scopeIDs ...string) bool {
	if r == nil {
		return false
	}
	for _, id := range scopeIDs {
		if !r.HasPermission(id, EffectAllow) {
			return false
		}
	}
	return true
}

// HasRole reports whether roleName appears in the user's claim list. Claims
// are not filtered by the role's active flag at this layer.
func (r *ResolvedPermissions) HasRole(roleName string) bool {
	if r == nil {
		return false
	}
	for _, name := range r.User.Roles {
		if name == roleName {
			return true
		}
	}
	return false
}

// Admin reports the resolved admin flag.
func (r *ResolvedPermissions) Admin() bool {
	return r != nil && r.IsAdmin
}
