package ports

import (
	"context"

	"permkit/internal/domain"
)

// IdentityGateway is the outbound boundary to the identity service. Every
// call is a single request/response; retry policy, if any, belongs to the
// HTTP transport behind the implementation.
type IdentityGateway interface {
	ValidateCredential(ctx context.Context, token string) (domain.UserRecord, error)
	GetUserRoles(ctx context.Context, address, token string) ([]domain.RoleRecord, error)
	GetUserRecord(ctx context.Context, address, token string) (domain.UserRecord, error)
	CheckPermission(ctx context.Context, address, applicationName, scopeID, token string) (bool, error)
}

// ResolverStrategy maps a user's identity and role claims onto concrete
// catalog decisions. Implementations must be pure: same inputs, same output,
// no I/O.
type ResolverStrategy interface {
	Resolve(user domain.UserRecord, roles []domain.RoleRecord, catalog domain.PermissionCatalog) []domain.Permission
}

type Logger interface {
	Info(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Debug(ctx context.Context, msg string, args ...any)
}
