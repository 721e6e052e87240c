package http

import (
	"errors"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"

	adaptermiddleware "permkit/internal/adapters/http/middleware"
	"permkit/internal/application"
	"permkit/internal/domain"
	"permkit/internal/ports"
)

func handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(stdhttp.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(stdhttp.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(stdhttp.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		return c.JSON(stdhttp.StatusBadGateway, map[string]string{"error": "identity service unavailable"})
	}
}

// PermissionsHandler resolves the authenticated caller's effective
// permissions against the hosting application's catalog.
type PermissionsHandler struct {
	gateway  ports.IdentityGateway
	resolver *application.PermissionResolver
	catalog  domain.PermissionCatalog
	logger   ports.Logger
}

func NewPermissionsHandler(gateway ports.IdentityGateway, resolver *application.PermissionResolver, catalog domain.PermissionCatalog, logger ports.Logger) *PermissionsHandler {
	return &PermissionsHandler{gateway: gateway, resolver: resolver, catalog: catalog, logger: logger}
}

func (h *PermissionsHandler) resolve(c echo.Context) (*domain.ResolvedPermissions, error) {
	user, ok := adaptermiddleware.UserFromContext(c)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	token, _ := adaptermiddleware.TokenFromContext(c)
	roles, err := h.gateway.GetUserRoles(c.Request().Context(), user.EthAddress, token)
	if err != nil {
		// An upstream user with no role rows resolves with an empty record
		// list; everything else keeps its taxonomy.
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		roles = nil
	}
	return h.resolver.Resolve(user, roles, h.catalog), nil
}

// Me returns the caller's full resolved decision set.
func (h *PermissionsHandler) Me(c echo.Context) error {
	resolved, err := h.resolve(c)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, resolved)
}

// CheckScope answers a single allow/deny question for the caller.
func (h *PermissionsHandler) CheckScope(c echo.Context) error {
	resolved, err := h.resolve(c)
	if err != nil {
		return handleError(c, err)
	}
	allowed := resolved.HasPermission(c.Param("scope"), domain.EffectAllow)
	return c.JSON(stdhttp.StatusOK, map[string]bool{"allowed": allowed})
}

// UsersHandler exposes the admin-only user lookup.
type UsersHandler struct {
	gateway ports.IdentityGateway
	logger  ports.Logger
}

func NewUsersHandler(gateway ports.IdentityGateway, logger ports.Logger) *UsersHandler {
	return &UsersHandler{gateway: gateway, logger: logger}
}

func (h *UsersHandler) Get(c echo.Context) error {
	token, ok := adaptermiddleware.TokenFromContext(c)
	if !ok {
		return c.JSON(stdhttp.StatusUnauthorized, map[string]string{"error": domain.ErrUnauthorized.Error()})
	}
	user, err := h.gateway.GetUserRecord(c.Request().Context(), c.Param("address"), token)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, user)
}
