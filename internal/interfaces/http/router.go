package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	adaptermiddleware "permkit/internal/adapters/http/middleware"
	"permkit/internal/ports"
)

type Middleware struct {
	Auth          echo.MiddlewareFunc
	XRay          echo.MiddlewareFunc
	RequestLogger echo.MiddlewareFunc
}

func newEcho(m Middleware) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if m.XRay != nil {
		e.Use(m.XRay)
	}
	if m.RequestLogger != nil {
		e.Use(m.RequestLogger)
	}
	return e
}

// NewMainRouter mounts the discovery document plus the guarded permission
// routes. The discovery path stays unauthenticated; the /me routes go through
// the configured auth middleware; the user lookup requires adminScopeID via a
// remote permission check.
func NewMainRouter(applicationName, adminScopeID string, discovery *DiscoveryHandler, permissions *PermissionsHandler, users *UsersHandler, gateway ports.IdentityGateway, m Middleware) *echo.Echo {
	e := newEcho(m)
	e.Any(WellKnownPath(applicationName), discovery.Serve)

	auth := m.Auth
	if auth == nil {
		auth = adaptermiddleware.WithAuth(gateway)
	}
	e.GET("/me/permissions", permissions.Me, auth)
	e.GET("/me/permissions/:scope", permissions.CheckScope, auth)
	e.GET("/users/:address", users.Get, adaptermiddleware.WithPermission(gateway, applicationName, adminScopeID))
	return e
}
