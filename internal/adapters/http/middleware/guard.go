package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/labstack/echo/v4"

	"permkit/internal/domain"
	"permkit/internal/ports"
)

// Context keys populated by the guards for downstream handlers.
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

const bearerPrefix = "Bearer "

// ExtractBearerToken pulls the token out of a case-sensitive
// "Authorization: Bearer <token>" header. It returns "" for a missing or
// malformed header and never fails.
func ExtractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}

// UserFromContext returns the user record a guard stored on the request.
func UserFromContext(c echo.Context) (domain.UserRecord, bool) {
	user, ok := c.Get(ContextUserKey).(domain.UserRecord)
	return user, ok
}

// TokenFromContext returns the bearer token a guard stored on the request.
func TokenFromContext(c echo.Context) (string, bool) {
	token, ok := c.Get(ContextTokenKey).(string)
	return token, ok
}

func guardError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "identity service unavailable"})
	}
}

// WithAuth validates the bearer credential against the identity service and
// stores the resulting user record and token on the request context. Gateway
// errors keep their taxonomy; nothing is swallowed.
func WithAuth(gateway ports.IdentityGateway) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractBearerToken(c.Request())
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization token"})
			}
			user, err := gateway.ValidateCredential(c.Request().Context(), token)
			if err != nil {
				return guardError(c, err)
			}
			c.Set(ContextUserKey, user)
			c.Set(ContextTokenKey, token)
			return next(c)
		}
	}
}

// WithPermission validates the credential like WithAuth and then requires
// one (user, application, scope) permission before letting the handler run.
func WithPermission(gateway ports.IdentityGateway, applicationName, scopeID string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractBearerToken(c.Request())
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing authorization token"})
			}
			user, err := gateway.ValidateCredential(c.Request().Context(), token)
			if err != nil {
				return guardError(c, err)
			}
			allowed, err := gateway.CheckPermission(c.Request().Context(), user.EthAddress, applicationName, scopeID, token)
			if err != nil {
				return guardError(c, err)
			}
			if !allowed {
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": fmt.Sprintf("permission '%s' required", scopeID),
				})
			}
			c.Set(ContextUserKey, user)
			c.Set(ContextTokenKey, token)
			return next(c)
		}
	}
}

// Mode selects how inbound requests are authenticated.
type Mode string

const (
	ModeNone   Mode = "none"
	ModeRemote Mode = "remote"
	ModeJWKS   Mode = "jwks"
)

func ParseAuthMode() (Mode, error) {
	mode := Mode(os.Getenv("AUTH_MODE"))
	switch mode {
	case "", ModeNone, ModeRemote, ModeJWKS:
		if mode == "" {
			return ModeNone, nil
		}
		return mode, nil
	default:
		return "", errors.New("invalid auth mode")
	}
}

// AuthMiddleware dispatches to the configured authentication style: none,
// remote credential validation through the gateway, or offline JWKS
// verification.
func AuthMiddleware(remote, jwks echo.MiddlewareFunc) (echo.MiddlewareFunc, error) {
	mode, err := ParseAuthMode()
	if err != nil {
		return nil, err
	}
	if mode == ModeRemote && remote == nil {
		return nil, errors.New("remote auth middleware is required when AUTH_MODE=remote")
	}
	if mode == ModeJWKS && jwks == nil {
		return nil, errors.New("jwks middleware is required when AUTH_MODE=jwks")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch mode {
			case ModeNone:
				return next(c)
			case ModeRemote:
				return remote(next)(c)
			case ModeJWKS:
				return jwks(next)(c)
			default:
				return echo.NewHTTPError(http.StatusInternalServerError, "invalid auth mode")
			}
		}
	}, nil
}
