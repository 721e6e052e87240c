package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/labstack/echo/v4"

	"permkit/internal/domain"
	"permkit/internal/ports"
)

// DefaultCacheMaxAge bounds downstream caching of the discovery document.
const DefaultCacheMaxAge = 300 * time.Second

// WellKnownPath is where an application's permission catalog is served.
func WellKnownPath(applicationName string) string {
	return "/.well-known/" + applicationName + "-permissions"
}

// DiscoveryHandler serves the built catalog as a read-only document. Failures
// never leak internals: the response carries static messages only, details go
// to the server log.
type DiscoveryHandler struct {
	catalog *domain.PermissionCatalog
	maxAge  time.Duration
	logger  ports.Logger
}

// NewDiscoveryHandler wires a handler around an already-built catalog. A nil
// catalog is served as an internal error, not a panic. maxAge <= 0 falls back
// to DefaultCacheMaxAge.
func NewDiscoveryHandler(catalog *domain.PermissionCatalog, maxAge time.Duration, logger ports.Logger) *DiscoveryHandler {
	if maxAge <= 0 {
		maxAge = DefaultCacheMaxAge
	}
	return &DiscoveryHandler{catalog: catalog, maxAge: maxAge, logger: logger}
}

func internalError(c echo.Context) error {
	return c.JSON(stdhttp.StatusInternalServerError, map[string]string{
		"error":     "Internal server error",
		"message":   "Failed to load permission configuration",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Serve answers GET with the catalog document. Any other method is rejected
// before the catalog is touched.
func (h *DiscoveryHandler) Serve(c echo.Context) error {
	if c.Request().Method != stdhttp.MethodGet {
		return c.JSON(stdhttp.StatusMethodNotAllowed, map[string]string{
			"error":   "Method not allowed",
			"message": "Only GET requests are supported",
		})
	}
	if h.catalog == nil {
		h.logger.Error(c.Request().Context(), "permission catalog is not initialized")
		return internalError(c)
	}
	payload, err := json.Marshal(h.catalog)
	if err != nil {
		h.logger.Error(c.Request().Context(), "failed to serialize permission catalog", "error", err)
		return internalError(c)
	}
	header := c.Response().Header()
	header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.maxAge.Seconds())))
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET")
	header.Set("Access-Control-Allow-Headers", "Content-Type")
	return c.JSONBlob(stdhttp.StatusOK, payload)
}
