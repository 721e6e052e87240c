package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-xray-sdk-go/xray"
	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/joho/godotenv"

	adaptermiddleware "permkit/internal/adapters/http/middleware"
	adapterlogger "permkit/internal/adapters/logger"
	"permkit/internal/application"
	"permkit/internal/domain"
	"permkit/internal/infrastructure"
	"permkit/internal/infrastructure/auth"
	"permkit/internal/infrastructure/identity"
	httpiface "permkit/internal/interfaces/http"
)

func buildCatalog(cfg *infrastructure.Config) (domain.PermissionCatalog, error) {
	if cfg.CatalogManifest != "" {
		catalog, err := application.BuildFromManifestFile(cfg.CatalogManifest)
		if err != nil {
			return domain.PermissionCatalog{}, err
		}
		if catalog.ApplicationName != cfg.ApplicationName {
			return domain.PermissionCatalog{}, fmt.Errorf("%w: manifest application %q does not match APPLICATION_NAME %q",
				domain.ErrConfig, catalog.ApplicationName, cfg.ApplicationName)
		}
		return catalog, nil
	}
	return application.NewCatalogBuilder(cfg.ApplicationName, "").
		AddPermissionScopes(application.CRUDScopes("users", "Users")).
		AddPermissionScopes(application.TribalScopes("tribes", "Tribe")).
		AddDefaultPermission("users:read", domain.EffectDeny).
		Build()
}

func main() {
	_ = godotenv.Load()
	logger := adapterlogger.New()

	cfg, err := infrastructure.LoadConfig()
	if err != nil {
		logger.Error(context.Background(), "configuration error", "error", err)
		os.Exit(1)
	}
	xray.Configure(xray.Config{LogLevel: "error"})

	catalog, err := buildCatalog(cfg)
	if err != nil {
		logger.Error(context.Background(), "failed to build permission catalog", "error", err)
		os.Exit(1)
	}

	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = cfg.IdentityHTTPTimeout
	gateway := identity.NewClient(cfg.IdentityBaseURL, identity.WithHTTPClient(hc), identity.WithXRay())
	resolver := application.NewPermissionResolver(nil)

	jwks := auth.NewJWKSMiddleware(cfg.IdentityBaseURL)
	authMiddleware, err := adaptermiddleware.AuthMiddleware(adaptermiddleware.WithAuth(gateway), jwks.Handler)
	if err != nil {
		logger.Error(context.Background(), "failed to initialize auth middleware", "error", err)
		os.Exit(1)
	}
	mw := httpiface.Middleware{
		Auth:          authMiddleware,
		XRay:          adaptermiddleware.XRayMiddleware("permkit-http"),
		RequestLogger: adaptermiddleware.RequestLogger(logger),
	}

	e := httpiface.NewMainRouter(
		cfg.ApplicationName,
		"users:admin",
		httpiface.NewDiscoveryHandler(&catalog, cfg.DiscoveryCacheMaxAge, logger),
		httpiface.NewPermissionsHandler(gateway, resolver, catalog, logger),
		httpiface.NewUsersHandler(gateway, logger),
		gateway,
		mw,
	)
	logger.Info(context.Background(), "starting http server",
		"port", cfg.Port,
		"application", cfg.ApplicationName,
		"discovery_path", httpiface.WellKnownPath(cfg.ApplicationName),
	)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
