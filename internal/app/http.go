package app

import (
	"context"

	"github.com/Ivaan2/studio/internal/auth/verifier"
	"github.com/Ivaan2/studio/internal/config"
	"github.com/Ivaan2/studio/internal/freezer"
	freezerhandler "github.com/Ivaan2/studio/internal/freezer/handler"
	"github.com/Ivaan2/studio/internal/item"
	itemhandler "github.com/Ivaan2/studio/internal/item/handler"
	"github.com/Ivaan2/studio/internal/middleware"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	var itemRepo item.Repository
	var freezerRepo freezer.Repository

	if cfg.StoreDriver == "postgres" {
		itemRepo = item.NewPostgresStore(infra.DB)
		freezerRepo = freezer.NewPostgresStore(infra.DB)
	} else {
		itemRepo = item.NewRedisStore(infra.Redis.Client)
		freezerRepo = freezer.NewRedisStore(infra.Redis.Client)
	}

	oidcVerifier, err := verifier.NewOIDC(ctx, cfg.OIDCIssuer, cfg.OIDCClientID)
	if err != nil {
		return nil, nil, err
	}

	authMiddleware := middleware.NewAuthMiddleware(verifier.NewCache(oidcVerifier))

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected API Routes
	// ----------------------------

	api := router.Group("/")
	api.Use(middleware.GinRequireAuth(authMiddleware))

	itemhandler.NewHandler(itemRepo).RegisterRoutes(api)
	freezerhandler.NewHandler(freezerRepo).RegisterRoutes(api)

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, infra.Close, nil
}
