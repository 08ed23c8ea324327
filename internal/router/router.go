// internal/router/router.go
package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/badge-backend/internal/config"
	"github.com/javajoker/badge-backend/internal/handlers"
	"github.com/javajoker/badge-backend/internal/middleware"
	"github.com/javajoker/badge-backend/internal/services"
	"github.com/javajoker/badge-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	registryService, err := services.NewAssetRegistryService(db, cfg)
	if err != nil {
		return nil, fmt.Errorf("asset registry: %w", err)
	}
	licensingService, err := services.NewLicenseRegistryService(db, cfg)
	if err != nil {
		return nil, fmt.Errorf("license registry: %w", err)
	}
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}

	ledgerService := services.NewLedgerService(db, cfg.Badge.VaultAddress)
	eventService := services.NewEventService(db)
	authService := services.NewAuthService(db, cfg)
	badgeService := services.NewBadgeService(db, cfg, registryService, licensingService, ledgerService, eventService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	collectionHandler := handlers.NewCollectionHandler(badgeService, storageService)
	badgeHandler := handlers.NewBadgeHandler(badgeService, eventService)
	tokenHandler := handlers.NewTokenHandler(badgeService, ledgerService)
	provenanceHandler := handlers.NewProvenanceHandler(registryService, licensingService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Collection routes (public reads)
		v1.GET("/collection", collectionHandler.GetCollection)
		v1.GET("/collection/stats", collectionHandler.Stats)

		// Badge routes (public reads)
		badges := v1.Group("/badges")
		{
			badges.GET("", badgeHandler.ListBadges)
			badges.GET("/:tokenId", badgeHandler.GetBadge)
		}

		// Token read surface
		tokens := v1.Group("/tokens")
		{
			tokens.GET("/:tokenId/uri", tokenHandler.GetTokenURI)
			tokens.GET("/:tokenId/locked", tokenHandler.GetLocked)
			tokens.GET("/:tokenId/owner", tokenHandler.GetOwner)

			// Locked transfer surface. Registered without authentication:
			// these reject every caller unconditionally, whoever they are.
			tokens.POST("/:tokenId/approve", tokenHandler.Approve)
			tokens.POST("/:tokenId/transfer", tokenHandler.Transfer)
			tokens.POST("/:tokenId/safe-transfer", tokenHandler.SafeTransfer)
		}
		v1.POST("/approvals", tokenHandler.ApproveAll)

		v1.GET("/balances/:address", tokenHandler.GetBalance)
		v1.GET("/supply", tokenHandler.GetTotalSupply)

		// Provenance routes (public)
		assets := v1.Group("/assets")
		{
			assets.GET("/:assetId", provenanceHandler.GetAsset)
			assets.GET("/:assetId/derivatives", provenanceHandler.GetDerivatives)
		}

		// Event log (public)
		v1.GET("/events", badgeHandler.ListEvents)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.POST("/collection", collectionHandler.Initialize)
			admin.PUT("/collection/token-uri", collectionHandler.SetTokenURI)
			admin.POST("/collection/metadata", collectionHandler.UploadMetadata)

			admin.POST("/badges/root", middleware.MintRateLimit(), badgeHandler.MintRoot)
			admin.POST("/badges", middleware.MintRateLimit(), badgeHandler.Mint)
		}
	}

	return r, nil
}
