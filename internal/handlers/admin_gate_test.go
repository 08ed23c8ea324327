// internal/handlers/admin_gate_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/badge-backend/internal/config"
	"github.com/javajoker/badge-backend/internal/middleware"
	"github.com/javajoker/badge-backend/internal/models"
	"github.com/javajoker/badge-backend/internal/services"
	"github.com/javajoker/badge-backend/internal/utils"
)

type AdminGateTestSuite struct {
	suite.Suite
	db          *gorm.DB
	router      *gin.Engine
	adminToken  string
	viewerToken string
}

func (suite *AdminGateTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("gate-test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.BadgeCollection{},
		&models.IPAsset{},
		&models.LicenseAttachment{},
		&models.BadgeToken{},
		&models.BadgeEvent{},
	))
	suite.db = db

	cfg := &config.Config{
		Environment: "test",
		Badge: config.BadgeConfig{
			VaultAddress:     testVault,
			RegistryAddress:  "0x00000000000000000000000000000000000000aa",
			LicensingAddress: "0x00000000000000000000000000000000000000bb",
			LicenseTemplate:  "pil",
			LicenseTermsID:   1,
		},
	}

	registry, err := services.NewAssetRegistryService(db, cfg)
	suite.Require().NoError(err)
	licensing, err := services.NewLicenseRegistryService(db, cfg)
	suite.Require().NoError(err)
	storage, err := services.NewStorageService(cfg)
	suite.Require().NoError(err)
	ledger := services.NewLedgerService(db, cfg.Badge.VaultAddress)
	events := services.NewEventService(db)
	badgeService := services.NewBadgeService(db, cfg, registry, licensing, ledger, events)

	admin := &models.User{
		Username:     "admin",
		Email:        "admin@badge.local",
		PasswordHash: "x",
		UserType:     models.UserTypeAdmin,
		Status:       models.UserStatusActive,
	}
	suite.Require().NoError(db.Create(admin).Error)

	viewer := &models.User{
		Username:     "viewer",
		Email:        "viewer@badge.local",
		PasswordHash: "x",
		UserType:     models.UserTypeViewer,
		Status:       models.UserStatusActive,
	}
	suite.Require().NoError(db.Create(viewer).Error)

	suite.adminToken, err = utils.GenerateJWT(admin.ID, admin.Username, string(admin.UserType), 1)
	suite.Require().NoError(err)
	suite.viewerToken, err = utils.GenerateJWT(viewer.ID, viewer.Username, string(viewer.UserType), 1)
	suite.Require().NoError(err)

	collectionHandler := NewCollectionHandler(badgeService, storage)
	badgeHandler := NewBadgeHandler(badgeService, events)

	suite.router = gin.New()
	adminGroup := suite.router.Group("/v1/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.AdminRequired())
	{
		adminGroup.POST("/collection", collectionHandler.Initialize)
		adminGroup.PUT("/collection/token-uri", collectionHandler.SetTokenURI)
		adminGroup.POST("/badges/root", badgeHandler.MintRoot)
		adminGroup.POST("/badges", badgeHandler.Mint)
	}
}

func (suite *AdminGateTestSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(data))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AdminGateTestSuite) gatedCalls() map[string][2]string {
	return map[string][2]string{
		"initialize":    {"POST", "/v1/admin/collection"},
		"set-token-uri": {"PUT", "/v1/admin/collection/token-uri"},
		"mint-root":     {"POST", "/v1/admin/badges/root"},
		"mint":          {"POST", "/v1/admin/badges"},
	}
}

func (suite *AdminGateTestSuite) TestRequiresToken() {
	for name, call := range suite.gatedCalls() {
		w := suite.do(call[0], call[1], "", gin.H{"recipient": testHolderA})
		suite.Equal(http.StatusUnauthorized, w.Code, name)
	}
}

func (suite *AdminGateTestSuite) TestRejectsMalformedToken() {
	for name, call := range suite.gatedCalls() {
		w := suite.do(call[0], call[1], "not-a-token", gin.H{"recipient": testHolderA})
		suite.Equal(http.StatusUnauthorized, w.Code, name)
	}
}

func (suite *AdminGateTestSuite) TestRejectsNonAdmin() {
	for name, call := range suite.gatedCalls() {
		w := suite.do(call[0], call[1], suite.viewerToken, gin.H{"recipient": testHolderA})
		suite.Equal(http.StatusForbidden, w.Code, name)
	}

	// The rejected calls wrote nothing.
	var count int64
	suite.NoError(suite.db.Model(&models.BadgeCollection{}).Count(&count).Error)
	suite.Equal(int64(0), count)
}

func (suite *AdminGateTestSuite) TestAdminPassesGate() {
	w := suite.do("POST", "/v1/admin/collection", suite.adminToken, gin.H{
		"name":      "Membership Badge",
		"symbol":    "BADGE",
		"token_uri": "https://meta.badge.local/badge.json",
	})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do("POST", "/v1/admin/badges/root", suite.adminToken, gin.H{
		"recipient": testHolderA,
	})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do("POST", "/v1/admin/badges", suite.adminToken, gin.H{
		"recipient": testHolderB,
	})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.do("PUT", "/v1/admin/collection/token-uri", suite.adminToken, gin.H{
		"token_uri": "https://meta.badge.local/v2.json",
	})
	suite.Equal(http.StatusOK, w.Code)
}

func TestAdminGateSuite(t *testing.T) {
	suite.Run(t, new(AdminGateTestSuite))
}
