// internal/handlers/token_test.go
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
	"github.com/javajoker/badge-backend/internal/models"
	"github.com/javajoker/badge-backend/internal/services"
)

const (
	testVault   = "0x00000000000000000000000000000000000000ff"
	testHolderA = "0x1111111111111111111111111111111111111111"
	testHolderB = "0x2222222222222222222222222222222222222222"
)

type TokenHandlerTestSuite struct {
	suite.Suite
	db           *gorm.DB
	router       *gin.Engine
	badgeService *services.BadgeService
	adminID      uuid.UUID
}

func (suite *TokenHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

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
	ledger := services.NewLedgerService(db, cfg.Badge.VaultAddress)
	events := services.NewEventService(db)
	suite.badgeService = services.NewBadgeService(db, cfg, registry, licensing, ledger, events)

	admin := &models.User{
		Username:     "admin",
		Email:        "admin@badge.local",
		PasswordHash: "x",
		UserType:     models.UserTypeAdmin,
		Status:       models.UserStatusActive,
	}
	suite.Require().NoError(db.Create(admin).Error)
	suite.adminID = admin.ID

	tokenHandler := NewTokenHandler(suite.badgeService, ledger)

	suite.router = gin.New()
	tokens := suite.router.Group("/v1/tokens")
	{
		tokens.GET("/:tokenId/uri", tokenHandler.GetTokenURI)
		tokens.GET("/:tokenId/locked", tokenHandler.GetLocked)
		tokens.GET("/:tokenId/owner", tokenHandler.GetOwner)
		tokens.POST("/:tokenId/approve", tokenHandler.Approve)
		tokens.POST("/:tokenId/transfer", tokenHandler.Transfer)
		tokens.POST("/:tokenId/safe-transfer", tokenHandler.SafeTransfer)
	}
	suite.router.POST("/v1/approvals", tokenHandler.ApproveAll)
	suite.router.GET("/v1/balances/:address", tokenHandler.GetBalance)
	suite.router.GET("/v1/supply", tokenHandler.GetTotalSupply)
}

func (suite *TokenHandlerTestSuite) initAndMintRoot() {
	_, err := suite.badgeService.InitializeCollection(suite.adminID, &services.InitializeCollectionRequest{
		Name:     "Membership Badge",
		Symbol:   "BADGE",
		TokenURI: "https://meta.badge.local/badge.json",
	})
	suite.Require().NoError(err)
	_, err = suite.badgeService.MintRoot(suite.adminID, testHolderA)
	suite.Require().NoError(err)
}

func (suite *TokenHandlerTestSuite) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TokenHandlerTestSuite) TestTransferEndpointsAlwaysLocked() {
	suite.initAndMintRoot()

	// Minted or not, with or without a payload: 423 for everyone.
	paths := []string{
		"/v1/tokens/0/approve",
		"/v1/tokens/0/transfer",
		"/v1/tokens/0/safe-transfer",
		"/v1/tokens/999/transfer",
		"/v1/approvals",
	}
	for _, path := range paths {
		w := suite.do("POST", path, map[string]interface{}{
			"from": testHolderA,
			"to":   testHolderB,
		})
		suite.Equal(http.StatusLocked, w.Code, path)

		var response map[string]interface{}
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
		suite.False(response["success"].(bool))
		errObj := response["error"].(map[string]interface{})
		suite.Equal("TRANSFER_LOCKED", errObj["code"])
	}

	// Ownership is untouched.
	w := suite.do("GET", "/v1/tokens/0/owner", nil)
	suite.Equal(http.StatusOK, w.Code)
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	suite.Equal(testHolderA, data["owner"])
}

func (suite *TokenHandlerTestSuite) TestTokenURIIgnoresID() {
	suite.initAndMintRoot()

	for _, path := range []string{"/v1/tokens/0/uri", "/v1/tokens/12345/uri"} {
		w := suite.do("GET", path, nil)
		suite.Equal(http.StatusOK, w.Code, path)

		var response map[string]interface{}
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		suite.Equal("https://meta.badge.local/badge.json", data["uri"])
	}
}

func (suite *TokenHandlerTestSuite) TestLockedAlwaysTrue() {
	suite.initAndMintRoot()

	for _, path := range []string{"/v1/tokens/0/locked", "/v1/tokens/777/locked"} {
		w := suite.do("GET", path, nil)
		suite.Equal(http.StatusOK, w.Code, path)

		var response map[string]interface{}
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
		data := response["data"].(map[string]interface{})
		suite.True(data["locked"].(bool))
	}
}

func (suite *TokenHandlerTestSuite) TestOwnerOfUnknownToken() {
	suite.initAndMintRoot()

	w := suite.do("GET", "/v1/tokens/42/owner", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TokenHandlerTestSuite) TestBalanceAndSupply() {
	suite.initAndMintRoot()

	w := suite.do("GET", "/v1/balances/"+testHolderA, nil)
	suite.Equal(http.StatusOK, w.Code)
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]interface{})
	suite.EqualValues(1, data["balance"])

	w = suite.do("GET", "/v1/balances/not-an-address", nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do("GET", "/v1/supply", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	data = response["data"].(map[string]interface{})
	suite.EqualValues(1, data["total_supply"])
}

func TestTokenHandlerSuite(t *testing.T) {
	suite.Run(t, new(TokenHandlerTestSuite))
}
