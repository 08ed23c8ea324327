// internal/services/service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/badge-backend/internal/config"
	"github.com/javajoker/badge-backend/internal/models"
)

const (
	testVaultAddress     = "0x00000000000000000000000000000000000000ff"
	testRegistryAddress  = "0x00000000000000000000000000000000000000aa"
	testLicensingAddress = "0x00000000000000000000000000000000000000bb"

	testHolderA = "0x1111111111111111111111111111111111111111"
	testHolderB = "0x2222222222222222222222222222222222222222"
	testHolderC = "0x3333333333333333333333333333333333333333"
)

type testEnv struct {
	db        *gorm.DB
	cfg       *config.Config
	registry  *AssetRegistryService
	licensing *LicenseRegistryService
	ledger    *LedgerService
	events    *EventService
	badges    *BadgeService
	adminID   uuid.UUID
}

// newTestEnv wires the full service graph over an in-memory database. Each
// call gets its own named database so tests cannot see each other's state.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	// A single connection keeps the in-memory database alive for the test.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.BadgeCollection{},
		&models.IPAsset{},
		&models.LicenseAttachment{},
		&models.BadgeToken{},
		&models.BadgeEvent{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		Environment: "test",
		Badge: config.BadgeConfig{
			VaultAddress:     testVaultAddress,
			RegistryAddress:  testRegistryAddress,
			LicensingAddress: testLicensingAddress,
			LicenseTemplate:  "pil",
			LicenseTermsID:   1,
		},
	}

	registry, err := NewAssetRegistryService(db, cfg)
	if err != nil {
		t.Fatalf("failed to build asset registry: %v", err)
	}
	licensing, err := NewLicenseRegistryService(db, cfg)
	if err != nil {
		t.Fatalf("failed to build license registry: %v", err)
	}

	ledger := NewLedgerService(db, cfg.Badge.VaultAddress)
	events := NewEventService(db)
	badges := NewBadgeService(db, cfg, registry, licensing, ledger, events)

	admin := &models.User{
		Username:     "admin",
		Email:        "admin@badge.local",
		PasswordHash: "x",
		UserType:     models.UserTypeAdmin,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("failed to create admin user: %v", err)
	}

	return &testEnv{
		db:        db,
		cfg:       cfg,
		registry:  registry,
		licensing: licensing,
		ledger:    ledger,
		events:    events,
		badges:    badges,
		adminID:   admin.ID,
	}
}

func (e *testEnv) initCollection(t *testing.T) *models.BadgeCollection {
	t.Helper()

	collection, err := e.badges.InitializeCollection(e.adminID, &InitializeCollectionRequest{
		Name:     "Membership Badge",
		Symbol:   "BADGE",
		TokenURI: "https://meta.badge.local/badge.json",
	})
	if err != nil {
		t.Fatalf("failed to initialize collection: %v", err)
	}
	return collection
}
