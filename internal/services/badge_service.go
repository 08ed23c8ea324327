// internal/services/badge_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/badge-backend/internal/config"
	"github.com/javajoker/badge-backend/internal/database"
	"github.com/javajoker/badge-backend/internal/models"
	"github.com/javajoker/badge-backend/internal/utils"
)

// BadgeService is the badge state machine. It owns the collection lifecycle
// (initialize once, root minted once, one badge per holder) and orchestrates
// the asset registry, licensing registry and token ledger inside a single
// transaction per mint, so each call commits everything or nothing.
type BadgeService struct {
	db        *gorm.DB
	cfg       *config.Config
	registry  *AssetRegistryService
	licensing *LicenseRegistryService
	ledger    *LedgerService
	events    *EventService
}

func NewBadgeService(
	db *gorm.DB,
	cfg *config.Config,
	registry *AssetRegistryService,
	licensing *LicenseRegistryService,
	ledger *LedgerService,
	events *EventService,
) *BadgeService {
	return &BadgeService{
		db:        db,
		cfg:       cfg,
		registry:  registry,
		licensing: licensing,
		ledger:    ledger,
		events:    events,
	}
}

type InitializeCollectionRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Symbol          string `json:"symbol" validate:"required,max=32"`
	ContractURI     string `json:"contract_uri,omitempty"`
	TokenURI        string `json:"token_uri" validate:"required"`
	IPMetadataURI   string `json:"ip_metadata_uri,omitempty"`
	IPMetadataHash  string `json:"ip_metadata_hash,omitempty"`
	NFTMetadataHash string `json:"nft_metadata_hash,omitempty"`
}

type MintResult struct {
	TokenID   int64     `json:"token_id"`
	AssetID   uuid.UUID `json:"asset_id"`
	Recipient string    `json:"recipient"`
}

// InitializeCollection creates the singleton collection record. It runs at
// most once per deployment; a second call fails without touching state.
// There are no collaborator calls here, only the state writes.
func (s *BadgeService) InitializeCollection(adminID uuid.UUID, req *InitializeCollectionRequest) (*models.BadgeCollection, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var collection *models.BadgeCollection
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var existing models.BadgeCollection
		err := tx.Where("storage_key = ?", models.CollectionStorageKey).First(&existing).Error
		if err == nil {
			return ErrCollectionAlreadyInitialized
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		collection = &models.BadgeCollection{
			StorageKey:      models.CollectionStorageKey,
			AdminID:         adminID,
			Name:            req.Name,
			Symbol:          req.Symbol,
			ContractURI:     req.ContractURI,
			TokenURI:        req.TokenURI,
			IPMetadataURI:   req.IPMetadataURI,
			IPMetadataHash:  req.IPMetadataHash,
			NFTMetadataHash: req.NFTMetadataHash,
		}
		if err := tx.Create(collection).Error; err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"collection": collection.Name,
		"symbol":     collection.Symbol,
		"admin_id":   adminID,
	}).Info("Badge collection initialized")

	return collection, nil
}

// Collection returns the singleton collection record.
func (s *BadgeService) Collection() (*models.BadgeCollection, error) {
	return s.collection(s.db)
}

func (s *BadgeService) collection(db *gorm.DB) (*models.BadgeCollection, error) {
	var collection models.BadgeCollection
	if err := db.Where("storage_key = ?", models.CollectionStorageKey).First(&collection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCollectionNotInitialized
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &collection, nil
}

// validateRecipient rejects malformed and sentinel addresses. The vault
// itself can never be a recipient: every mint stages custody at the vault
// address, so a badge held there would collide with all later mints.
func (s *BadgeService) validateRecipient(recipient string) error {
	if !utils.IsValidAddress(recipient) || config.IsZeroAddress(recipient) {
		return ErrInvalidRecipient
	}
	if strings.EqualFold(recipient, s.cfg.Badge.VaultAddress) {
		return ErrInvalidRecipient
	}
	return nil
}

func (s *BadgeService) metadataOf(collection *models.BadgeCollection) TokenMetadata {
	return TokenMetadata{
		TokenURI:        collection.TokenURI,
		IPMetadataURI:   collection.IPMetadataURI,
		IPMetadataHash:  collection.IPMetadataHash,
		NFTMetadataHash: collection.NFTMetadataHash,
	}
}

// MintRoot establishes the collection's singleton root: registers the root
// asset, attaches the default license terms, records the root reference and
// only then releases the token to the recipient. The root reference is
// written before the custody transfer so no observer can see registered
// assets with an unset root.
func (s *BadgeService) MintRoot(adminID uuid.UUID, recipient string) (*MintResult, error) {
	if err := s.validateRecipient(recipient); err != nil {
		return nil, err
	}

	var result *MintResult
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		collection, err := s.collection(tx)
		if err != nil {
			return err
		}

		// Precondition: root unset. Checked before any collaborator call so
		// a violation performs no work at all.
		if collection.RootAssetID != nil {
			return ErrRootAlreadySet
		}

		minted, err := s.registry.MintAndRegister(tx, s.metadataOf(collection), adminID)
		if err != nil {
			return err
		}

		if _, err := s.licensing.AttachLicenseTerms(tx, minted.AssetID, s.cfg.Badge.LicenseTemplate, s.cfg.Badge.LicenseTermsID); err != nil {
			return err
		}

		// Guarded write: only transitions unset to set, ever.
		res := tx.Model(&models.BadgeCollection{}).
			Where("storage_key = ? AND root_asset_id IS NULL", models.CollectionStorageKey).
			Update("root_asset_id", minted.AssetID)
		if res.Error != nil {
			return fmt.Errorf("failed to set root asset: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrRootAlreadySet
		}

		if err := s.ledger.ReleaseFromVault(tx, minted.TokenID, recipient); err != nil {
			return err
		}
		if err := s.registry.ReassignController(tx, minted.AssetID, recipient); err != nil {
			return err
		}

		if _, err := s.events.RecordBadgeMinted(tx, recipient, minted.TokenID, minted.AssetID, true); err != nil {
			return err
		}

		result = &MintResult{
			TokenID:   minted.TokenID,
			AssetID:   minted.AssetID,
			Recipient: recipient,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Mint issues a derivative badge: same registration step as MintRoot, then a
// derivative declaration with the root as the single parent under the
// default terms, then custody release. Preconditions run in order: holder
// uniqueness first, then root presence.
func (s *BadgeService) Mint(adminID uuid.UUID, recipient string) (*MintResult, error) {
	if err := s.validateRecipient(recipient); err != nil {
		return nil, err
	}

	var result *MintResult
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		balance, err := s.ledger.balanceOf(tx, recipient)
		if err != nil {
			return err
		}
		if balance > 0 {
			return &RecipientHasBadgeError{Address: recipient}
		}

		collection, err := s.collection(tx)
		if err != nil {
			return err
		}
		if collection.RootAssetID == nil {
			return ErrRootNotSet
		}
		rootAssetID := *collection.RootAssetID

		minted, err := s.registry.MintAndRegister(tx, s.metadataOf(collection), adminID)
		if err != nil {
			return err
		}

		// Fixed shape: one parent, default terms, zero-valued extras.
		if _, err := s.licensing.RegisterDerivative(tx, &RegisterDerivativeRequest{
			AssetID:        minted.AssetID,
			ParentAssetIDs: []uuid.UUID{rootAssetID},
			Template:       s.cfg.Badge.LicenseTemplate,
			TermsIDs:       []int64{s.cfg.Badge.LicenseTermsID},
		}); err != nil {
			return err
		}

		if err := s.ledger.ReleaseFromVault(tx, minted.TokenID, recipient); err != nil {
			return err
		}
		if err := s.registry.ReassignController(tx, minted.AssetID, recipient); err != nil {
			return err
		}

		if _, err := s.events.RecordBadgeMinted(tx, recipient, minted.TokenID, minted.AssetID, false); err != nil {
			return err
		}

		result = &MintResult{
			TokenID:   minted.TokenID,
			AssetID:   minted.AssetID,
			Recipient: recipient,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SetTokenURI overwrites the shared token URI. All tokens resolve to the one
// metadata record, so the change is visible for every minted and future id
// at once; the emitted event tells indexers to refresh the whole range.
func (s *BadgeService) SetTokenURI(newURI string) (*models.BadgeCollection, error) {
	var collection *models.BadgeCollection
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		existing, err := s.collection(tx)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.BadgeCollection{}).
			Where("storage_key = ?", models.CollectionStorageKey).
			Update("token_uri", newURI).Error; err != nil {
			return fmt.Errorf("failed to update token uri: %w", err)
		}
		existing.TokenURI = newURI
		collection = existing

		supply, err := s.ledger.totalSupply(tx)
		if err != nil {
			return err
		}
		if _, err := s.events.RecordBatchMetadataUpdated(tx, 0, supply); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return collection, nil
}

// TokenURI returns the shared token URI for any id, existing or not. No
// existence check is performed: every token resolves to the same descriptor,
// so there is nothing id-specific to validate.
func (s *BadgeService) TokenURI(tokenID int64) (string, error) {
	collection, err := s.collection(s.db)
	if err != nil {
		return "", err
	}
	return collection.TokenURI, nil
}

// Locked reports the transferability of a token id: always locked, for any
// id, with no existence check.
func (s *BadgeService) Locked(tokenID int64) bool {
	return s.ledger.Locked(tokenID)
}

// GetBadge returns a badge with its asset and license attachments.
func (s *BadgeService) GetBadge(tokenID int64) (*models.BadgeToken, error) {
	var token models.BadgeToken
	if err := s.db.Preload("Asset").Preload("Asset.LicenseAttachments").
		Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &token, nil
}

// ListBadges returns minted badges ordered by token id.
func (s *BadgeService) ListBadges(params utils.PaginationParams) ([]models.BadgeToken, int64, error) {
	query := s.db.Model(&models.BadgeToken{}).Preload("Asset")

	if params.Search != "" {
		query = query.Where("holder_address = ?", params.Search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count badges: %w", err)
	}

	allowedSortFields := []string{"token_id", "created_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var badges []models.BadgeToken
	if err := query.Find(&badges).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch badges: %w", err)
	}

	return badges, total, nil
}

// CollectionStats summarizes the collection for dashboards and indexers.
func (s *BadgeService) CollectionStats() (map[string]interface{}, error) {
	collection, err := s.collection(s.db)
	if err != nil {
		return nil, err
	}

	supply, err := s.ledger.TotalSupply()
	if err != nil {
		return nil, err
	}

	stats := map[string]interface{}{
		"name":         collection.Name,
		"symbol":       collection.Symbol,
		"contract_uri": collection.ContractURI,
		"token_uri":    collection.TokenURI,
		"total_supply": supply,
		"root_set":     collection.RootAssetID != nil,
	}
	if collection.RootAssetID != nil {
		stats["root_asset_id"] = collection.RootAssetID.String()
	}
	return stats, nil
}
