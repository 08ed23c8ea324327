// internal/services/asset_registry_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/badge-backend/internal/config"
	"github.com/javajoker/badge-backend/internal/models"
)

// AssetRegistryService is the asset-registration collaborator. Its one
// operation registers an IP asset and mints the paired badge token to the
// collection vault in the caller's transaction, so the pair commits or rolls
// back as a unit.
type AssetRegistryService struct {
	db              *gorm.DB
	registryAddress string
	vaultAddress    string
}

// TokenMetadata is the unified metadata record applied to every mint; the
// values come from the collection record, never from the caller.
type TokenMetadata struct {
	TokenURI        string `json:"token_uri"`
	IPMetadataURI   string `json:"ip_metadata_uri"`
	IPMetadataHash  string `json:"ip_metadata_hash"`
	NFTMetadataHash string `json:"nft_metadata_hash"`
}

type MintAndRegisterResult struct {
	TokenID int64     `json:"token_id"`
	AssetID uuid.UUID `json:"asset_id"`
}

func NewAssetRegistryService(db *gorm.DB, cfg *config.Config) (*AssetRegistryService, error) {
	// Collaborator addresses are rejected once, here, never per call.
	if config.IsZeroAddress(cfg.Badge.RegistryAddress) {
		return nil, fmt.Errorf("zero address parameter: registry")
	}
	if config.IsZeroAddress(cfg.Badge.VaultAddress) {
		return nil, fmt.Errorf("zero address parameter: vault")
	}

	return &AssetRegistryService{
		db:              db,
		registryAddress: cfg.Badge.RegistryAddress,
		vaultAddress:    cfg.Badge.VaultAddress,
	}, nil
}

// MintAndRegister registers a new IP asset controlled by the vault and mints
// the next sequential badge token into vault custody. Token ids start at
// zero and never repeat; mint calls are serialized by the surrounding
// transaction, so the max+1 read cannot race another mint.
func (s *AssetRegistryService) MintAndRegister(tx *gorm.DB, meta TokenMetadata, mintedBy uuid.UUID) (*MintAndRegisterResult, error) {
	var nextTokenID int64
	if err := tx.Raw("SELECT COALESCE(MAX(token_id), -1) + 1 FROM badge_tokens").Scan(&nextTokenID).Error; err != nil {
		return nil, fmt.Errorf("failed to allocate token id: %w", err)
	}

	asset := &models.IPAsset{
		ControllerAddress: s.vaultAddress,
		RegistryAddress:   s.registryAddress,
		IPMetadataURI:     meta.IPMetadataURI,
		IPMetadataHash:    meta.IPMetadataHash,
		NFTMetadataHash:   meta.NFTMetadataHash,
		Metadata: models.JSONB{
			"token_uri": meta.TokenURI,
		},
	}
	if err := tx.Create(asset).Error; err != nil {
		return nil, fmt.Errorf("failed to register ip asset: %w", err)
	}

	token := &models.BadgeToken{
		TokenID:       nextTokenID,
		HolderAddress: s.vaultAddress,
		AssetID:       asset.ID,
		MintedByID:    mintedBy,
	}
	if err := tx.Create(token).Error; err != nil {
		return nil, fmt.Errorf("failed to mint badge token: %w", err)
	}

	return &MintAndRegisterResult{
		TokenID: nextTokenID,
		AssetID: asset.ID,
	}, nil
}

// ReassignController hands control of a registered asset to its final owner
// once the mint flow completes.
func (s *AssetRegistryService) ReassignController(tx *gorm.DB, assetID uuid.UUID, controller string) error {
	result := tx.Model(&models.IPAsset{}).
		Where("id = ?", assetID).
		Update("controller_address", controller)
	if result.Error != nil {
		return fmt.Errorf("failed to reassign controller: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAssetNotFound
	}
	return nil
}

// GetAsset loads an asset with its parent edge and license attachments.
func (s *AssetRegistryService) GetAsset(assetID uuid.UUID) (*models.IPAsset, error) {
	var asset models.IPAsset
	if err := s.db.Preload("Parent").Preload("LicenseAttachments").
		First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &asset, nil
}
