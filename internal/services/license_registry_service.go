// internal/services/license_registry_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/badge-backend/internal/config"
	"github.com/javajoker/badge-backend/internal/models"
)

// LicenseRegistryService is the licensing collaborator: it attaches license
// terms to assets and declares one asset a licensed derivative of another.
type LicenseRegistryService struct {
	db               *gorm.DB
	licensingAddress string
}

// RegisterDerivativeRequest mirrors the collaborator's wire shape. This
// system only ever uses the single-parent, default-terms, zero-extras form;
// anything else is rejected.
type RegisterDerivativeRequest struct {
	AssetID         uuid.UUID
	ParentAssetIDs  []uuid.UUID
	Template        string
	TermsIDs        []int64
	ExtraData       []byte
	MinimumRoyalty  int64
	MaxMintingFee   int64
	MaxRevenueShare int64
}

func NewLicenseRegistryService(db *gorm.DB, cfg *config.Config) (*LicenseRegistryService, error) {
	if config.IsZeroAddress(cfg.Badge.LicensingAddress) {
		return nil, fmt.Errorf("zero address parameter: licensing")
	}

	return &LicenseRegistryService{
		db:               db,
		licensingAddress: cfg.Badge.LicensingAddress,
	}, nil
}

// AttachLicenseTerms binds a template/terms pair to an asset.
func (s *LicenseRegistryService) AttachLicenseTerms(tx *gorm.DB, assetID uuid.UUID, templateID string, termsID int64) (*models.LicenseAttachment, error) {
	var asset models.IPAsset
	if err := tx.First(&asset, "id = ?", assetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	attachment := &models.LicenseAttachment{
		AssetID:    assetID,
		TemplateID: templateID,
		TermsID:    termsID,
	}
	if err := tx.Create(attachment).Error; err != nil {
		return nil, fmt.Errorf("failed to attach license terms: %w", err)
	}

	return attachment, nil
}

// RegisterDerivative declares req.AssetID a licensed child of its single
// parent and attaches the parent's terms to it. The asset must not already
// have a parent; the star-shaped provenance graph has no multi-parent nodes.
func (s *LicenseRegistryService) RegisterDerivative(tx *gorm.DB, req *RegisterDerivativeRequest) (*models.LicenseAttachment, error) {
	if len(req.ParentAssetIDs) != 1 || len(req.TermsIDs) != 1 {
		return nil, ErrOneParentRequired
	}
	if len(req.ExtraData) != 0 || req.MinimumRoyalty != 0 || req.MaxMintingFee != 0 || req.MaxRevenueShare != 0 {
		return nil, ErrNonZeroDerivativeParams
	}

	parentID := req.ParentAssetIDs[0]

	var parent models.IPAsset
	if err := tx.First(&parent, "id = ?", parentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var child models.IPAsset
	if err := tx.First(&child, "id = ?", req.AssetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if child.ParentAssetID != nil {
		return nil, fmt.Errorf("asset %s already has a parent", child.ID)
	}

	if err := tx.Model(&models.IPAsset{}).
		Where("id = ?", child.ID).
		Update("parent_asset_id", parentID).Error; err != nil {
		return nil, fmt.Errorf("failed to record parent edge: %w", err)
	}

	attachment := &models.LicenseAttachment{
		AssetID:       req.AssetID,
		TemplateID:    req.Template,
		TermsID:       req.TermsIDs[0],
		ParentAssetID: &parentID,
	}
	if err := tx.Create(attachment).Error; err != nil {
		return nil, fmt.Errorf("failed to attach derivative license terms: %w", err)
	}

	return attachment, nil
}

// Derivatives lists the licensed children of an asset.
func (s *LicenseRegistryService) Derivatives(assetID uuid.UUID) ([]models.IPAsset, error) {
	var children []models.IPAsset
	if err := s.db.Where("parent_asset_id = ?", assetID).
		Order("created_at asc").
		Find(&children).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch derivatives: %w", err)
	}
	return children, nil
}
