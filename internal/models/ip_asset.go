// internal/models/ip_asset.go
package models

import (
	"github.com/google/uuid"
)

// IPAsset is one registered intellectual-property asset, 1:1 with a badge
// token. The provenance graph is a star: the root has no parent, every other
// asset points straight at the root, so a plain nullable self-reference is
// the whole graph structure.
type IPAsset struct {
	BaseModel
	ParentAssetID     *uuid.UUID `json:"parent_asset_id" gorm:"type:uuid;index"`
	ControllerAddress string     `json:"controller_address" gorm:"size:64;not null"`
	RegistryAddress   string     `json:"registry_address" gorm:"size:64;not null"`

	IPMetadataURI   string `json:"ip_metadata_uri" gorm:"type:text"`
	IPMetadataHash  string `json:"ip_metadata_hash" gorm:"size:66"`
	NFTMetadataHash string `json:"nft_metadata_hash" gorm:"size:66"`
	Metadata        JSONB  `json:"metadata" gorm:"type:jsonb"`

	// Relationships
	Parent             *IPAsset            `json:"parent,omitempty" gorm:"foreignKey:ParentAssetID"`
	LicenseAttachments []LicenseAttachment `json:"license_attachments,omitempty" gorm:"foreignKey:AssetID"`
}

// LicenseAttachment associates an asset with a license template/terms pair.
// For derivatives the attachment records which parent the terms were
// inherited through.
type LicenseAttachment struct {
	BaseModel
	AssetID       uuid.UUID  `json:"asset_id" gorm:"type:uuid;not null;index:idx_license_asset_terms,unique"`
	TemplateID    string     `json:"template_id" gorm:"size:100;not null;index:idx_license_asset_terms,unique"`
	TermsID       int64      `json:"terms_id" gorm:"not null;index:idx_license_asset_terms,unique"`
	ParentAssetID *uuid.UUID `json:"parent_asset_id" gorm:"type:uuid;index"`

	// Relationships
	Asset       IPAsset  `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	ParentAsset *IPAsset `json:"parent_asset,omitempty" gorm:"foreignKey:ParentAssetID"`
}
