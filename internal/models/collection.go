// internal/models/collection.go
package models

import (
	"github.com/google/uuid"
)

// CollectionStorageKey is the stable lookup key of the singleton collection
// record. Fetching by a well-known name instead of assuming a particular row
// keeps the record collision-free no matter what else shares the database.
const CollectionStorageKey = "badge.collection.v1"

// BadgeCollection is the per-deployment instance state of the badge
// collection, created exactly once by the initialize call. Every field
// except TokenURI and RootAssetID is read-only after creation; TokenURI is
// administrator-mutable, RootAssetID transitions unset to set at most once.
type BadgeCollection struct {
	BaseModel
	StorageKey string    `json:"storage_key" gorm:"uniqueIndex;size:100;not null"`
	AdminID    uuid.UUID `json:"admin_id" gorm:"type:uuid;not null"`

	Name        string `json:"name" gorm:"size:255;not null"`
	Symbol      string `json:"symbol" gorm:"size:32;not null"`
	ContractURI string `json:"contract_uri" gorm:"type:text"`

	// The unified token metadata record. Every token in the collection
	// resolves to this one descriptor; there is no per-token metadata.
	TokenURI        string `json:"token_uri" gorm:"type:text"`
	IPMetadataURI   string `json:"ip_metadata_uri" gorm:"type:text"`
	IPMetadataHash  string `json:"ip_metadata_hash" gorm:"size:66"`
	NFTMetadataHash string `json:"nft_metadata_hash" gorm:"size:66"`

	RootAssetID *uuid.UUID `json:"root_asset_id" gorm:"type:uuid"`

	// Relationships
	Admin     User     `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	RootAsset *IPAsset `json:"root_asset,omitempty" gorm:"foreignKey:RootAssetID"`
}
