// internal/models/badge.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BadgeToken is one soulbound badge. Ownership lives here (this table is the
// token ledger); token ids are sequential from zero. The unique index on
// HolderAddress is the database-level form of the one-badge-per-holder
// invariant: a holder appears at most once, ever.
type BadgeToken struct {
	BaseModel
	TokenID       int64     `json:"token_id" gorm:"uniqueIndex;not null"`
	HolderAddress string    `json:"holder_address" gorm:"uniqueIndex;size:64;not null"`
	AssetID       uuid.UUID `json:"asset_id" gorm:"type:uuid;uniqueIndex;not null"`

	// Approvals storage required by the standard ledger surface. Writes to
	// these columns are unreachable: every approval entry point is locked.
	ApprovedAddress string    `json:"approved_address,omitempty" gorm:"size:64"`
	OperatorAddress string    `json:"operator_address,omitempty" gorm:"size:64"`
	MintedByID      uuid.UUID `json:"minted_by_id" gorm:"type:uuid;not null"`

	// Relationships
	Asset    IPAsset `json:"asset,omitempty" gorm:"foreignKey:AssetID"`
	MintedBy User    `json:"minted_by,omitempty" gorm:"foreignKey:MintedByID"`
}

// BadgeEvent is the indexer-facing event log. Topics follow the usual
// log-topic convention: topic 0 is the event name, the rest are the indexed
// values in emission order.
type BadgeEvent struct {
	BaseModel
	EventType EventType      `json:"event_type" gorm:"type:varchar(40);not null;index"`
	TokenID   *int64         `json:"token_id,omitempty" gorm:"index"`
	AssetID   *uuid.UUID     `json:"asset_id,omitempty" gorm:"type:uuid;index"`
	Recipient string         `json:"recipient,omitempty" gorm:"size:64;index"`
	Topics    pq.StringArray `json:"topics" gorm:"type:text[]"`
	Payload   JSONB          `json:"payload" gorm:"type:jsonb"`
}
