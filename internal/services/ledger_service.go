// internal/services/ledger_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/badge-backend/internal/models"
)

// LedgerService is the token ledger: it owns the token-to-holder mapping and
// the standard ownership queries. The four transfer-capable operations are
// permanently disabled for every caller; the only way a badge ever moves is
// ReleaseFromVault, which the mint flows use to hand a freshly minted token
// from collection custody to its recipient.
type LedgerService struct {
	db           *gorm.DB
	vaultAddress string
}

func NewLedgerService(db *gorm.DB, vaultAddress string) *LedgerService {
	return &LedgerService{
		db:           db,
		vaultAddress: vaultAddress,
	}
}

func (s *LedgerService) OwnerOf(tokenID int64) (string, error) {
	var token models.BadgeToken
	if err := s.db.Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("database error: %w", err)
	}
	return token.HolderAddress, nil
}

func (s *LedgerService) BalanceOf(address string) (int64, error) {
	return s.balanceOf(s.db, address)
}

func (s *LedgerService) TotalSupply() (int64, error) {
	return s.totalSupply(s.db)
}

func (s *LedgerService) balanceOf(db *gorm.DB, address string) (int64, error) {
	var count int64
	if err := db.Model(&models.BadgeToken{}).
		Where("holder_address = ?", address).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count badges: %w", err)
	}
	return count, nil
}

func (s *LedgerService) totalSupply(db *gorm.DB) (int64, error) {
	var count int64
	if err := db.Model(&models.BadgeToken{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count supply: %w", err)
	}
	return count, nil
}

// ReleaseFromVault is the internal privileged transfer path. It moves a
// token out of collection custody exactly once, right after minting; the
// from-side is always the vault, never a holder.
func (s *LedgerService) ReleaseFromVault(tx *gorm.DB, tokenID int64, recipient string) error {
	var token models.BadgeToken
	if err := tx.Where("token_id = ?", tokenID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if token.HolderAddress != s.vaultAddress {
		return ErrNotVaultCustody
	}

	if err := tx.Model(&models.BadgeToken{}).
		Where("token_id = ? AND holder_address = ?", tokenID, s.vaultAddress).
		Update("holder_address", recipient).Error; err != nil {
		return fmt.Errorf("failed to release token from vault: %w", err)
	}

	return nil
}

// Locked transfer surface. Each operation fails before evaluating any of its
// normal preconditions: no existence checks, no authorization checks, no
// state reads. Signatures mirror the standard ledger entry points.

func (s *LedgerService) Approve(caller, spender string, tokenID int64) error {
	return ErrTransferLocked
}

func (s *LedgerService) SetApprovalForAll(caller, operator string, approved bool) error {
	return ErrTransferLocked
}

func (s *LedgerService) TransferFrom(caller, from, to string, tokenID int64) error {
	return ErrTransferLocked
}

func (s *LedgerService) SafeTransferFrom(caller, from, to string, tokenID int64, data []byte) error {
	return ErrTransferLocked
}

// Locked always reports true, for minted and unminted ids alike. The whole
// token class is non-transferable, so there is nothing per-token to look up.
func (s *LedgerService) Locked(tokenID int64) bool {
	return true
}
