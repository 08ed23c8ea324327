// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Every error here aborts the triggering call with no state change; mint
// flows run inside one transaction, so a failure anywhere rolls back the
// registration, licensing and custody steps together.
var (
	ErrCollectionNotInitialized     = errors.New("badge collection not initialized")
	ErrCollectionAlreadyInitialized = errors.New("badge collection already initialized")
	ErrRootAlreadySet               = errors.New("root asset already set")
	ErrRootNotSet                   = errors.New("root asset not set")
	ErrTransferLocked               = errors.New("transfer locked: badges are soulbound")
	ErrTokenNotFound                = errors.New("badge token not found")
	ErrAssetNotFound                = errors.New("ip asset not found")
	ErrInvalidRecipient             = errors.New("invalid recipient address")
	ErrOneParentRequired            = errors.New("derivative registration requires exactly one parent")
	ErrNonZeroDerivativeParams      = errors.New("derivative registration accepts only zero-valued royalty parameters")
	ErrNotVaultCustody              = errors.New("token is not in vault custody")
)

// RecipientHasBadgeError carries the offending address, as required for the
// one-badge-per-holder failure.
type RecipientHasBadgeError struct {
	Address string
}

func (e *RecipientHasBadgeError) Error() string {
	return fmt.Sprintf("recipient %s already has a badge", e.Address)
}
