// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"

	// Admin
	KeyAdminAccessDenied  = "admin.access_denied"
	KeyAdminActionSuccess = "admin.action_success"

	// Collection
	KeyCollectionInitialized        = "collection.initialized"
	KeyCollectionAlreadyInitialized = "collection.already_initialized"
	KeyCollectionNotInitialized     = "collection.not_initialized"
	KeyCollectionNotFound           = "collection.not_found"
	KeyCollectionTokenURIUpdated    = "collection.token_uri_updated"

	// Badges
	KeyBadgeMinted           = "badge.minted"
	KeyBadgeRootMinted       = "badge.root_minted"
	KeyBadgeRootAlreadySet   = "badge.root_already_set"
	KeyBadgeRootNotSet       = "badge.root_not_set"
	KeyBadgeHolderHasBadge   = "badge.holder_has_badge"
	KeyBadgeTransferLocked   = "badge.transfer_locked"
	KeyBadgeNotFound         = "badge.not_found"
	KeyBadgeInvalidRecipient = "badge.invalid_recipient"

	// Assets / provenance
	KeyAssetNotFound = "asset.not_found"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
