// internal/handlers/token.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/badge-backend/internal/i18n"
	"github.com/javajoker/badge-backend/internal/services"
	"github.com/javajoker/badge-backend/internal/utils"
)

// TokenHandler exposes the token read surface plus the permanently disabled
// transfer surface. The transfer endpoints reject every caller before looking
// at the payload, so they are registered without authentication.
type TokenHandler struct {
	badgeService  *services.BadgeService
	ledgerService *services.LedgerService
}

func NewTokenHandler(badgeService *services.BadgeService, ledgerService *services.LedgerService) *TokenHandler {
	return &TokenHandler{
		badgeService:  badgeService,
		ledgerService: ledgerService,
	}
}

// GET /tokens/:tokenId/uri
//
// Every token shares the collection level URI, so the id is parsed for shape
// only and does not need to exist.
func (h *TokenHandler) GetTokenURI(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	tokenID, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "tokenId"), nil)
		return
	}

	uri, err := h.badgeService.TokenURI(tokenID)
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotInitialized) {
			utils.ErrorResponse(c, http.StatusNotFound, "COLLECTION_NOT_INITIALIZED",
				i18n.T(lang, i18n.KeyCollectionNotInitialized), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token_id": tokenID,
		"uri":      uri,
	})
}

// GET /tokens/:tokenId/locked
func (h *TokenHandler) GetLocked(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	tokenID, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "tokenId"), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token_id": tokenID,
		"locked":   h.badgeService.Locked(tokenID),
	})
}

// GET /tokens/:tokenId/owner
func (h *TokenHandler) GetOwner(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	tokenID, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "tokenId"), nil)
		return
	}

	owner, err := h.ledgerService.OwnerOf(tokenID)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			utils.NotFoundResponse(c, "token")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"token_id": tokenID,
		"owner":    owner,
	})
}

// GET /balances/:address
func (h *TokenHandler) GetBalance(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	address := c.Param("address")
	if !utils.IsValidAddress(address) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "address"), nil)
		return
	}

	balance, err := h.ledgerService.BalanceOf(address)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"address": address,
		"balance": balance,
	})
}

// GET /supply
func (h *TokenHandler) GetTotalSupply(c *gin.Context) {
	supply, err := h.ledgerService.TotalSupply()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"total_supply": supply})
}

// Transfer surface. Each endpoint delegates to the corresponding ledger
// operation, which fails before evaluating any argument, so the handlers
// pass zero values and never read the request payload.

// POST /tokens/:tokenId/approve
func (h *TokenHandler) Approve(c *gin.Context) {
	h.respondTransfer(c, h.ledgerService.Approve("", "", 0))
}

// POST /approvals
func (h *TokenHandler) ApproveAll(c *gin.Context) {
	h.respondTransfer(c, h.ledgerService.SetApprovalForAll("", "", false))
}

// POST /tokens/:tokenId/transfer
func (h *TokenHandler) Transfer(c *gin.Context) {
	h.respondTransfer(c, h.ledgerService.TransferFrom("", "", "", 0))
}

// POST /tokens/:tokenId/safe-transfer
func (h *TokenHandler) SafeTransfer(c *gin.Context) {
	h.respondTransfer(c, h.ledgerService.SafeTransferFrom("", "", "", 0, nil))
}

func (h *TokenHandler) respondTransfer(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTransferLocked):
		utils.TransferLockedResponse(c)
	case err != nil:
		utils.InternalErrorResponse(c, err.Error())
	default:
		utils.SuccessResponse(c, nil)
	}
}
