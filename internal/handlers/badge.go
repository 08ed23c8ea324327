// internal/handlers/badge.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/badge-backend/internal/i18n"
	"github.com/javajoker/badge-backend/internal/models"
	"github.com/javajoker/badge-backend/internal/services"
	"github.com/javajoker/badge-backend/internal/utils"
)

type BadgeHandler struct {
	badgeService *services.BadgeService
	eventService *services.EventService
}

func NewBadgeHandler(badgeService *services.BadgeService, eventService *services.EventService) *BadgeHandler {
	return &BadgeHandler{
		badgeService: badgeService,
		eventService: eventService,
	}
}

type mintRequest struct {
	Recipient string `json:"recipient" binding:"required" validate:"required,address"`
}

// POST /admin/badges/root
func (h *BadgeHandler) MintRoot(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := adminIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	result, err := h.badgeService.MintRoot(adminID, req.Recipient)
	if err != nil {
		h.respondMintError(c, lang, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBadgeRootMinted),
		"badge":   result,
	})
}

// POST /admin/badges
func (h *BadgeHandler) Mint(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := adminIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	var req mintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	result, err := h.badgeService.Mint(adminID, req.Recipient)
	if err != nil {
		h.respondMintError(c, lang, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyBadgeMinted),
		"badge":   result,
	})
}

func (h *BadgeHandler) respondMintError(c *gin.Context, lang string, err error) {
	var hasBadge *services.RecipientHasBadgeError
	switch {
	case errors.Is(err, services.ErrCollectionNotInitialized):
		utils.ErrorResponse(c, http.StatusNotFound, "COLLECTION_NOT_INITIALIZED",
			i18n.T(lang, i18n.KeyCollectionNotInitialized), nil)
	case errors.Is(err, services.ErrRootAlreadySet):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyBadgeRootAlreadySet))
	case errors.Is(err, services.ErrRootNotSet):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyBadgeRootNotSet))
	case errors.As(err, &hasBadge):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyBadgeHolderHasBadge, hasBadge.Address))
	case errors.Is(err, services.ErrInvalidRecipient):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyBadgeInvalidRecipient), nil)
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

// GET /badges
func (h *BadgeHandler) ListBadges(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	badges, total, err := h.badgeService.ListBadges(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(badges, total, params))
}

// GET /badges/:tokenId
func (h *BadgeHandler) GetBadge(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	tokenID, err := strconv.ParseInt(c.Param("tokenId"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "tokenId"), nil)
		return
	}

	badge, err := h.badgeService.GetBadge(tokenID)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			utils.NotFoundResponse(c, "badge")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"badge": badge})
}

// GET /events
func (h *BadgeHandler) ListEvents(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var eventType *models.EventType
	if t := c.Query("type"); t != "" {
		et := models.EventType(t)
		eventType = &et
	}

	events, total, err := h.eventService.ListEvents(params, eventType, c.Query("recipient"))
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(events, total, params))
}
