// internal/handlers/collection.go
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/badge-backend/internal/i18n"
	"github.com/javajoker/badge-backend/internal/services"
	"github.com/javajoker/badge-backend/internal/utils"
)

type CollectionHandler struct {
	badgeService   *services.BadgeService
	storageService *services.StorageService
}

func NewCollectionHandler(badgeService *services.BadgeService, storageService *services.StorageService) *CollectionHandler {
	return &CollectionHandler{
		badgeService:   badgeService,
		storageService: storageService,
	}
}

// POST /admin/collection
func (h *CollectionHandler) Initialize(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := adminIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
		return
	}

	var req services.InitializeCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	collection, err := h.badgeService.InitializeCollection(adminID, &req)
	if err != nil {
		if errors.Is(err, services.ErrCollectionAlreadyInitialized) {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyCollectionAlreadyInitialized))
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyCollectionInitialized),
		"collection": collection,
	})
}

// GET /collection
func (h *CollectionHandler) GetCollection(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	collection, err := h.badgeService.Collection()
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotInitialized) {
			utils.ErrorResponse(c, http.StatusNotFound, "COLLECTION_NOT_INITIALIZED",
				i18n.T(lang, i18n.KeyCollectionNotInitialized), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"collection": collection})
}

// GET /collection/stats
func (h *CollectionHandler) Stats(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	stats, err := h.badgeService.CollectionStats()
	if err != nil {
		if errors.Is(err, services.ErrCollectionNotInitialized) {
			utils.ErrorResponse(c, http.StatusNotFound, "COLLECTION_NOT_INITIALIZED",
				i18n.T(lang, i18n.KeyCollectionNotInitialized), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, stats)
}

// PUT /admin/collection/token-uri
func (h *CollectionHandler) SetTokenURI(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req struct {
		TokenURI string `json:"token_uri" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	collection, err := h.badgeService.SetTokenURI(req.TokenURI)
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
		"message":    i18n.T(lang, i18n.KeyCollectionTokenURIUpdated),
		"collection": collection,
	})
}

// POST /admin/collection/metadata
//
// Hosts a metadata JSON document and returns the URI plus integrity hash so
// the administrator can reference them when initializing the collection.
func (h *CollectionHandler) UploadMetadata(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	document, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil || len(document) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "document"), nil)
		return
	}

	result, err := h.storageService.UploadMetadataDocument(document, c.Query("kind"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"upload":  result,
	})
}

func adminIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
