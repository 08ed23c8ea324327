// internal/handlers/provenance.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/javajoker/badge-backend/internal/i18n"
	"github.com/javajoker/badge-backend/internal/services"
	"github.com/javajoker/badge-backend/internal/utils"
)

type ProvenanceHandler struct {
	registryService  *services.AssetRegistryService
	licensingService *services.LicenseRegistryService
}

func NewProvenanceHandler(registryService *services.AssetRegistryService, licensingService *services.LicenseRegistryService) *ProvenanceHandler {
	return &ProvenanceHandler{
		registryService:  registryService,
		licensingService: licensingService,
	}
}

// GET /assets/:assetId
func (h *ProvenanceHandler) GetAsset(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "assetId"), nil)
		return
	}

	asset, err := h.registryService.GetAsset(assetID)
	if err != nil {
		if errors.Is(err, services.ErrAssetNotFound) {
			utils.NotFoundResponse(c, "asset")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"asset": asset})
}

// GET /assets/:assetId/derivatives
func (h *ProvenanceHandler) GetDerivatives(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "assetId"), nil)
		return
	}

	derivatives, err := h.licensingService.Derivatives(assetID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asset_id":    assetID,
		"derivatives": derivatives,
	})
}
