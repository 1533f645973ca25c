package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

type APIKeyHandler struct {
	generateUC generateAPIKeyUseCase
	revokeUC   revokeAPIKeyUseCase
	logger     logger.Interface
}

func NewAPIKeyHandler(generateUC generateAPIKeyUseCase, revokeUC revokeAPIKeyUseCase, logger logger.Interface) *APIKeyHandler {
	return &APIKeyHandler{
		generateUC: generateUC,
		revokeUC:   revokeUC,
		logger:     logger,
	}
}

func (h *APIKeyHandler) Generate(c *gin.Context) {
	result, err := h.generateUC.Execute(c.Request.Context(), principalFrom(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated,
		"API key generated successfully. Store it securely, it won't be shown again.", result)
}

func (h *APIKeyHandler) Revoke(c *gin.Context) {
	if err := h.revokeUC.Execute(c.Request.Context(), principalFrom(c)); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "API key revoked successfully", nil)
}
