package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

type FavoriteHandler struct {
	favoritesUC favoritesUseCase
	logger      logger.Interface
}

func NewFavoriteHandler(favoritesUC favoritesUseCase, logger logger.Interface) *FavoriteHandler {
	return &FavoriteHandler{
		favoritesUC: favoritesUC,
		logger:      logger,
	}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	result, err := h.favoritesUC.List(c.Request.Context(), principalFrom(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	result, err := h.favoritesUC.Add(c.Request.Context(), principalFrom(c), c.Param("signup_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Added to favorites", result)
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	result, err := h.favoritesUC.Remove(c.Request.Context(), principalFrom(c), c.Param("signup_id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Removed from favorites", result)
}
