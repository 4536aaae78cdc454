package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/desiverse/api/internal/errors"
	"github.com/stwalsh4118/desiverse/api/internal/middleware"
	"github.com/stwalsh4118/desiverse/api/internal/services"
)

// RefreshTimeout bounds a refresh triggered over HTTP.
const RefreshTimeout = 2 * time.Minute

// DatasetHandler handles dataset maintenance endpoints.
type DatasetHandler struct {
	service services.DatasetService
}

// NewDatasetHandler creates a new DatasetHandler instance.
func NewDatasetHandler(service services.DatasetService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// Refresh handles POST /api/v1/dataset/refresh. It regenerates the dataset
// and replaces the stored one.
func (h *DatasetHandler) Refresh(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), RefreshTimeout)
	defer cancel()

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Dataset refresh requested", nil)
	}

	result, err := h.service.Refresh(ctx)
	if err != nil {
		apierrors.InternalServerError(c, "Failed to refresh dataset", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
