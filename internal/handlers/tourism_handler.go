package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/desiverse/api/internal/analytics"
	apierrors "github.com/stwalsh4118/desiverse/api/internal/errors"
	"github.com/stwalsh4118/desiverse/api/internal/middleware"
	"github.com/stwalsh4118/desiverse/api/internal/models"
	"github.com/stwalsh4118/desiverse/api/internal/services"
)

// TourismHandler handles the dataset read endpoints.
type TourismHandler struct {
	service services.TourismService
}

// NewTourismHandler creates a new TourismHandler instance.
func NewTourismHandler(service services.TourismService) *TourismHandler {
	return &TourismHandler{service: service}
}

// TourismQuery holds the filter query parameters shared by the read
// endpoints. Region and state may repeat or carry comma-separated lists.
type TourismQuery struct {
	StartYear int      `form:"start_year" binding:"omitempty,gte=1900,lte=2100"`
	EndYear   int      `form:"end_year" binding:"omitempty,gte=1900,lte=2100,gtefield=StartYear"`
	Region    []string `form:"region"`
	State     []string `form:"state"`
}

// RecordsResponse is the response for the records endpoint.
type RecordsResponse struct {
	Records []models.TourismRecord `json:"records"`
	Count   int                    `json:"count"`
}

// StatesResponse is the response for the states endpoint.
type StatesResponse struct {
	States []models.State `json:"states"`
	Count  int            `json:"count"`
}

// Records handles GET /api/v1/tourism/records.
func (h *TourismHandler) Records(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	records, err := h.service.ListRecords(c.Request.Context(), filter)
	if err != nil {
		handleServiceError(c, err, "Failed to list tourism records")
		return
	}

	c.JSON(http.StatusOK, RecordsResponse{Records: records, Count: len(records)})
}

// Summary handles GET /api/v1/tourism/summary/:dimension.
func (h *TourismHandler) Summary(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	summary, err := h.service.Summarize(c.Request.Context(), c.Param("dimension"), filter)
	if err != nil {
		handleServiceError(c, err, "Failed to summarize tourism records")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Stats handles GET /api/v1/tourism/stats/:dimension.
func (h *TourismHandler) Stats(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	stats, err := h.service.Describe(c.Request.Context(), c.Param("dimension"), filter)
	if err != nil {
		handleServiceError(c, err, "Failed to describe tourism records")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// States handles GET /api/v1/tourism/states.
func (h *TourismHandler) States(c *gin.Context) {
	states := h.service.States()
	c.JSON(http.StatusOK, StatesResponse{States: states, Count: len(states)})
}

// bindFilter binds the query string and writes the error response itself
// when binding fails.
func bindFilter(c *gin.Context) (services.RecordFilter, bool) {
	var q TourismQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return services.RecordFilter{}, false
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return services.RecordFilter{}, false
	}

	filter := services.RecordFilter{
		StartYear: q.StartYear,
		EndYear:   q.EndYear,
		Regions:   splitList(q.Region),
		States:    splitList(q.State),
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Tourism filter", map[string]interface{}{
			"start_year": filter.StartYear,
			"end_year":   filter.EndYear,
			"regions":    filter.Regions,
			"states":     filter.States,
		})
	}
	return filter, true
}

// handleServiceError maps service errors onto the error envelope.
func handleServiceError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrInvalidFilter):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidDimension):
		apierrors.BadRequest(c, err.Error(), map[string]interface{}{
			"dimensions": analytics.Dimensions,
		})
	case errors.Is(err, services.ErrDatasetEmpty):
		apierrors.ServiceUnavailable(c, "Dataset has not been generated yet", err)
	default:
		apierrors.InternalServerError(c, message, err)
	}
}

func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
