package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/draftloop/draftloop/internal/models"
	"github.com/draftloop/draftloop/internal/service"
)

// DerivativeHandler serves derivative CRUD and regeneration endpoints.
type DerivativeHandler struct {
	repo DerivativeRepository
	log  *logrus.Logger
}

// NewDerivativeHandler creates a DerivativeHandler with the given service and logger.
func NewDerivativeHandler(repo DerivativeRepository, log *logrus.Logger) *DerivativeHandler {
	return &DerivativeHandler{repo: repo, log: log}
}

// List handles GET /api/v1/derivatives.
func (h *DerivativeHandler) List(c *gin.Context) {
	platform := c.Query("platform")
	status := c.Query("status")
	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	derivatives, hasMore, err := h.repo.ListDerivatives(c.Request.Context(), platform, status, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing derivatives")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"derivatives": derivatives, "has_more": hasMore})
}

// Get handles GET /api/v1/derivatives/:id.
func (h *DerivativeHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := parseDerivativeID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	derivative, err := h.repo.GetDerivative(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrDerivativeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "derivative not found")

			return
		}

		h.log.WithError(err).Error("getting derivative")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, derivative)
}

// Create handles POST /api/v1/derivatives.
func (h *DerivativeHandler) Create(c *gin.Context) {
	var req models.CreateDerivativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	derivative, err := h.repo.CreateDerivative(c.Request.Context(), req)
	if err != nil {
		h.log.WithError(err).Error("creating derivative")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":        "derivative.create",
		"derivative_id": derivative.ID,
		"platform":      derivative.Platform,
	}).Info("audit")

	c.JSON(http.StatusCreated, derivative)
}

// Update handles PUT /api/v1/derivatives/:id.
func (h *DerivativeHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if err := parseDerivativeID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.UpdateDerivativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	derivative, err := h.repo.UpdateDerivative(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, models.ErrDerivativeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "derivative not found")

			return
		}

		h.log.WithError(err).Error("updating derivative")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":        "derivative.update",
		"derivative_id": id,
	}).Info("audit")

	c.JSON(http.StatusOK, derivative)
}

// Delete handles DELETE /api/v1/derivatives/:id.
func (h *DerivativeHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := parseDerivativeID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	if err := h.repo.DeleteDerivative(c.Request.Context(), id); err != nil {
		if errors.Is(err, models.ErrDerivativeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "derivative not found")

			return
		}

		h.log.WithError(err).Error("deleting derivative")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{"action": "derivative.delete", "derivative_id": id}).Info("audit")

	c.Status(http.StatusNoContent)
}

// Regenerate handles POST /api/v1/derivatives/:id/regenerate.
func (h *DerivativeHandler) Regenerate(c *gin.Context) {
	id := c.Param("id")
	if err := parseDerivativeID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.RegenerateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

			return
		}
	}

	version, err := h.repo.RegenerateDerivative(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLLMUnavailable):
			respondError(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "AI regeneration is not configured")
		case errors.Is(err, models.ErrDerivativeNotFound):
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "derivative not found")
		default:
			h.log.WithError(err).Error("regenerating derivative")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":         "derivative.regenerate",
		"derivative_id":  id,
		"version_number": version.VersionNumber,
	}).Info("audit")

	c.JSON(http.StatusCreated, version)
}
