package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/draftloop/draftloop/internal/models"
)

// defaultPurgeKeep is the default number of versions kept by a purge.
const defaultPurgeKeep = 10

// VersionHandler serves version ledger endpoints.
type VersionHandler struct {
	repo VersionRepository
	log  *logrus.Logger
}

// NewVersionHandler creates a VersionHandler with the given service and logger.
func NewVersionHandler(repo VersionRepository, log *logrus.Logger) *VersionHandler {
	return &VersionHandler{repo: repo, log: log}
}

// Create handles POST /api/v1/versions.
func (h *VersionHandler) Create(c *gin.Context) {
	var req models.CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	version, err := h.repo.CreateVersion(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrDerivativeNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "derivative not found")

			return
		}

		h.log.WithError(err).Error("creating version")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":         "version.create",
		"derivative_id":  req.DerivativeID,
		"version_number": version.VersionNumber,
	}).Info("audit")

	c.JSON(http.StatusCreated, version)
}

// List handles GET /api/v1/versions/:derivativeID.
func (h *VersionHandler) List(c *gin.Context) {
	derivativeID := c.Param("derivativeID")
	if err := parseDerivativeID(derivativeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	versions, err := h.repo.GetVersions(c.Request.Context(), derivativeID)
	if err != nil {
		h.log.WithError(err).Error("listing versions")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"versions": versions, "count": len(versions)})
}

// Get handles GET /api/v1/version/:versionID.
func (h *VersionHandler) Get(c *gin.Context) {
	versionID, err := parseVersionID(c.Param("versionID"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	version, err := h.repo.GetVersion(c.Request.Context(), versionID)
	if err != nil {
		if errors.Is(err, models.ErrVersionNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "version not found")

			return
		}

		h.log.WithError(err).Error("getting version")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, version)
}

// Rollback handles POST /api/v1/versions/rollback.
func (h *VersionHandler) Rollback(c *gin.Context) {
	var req models.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	version, err := h.repo.Rollback(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrVersionNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "target version not found")

			return
		}

		h.log.WithError(err).Error("rolling back version")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":            "version.rollback",
		"derivative_id":     req.DerivativeID,
		"target_version_id": req.TargetVersionID,
		"new_version":       version.VersionNumber,
	}).Info("audit")

	c.JSON(http.StatusOK, gin.H{
		"message": "rollback complete",
		"version": version,
	})
}

// Compare handles POST /api/v1/versions/compare.
func (h *VersionHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())

		return
	}

	comparison, err := h.repo.CompareVersions(c.Request.Context(), req.Version1ID, req.Version2ID)
	if err != nil {
		if errors.Is(err, models.ErrVersionNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "version not found")

			return
		}

		h.log.WithError(err).Error("comparing versions")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, comparison)
}

// Delete handles DELETE /api/v1/version/:versionID.
func (h *VersionHandler) Delete(c *gin.Context) {
	versionID, err := parseVersionID(c.Param("versionID"))
	if err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	changedBy := c.Query("changed_by")

	if err := h.repo.DeleteVersion(c.Request.Context(), versionID, changedBy); err != nil {
		switch {
		case errors.Is(err, models.ErrVersionNotFound):
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "version not found")
		case errors.Is(err, models.ErrCurrentVersion):
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "cannot delete the current version")
		default:
			h.log.WithError(err).Error("deleting version")
			respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		}

		return
	}

	h.log.WithFields(logrus.Fields{"action": "version.delete", "version_id": versionID}).Info("audit")

	c.Status(http.StatusNoContent)
}

// Purge handles POST /api/v1/versions/purge/:derivativeID.
func (h *VersionHandler) Purge(c *gin.Context) {
	derivativeID := c.Param("derivativeID")
	if err := parseDerivativeID(derivativeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	keepCount := defaultPurgeKeep
	if kc := c.Query("keep_count"); kc != "" {
		v, err := strconv.Atoi(kc)
		if err != nil || v < 1 {
			respondError(c, http.StatusBadRequest, ErrCodeValidationError, "keep_count must be a positive integer")

			return
		}
		keepCount = v
	}

	deleted, err := h.repo.PurgeOldVersions(c.Request.Context(), derivativeID, keepCount)
	if err != nil {
		h.log.WithError(err).Error("purging versions")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.log.WithFields(logrus.Fields{
		"action":        "version.purge",
		"derivative_id": derivativeID,
		"keep_count":    keepCount,
		"deleted":       deleted,
	}).Info("audit")

	c.JSON(http.StatusOK, gin.H{
		"message":       "purge complete",
		"deleted_count": deleted,
	})
}

// Stats handles GET /api/v1/versions/stats/:derivativeID.
func (h *VersionHandler) Stats(c *gin.Context) {
	derivativeID := c.Param("derivativeID")
	if err := parseDerivativeID(derivativeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	stats, err := h.repo.GetVersionStats(c.Request.Context(), derivativeID)
	if err != nil {
		h.log.WithError(err).Error("getting version stats")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, stats)
}

// Timeline handles GET /api/v1/versions/timeline/:derivativeID.
func (h *VersionHandler) Timeline(c *gin.Context) {
	derivativeID := c.Param("derivativeID")
	if err := parseDerivativeID(derivativeID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	timeline, err := h.repo.GetVersionTimeline(c.Request.Context(), derivativeID)
	if err != nil {
		h.log.WithError(err).Error("getting version timeline")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"timeline": timeline, "count": len(timeline)})
}
