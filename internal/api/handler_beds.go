package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
)

// GetBedStatus handles GET /api/beds/:bed/status. For a bed in
// cleaning the report includes remaining time and completion
// percentage.
func (h *Handler) GetBedStatus(c *gin.Context) {
	bed, err := h.store.ResolveBed(c.Request.Context(), c.Param("bed"))
	if err != nil {
		fail(c, err)
		return
	}

	report, err := h.lifecycle.StatusWithRemaining(c.Request.Context(), bed.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bed": report})
}

type assignRequest struct {
	Patient string `json:"patient" binding:"required"`
}

// AssignBed handles POST /api/beds/:bed/assign.
func (h *Handler) AssignBed(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	ctx := c.Request.Context()
	patient, err := h.store.ResolvePatient(ctx, req.Patient)
	if err != nil {
		fail(c, err)
		return
	}
	if patient.Status != model.PatientActive {
		fail(c, apperr.InvalidState("patient %s is %s", patient.Number, patient.Status))
		return
	}

	bed, err := h.store.ResolveBed(ctx, c.Param("bed"))
	if err != nil {
		fail(c, err)
		return
	}

	assigned, err := h.lifecycle.Assign(ctx, bed.ID, patient.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bed": assigned})
}

// BeginBedCleaning handles POST /api/beds/:bed/cleaning/begin.
func (h *Handler) BeginBedCleaning(c *gin.Context) {
	ctx := c.Request.Context()
	bed, err := h.store.ResolveBed(ctx, c.Param("bed"))
	if err != nil {
		fail(c, err)
		return
	}

	cleaned, err := h.lifecycle.BeginCleaning(ctx, bed.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bed": cleaned})
}

// CompleteBedCleaning handles POST /api/beds/:bed/cleaning/complete.
// Used by operators to finish a turnover ahead of the sweeper.
func (h *Handler) CompleteBedCleaning(c *gin.Context) {
	ctx := c.Request.Context()
	bed, err := h.store.ResolveBed(ctx, c.Param("bed"))
	if err != nil {
		fail(c, err)
		return
	}

	completed, err := h.lifecycle.CompleteCleaning(ctx, bed.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bed": completed})
}

type maintenanceRequest struct {
	Status model.BedStatus `json:"status"`
}

// SetBedMaintenance handles POST /api/beds/:bed/maintenance.
func (h *Handler) SetBedMaintenance(c *gin.Context) {
	req := maintenanceRequest{Status: model.BedMaintenance}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request")
			return
		}
	}

	ctx := c.Request.Context()
	bed, err := h.store.ResolveBed(ctx, c.Param("bed"))
	if err != nil {
		fail(c, err)
		return
	}

	updated, err := h.lifecycle.SetMaintenance(ctx, bed.ID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bed": updated})
}

// ClearBedMaintenance handles POST /api/beds/:bed/maintenance/clear.
func (h *Handler) ClearBedMaintenance(c *gin.Context) {
	ctx := c.Request.Context()
	bed, err := h.store.ResolveBed(ctx, c.Param("bed"))
	if err != nil {
		fail(c, err)
		return
	}

	updated, err := h.lifecycle.ClearMaintenance(ctx, bed.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bed": updated})
}
