package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type dischargeRequest struct {
	Patient     string `json:"patient"`
	Bed         string `json:"bed"`
	Condition   string `json:"condition" binding:"required"`
	Destination string `json:"destination" binding:"required"`
}

// Discharge handles POST /api/discharges. The caller may identify
// the discharge by patient or by bed; either a number or a UUID
// works.
func (h *Handler) Discharge(c *gin.Context) {
	var req dischargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	ref := req.Patient
	if ref == "" {
		ref = req.Bed
	}
	if ref == "" {
		badRequest(c, "patient or bed is required")
		return
	}

	result, err := h.discharger.Discharge(c.Request.Context(), ref, req.Condition, req.Destination)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "discharge": result})
}
