package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/admission"
)

type planRequest struct {
	Patient      string                 `json:"patient" binding:"required"`
	Requirements admission.Requirements `json:"requirements"`
}

// PlanAdmission handles POST /api/admissions/plan. A plan that could
// only partially be satisfied is still a successful response; the
// shortfalls are part of the result.
func (h *Handler) PlanAdmission(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	plan, err := h.planner.Plan(c.Request.Context(), req.Patient, req.Requirements)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "plan": plan})
}

type commitRequest struct {
	Plan admission.Plan `json:"plan" binding:"required"`
}

// CommitAdmissionPlan handles POST /api/admissions/commit. The
// result reports each resource separately; a stale bed candidate
// does not undo staff or equipment assignments that succeeded.
func (h *Handler) CommitAdmissionPlan(c *gin.Context) {
	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Plan.PatientUUID == "" {
		badRequest(c, "invalid request")
		return
	}

	result, err := h.planner.Commit(c.Request.Context(), &req.Plan)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
