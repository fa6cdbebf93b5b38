package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
)

type registerPatientRequest struct {
	Number    string `json:"number" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RegisterPatient handles POST /api/patients. Patients are created
// at admission request time; the UUID is assigned server side.
func (h *Handler) RegisterPatient(c *gin.Context) {
	var req registerPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request")
		return
	}

	patient := &model.Patient{
		Number:    req.Number,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    model.PatientActive,
	}
	if err := h.store.CreatePatient(c.Request.Context(), patient); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "patient": patient})
}
