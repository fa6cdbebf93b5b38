package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/admission"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/discharge"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/lifecycle"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/registry"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store      store.Store
	registry   *registry.Registry
	lifecycle  *lifecycle.Manager
	planner    *admission.Planner
	discharger *discharge.Coordinator
}

// NewHandler creates a new API handler.
func NewHandler(st store.Store, reg *registry.Registry, lc *lifecycle.Manager, pl *admission.Planner, dc *discharge.Coordinator) *Handler {
	return &Handler{
		store:      st,
		registry:   reg,
		lifecycle:  lc,
		planner:    pl,
		discharger: dc,
	}
}

// httpStatus maps an error kind to an HTTP status code for the
// tool-call layer.
func httpStatus(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState, apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the failure envelope the external layer expects.
func fail(c *gin.Context, err error) {
	c.AbortWithStatusJSON(httpStatus(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// badRequest rejects malformed input before it reaches the core.
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}
