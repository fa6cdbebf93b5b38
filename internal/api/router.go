package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/arivanan0218/hospital-management-system-sub006/config"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/mw"
)

// NewRouter creates and configures a new Gin router exposing the
// tool-call surface.
func NewRouter(h *Handler, cfg *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimit(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Availability queries (ResourceRegistry)
		api.GET("/beds/available", h.FindAvailableBeds)
		api.GET("/staff/qualified", h.FindQualifiedStaff)
		api.GET("/equipment/available", h.FindAvailableEquipment)

		// Bed lifecycle
		api.GET("/beds/:bed/status", h.GetBedStatus)
		api.POST("/beds/:bed/assign", h.AssignBed)
		api.POST("/beds/:bed/cleaning/begin", h.BeginBedCleaning)
		api.POST("/beds/:bed/cleaning/complete", h.CompleteBedCleaning)
		api.POST("/beds/:bed/maintenance", h.SetBedMaintenance)
		api.POST("/beds/:bed/maintenance/clear", h.ClearBedMaintenance)

		// Admission planning
		api.POST("/admissions/plan", h.PlanAdmission)
		api.POST("/admissions/commit", h.CommitAdmissionPlan)

		// Discharge
		api.POST("/discharges", h.Discharge)

		// Patient registration
		api.POST("/patients", h.RegisterPatient)

		// Slow-changing listings, served from cache
		api.GET("/departments", caching, h.GetDepartments)
		api.GET("/departments/:id/rooms", caching, h.GetDepartmentRooms)
	}

	return r
}
