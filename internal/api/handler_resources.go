package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/registry"
)

// FindAvailableBeds handles GET /api/beds/available.
// Query params: type (bed type), department_id.
func (h *Handler) FindAvailableBeds(c *gin.Context) {
	filter := registry.BedFilter{Type: model.BedType(c.Query("type"))}
	if raw := c.Query("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid department_id")
			return
		}
		filter.DepartmentID = id
	}

	beds, err := h.registry.FindAvailableBeds(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "beds": beds})
}

// FindQualifiedStaff handles GET /api/staff/qualified.
// Query params: role (required), department_id, max.
func (h *Handler) FindQualifiedStaff(c *gin.Context) {
	role := c.Query("role")
	if role == "" {
		badRequest(c, "role is required")
		return
	}

	var departmentID int64
	if raw := c.Query("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid department_id")
			return
		}
		departmentID = id
	}

	maxCount := 5
	if raw := c.Query("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "invalid max")
			return
		}
		maxCount = n
	}

	staff, err := h.registry.FindQualifiedStaff(c.Request.Context(), role, departmentID, maxCount)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "staff": staff})
}

// FindAvailableEquipment handles GET /api/equipment/available.
// Query params: category (required), count.
func (h *Handler) FindAvailableEquipment(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		badRequest(c, "category is required")
		return
	}

	count := 1
	if raw := c.Query("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "invalid count")
			return
		}
		count = n
	}

	equipment, err := h.registry.FindAvailableEquipment(c.Request.Context(), category, count)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "equipment": equipment})
}
