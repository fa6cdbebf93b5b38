package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
)

// departmentResponse summarizes a department and its bed capacity.
type departmentResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	TotalRooms    int64  `json:"total_rooms"`
	TotalBeds     int64  `json:"total_beds"`
	AvailableBeds int64  `json:"available_beds"`
}

// GetDepartments handles GET /api/departments.
func (h *Handler) GetDepartments(c *gin.Context) {
	db := h.store.DB().WithContext(c.Request.Context())

	var departments []model.Department
	if err := db.Order("name ASC").Find(&departments).Error; err != nil {
		fail(c, apperr.Transient("department query failed", err))
		return
	}

	// One aggregation pass over beds joined to rooms, then merge.
	type aggRow struct {
		DepartmentID  int64
		TotalRooms    int64
		TotalBeds     int64
		AvailableBeds int64
	}
	var aggs []aggRow
	err := db.Model(&model.Bed{}).
		Select("rooms.department_id as department_id, " +
			"COUNT(DISTINCT rooms.id) as total_rooms, " +
			"COUNT(beds.id) as total_beds, " +
			"SUM(CASE WHEN beds.status = 'available' THEN 1 ELSE 0 END) as available_beds").
		Joins("JOIN rooms ON rooms.id = beds.room_id").
		Group("rooms.department_id").
		Scan(&aggs).Error
	if err != nil {
		fail(c, apperr.Transient("bed aggregation failed", err))
		return
	}

	aggMap := make(map[int64]aggRow, len(aggs))
	for _, a := range aggs {
		aggMap[a.DepartmentID] = a
	}

	responses := make([]departmentResponse, 0, len(departments))
	for _, d := range departments {
		a := aggMap[d.ID]
		responses = append(responses, departmentResponse{
			ID:            d.ID,
			Name:          d.Name,
			TotalRooms:    a.TotalRooms,
			TotalBeds:     a.TotalBeds,
			AvailableBeds: a.AvailableBeds,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "departments": responses})
}

// GetDepartmentRooms handles GET /api/departments/:id/rooms.
func (h *Handler) GetDepartmentRooms(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid department id")
		return
	}

	db := h.store.DB().WithContext(c.Request.Context())
	var rooms []model.Room
	if err := db.Where("department_id = ?", id).Order("number ASC").Find(&rooms).Error; err != nil {
		fail(c, apperr.Transient("room query failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms})
}
