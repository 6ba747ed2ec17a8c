package handlers

import (
	"github.com/Sharruk/TravelGuard/internal/models"
	"github.com/Sharruk/TravelGuard/pkg/response"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) handleListZones(c *gin.Context) {
	zones, err := models.ListGeoZones(h.db)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, zones)
}

func (h *Handlers) handleCreateZone(c *gin.Context) {
	var form models.GeoZoneForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.InvalidRequest(c, err)
		return
	}
	zone, err := models.CreateGeoZone(h.db, form)
	h.recordBusiness("create_zone", err)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, zone)
}
