package handlers

import (
	"net/http"

	"github.com/Sharruk/TravelGuard/internal/models"
	apperrors "github.com/Sharruk/TravelGuard/pkg/errors"
	"github.com/Sharruk/TravelGuard/pkg/response"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) handleGetProfile(c *gin.Context) {
	tourist, err := models.GetTouristByUserID(h.db, c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tourist)
}

func (h *Handlers) handleUpdateLocation(c *gin.Context) {
	var form models.UpdateLocationForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.InvalidRequest(c, err)
		return
	}
	tourist, err := models.UpdateTouristLocation(h.db, c.Param("touristId"), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tourist)
}

func (h *Handlers) handlePanic(c *gin.Context) {
	alert, err := models.TriggerPanic(h.db, c.Param("touristId"))
	h.recordBusiness("panic", err)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordAlert(alert.Type, alert.Severity)
	}
	response.Success(c, alert)
}

func (h *Handlers) handleTouristAlerts(c *gin.Context) {
	alerts, err := models.ListAlertsForTourist(h.db, c.Param("touristId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, alerts)
}

func (h *Handlers) handleAddItinerary(c *gin.Context) {
	var item models.ItineraryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		response.InvalidRequest(c, err)
		return
	}
	tourist, err := models.AppendItineraryItem(h.db, c.Param("touristId"), item)
	if err != nil {
		failUnlessNotFound(c, err, "Failed to add itinerary item")
		return
	}
	response.Success(c, tourist)
}

func (h *Handlers) handleUpdateContacts(c *gin.Context) {
	var form models.UpdateContactsForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.InvalidRequest(c, err)
		return
	}
	tourist, err := models.ReplaceEmergencyContacts(h.db, c.Param("touristId"), form.EmergencyContacts)
	if err != nil {
		failUnlessNotFound(c, err, "Failed to update emergency contacts")
		return
	}
	response.Success(c, tourist)
}

// 行程、联系人写入失败统一按 400 返回，只有找不到游客时是 404
func failUnlessNotFound(c *gin.Context, err error, msg string) {
	if apperrors.GetCode(err) == http.StatusNotFound {
		response.Error(c, err)
		return
	}
	_ = c.Error(err)
	response.Fail(c, http.StatusBadRequest, msg)
}
