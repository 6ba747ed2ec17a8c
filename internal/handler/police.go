package handlers

import (
	"github.com/Sharruk/TravelGuard/internal/models"
	"github.com/Sharruk/TravelGuard/pkg/response"

	"github.com/gin-gonic/gin"
)

func (h *Handlers) handleListTourists(c *gin.Context) {
	tourists, err := models.ListTourists(h.db)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tourists)
}

func (h *Handlers) handleListActiveAlerts(c *gin.Context) {
	alerts, err := models.ListActiveAlerts(h.db)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, alerts)
}

func (h *Handlers) handleCreateAlert(c *gin.Context) {
	var form models.CreateAlertForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.InvalidRequest(c, err)
		return
	}
	alert, err := models.CreateAlert(h.db, form)
	h.recordBusiness("create_alert", err)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordAlert(alert.Type, alert.Severity)
	}
	response.Success(c, alert)
}

func (h *Handlers) handleUpdateAlert(c *gin.Context) {
	var form models.UpdateAlertForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.InvalidRequest(c, err)
		return
	}
	alert, err := models.UpdateAlertStatus(h.db, c.Param("alertId"), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordAlertStatus(alert.Status)
	}
	response.Success(c, alert)
}

func (h *Handlers) handleStats(c *gin.Context) {
	stats, err := models.GetPoliceStats(h.db)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
