package handlers

import (
	"net/http"

	"github.com/Sharruk/TravelGuard/internal/models"
	"github.com/Sharruk/TravelGuard/internal/report"
	"github.com/Sharruk/TravelGuard/pkg/logger"
	"github.com/Sharruk/TravelGuard/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck 健康检查接口
func (h *Handlers) HealthCheck(c *gin.Context) {
	// 检查数据库连接
	sqlDB, err := h.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database connection failed"})
		return
	}
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": "database ping failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "healthy", "backend": "go"})
}

// handleDownloadReport 导出 PDF 快照
func (h *Handlers) handleDownloadReport(c *gin.Context) {
	snap, err := models.LoadReportSnapshot(h.db)
	if err != nil {
		reportFailed(c, err)
		return
	}
	pdf, err := report.Render(snap)
	if err != nil {
		reportFailed(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+report.Filename(snap))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func reportFailed(c *gin.Context, err error) {
	logger.Error("report generation failed", zap.Error(err))
	response.Fail(c, http.StatusInternalServerError, "Failed to generate report")
}
