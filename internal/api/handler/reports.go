package handler

import (
	"net/http"
	"strconv"

	"childguard/backend/internal/config"
	"childguard/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreateReport stores a submitted report as-is. Field checks happen in the
// client form; the server only requires well-formed JSON.
func (h *Handler) CreateReport(c *gin.Context) {
	var submission models.ReportSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	report := models.NewReport(submission)
	if err := h.Storage.SaveReport(report); err != nil {
		h.Logger.Error("failed to save report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit report", "details": err.Error()})
		return
	}

	notice := report.Notice()
	if err := h.Storage.PublishReportNotice(notice); err != nil {
		h.Logger.Warn("failed to publish report notice", zap.String("report_id", report.ID), zap.Error(err))
	}
	h.Notifier.NotifyReport(notice)

	h.Logger.Info("report stored",
		zap.String("report_id", report.ID),
		zap.String("nature_of_abuse", report.NatureOfAbuse),
		zap.Int("evidence", len(report.Evidence)))
	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted successfully"})
}

// ListReports pages through reports, newest first.
func (h *Handler) ListReports(c *gin.Context) {
	limit := queryInt(c, "limit", config.DefaultReportPage)
	if limit <= 0 || limit > config.MaxReportPage {
		limit = config.DefaultReportPage
	}
	offset := queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	reports, err := h.Storage.ListReports(limit, offset)
	if err != nil {
		h.Logger.Error("failed to list reports", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching reports"})
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "limit": limit, "offset": offset})
}

func queryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
