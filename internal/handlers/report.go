package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Thanhfdq/task-app/internal/services"
)

// ReportHandler serves the dashboard aggregates of the current user.
type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) Overview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	overview, err := h.reportService.Overview(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "report overview", err)
		return
	}
	respondOK(c, "Overview retrieved", overview)
}

func (h *ReportHandler) TasksByProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	counts, err := h.reportService.TasksByProject(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "tasks by project", err)
		return
	}
	respondOK(c, "Tasks by project retrieved", counts)
}

// CompletionTrend returns the number of tasks completed per day.
func (h *ReportHandler) CompletionTrend(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	trend, err := h.reportService.CompletionTrend(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, "completion trend", err)
		return
	}
	respondOK(c, "Completion trend retrieved", trend)
}
