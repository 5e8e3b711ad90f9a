package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kamazuxa/tender/internal/service/tender"
	"github.com/kamazuxa/tender/pkg/logger"
)

type TenderHandler struct {
	service tender.Service
	logger  logger.Logger
}

// AnalyzeRequest accepts either a tender URL or a bare registry number.
type AnalyzeRequest struct {
	TenderURL string `json:"tenderUrl"`
	RegNumber string `json:"regNumber"`
}

type AnalyzeResponse struct {
	TaskID    string `json:"taskId"`
	Status    string `json:"status"`
	RegNumber string `json:"regNumber"`
	CreatedAt string `json:"createdAt"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewTenderHandler(service tender.Service, log logger.Logger) *TenderHandler {
	return &TenderHandler{
		service: service,
		logger:  log,
	}
}

// Analyze accepts a tender reference and enqueues an analysis task.
func (h *TenderHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TenderURL == "" && req.RegNumber == "" {
		h.handleError(c, http.StatusBadRequest, "Either tenderUrl or regNumber is required", nil)
		return
	}

	task, err := h.service.SubmitAnalysis(c.Request.Context(), req.TenderURL, req.RegNumber)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to submit analysis", err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		TaskID:    task.ID,
		Status:    string(task.Status),
		RegNumber: task.RegNumber,
		CreatedAt: task.CreatedAt.Format(time.RFC3339),
	})
}

// GetStatus returns the current state of an analysis task.
func (h *TenderHandler) GetStatus(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, http.StatusNotFound, "Failed to get status", err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetReport returns a completed task's analysis report.
func (h *TenderHandler) GetReport(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	report, err := h.service.GetReport(c.Request.Context(), taskID)
	if err != nil {
		h.handleError(c, http.StatusNotFound, "Report not available", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// CancelTask removes a still-queued analysis task.
func (h *TenderHandler) CancelTask(c *gin.Context) {
	taskID := c.Param("taskId")
	if taskID == "" {
		h.handleError(c, http.StatusBadRequest, "Task ID is required", nil)
		return
	}

	if err := h.service.CancelTask(c.Request.Context(), taskID); err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to cancel task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"taskId": taskID, "status": "cancelled"})
}

func (h *TenderHandler) handleError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		h.logger.Error(message, logger.Error(err))
	} else {
		h.logger.Error(message)
	}

	resp := ErrorResponse{Error: http.StatusText(status), Message: message}
	if err != nil {
		resp.Message = message + ": " + err.Error()
	}
	c.JSON(status, resp)
}
