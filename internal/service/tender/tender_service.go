package tender

import (
	"context"

	"github.com/kamazuxa/tender/internal/models"
	"github.com/kamazuxa/tender/pkg/queue"
)

// Service accepts analysis requests, runs them through the document
// pipeline and serves the resulting reports.
type Service interface {
	// SubmitAnalysis resolves the tender and enqueues an analysis task.
	// Either a tender URL or a registry number must be provided.
	SubmitAnalysis(ctx context.Context, tenderURL, regNumber string) (*models.AnalysisTask, error)

	// HandleAnalysisTask is the worker-side entry point for one queued task.
	HandleAnalysisTask(ctx context.Context, task *queue.Task) error

	// GetStatus returns the task's current state.
	GetStatus(ctx context.Context, taskID string) (*queue.TaskStatus, error)

	// GetReport loads a completed task's analysis report.
	GetReport(ctx context.Context, taskID string) (*models.AnalysisReport, error)

	// CancelTask removes a still-queued task.
	CancelTask(ctx context.Context, taskID string) error
}
