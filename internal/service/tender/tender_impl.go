package tender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kamazuxa/tender/internal/analyzer"
	"github.com/kamazuxa/tender/internal/downloader"
	"github.com/kamazuxa/tender/internal/guru"
	"github.com/kamazuxa/tender/internal/models"
	"github.com/kamazuxa/tender/internal/pipeline"
	"github.com/kamazuxa/tender/internal/prompt"
	"github.com/kamazuxa/tender/pkg/logger"
	"github.com/kamazuxa/tender/pkg/queue"
	"github.com/kamazuxa/tender/pkg/storage"
)

type tenderService struct {
	guru       *guru.Client
	platforms  *guru.PlatformDirectory
	downloader *downloader.Downloader
	pipeline   *pipeline.Orchestrator
	prompts    *prompt.Builder
	analyzer   *analyzer.Client
	queue      queue.Queue
	storage    storage.Storage
	workRoot   string
	logger     logger.Logger
}

// Deps bundles the service's collaborators.
type Deps struct {
	Guru       *guru.Client
	Platforms  *guru.PlatformDirectory
	Downloader *downloader.Downloader
	Pipeline   *pipeline.Orchestrator
	Prompts    *prompt.Builder
	Analyzer   *analyzer.Client
	Queue      queue.Queue
	Storage    storage.Storage
	WorkRoot   string
}

func NewService(deps Deps, log logger.Logger) Service {
	if log == nil {
		log = logger.Nop()
	}
	return &tenderService{
		guru:       deps.Guru,
		platforms:  deps.Platforms,
		downloader: deps.Downloader,
		pipeline:   deps.Pipeline,
		prompts:    deps.Prompts,
		analyzer:   deps.Analyzer,
		queue:      deps.Queue,
		storage:    deps.Storage,
		workRoot:   deps.WorkRoot,
		logger:     log,
	}
}

func reportKey(taskID string) string {
	return fmt.Sprintf("reports/%s.json", taskID)
}

func (s *tenderService) SubmitAnalysis(ctx context.Context, tenderURL, regNumber string) (*models.AnalysisTask, error) {
	var platform string
	if regNumber == "" {
		var err error
		regNumber, platform, err = s.platforms.Resolve(ctx, tenderURL)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tender url: %w", err)
		}
	}

	task := &models.AnalysisTask{
		ID:        uuid.New().String(),
		TenderURL: tenderURL,
		RegNumber: regNumber,
		Platform:  platform,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis task: %w", err)
	}

	qt := &queue.Task{
		ID:        task.ID,
		Type:      queue.TaskTypeTenderAnalyze,
		Priority:  2,
		Payload:   payload,
		CreatedAt: task.CreatedAt,
	}
	if err := s.queue.Enqueue(ctx, qt); err != nil {
		return nil, fmt.Errorf("failed to enqueue analysis task: %w", err)
	}

	if err := s.queue.SaveFinalStatus(ctx, &queue.TaskStatus{
		TaskID:    task.ID,
		Status:    string(models.StatusPending),
		StartedAt: task.CreatedAt,
	}); err != nil {
		s.logger.Warn("failed to save initial task status",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
	}

	s.logger.Info("analysis task submitted",
		logger.String("taskId", task.ID),
		logger.String("regNumber", regNumber),
	)
	return task, nil
}

func (s *tenderService) HandleAnalysisTask(ctx context.Context, qt *queue.Task) error {
	var task models.AnalysisTask
	if err := json.Unmarshal(qt.Payload, &task); err != nil {
		return fmt.Errorf("failed to unmarshal analysis task: %w", err)
	}

	s.setStatus(ctx, task.ID, string(models.StatusProcessing), 0.1, "", "")

	report, err := s.runAnalysis(ctx, &task)
	if err != nil {
		s.logger.Error("analysis task failed",
			logger.String("taskId", task.ID),
			logger.Error(err),
		)
		s.setStatus(ctx, task.ID, string(models.StatusFailed), 0, err.Error(), "")
		return err
	}

	key, err := s.storeReport(ctx, report)
	if err != nil {
		s.setStatus(ctx, task.ID, string(models.StatusFailed), 0, err.Error(), "")
		return err
	}

	s.setStatus(ctx, task.ID, string(models.StatusCompleted), 1.0, "", key)
	s.logger.Info("analysis task completed",
		logger.String("taskId", task.ID),
		logger.String("reportKey", key),
	)
	return nil
}

// runAnalysis is the full worker-side flow: resolve, download, run the
// document pipeline, assemble the prompt, call the model. The run working
// directory is always released, also on failure.
func (s *tenderService) runAnalysis(ctx context.Context, task *models.AnalysisTask) (*models.AnalysisReport, error) {
	info, err := s.guru.GetTender(ctx, task.RegNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tender %s: %w", task.RegNumber, err)
	}
	if info.Platform == "" {
		info.Platform = task.Platform
	}

	downloadDir := filepath.Join(s.workRoot, "downloads", task.ID)
	if err := os.MkdirAll(downloadDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create download dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(downloadDir); err != nil {
			s.logger.Warn("failed to remove download dir",
				logger.String("dir", downloadDir),
				logger.Error(err),
			)
		}
	}()

	paths, warnings := s.downloader.DownloadAll(ctx, info.Documents, downloadDir)

	defer func() {
		if err := s.pipeline.Cleanup(task.ID); err != nil {
			s.logger.Warn("failed to clean up pipeline run dir",
				logger.String("taskId", task.ID),
				logger.Error(err),
			)
		}
	}()

	result, err := s.pipeline.Run(ctx, task.ID, paths)
	if err != nil {
		return nil, fmt.Errorf("pipeline run failed: %w", err)
	}
	if !result.Success {
		return nil, fmt.Errorf("no analyzable documentation for tender %s: %s", task.RegNumber, result.Reason)
	}

	promptText := s.prompts.Build(*info, result.Text)
	analysis, err := s.analyzer.Analyze(ctx, promptText)
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}

	report := &models.AnalysisReport{
		TaskID:     task.ID,
		RegNumber:  task.RegNumber,
		TenderName: info.Name,
		Analysis:   analysis,
		Warnings:   warnings,
		CreatedAt:  time.Now(),
	}
	for _, src := range result.Sources {
		report.Sources = append(report.Sources, models.ReportSource{
			Filename:       src.Filename,
			Length:         src.Length,
			OriginalLength: src.OriginalLength,
		})
	}
	return report, nil
}

func (s *tenderService) storeReport(ctx context.Context, report *models.AnalysisReport) (string, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	key := reportKey(report.TaskID)
	if _, err := s.storage.Store(ctx, bytes.NewReader(data), key); err != nil {
		return "", fmt.Errorf("failed to store report: %w", err)
	}
	return key, nil
}

func (s *tenderService) GetStatus(ctx context.Context, taskID string) (*queue.TaskStatus, error) {
	return s.queue.GetTaskStatus(ctx, taskID)
}

func (s *tenderService) GetReport(ctx context.Context, taskID string) (*models.AnalysisReport, error) {
	obj, err := s.storage.Get(ctx, reportKey(taskID))
	if err != nil {
		return nil, fmt.Errorf("report not found for task %s: %w", taskID, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report models.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

func (s *tenderService) CancelTask(ctx context.Context, taskID string) error {
	return s.queue.CancelTask(ctx, taskID)
}

func (s *tenderService) setStatus(ctx context.Context, taskID, status string, progress float64, errMsg, reportKey string) {
	st := &queue.TaskStatus{
		TaskID:    taskID,
		Status:    status,
		Progress:  progress,
		Error:     errMsg,
		ReportKey: reportKey,
		StartedAt: time.Now(),
	}
	if status == string(models.StatusCompleted) || status == string(models.StatusFailed) {
		st.FinishedAt = time.Now()
	}
	if err := s.queue.SaveFinalStatus(ctx, st); err != nil {
		s.logger.Warn("failed to save task status",
			logger.String("taskId", taskID),
			logger.String("status", status),
			logger.Error(err),
		)
	}
}
