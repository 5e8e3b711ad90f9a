package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/kamazuxa/tender/internal/service/tender"
	"github.com/kamazuxa/tender/pkg/logger"
	"github.com/kamazuxa/tender/pkg/queue"
)

// TenderWorker consumes analysis tasks and hands them to the tender service.
type TenderWorker struct {
	BaseWorker
	svc tender.Service
}

func NewTenderWorker(cfg *Config, svc tender.Service, log logger.Logger) (*TenderWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &TenderWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		svc: svc,
	}

	w.registerHandlers()
	return w, nil
}

func (w *TenderWorker) registerHandlers() {
	w.mux.HandleFunc(queue.TaskTypeTenderAnalyze, w.handleTenderAnalyze)
}

func (w *TenderWorker) handleTenderAnalyze(ctx context.Context, t *asynq.Task) error {
	w.logger.Info("Received task",
		logger.String("payload", string(t.Payload())),
	)

	var task queue.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		w.logger.Error("Failed to unmarshal task",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		return fmt.Errorf("failed to unmarshal task: %w", err)
	}

	if task.ID == "" || len(task.Payload) == 0 {
		w.logger.Error("Invalid task data",
			logger.String("taskId", task.ID),
		)
		return fmt.Errorf("invalid task data: missing required fields")
	}

	w.logger.Info("Processing analysis task",
		logger.String("taskId", task.ID),
	)

	info := t.ResultWriter()
	if _, err := info.Write([]byte(`{"status":"running","progress":0}`)); err != nil {
		w.logger.Error("Failed to write task status", logger.Error(err))
	}

	if err := w.svc.HandleAnalysisTask(ctx, &task); err != nil {
		if _, writeErr := info.Write([]byte(fmt.Sprintf(`{"status":"failed","error":%q}`, err.Error()))); writeErr != nil {
			w.logger.Error("Failed to write task failure", logger.Error(writeErr))
		}
		return err
	}

	if _, err := info.Write([]byte(`{"status":"completed","progress":100}`)); err != nil {
		w.logger.Error("Failed to write task completion", logger.Error(err))
	}

	return nil
}

func (w *TenderWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
