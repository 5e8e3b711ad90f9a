package tender

import (
	"fmt"

	"github.com/kamazuxa/tender/config"
	"github.com/kamazuxa/tender/internal/analyzer"
	"github.com/kamazuxa/tender/internal/docfilter"
	"github.com/kamazuxa/tender/internal/downloader"
	"github.com/kamazuxa/tender/internal/extract"
	"github.com/kamazuxa/tender/internal/guru"
	"github.com/kamazuxa/tender/internal/pipeline"
	"github.com/kamazuxa/tender/internal/prompt"
	"github.com/kamazuxa/tender/internal/textclean"
	"github.com/kamazuxa/tender/pkg/logger"
	"github.com/kamazuxa/tender/pkg/queue"
	"github.com/kamazuxa/tender/pkg/storage"
)

// GetService wires the full service from configuration.
func GetService(log logger.Logger) (Service, error) {
	pipelineCfg := config.GetPipelineConfig()

	rules := docfilter.DefaultRules()
	if pipelineCfg.RulesFile != "" {
		loaded, err := docfilter.LoadRules(pipelineCfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules file: %w", err)
		}
		rules = loaded
	}

	orchestrator := pipeline.NewOrchestrator(
		pipelineCfg.WorkRoot,
		extract.NewRegistry(log),
		rules,
		textclean.DefaultConfig(),
		log,
	)

	storageCfg := config.GetStorageConfig()
	store, err := storage.NewStorage(storage.StorageType(storageCfg.Type), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	redisCfg := config.GetRedisConfig()
	q, err := queue.NewAsynqQueue(&queue.QueueConfig{
		RedisAddr:     redisCfg.Addr,
		RedisPassword: redisCfg.Password,
		RedisDB:       redisCfg.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize queue: %w", err)
	}

	guruCfg := config.GetGuruConfig()
	guruClient := guru.NewClient(guruCfg.BaseURL, guruCfg.APIKey, log)

	analyzerCfg := config.GetAnalyzerConfig()
	analyzerClient := analyzer.NewClient(analyzerCfg.APIKey, log,
		analyzer.WithBaseURL(analyzerCfg.BaseURL),
		analyzer.WithModel(analyzerCfg.Model),
	)

	return NewService(Deps{
		Guru:       guruClient,
		Platforms:  guru.NewPlatformDirectory(guruClient, log),
		Downloader: downloader.New(log),
		Pipeline:   orchestrator,
		Prompts:    prompt.NewBuilder(pipelineCfg.MaxPromptChars, log),
		Analyzer:   analyzerClient,
		Queue:      q,
		Storage:    store,
		WorkRoot:   pipelineCfg.WorkRoot,
	}, log), nil
}
