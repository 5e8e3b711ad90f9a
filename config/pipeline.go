package config

import "sync"

var (
	pipelineOnce   sync.Once
	pipelineConfig *PipelineConfig
)

type PipelineConfig struct {
	// WorkRoot is the parent of all per-run working directories.
	WorkRoot string
	// RulesFile optionally overrides the built-in classifier rule tables.
	RulesFile string
	// MaxPromptChars bounds the assembled analysis prompt.
	MaxPromptChars int
}

func GetPipelineConfig() *PipelineConfig {
	pipelineOnce.Do(func() {
		loadEnv()
		pipelineConfig = &PipelineConfig{
			WorkRoot:       getEnv("PIPELINE_WORK_ROOT", "data/runs"),
			RulesFile:      getEnv("PIPELINE_RULES_FILE", ""),
			MaxPromptChars: getEnvInt("PIPELINE_MAX_PROMPT_CHARS", 16000),
		}
	})
	return pipelineConfig
}
