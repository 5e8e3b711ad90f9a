package config

import "sync"

var (
	analyzerOnce   sync.Once
	analyzerConfig *AnalyzerConfig
)

type AnalyzerConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

func GetAnalyzerConfig() *AnalyzerConfig {
	analyzerOnce.Do(func() {
		loadEnv()
		analyzerConfig = &AnalyzerConfig{
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		}
	})
	return analyzerConfig
}
