package config

import "sync"

var (
	guruOnce   sync.Once
	guruConfig *GuruConfig
)

type GuruConfig struct {
	BaseURL string
	APIKey  string
}

func GetGuruConfig() *GuruConfig {
	guruOnce.Do(func() {
		loadEnv()
		guruConfig = &GuruConfig{
			BaseURL: getEnv("TENDERGURU_BASE_URL", "https://www.tenderguru.ru/api2.3"),
			APIKey:  getEnv("TENDERGURU_API_KEY", ""),
		}
	})
	return guruConfig
}
