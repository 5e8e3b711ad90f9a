package config

import "sync"

var (
	storageOnce   sync.Once
	storageConfig *StorageConfig

	localOnce   sync.Once
	localConfig *LocalStorageConfig
)

type StorageConfig struct {
	// Type selects the backend: "minio" or "local".
	Type string
}

type LocalStorageConfig struct {
	Root string
}

func GetStorageConfig() *StorageConfig {
	storageOnce.Do(func() {
		loadEnv()
		storageConfig = &StorageConfig{
			Type: getEnv("STORAGE_TYPE", "local"),
		}
	})
	return storageConfig
}

func GetLocalStorageConfig() *LocalStorageConfig {
	localOnce.Do(func() {
		loadEnv()
		localConfig = &LocalStorageConfig{
			Root: getEnv("LOCAL_STORAGE_ROOT", "data/storage"),
		}
	})
	return localConfig
}
