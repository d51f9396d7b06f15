// Package config loads runtime configuration from the environment.
package config

import (
	"os"
)

// Config holds everything the process needs at startup. Values come from
// environment variables with local-development fallbacks.
type Config struct {
	Port    string
	BaseURL string

	MongoURI string
	MongoDB  string

	// Local filesystem blob storage, used when MinIO is not configured.
	DataDir string

	// Object storage. The backend is selected purely by whether these
	// credentials are all present.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "3000"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:3000"),
		MongoURI:       getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        getEnv("MONGO_DB", "tempdrop"),
		DataDir:        getEnv("DATA_DIR", "./data"),
		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    os.Getenv("MINIO_BUCKET"),
		MinioUseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
	}
}

// ObjectStorageConfigured reports whether the object-storage backend
// should be used. All credentials must be present; a partial set falls
// back to local storage.
func (c Config) ObjectStorageConfigured() bool {
	return c.MinioEndpoint != "" && c.MinioAccessKey != "" &&
		c.MinioSecretKey != "" && c.MinioBucket != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
