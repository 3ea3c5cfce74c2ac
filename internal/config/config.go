package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	JWTSecret              string
	TokenTTL               time.Duration
	SessionTTL             time.Duration
	StatsCacheTTL          time.Duration
	StorageDriver          string
	LocalStorageDir        string
	LocalStorageBaseURL    string
	MaxUploadMB            int
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAMPUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Smart Campus API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("token.ttl", "8h")
	v.SetDefault("session.ttl", "3h")
	v.SetDefault("stats.cache_ttl", "1m")
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.base_url", "/uploads")
	v.SetDefault("storage.max_upload_mb", 10)
	v.SetDefault("cloudinary.folder", "campus/materials")

	tokenTTL, err := parseDuration(v, "token.ttl", "token ttl")
	if err != nil {
		return Config{}, err
	}

	sessionTTL, err := parseDuration(v, "session.ttl", "session ttl")
	if err != nil {
		return Config{}, err
	}

	statsTTL, err := parseDuration(v, "stats.cache_ttl", "stats cache ttl")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		TokenTTL:               tokenTTL,
		SessionTTL:             sessionTTL,
		StatsCacheTTL:          statsTTL,
		StorageDriver:          strings.ToLower(v.GetString("storage.driver")),
		LocalStorageDir:        v.GetString("storage.local_dir"),
		LocalStorageBaseURL:    v.GetString("storage.base_url"),
		MaxUploadMB:            v.GetInt("storage.max_upload_mb"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key, label string) (time.Duration, error) {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", label, err)
	}

	return d, nil
}
