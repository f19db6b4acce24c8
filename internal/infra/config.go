package infra

import (
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	Port             string
	APIKey           string
	GraphBaseURL     string
	GraphAccessToken string
	IGUserID         string
	SearchAPIKey     string
	SearchEngineID   string
	SearchBaseURL    string
	DownloadDir      string
	PostsDir         string
	DownloadTimeout  time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
// Credentials are optional at startup: tools answer with error payloads when
// their credentials are missing, and an empty MCP_API_KEY disables request
// authentication entirely (the caller is expected to log that loudly).
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8000"),
		APIKey:           os.Getenv("MCP_API_KEY"),
		GraphBaseURL:     getEnv("GRAPH_BASE_URL", "https://graph.facebook.com/v24.0"),
		GraphAccessToken: os.Getenv("ACCESS_TOKEN"),
		IGUserID:         os.Getenv("IG_USER_ID"),
		SearchAPIKey:     os.Getenv("SEARCH_API_KEY"),
		SearchEngineID:   os.Getenv("SEARCH_ENGINE_ID"),
		SearchBaseURL:    getEnv("SEARCH_BASE_URL", "https://www.googleapis.com/customsearch/v1"),
		DownloadDir:      getEnv("DOWNLOAD_DIR", "./downloaded_images"),
		PostsDir:         getEnv("POSTS_DIR", "./final_posts"),
		DownloadTimeout:  time.Second * time.Duration(getEnvInt("DOWNLOAD_TIMEOUT_SECONDS", 10)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	return cfg, nil
}

// AuthEnabled reports whether request authentication is enforced.
func (c *Config) AuthEnabled() bool {
	return c.APIKey != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
