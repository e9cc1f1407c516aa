// Package config loads process configuration from the environment. The
// Config struct is built once in main and passed by reference into the
// storage backend and service constructors; there is no cached global.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds every setting the process needs.
type Config struct {
	// Env is the deployment environment ("dev" or "prod").
	Env string

	// Port is the HTTP listen port.
	Port int

	// UseFileStorage selects the flat-file backend instead of SQLite. The
	// choice is made once at startup, never per call. Defaults to true
	// outside prod.
	UseFileStorage bool

	// DBPath is the SQLite database path (relational mode).
	DBPath string

	// UsersFilePath and GroupsFilePath are the JSON documents (file mode).
	UsersFilePath  string
	GroupsFilePath string

	// MediaRoot is where uploaded avatars are stored and served from.
	MediaRoot string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// CORSAllowOrigins lists the allowed origins; "*" allows all.
	CORSAllowOrigins []string
}

// Load reads the configuration from the environment, applying defaults
// suitable for local development.
func Load() Config {
	env := strings.ToLower(getEnv("APP_ENV", "dev"))
	return Config{
		Env:              env,
		Port:             getEnvInt("PORT", 8080),
		UseFileStorage:   getEnvBool("USE_FILE_STORAGE", env != "prod"),
		DBPath:           getEnv("DB_PATH", "./data/tally.db"),
		UsersFilePath:    getEnv("DATA_FILE_PATH", "./data/users.json"),
		GroupsFilePath:   getEnv("GROUPS_FILE_PATH", "./data/groups.json"),
		MediaRoot:        getEnv("MEDIA_ROOT", "./media"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigins: parseOrigins(os.Getenv("CORS_ALLOW_ORIGINS")),
	}
}

// StorageMode names the selected backend for logs.
func (c Config) StorageMode() string {
	if c.UseFileStorage {
		return "file"
	}
	return "sqlite"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func parseOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
