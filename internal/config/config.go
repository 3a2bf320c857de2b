package config

import (
	"os"
	"strconv"
)

const (
	// DriverMySQL selects the MySQL store.
	DriverMySQL = "mysql"
	// DriverSQLite selects the embedded SQLite store.
	DriverSQLite = "sqlite"

	// UserDeleteCascade removes a user's posts together with the user.
	UserDeleteCascade = "cascade"
	// UserDeleteRestrict refuses to delete a user who still owns posts.
	UserDeleteRestrict = "restrict"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort     string
	DBDriver       string
	MySQLDSN       string
	SQLitePath     string
	ResetDB        bool
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	UserDeleteMode string
	LogLevel       string
	LogFormat      string
	SwaggerHost    string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DBDriver:       getEnv("DB_DRIVER", DriverMySQL),
		MySQLDSN:       getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/blogly?charset=utf8mb4&parseTime=True&loc=UTC"),
		SQLitePath:     getEnv("SQLITE_PATH", "blogly.db"),
		ResetDB:        getEnvBool("RESET_DB", false),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		RedisPass:      os.Getenv("REDIS_PASSWORD"),
		UserDeleteMode: getEnv("USER_DELETE_MODE", UserDeleteCascade),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		SwaggerHost:    os.Getenv("SWAGGER_HOST"),
	}
}

// CascadeUserDelete reports whether deleting a user also deletes the user's posts.
func (c *Config) CascadeUserDelete() bool {
	return c.UserDeleteMode != UserDeleteRestrict
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}
