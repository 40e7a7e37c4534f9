package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers and session stores.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionStoreRedis  = "redis"
	SessionStoreCookie = "cookie"
)

type Config struct {
	DBDriver      string   `yaml:"db_driver"`
	DBHost        string   `yaml:"db_host"`
	DBPort        string   `yaml:"db_port"`
	DBUser        string   `yaml:"db_user"`
	DBPassword    string   `yaml:"db_password"`
	DBName        string   `yaml:"db_name"`
	DBPath        string   `yaml:"db_path"`
	SessionStore  string   `yaml:"session_store"`
	RedisHost     string   `yaml:"redis_host"`
	RedisPort     string   `yaml:"redis_port"`
	SessionSecret string   `yaml:"session_secret"`
	SessionMaxAge int      `yaml:"session_max_age"`
	GinMode       string   `yaml:"gin_mode"`
	ServerPort    string   `yaml:"server_port"`
	UploadDir     string   `yaml:"upload_dir"`
	MaxUploadMB   int      `yaml:"max_upload_mb"`
	CORSOrigins   []string `yaml:"cors_origins"`
	OpenAIAPIKey  string   `yaml:"openai_api_key"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		DBDriver:      DriverMySQL,
		DBHost:        "localhost",
		DBPort:        "3306",
		DBUser:        "taskuser",
		DBPassword:    "taskpassword",
		DBName:        "task_app",
		DBPath:        "task_app.db",
		SessionStore:  SessionStoreRedis,
		RedisHost:     "localhost",
		RedisPort:     "6379",
		SessionSecret: "default-secret-key-change-me",
		SessionMaxAge: 86400 * 7,
		GinMode:       "debug",
		ServerPort:    "3000",
		UploadDir:     "uploads",
		MaxUploadMB:   10,
		CORSOrigins:   []string{"http://localhost:5173", "tauri://localhost"},
	}
}

// Load builds the configuration from defaults, an optional YAML file named
// by TASKAPP_CONFIG, and environment variables, in increasing precedence.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := Default()

	if path := os.Getenv("TASKAPP_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.SessionStore = getEnv("SESSION_STORE", cfg.SessionStore)
	cfg.RedisHost = getEnv("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = getEnv("REDIS_PORT", cfg.RedisPort)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)

	var err error
	if cfg.SessionMaxAge, err = getEnvInt("SESSION_MAX_AGE", cfg.SessionMaxAge); err != nil {
		return nil, err
	}
	if cfg.MaxUploadMB, err = getEnvInt("MAX_UPLOAD_MB", cfg.MaxUploadMB); err != nil {
		return nil, err
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.SessionStore {
	case SessionStoreRedis, SessionStoreCookie:
	default:
		return fmt.Errorf("config: unsupported SESSION_STORE %q", c.SessionStore)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("config: SESSION_SECRET must not be empty")
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("config: SESSION_MAX_AGE must be positive")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_MB must be positive")
	}
	if c.UploadDir == "" {
		return fmt.Errorf("config: UPLOAD_DIR must not be empty")
	}
	return nil
}

// MaxUploadBytes is the per-file upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
