package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"dompet/pkg/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	DB     *DBConfig
	App    *AppConfig
	Redis  *RedisConfig
	Worker *WorkerConfig
	Auth   *AuthConfig
	Ledger *LedgerConfig
}

type AppConfig struct {
	Name        string
	Env         string
	Port        string
	LogFilePath string
	LogLevel    string
	LogFormat   string // text | json
	BinFilePath string
	RateLimit   int
	CorsOrigin  string
}

type DBConfig struct {
	DBWrite *DBWriteConfig
	DBRead  *DBReadConfig
	DBPool  *DBPooling
}

type DBWriteConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type DBReadConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type DBPooling struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       string
	PoolSize int
}

type WorkerConfig struct {
	WorkerCount int
	Instance    string
	Group       string
}

// AuthConfig verifies tokens issued by the external identity provider.
type AuthConfig struct {
	JWTSecret string
	JWTIssuer string
}

type LedgerConfig struct {
	PageSize      int
	Timezone      string
	FollowBlock   time.Duration
	MaxCASRetries int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment")
	}

	return &Config{
		DB:     LoadDBConfig(),
		App:    LoadAppConfig(),
		Redis:  LoadRedisConfig(),
		Worker: LoadWorkerConfig(),
		Auth:   LoadAuthConfig(),
		Ledger: LoadLedgerConfig(),
	}
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		Name:        getEnv("APP_NAME", "dompet"),
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("APP_PORT", "8080"),
		LogFilePath: getEnv("APP_LOG_FILE", "logs/app.log"),
		LogLevel:    getEnv("APP_LOG_LEVEL", "debug"),
		LogFormat:   getEnv("APP_LOG_FORMAT", "text"),
		BinFilePath: getEnv("APP_BIN_FILE", "./bin/dompet"),
		RateLimit:   getEnvAsInt("APP_RATE_LIMIT", 120),
		CorsOrigin:  getEnv("APP_CORS_ORIGIN", "*"),
	}
}

func LoadDBConfig() *DBConfig {
	dbWrite := &DBWriteConfig{
		Host:     getEnv("DB_WRITE_HOST", "localhost"),
		Port:     getEnv("DB_WRITE_PORT", "5432"),
		User:     getEnv("DB_WRITE_USER", "postgres"),
		Password: getEnv("DB_WRITE_PASSWORD", "password"),
		Name:     getEnv("DB_WRITE_NAME", "dompet"),
		SSLMode:  getEnv("DB_WRITE_SSL_MODE", "disable"),
	}

	dbRead := &DBReadConfig{
		Host:     getEnv("DB_READ_HOST", "localhost"),
		Port:     getEnv("DB_READ_PORT", "5432"),
		User:     getEnv("DB_READ_USER", "postgres"),
		Password: getEnv("DB_READ_PASSWORD", "password"),
		Name:     getEnv("DB_READ_NAME", "dompet"),
		SSLMode:  getEnv("DB_READ_SSL_MODE", "disable"),
	}

	dbPool := &DBPooling{
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: getEnvAsInt("DB_CONN_MAX_LIFETIME", 3600),
		ConnMaxIdleTime: getEnvAsInt("DB_CONN_MAX_IDLE_TIME", 300),
	}

	return &DBConfig{
		DBWrite: dbWrite,
		DBRead:  dbRead,
		DBPool:  dbPool,
	}
}

func LoadRedisConfig() *RedisConfig {
	return &RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnv("REDIS_DB", "0"),
		PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 64),
	}
}

func LoadWorkerConfig() *WorkerConfig {
	host, _ := os.Hostname()
	return &WorkerConfig{
		WorkerCount: getEnvAsInt("WORKER_COUNT", 2),
		Instance:    getEnv("WORKER_INSTANCE", host),
		Group:       getEnv("WORKER_GROUP", "ledger_journal"),
	}
}

func LoadAuthConfig() *AuthConfig {
	return &AuthConfig{
		JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		JWTIssuer: getEnv("AUTH_JWT_ISSUER", ""),
	}
}

func LoadLedgerConfig() *LedgerConfig {
	return &LedgerConfig{
		PageSize:      getEnvAsInt("LEDGER_PAGE_SIZE", 10),
		Timezone:      getEnv("LEDGER_TIMEZONE", "Asia/Jakarta"),
		FollowBlock:   time.Duration(getEnvAsInt("LEDGER_FOLLOW_BLOCK_MS", 5000)) * time.Millisecond,
		MaxCASRetries: getEnvAsInt("LEDGER_MAX_CAS_RETRIES", 5),
	}
}

// Validate rejects settings the API cannot start with.
func (c *Config) Validate() error {
	if c.Auth == nil || c.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	if c.Ledger.PageSize <= 0 {
		return fmt.Errorf("LEDGER_PAGE_SIZE must be positive, got %d", c.Ledger.PageSize)
	}
	if _, err := time.LoadLocation(c.Ledger.Timezone); err != nil {
		return fmt.Errorf("LEDGER_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves Timezone, falling back to UTC.
func (c *LedgerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logger.Warnf("unknown LEDGER_TIMEZONE %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

// =========================================================

func GetAppPort() string {
	return getEnv("APP_PORT", "8080")
}

func GetAppEnv() string {
	return getEnv("APP_ENV", "development")
}

func GetAppBinFile() string {
	return getEnv("APP_BIN_FILE", "./bin/dompet")
}

//============================================================

// getEnv returns the value of the environment variable or a default value if not set
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvAsInt returns the value of the environment variable as an integer or a default value if not set
func getEnvAsInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
