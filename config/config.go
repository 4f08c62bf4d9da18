package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	InputPath    string
	OCRPaths     []string
	ArtifactsDir string
	LogLevel     string

	MaxConcurrency int
	MaxRetries     int
	CacheTTL       time.Duration // zero disables the result cache

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SubmissionsDB  string
	PDFEnabled     bool
	ChromeBin      string
	ContractFormat string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		InputPath:    getEnv("INPUT_PATH", ""),
		OCRPaths:     SplitList(getEnv("OCR_PATHS", "")),
		ArtifactsDir: getEnv("ARTIFACTS_DIR", "./artifacts"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		CacheTTL:       time.Duration(getEnvInt("CACHE_TTL_MINUTES", 30)) * time.Minute,

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "realestate"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "realestate"),
		PostgresDB:       getEnv("POSTGRES_DB", "contracts"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SubmissionsDB:  getEnv("SUBMISSIONS_DB", "./artifacts/submissions.db"),
		PDFEnabled:     getEnvBool("PDF_ENABLED", false),
		ChromeBin:      getEnv("CHROME_BIN", ""),
		ContractFormat: strings.ToLower(getEnv("CONTRACT_FORMAT", "json")),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// SplitList splits a comma-separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
