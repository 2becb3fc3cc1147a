package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// LLM providers.
const (
	LLMOpenAI = "openai"
	LLMGemini = "gemini"
	LLMNone   = "none"
)

// Config holds application configuration
type Config struct {
	// Server
	Env      string
	Port     string
	LogLevel string

	// Ledger
	Timezone        string
	DefaultCurrency string
	VocabularyPath  string
	NEREnabled      bool

	// Store
	StoreDriver string
	SQLitePath  string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string

	// Auth
	JWTSecret        string
	JWTExpirationDur time.Duration
	AllowedUserIDs   []int64

	// Language model
	LLMProvider           string
	OpenAIAPIKey          string
	OpenAIBaseURL         string
	OpenAICategorizeModel string
	OpenAIQueryModel      string
	OpenAISummaryModel    string
	GeminiAPIKey          string
	GeminiModel           string
	CategorizeTimeout     time.Duration
	LLMTimeout            time.Duration

	// Receipts
	OCRLanguages  []string
	ReceiptBucket string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", ""),

		Timezone:        getEnv("TIMEZONE", "Asia/Singapore"),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULT_CURRENCY", "SGD")),
		VocabularyPath:  getEnv("VOCABULARY_PATH", ""),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", StorePostgres)),
		SQLitePath:  getEnv("SQLITE_PATH", "spendlog.db"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "spendlog"),
		DBPassword:  getEnv("DB_PASSWORD", "spendlog"),
		DBName:      getEnv("DB_NAME", "spendlog"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		LLMProvider:           strings.ToLower(getEnv("LLM_PROVIDER", LLMOpenAI)),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:         getEnv("OPENAI_BASE_URL", ""),
		OpenAICategorizeModel: getEnv("OPENAI_CATEGORIZE_MODEL", "gpt-3.5-turbo"),
		OpenAIQueryModel:      getEnv("OPENAI_QUERY_MODEL", "gpt-4o"),
		OpenAISummaryModel:    getEnv("OPENAI_SUMMARY_MODEL", "gpt-4o"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		OCRLanguages:  splitList(getEnv("OCR_LANGUAGES", "eng")),
		ReceiptBucket: getEnv("RECEIPT_BUCKET", ""),
	}

	var err error
	if config.NEREnabled, err = parseBool(os.Getenv("NER_ENABLED"), false); err != nil {
		return nil, fmt.Errorf("invalid NER_ENABLED value: %w", err)
	}
	if config.JWTExpirationDur, err = parseDuration("JWT_EXPIRES_IN", os.Getenv("JWT_EXPIRES_IN"), 24*time.Hour); err != nil {
		return nil, err
	}
	if config.CategorizeTimeout, err = parseDuration("CATEGORIZE_TIMEOUT", os.Getenv("CATEGORIZE_TIMEOUT"), 10*time.Second); err != nil {
		return nil, err
	}
	if config.LLMTimeout, err = parseDuration("LLM_TIMEOUT", os.Getenv("LLM_TIMEOUT"), 30*time.Second); err != nil {
		return nil, err
	}
	if config.AllowedUserIDs, err = parseInt64List(os.Getenv("ALLOWED_USER_IDS")); err != nil {
		return nil, fmt.Errorf("invalid ALLOWED_USER_IDS value: %w", err)
	}

	switch config.StoreDriver {
	case StorePostgres, StoreSQLite, StoreMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: must be postgres, sqlite, or memory", config.StoreDriver)
	}
	switch config.LLMProvider {
	case LLMOpenAI, LLMGemini, LLMNone:
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER %q: must be openai, gemini, or none", config.LLMProvider)
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Location resolves the configured timezone, falling back to the process
// local zone when the name is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Warning: unknown TIMEZONE %q, using local time\n", c.Timezone)
		return time.Local
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(key, s string, defaultVal time.Duration) (time.Duration, error) {
	if s == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

func parseBool(s string, defaultVal bool) (bool, error) {
	if s == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("must be true, false, 1, or 0, got %q", s)
	}
}

func parseInt64List(s string) ([]int64, error) {
	var out []int64
	for _, part := range splitList(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a numeric user id", part)
		}
		out = append(out, id)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
