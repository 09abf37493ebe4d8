package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/agenda-backend/internal/data/schedulestore"
	"github.com/yungbote/agenda-backend/internal/platform/envutil"
	"github.com/yungbote/agenda-backend/internal/services"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

type Config struct {
	LogMode string `yaml:"log_mode"`
	Port    string `yaml:"port"`

	DatabaseURL string `yaml:"database_url"`

	LLMProvider   string        `yaml:"llm_provider"`
	LLMTimeout    time.Duration `yaml:"llm_timeout"`
	GeminiAPIKey  string        `yaml:"gemini_api_key"`
	GeminiModel   string        `yaml:"gemini_model"`
	GeminiBaseURL string        `yaml:"gemini_base_url"`
	OpenAIAPIKey  string        `yaml:"openai_api_key"`
	OpenAIModel   string        `yaml:"openai_model"`
	OpenAIBaseURL string        `yaml:"openai_base_url"`

	// OpenAITemperature is omitted from requests when nil.
	OpenAITemperature *float64 `yaml:"openai_temperature"`

	HistoryWindow int    `yaml:"history_window"`
	Timezone      string `yaml:"timezone"`

	ScheduleBackend string `yaml:"schedule_backend"`
	ScheduleFile    string `yaml:"schedule_file"`
	BoltPath        string `yaml:"bolt_path"`
	RedisAddr       string `yaml:"redis_addr"`
	RedisPassword   string `yaml:"redis_password"`
	RedisDB         int    `yaml:"redis_db"`
	RedisKey        string `yaml:"redis_key"`

	CORSOrigins []string `yaml:"cors_origins"`

	OtelEnabled     bool    `yaml:"otel_enabled"`
	OtelServiceName string  `yaml:"otel_service_name"`
	OtelEndpoint    string  `yaml:"otel_endpoint"`
	OtelHeaders     string  `yaml:"otel_headers"`
	OtelInsecure    bool    `yaml:"otel_insecure"`
	OtelSampleRatio float64 `yaml:"otel_sample_ratio"`
	Environment     string  `yaml:"environment"`
	Version         string  `yaml:"version"`
}

func defaultConfig() Config {
	return Config{
		LogMode:         "development",
		Port:            "3000",
		LLMProvider:     ProviderGemini,
		LLMTimeout:      services.DefaultCompletionTimeout,
		GeminiModel:     "gemini-1.5-flash",
		OpenAIModel:     "gpt-4o-mini",
		OpenAIBaseURL:   "https://api.openai.com",
		HistoryWindow:   services.DefaultHistoryWindow,
		ScheduleBackend: schedulestore.BackendFile,
		ScheduleFile:    "schedule.json",
		BoltPath:        "schedule.db",
		OtelServiceName: "agenda-backend",
		OtelSampleRatio: 1,
		Environment:     "development",
	}
}

// LoadConfig builds the configuration from defaults, then the optional YAML
// file named by CONFIG_FILE, then the environment. Later sources win.
func LoadConfig() (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.overlayEnv()
	cfg.normalize()
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)
	c.Port = envutil.String("PORT", c.Port)
	c.DatabaseURL = envutil.String("DATABASE_URL", c.DatabaseURL)

	c.LLMProvider = envutil.String("LLM_PROVIDER", c.LLMProvider)
	c.LLMTimeout = envutil.Seconds("LLM_TIMEOUT_SECONDS", c.LLMTimeout)
	c.GeminiAPIKey = envutil.String("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = envutil.String("GEMINI_MODEL", c.GeminiModel)
	c.GeminiBaseURL = envutil.String("GEMINI_BASE_URL", c.GeminiBaseURL)
	c.OpenAIAPIKey = envutil.String("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIModel = envutil.String("OPENAI_MODEL", c.OpenAIModel)
	c.OpenAIBaseURL = envutil.String("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.OpenAITemperature = envutil.Float("OPENAI_TEMPERATURE", c.OpenAITemperature)

	c.HistoryWindow = envutil.Int("HISTORY_WINDOW", c.HistoryWindow)
	c.Timezone = envutil.String("TIMEZONE", c.Timezone)

	c.ScheduleBackend = envutil.String("SCHEDULE_BACKEND", c.ScheduleBackend)
	c.ScheduleFile = envutil.String("SCHEDULE_FILE", c.ScheduleFile)
	c.BoltPath = envutil.String("BOLT_PATH", c.BoltPath)
	c.RedisAddr = envutil.String("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = envutil.String("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = envutil.Int("REDIS_DB", c.RedisDB)
	c.RedisKey = envutil.String("REDIS_KEY", c.RedisKey)

	if v := envutil.String("CORS_ORIGINS", ""); v != "" {
		c.CORSOrigins = splitList(v)
	}

	c.OtelEnabled = envutil.Bool("OTEL_ENABLED", c.OtelEnabled)
	c.OtelServiceName = envutil.String("OTEL_SERVICE_NAME", c.OtelServiceName)
	c.OtelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.OtelEndpoint)
	c.OtelHeaders = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", c.OtelHeaders)
	c.OtelInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.OtelInsecure)
	c.Environment = envutil.String("APP_ENV", c.Environment)
	c.Version = envutil.String("APP_VERSION", c.Version)
}

func (c *Config) normalize() {
	c.LLMProvider = strings.ToLower(strings.TrimSpace(c.LLMProvider))
	if c.HistoryWindow <= 0 {
		c.HistoryWindow = services.DefaultHistoryWindow
	}
	if c.LLMTimeout <= 0 {
		c.LLMTimeout = services.DefaultCompletionTimeout
	}
	if c.OtelSampleRatio <= 0 || c.OtelSampleRatio > 1 {
		c.OtelSampleRatio = 1
	}
}

// Validate reports every missing or invalid setting at once.
func (c Config) Validate() error {
	return joinProblems(append(c.storageProblems(), c.completionProblems()...))
}

// ValidateStorage checks only what the read-only commands need.
func (c Config) ValidateStorage() error {
	return joinProblems(c.storageProblems())
}

func (c Config) storageProblems() []string {
	var problems []string
	if strings.TrimSpace(c.DatabaseURL) == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	backend, err := schedulestore.NormalizeBackend(c.ScheduleBackend)
	if err != nil {
		problems = append(problems, err.Error())
	} else if backend == schedulestore.BackendRedis && c.RedisAddr == "" {
		problems = append(problems, "REDIS_ADDR is required when SCHEDULE_BACKEND=redis")
	}
	return problems
}

func (c Config) completionProblems() []string {
	var problems []string
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			problems = append(problems, "GEMINI_API_KEY is required")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			problems = append(problems, "OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		if t := c.OpenAITemperature; t != nil && (*t < 0 || *t > 2) {
			problems = append(problems, fmt.Sprintf("OPENAI_TEMPERATURE %v out of range [0, 2]", *t))
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown LLM_PROVIDER %q", c.LLMProvider))
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			problems = append(problems, fmt.Sprintf("invalid TIMEZONE %q", c.Timezone))
		}
	}
	return problems
}

func joinProblems(problems []string) error {
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
