package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Storage   StorageConfig   `yaml:"storage"`
	OCR       OCRConfig       `yaml:"ocr"`
	AI        AIConfig        `yaml:"ai"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres, sqlite
	DSN    string `yaml:"dsn"`
}

// RedisConfig for the optional async extraction queue.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	Backend         string `yaml:"backend"` // local, gcs
	LocalDir        string `yaml:"local_dir"`
	GCSBucket       string `yaml:"gcs_bucket"`
	MaxUploadSizeMB int64  `yaml:"max_upload_size_mb"`
}

type OCRConfig struct {
	Engine        string `yaml:"engine"`   // tesseract, vision
	Language      string `yaml:"language"` // tesseract language spec
	MaxDimension  int    `yaml:"max_dimension"`
	RasterDPI     int    `yaml:"raster_dpi"`
	TesseractPath string `yaml:"tesseract_path"`
}

type AIConfig struct {
	// PreferredProvider is tried first; ProviderPriority decides the fallback
	// order among the remaining configured providers.
	PreferredProvider string         `yaml:"preferred_provider"`
	ProviderPriority  []string       `yaml:"provider_priority"`
	RequestTimeout    time.Duration  `yaml:"request_timeout"`
	Gemini            ProviderConfig `yaml:"gemini"`
	OpenAI            ProviderConfig `yaml:"openai"`
	Anthropic         ProviderConfig `yaml:"anthropic"`
	Ollama            ProviderConfig `yaml:"ollama"`
}

type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type RateLimitConfig struct {
	Enabled         bool  `yaml:"enabled"`
	DailyTokenLimit int64 `yaml:"daily_token_limit"`
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, err
		}
		cfg = &fileCfg
	}

	cfg.overrideFromEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "debug"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "local"
	}
	if c.Storage.LocalDir == "" {
		c.Storage.LocalDir = "uploads"
	}
	if c.Storage.MaxUploadSizeMB == 0 {
		c.Storage.MaxUploadSizeMB = 25
	}
	if c.OCR.Engine == "" {
		c.OCR.Engine = "tesseract"
	}
	if c.OCR.Language == "" {
		c.OCR.Language = "swe+eng"
	}
	if c.OCR.MaxDimension == 0 {
		c.OCR.MaxDimension = 2500
	}
	if c.OCR.RasterDPI == 0 {
		c.OCR.RasterDPI = 200
	}
	if c.AI.PreferredProvider == "" {
		c.AI.PreferredProvider = "gemini"
	}
	if len(c.AI.ProviderPriority) == 0 {
		c.AI.ProviderPriority = []string{"gemini", "openai", "anthropic", "ollama"}
	}
	if c.AI.RequestTimeout == 0 {
		c.AI.RequestTimeout = 2 * time.Minute
	}
	if c.RateLimit.DailyTokenLimit == 0 {
		c.RateLimit.DailyTokenLimit = 1_000_000
		c.RateLimit.Enabled = true
	}
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		c.Storage.LocalDir = dir
	}
	if bucket := os.Getenv("GCS_BUCKET_NAME"); bucket != "" {
		c.Storage.Backend = "gcs"
		c.Storage.GCSBucket = bucket
	}
	if lang := os.Getenv("OCR_LANGUAGE"); lang != "" {
		c.OCR.Language = lang
	}
	if engine := os.Getenv("OCR_ENGINE"); engine != "" {
		c.OCR.Engine = engine
	}
	if key := os.Getenv("GOOGLE_AI_STUDIO_API_KEY"); key != "" {
		c.AI.Gemini.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.AI.OpenAI.APIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.AI.Anthropic.APIKey = key
	}
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		c.AI.Ollama.BaseURL = url
	}
	if provider := os.Getenv("AI_PREFERRED_PROVIDER"); provider != "" {
		c.AI.PreferredProvider = provider
	}
	if priority := os.Getenv("AI_PROVIDER_PRIORITY"); priority != "" {
		c.AI.ProviderPriority = splitAndTrim(priority, ",")
	}
	if limit := os.Getenv("DAILY_TOKEN_LIMIT"); limit != "" {
		if v, err := strconv.ParseInt(limit, 10, 64); err == nil && v > 0 {
			c.RateLimit.DailyTokenLimit = v
		}
	}
	if enabled := os.Getenv("RATE_LIMIT_ENABLED"); enabled != "" {
		c.RateLimit.Enabled = enabled == "true" || enabled == "1"
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.parseRedisURL(redisURL)
	}
}

// parseRedisURL parses a Redis URL and sets config values
// Format: redis://:password@host:port/db
func (c *Config) parseRedisURL(redisURL string) {
	url := strings.TrimPrefix(redisURL, "redis://")

	if atIdx := strings.Index(url, "@"); atIdx != -1 {
		authPart := url[:atIdx]
		url = url[atIdx+1:]
		if colonIdx := strings.Index(authPart, ":"); colonIdx != -1 {
			c.Redis.Password = authPart[colonIdx+1:]
		}
	}

	if slashIdx := strings.LastIndex(url, "/"); slashIdx != -1 {
		dbStr := url[slashIdx+1:]
		url = url[:slashIdx]
		if db, err := strconv.Atoi(dbStr); err == nil {
			c.Redis.DB = db
		}
	}

	c.Redis.Addr = url
}

func splitAndTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
