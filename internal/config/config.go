package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/let5sne/IOPaint/pkg/validation"
)

// MaxFileSize is the upload byte limit. It is not configurable.
const MaxFileSize int64 = 10 * 1024 * 1024

// DefaultAPIKey is the placeholder secret shipped with the service.
const DefaultAPIKey = "your_secret_key_change_me"

// Engine names accepted by INFERENCE_ENGINE.
const (
	EngineDiffusion = "diffusion"
	EngineIOPaint   = "iopaint"
	EngineGoCV      = "gocv"
)

// Config is the immutable service configuration, built once at startup.
type Config struct {
	Host string
	Port string

	APIKey         string
	MetricsEnabled bool
	MaxImageSize   int
	MaxFileSize    int64

	ModelName string
	Device    string

	InferenceEngine         string
	InferenceURL            string
	InferenceTimeout        time.Duration
	InferenceMaxConcurrency int

	ReadTimeout time.Duration

	LogLevel string
	LogDir   string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// writeTimeoutMargin covers decoding, encoding and writing the response around inference.
const writeTimeoutMargin = 30 * time.Second

// WriteTimeout bounds a whole request from the end of its headers. It is zero
// (no bound) when inference is unbounded; otherwise it leaves room for the body
// read and the response after a timed-out inference.
func (c *Config) WriteTimeout() time.Duration {
	if c.InferenceTimeout <= 0 {
		return 0
	}
	return c.ReadTimeout + c.InferenceTimeout + writeTimeoutMargin
}

// UsesDefaultAPIKey reports whether the placeholder secret is still in use.
func (c *Config) UsesDefaultAPIKey() bool {
	return c.APIKey == DefaultAPIKey
}

// MaskedAPIKey renders the key for logs: a fixed run of stars and the last four characters.
func (c *Config) MaskedAPIKey() string {
	key := c.APIKey
	if len(key) > 4 {
		key = key[len(key)-4:]
	}
	return strings.Repeat("*", 20) + key
}

// LoadFromEnv reads configuration from the environment, after loading an
// optional .env file from the working directory. Malformed numbers and
// durations are errors; ENABLE_METRICS is on only when set to "true".
func LoadFromEnv() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	maxImageSize, err := parseIntEnv("MAX_IMAGE_SIZE", 4096)
	if err != nil {
		return nil, err
	}
	maxConcurrency, err := parseIntEnv("INFERENCE_MAX_CONCURRENCY", 0)
	if err != nil {
		return nil, err
	}
	inferenceTimeout, err := parseDurationEnv("INFERENCE_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}
	readTimeout, err := parseDurationEnv("READ_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Host:                    getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                    getEnvOrDefault("PORT", "8080"),
		APIKey:                  getEnvOrDefault("API_KEY", DefaultAPIKey),
		MetricsEnabled:          parseBoolEnv("ENABLE_METRICS", true),
		MaxImageSize:            int(maxImageSize),
		MaxFileSize:             MaxFileSize,
		ModelName:               getEnvOrDefault("MODEL_NAME", "lama"),
		Device:                  strings.ToLower(getEnvOrDefault("DEVICE", "cpu")),
		InferenceEngine:         strings.ToLower(getEnvOrDefault("INFERENCE_ENGINE", EngineDiffusion)),
		InferenceURL:            strings.TrimRight(os.Getenv("INFERENCE_URL"), "/"),
		InferenceTimeout:        inferenceTimeout,
		InferenceMaxConcurrency: int(maxConcurrency),
		ReadTimeout:             readTimeout,
		LogLevel:                strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		LogDir:                  getEnvOrDefault("LOG_DIR", "./logs"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges and cross-field requirements.
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("API_KEY must not be empty")
	}
	if c.MaxImageSize <= 0 {
		return fmt.Errorf("MAX_IMAGE_SIZE must be > 0 (got %d)", c.MaxImageSize)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be > 0 (got %d)", c.MaxFileSize)
	}
	if c.InferenceTimeout < 0 {
		return fmt.Errorf("INFERENCE_TIMEOUT must be >= 0 (got %s)", c.InferenceTimeout)
	}
	if c.InferenceMaxConcurrency < 0 {
		return fmt.Errorf("INFERENCE_MAX_CONCURRENCY must be >= 0 (got %d)", c.InferenceMaxConcurrency)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("READ_TIMEOUT must be > 0 (got %s)", c.ReadTimeout)
	}

	switch c.InferenceEngine {
	case EngineDiffusion, EngineGoCV:
	case EngineIOPaint:
		if err := validation.NewEndpointValidator().ValidateEndpointURL(c.InferenceURL); err != nil {
			return fmt.Errorf("invalid INFERENCE_URL: %w", err)
		}
	default:
		return fmt.Errorf("unsupported INFERENCE_ENGINE: %q", c.InferenceEngine)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseBoolEnv treats any value other than "true" (case-insensitive) as false.
func parseBoolEnv(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return strings.EqualFold(value, "true")
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not a duration (e.g. 30s, 2m)", key, value)
	}
	return duration, nil
}

func parseIntEnv(key string, defaultValue int64) (int64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", key, value)
	}
	return intValue, nil
}
