package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github/itish2003/neuronova/models"
)

// MissingAPIKeyMessage is shown to users in place of every page when no key is configured.
const MissingAPIKeyMessage = "API key is not set. Please check your .env file."

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

var (
	ErrMissingAPIKey          = errors.New("GOOGLE_API_KEY is not set")
	ErrInvalidTranscriptMode  = errors.New("invalid transcript mode")
	ErrInvalidStoreDriver     = errors.New("invalid store driver")
	ErrInvalidMaxUploadSize   = errors.New("max upload size must be positive")
	ErrInvalidModelMaxRetries = errors.New("model max retries must not be negative")
)

type Config struct {
	Server ServerConfig
	Gemini GeminiConfig
	Store  StoreConfig
	App    AppConfig

	v *viper.Viper
}

type ServerConfig struct {
	Host string
	Port string
}

type GeminiConfig struct {
	APIKey      string
	VisionModel string
	ChatModel   string
	// ImagePrompt overrides the built-in instruction sent with every image when set.
	ImagePrompt string
	Timeout     time.Duration
	MaxRetries  int
}

type StoreConfig struct {
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	RedisTTL      time.Duration
}

type AppConfig struct {
	TranscriptMode models.TranscriptMode
	// MaxUploadSize caps the whole body of a request carrying images.
	MaxUploadSize  int64
}

func init() {
	// Load .env file from the current directory
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
}

// Load reads configuration from the environment and, when CONFIG_FILE is set,
// from that file. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := fromViper(v)
	cfg.v = v
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("VISION_MODEL", "gemini-2.5-flash")
	v.SetDefault("CHAT_MODEL", "gemini-2.5-flash")
	v.SetDefault("IMAGE_PROMPT", "")
	v.SetDefault("MODEL_TIMEOUT", 0)
	v.SetDefault("MODEL_MAX_RETRIES", 0)
	v.SetDefault("TRANSCRIPT_MODE", string(models.TranscriptOnce))
	v.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB
	v.SetDefault("STORE_DRIVER", StoreMemory)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "neuronova")
	v.SetDefault("REDIS_TTL", 24*time.Hour)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetString("SERVER_PORT"),
		},
		Gemini: GeminiConfig{
			APIKey:      v.GetString("GOOGLE_API_KEY"),
			VisionModel: v.GetString("VISION_MODEL"),
			ChatModel:   v.GetString("CHAT_MODEL"),
			ImagePrompt: v.GetString("IMAGE_PROMPT"),
			Timeout:     v.GetDuration("MODEL_TIMEOUT"),
			MaxRetries:  v.GetInt("MODEL_MAX_RETRIES"),
		},
		Store: StoreConfig{
			Driver:        v.GetString("STORE_DRIVER"),
			RedisAddr:     v.GetString("REDIS_ADDR"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
			RedisPrefix:   v.GetString("REDIS_PREFIX"),
			RedisTTL:      v.GetDuration("REDIS_TTL"),
		},
		App: AppConfig{
			TranscriptMode: models.TranscriptMode(v.GetString("TRANSCRIPT_MODE")),
			MaxUploadSize:  v.GetInt64("MAX_UPLOAD_SIZE"),
		},
	}
}

// Validate checks the loaded values. A missing API key is reported last so
// that callers can tell it apart from malformed settings.
func (c *Config) Validate() error {
	switch c.App.TranscriptMode {
	case models.TranscriptOnce, models.TranscriptPerChunk:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTranscriptMode, c.App.TranscriptMode)
	}
	switch c.Store.Driver {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStoreDriver, c.Store.Driver)
	}
	if c.App.MaxUploadSize <= 0 {
		return ErrInvalidMaxUploadSize
	}
	if c.Gemini.MaxRetries < 0 {
		return ErrInvalidModelMaxRetries
	}
	if c.Gemini.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Watch re-reads the config file whenever it changes on disk and hands the
// refreshed values to onChange. It is a no-op when no file was loaded.
func (c *Config) Watch(log *zap.Logger, onChange func(*Config)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Config file changed",
			zap.String("file", e.Name),
			zap.String("op", e.Op.String()))
		onChange(fromViper(c.v))
	})
	c.v.WatchConfig()
	log.Info("Watching config file", zap.String("file", c.v.ConfigFileUsed()))
}
