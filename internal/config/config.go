package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrInvalidConfig               = errors.New("invalid configuration")
)

// Answer matching modes for quiz answers.
const (
	MatchExact  = "exact"
	MatchFolded = "folded"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string `mapstructure:"env"`          // current application environment (local, dev, production etc)
	ContentPath      string `mapstructure:"content_path"` // optional YAML file overriding the embedded lesson content
	AudioDir         string `mapstructure:"audio_dir"`    // directory scanned for recorded .mp3/.m4a files
	TelegramAPIToken string `mapstructure:"-"`            // Telegram API token loaded from environment
	HTTP             HTTP   `mapstructure:"http"`         // web server section
	Quiz             Quiz   `mapstructure:"quiz"`         // quiz session section
	TTS              TTS    `mapstructure:"tts"`          // speech synthesis section
	DB               DB     `mapstructure:"database"`     // database configuration section
}

// HTTP contains web server parameters.
type HTTP struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Quiz contains quiz session parameters.
type Quiz struct {
	QuestionsPerSession int           `mapstructure:"questions_per_session"` // N, number of sampled questions
	Reward              int           `mapstructure:"reward"`                // score added per correct answer
	AnswerMatching      string        `mapstructure:"answer_matching"`       // "exact" or "folded"
	SessionTTL          time.Duration `mapstructure:"session_ttl"`           // idle sessions older than this are evicted
	SweepSchedule       string        `mapstructure:"sweep_schedule"`        // cron spec for the eviction job
}

// TTS contains speech synthesis parameters.
type TTS struct {
	APIKey       string        `mapstructure:"-"` // Google TTS key loaded from environment
	LanguageCode string        `mapstructure:"language_code"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CacheDir     string        `mapstructure:"cache_dir"` // empty means the XDG cache directory
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Enabled reports whether result persistence is configured.
func (db DB) Enabled() bool {
	return db.URL != ""
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	return LoadFrom("./config")
}

// LoadFrom reads configuration using configDir as the config file search path.
func LoadFrom(configDir string) (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("tts_api_key", "GOOGLE_TTS_API_KEY")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Sensitive values never come from the config file.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.TTS.APIKey = v.GetString("tts_api_key")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("content_path", "")
	v.SetDefault("audio_dir", "assets/audio")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "10s")
	v.SetDefault("http.write_timeout", "30s")

	v.SetDefault("quiz.questions_per_session", 3)
	v.SetDefault("quiz.reward", 100)
	v.SetDefault("quiz.answer_matching", MatchExact)
	v.SetDefault("quiz.session_ttl", "2h")
	v.SetDefault("quiz.sweep_schedule", "@every 10m")

	v.SetDefault("tts.language_code", "id-ID")
	v.SetDefault("tts.timeout", "10s")
	v.SetDefault("tts.cache_dir", "")

	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_conn_lifetime", "30m")
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	if c.Quiz.QuestionsPerSession < 1 {
		return fmt.Errorf("%w: quiz.questions_per_session must be positive, got %d",
			ErrInvalidConfig, c.Quiz.QuestionsPerSession)
	}
	if c.Quiz.Reward < 0 {
		return fmt.Errorf("%w: quiz.reward must not be negative, got %d", ErrInvalidConfig, c.Quiz.Reward)
	}

	switch c.Quiz.AnswerMatching {
	case MatchExact, MatchFolded:
	default:
		return fmt.Errorf("%w: unknown quiz.answer_matching %q", ErrInvalidConfig, c.Quiz.AnswerMatching)
	}

	if c.Quiz.SessionTTL <= 0 {
		return fmt.Errorf("%w: quiz.session_ttl must be positive", ErrInvalidConfig)
	}

	return nil
}

// RequireTelegram returns an error when the bot token is not configured.
func (c *Config) RequireTelegram() error {
	if c.TelegramAPIToken == "" {
		return fmt.Errorf("%w: TELEGRAM_API_TOKEN", ErrMissingEnvironmentVariables)
	}
	return nil
}
