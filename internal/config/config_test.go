package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_API_TOKEN", "")
	t.Setenv("GOOGLE_TTS_API_KEY", "")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Quiz.QuestionsPerSession != 3 {
		t.Errorf("expected 3 questions per session, got %d", cfg.Quiz.QuestionsPerSession)
	}
	if cfg.Quiz.Reward != 100 {
		t.Errorf("expected reward 100, got %d", cfg.Quiz.Reward)
	}
	if cfg.Quiz.AnswerMatching != MatchExact {
		t.Errorf("expected exact matching by default, got %q", cfg.Quiz.AnswerMatching)
	}
	if cfg.Quiz.SessionTTL != 2*time.Hour {
		t.Errorf("expected 2h session ttl, got %s", cfg.Quiz.SessionTTL)
	}
	if cfg.DB.Enabled() {
		t.Errorf("expected database to be disabled without DATABASE_URL")
	}
	if err := cfg.RequireTelegram(); !errors.Is(err, ErrMissingEnvironmentVariables) {
		t.Errorf("expected ErrMissingEnvironmentVariables, got %v", err)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	data := []byte("quiz:\n  questions_per_session: 4\n  answer_matching: folded\nhttp:\n  addr: \":9090\"\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DATABASE_URL", "postgres://quiz@localhost/quiz")
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("GOOGLE_TTS_API_KEY", "key")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Quiz.QuestionsPerSession != 4 {
		t.Errorf("expected 4 questions per session, got %d", cfg.Quiz.QuestionsPerSession)
	}
	if cfg.Quiz.AnswerMatching != MatchFolded {
		t.Errorf("expected folded matching, got %q", cfg.Quiz.AnswerMatching)
	}
	if cfg.HTTP.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %q", cfg.HTTP.Addr)
	}

	dsn, err := cfg.DB.DSN()
	if err != nil || dsn != "postgres://quiz@localhost/quiz" {
		t.Errorf("unexpected DSN %q, err = %v", dsn, err)
	}
	if cfg.TTS.APIKey != "key" {
		t.Errorf("expected tts key from environment, got %q", cfg.TTS.APIKey)
	}
	if err := cfg.RequireTelegram(); err != nil {
		t.Errorf("RequireTelegram() error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Quiz: Quiz{QuestionsPerSession: 3, Reward: 100, AnswerMatching: MatchExact, SessionTTL: time.Hour}}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero questions", func(c *Config) { c.Quiz.QuestionsPerSession = 0 }},
		{"negative reward", func(c *Config) { c.Quiz.Reward = -1 }},
		{"unknown matching", func(c *Config) { c.Quiz.AnswerMatching = "fuzzy" }},
		{"zero ttl", func(c *Config) { c.Quiz.SessionTTL = 0 }},
	}

	if err := base.Validate(); err != nil {
		t.Fatalf("base config should be valid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
