// Package tts synthesizes speech for entries without a recorded audio file.
package tts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const defaultEndpoint = "https://texttospeech.googleapis.com/v1/text:synthesize"

var (
	ErrNotConfigured = errors.New("speech synthesis is not configured")
	ErrSynthesis     = errors.New("speech synthesis failed")
)

// Config holds speech synthesis parameters.
type Config struct {
	APIKey       string
	LanguageCode string
	Timeout      time.Duration
	CacheDir     string // empty means DefaultCacheDir
	Endpoint     string // empty means the Google Cloud endpoint
}

// DefaultCacheDir returns the XDG cache location for synthesized audio.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "kakaenen", "tts")
}

// Client calls Google Cloud Text-to-Speech and caches MP3 results on disk.
type Client struct {
	cfg        Config
	fs         afero.Fs
	httpClient *http.Client
	logger     *zap.Logger
	mu         sync.Mutex
}

// NewClient creates a client. Synthesis fails with ErrNotConfigured when no API key is set.
func NewClient(cfg Config, fs afero.Fs, logger *zap.Logger) *Client {
	if cfg.CacheDir == "" {
		cfg.CacheDir = DefaultCacheDir()
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		cfg: cfg,
		fs:  fs,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

func (c *Client) cachePath(text string) string {
	h := sha256.Sum256([]byte(c.cfg.LanguageCode + ":" + text))
	return filepath.Join(c.cfg.CacheDir, hex.EncodeToString(h[:16])+".mp3")
}

// Synthesize returns MP3 audio for text, served from the cache when possible.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cachePath := c.cachePath(text)
	if data, err := afero.ReadFile(c.fs, cachePath); err == nil {
		return data, nil
	}

	if !c.Enabled() {
		return nil, ErrNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another request may have filled the cache while we waited.
	if data, err := afero.ReadFile(c.fs, cachePath); err == nil {
		return data, nil
	}

	data, err := c.call(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := c.fs.MkdirAll(c.cfg.CacheDir, 0o755); err != nil {
		c.logger.Warn("failed to create tts cache dir", zap.String("dir", c.cfg.CacheDir), zap.Error(err))
		return data, nil
	}
	if err := afero.WriteFile(c.fs, cachePath, data, 0o644); err != nil {
		c.logger.Warn("failed to cache synthesized audio", zap.String("path", cachePath), zap.Error(err))
	}

	return data, nil
}

func (c *Client) call(ctx context.Context, text string) ([]byte, error) {
	reqBody := map[string]any{
		"input": map[string]string{
			"text": text,
		},
		"voice": map[string]any{
			"languageCode": c.cfg.LanguageCode,
			"ssmlGender":   "FEMALE",
		},
		"audioConfig": map[string]string{
			"audioEncoding": "MP3",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"?key="+c.cfg.APIKey, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSynthesis, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrSynthesis, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrSynthesis, resp.StatusCode, string(body))
	}

	var result struct {
		AudioContent string `json:"audioContent"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", ErrSynthesis, err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("%w: decode audio: %v", ErrSynthesis, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio", ErrSynthesis)
	}

	return audio, nil
}
