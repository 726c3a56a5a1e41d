package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	BotToken    string `env:"BOT_TOKEN,required"`
	ChannelID   string `env:"CHANNEL_ID,required"`
	ChannelLink string `env:"CHANNEL_LINK" envDefault:"https://t.me/your_channel"`

	LeadMagnetN8N   string     `env:"LEADMAGNET_N8N" envDefault:"https://n8n.io/"`
	LeadMagnets     KeywordMap `env:"LEAD_MAGNETS"`
	LeadMagnetsFile string     `env:"LEAD_MAGNETS_FILE"`

	Mode          string `env:"MODE" envDefault:"polling"`
	WebhookURL    string `env:"WEBHOOK_URL"`
	WebhookListen string `env:"WEBHOOK_LISTEN" envDefault:":8080"`

	SessionBackend string        `env:"SESSION_BACKEND" envDefault:"memory"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	Redis          RedisConfig   `envPrefix:"REDIS_"`

	DatabaseURL string  `env:"DATABASE_URL"`
	AdminIDs    []int64 `env:"ADMIN_IDS" envSeparator:","`

	MembershipRetries int           `env:"MEMBERSHIP_RETRIES" envDefault:"2"`
	HTTPTimeout       time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`

	Debug    bool   `env:"DEBUG"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Magnets is the merged keyword table, filled by Load.
	Magnets map[string]string `env:"-"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Load reads optional dotenv files, then the process environment. Missing
// dotenv files are skipped; variables already set in the environment win.
func Load(dotenvFiles ...string) (*Config, error) {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	magnets, err := cfg.buildMagnets()
	if err != nil {
		return nil, err
	}
	cfg.Magnets = magnets

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// buildMagnets merges the keyword table. Later sources override earlier ones:
// LEADMAGNET_N8N, LEAD_MAGNETS, then LEAD_MAGNETS_FILE.
func (c *Config) buildMagnets() (map[string]string, error) {
	magnets := make(map[string]string)
	if c.LeadMagnetN8N != "" {
		magnets["n8n"] = c.LeadMagnetN8N
	}
	for k, v := range c.LeadMagnets {
		magnets[k] = v
	}

	if c.LeadMagnetsFile != "" {
		fromFile, err := LoadMagnetsFile(c.LeadMagnetsFile)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			magnets[k] = v
		}
	}

	if len(magnets) == 0 {
		return nil, errors.New("at least one lead magnet keyword is required")
	}
	return magnets, nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.WebhookURL == "" {
			return errors.New("WEBHOOK_URL is required in webhook mode")
		}
		if _, err := url.ParseRequestURI(c.WebhookURL); err != nil {
			return fmt.Errorf("invalid WEBHOOK_URL: %w", err)
		}
	default:
		return fmt.Errorf("unknown MODE %q", c.Mode)
	}

	switch c.SessionBackend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.MembershipRetries < 0 {
		return errors.New("MEMBERSHIP_RETRIES must not be negative")
	}
	return nil
}

// WebhookPath is the path part of WEBHOOK_URL, "/" when empty.
func (c *Config) WebhookPath() string {
	u, err := url.Parse(c.WebhookURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// IsAdmin reports whether the user id is listed in ADMIN_IDS.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// KeywordMap parses "keyword=url,keyword=url". Keywords are lower-cased.
type KeywordMap map[string]string

func (m *KeywordMap) UnmarshalText(text []byte) error {
	out := make(KeywordMap)
	for _, pair := range strings.Split(string(text), ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("lead magnet %q: expected keyword=url", pair)
		}
		if err := out.add(key, value); err != nil {
			return err
		}
	}
	*m = out
	return nil
}

func (m KeywordMap) add(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if key == "" {
		return errors.New("lead magnet keyword must not be empty")
	}
	if value == "" {
		return fmt.Errorf("lead magnet %q: url must not be empty", key)
	}
	m[key] = value
	return nil
}
