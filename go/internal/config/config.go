package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bday2025/tournament/go/clients"
	"github.com/bday2025/tournament/go/internal/gateway"
	"github.com/bday2025/tournament/go/internal/roundinfo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config is the full client configuration.
type Config struct {
	Backend BackendConfig    `yaml:"backend"`
	Player  PlayerConfig     `yaml:"player"`
	Poller  roundinfo.Config `yaml:"poller"`
	Gateway gateway.Config   `yaml:"gateway"`
	Notify  NotifyConfig     `yaml:"notify"`
	Log     LogConfig        `yaml:"log"`
}

// BackendConfig selects the tournament backend.
type BackendConfig struct {
	Source  string        `yaml:"source"`
	BaseURL string        `yaml:"base_url"` // overrides the source's URL
	Timeout time.Duration `yaml:"timeout"`
}

type PlayerConfig struct {
	Identifier  string `yaml:"identifier"`
	FollowStage bool   `yaml:"follow_stage"`
}

type NotifyConfig struct {
	Log               bool   `yaml:"log"`
	NATSURL           string `yaml:"nats_url"`
	SubjectPrefix     string `yaml:"subject_prefix"`
	DiscordWebhookURL string `yaml:"discord_webhook_url"`
	DiscordUsername   string `yaml:"discord_username"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns a config for the local backend.
func Default() Config {
	return Config{
		Backend: BackendConfig{
			Source:  string(clients.GetHighestPrioritySource()),
			Timeout: clients.DefaultTimeout,
		},
		Player:  PlayerConfig{FollowStage: true},
		Poller:  roundinfo.DefaultConfig(),
		Gateway: gateway.DefaultConfig(),
		Notify: NotifyConfig{
			Log:           true,
			SubjectPrefix: "tournament",
		},
		Log: LogConfig{Level: "info", Pretty: true},
	}
}

// Load reads .env, then the YAML file at path (skipped when empty), then
// TOURNAMENT_* environment overrides. Callers validate once every layer,
// command-line flags included, has been applied.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	c.Backend.Source = getEnv("TOURNAMENT_SOURCE", c.Backend.Source)
	c.Backend.BaseURL = getEnv("TOURNAMENT_BASE_URL", c.Backend.BaseURL)
	c.Backend.Timeout = getEnvAsDuration("TOURNAMENT_TIMEOUT", c.Backend.Timeout)

	c.Player.Identifier = getEnv("TOURNAMENT_PLAYER_ID", c.Player.Identifier)
	c.Player.FollowStage = getEnvAsBool("TOURNAMENT_FOLLOW_STAGE", c.Player.FollowStage)

	c.Poller.Interval = getEnvAsDuration("TOURNAMENT_POLL_INTERVAL", c.Poller.Interval)
	c.Poller.FetchTimeout = getEnvAsDuration("TOURNAMENT_FETCH_TIMEOUT", c.Poller.FetchTimeout)

	c.Gateway.Addr = getEnv("TOURNAMENT_GATEWAY_ADDR", c.Gateway.Addr)
	if port := os.Getenv("GATEWAY_PORT"); port != "" {
		c.Gateway.Addr = ":" + port
	}

	c.Notify.NATSURL = getEnv("NATS_URL", c.Notify.NATSURL)
	c.Notify.SubjectPrefix = getEnv("TOURNAMENT_SUBJECT_PREFIX", c.Notify.SubjectPrefix)
	c.Notify.DiscordWebhookURL = getEnv("TOURNAMENT_DISCORD_WEBHOOK", c.Notify.DiscordWebhookURL)

	c.Log.Level = getEnv("TOURNAMENT_LOG_LEVEL", c.Log.Level)
	c.Log.Pretty = getEnvAsBool("TOURNAMENT_LOG_PRETTY", c.Log.Pretty)
}

// Validate checks the fields every command relies on.
func (c Config) Validate() error {
	if c.Backend.BaseURL == "" && !clients.ValidateBackendSource(clients.BackendSource(c.Backend.Source)) {
		return fmt.Errorf("unknown backend source %q", c.Backend.Source)
	}
	if c.Backend.Timeout < 0 {
		return errors.New("backend timeout must not be negative")
	}
	if c.Poller.Interval < 0 || c.Poller.FetchTimeout < 0 {
		return errors.New("poller durations must not be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// APIBaseURL is the REST root the client should use.
func (c Config) APIBaseURL() string {
	if c.Backend.BaseURL != "" {
		return c.Backend.BaseURL
	}
	return c.BackendSource().APIBaseURL()
}

// BackendSource returns the configured source, falling back to the highest priority one.
func (c Config) BackendSource() clients.BackendSourceConfig {
	sources := clients.GetBackendSources()
	if src, ok := sources[clients.BackendSource(c.Backend.Source)]; ok {
		return src
	}
	return sources[clients.GetHighestPrioritySource()]
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
