package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Discord DiscordConfig
	Storage StorageConfig
	Redis   RedisConfig
	Runtime RuntimeConfig
	Logging LoggingConfig
}

type DiscordConfig struct {
	Token     string
	TokenFile string
	GuildID   string
}

type StorageConfig struct {
	DataFile string
}

type RedisConfig struct {
	Enabled     bool
	Host        string
	Port        int
	Password    string
	DB          int
	SnapshotKey string
}

type RuntimeConfig struct {
	EventQueueSize  int
	PlatformTimeout time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Discord: DiscordConfig{
			Token:     getEnv("DISCORD_TOKEN", ""),
			TokenFile: getEnv("DISCORD_TOKEN_FILE", "token.txt"),
			GuildID:   getEnv("DISCORD_GUILD_ID", ""),
		},
		Storage: StorageConfig{
			DataFile: getEnv("DATA_FILE", "voicebot_data.json"),
		},
		Redis: RedisConfig{
			Enabled:     getEnvBool("REDIS_ENABLED", false),
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnvInt("REDIS_PORT", 6379),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			SnapshotKey: getEnv("REDIS_SNAPSHOT_KEY", "voicebot:snapshot"),
		},
		Runtime: RuntimeConfig{
			EventQueueSize:  getEnvInt("EVENT_QUEUE_SIZE", 64),
			PlatformTimeout: time.Duration(getEnvInt("PLATFORM_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", "logs/voicebot.log"),
		},
	}

	if cfg.Discord.Token == "" && cfg.Discord.TokenFile != "" {
		token, err := readTokenFile(cfg.Discord.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read token file: %w", err)
		}
		cfg.Discord.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN or DISCORD_TOKEN_FILE is required")
	}
	if c.Discord.GuildID != "" {
		if _, err := strconv.ParseUint(c.Discord.GuildID, 10, 64); err != nil {
			return fmt.Errorf("DISCORD_GUILD_ID must be numeric")
		}
	}
	if c.Storage.DataFile == "" {
		return fmt.Errorf("DATA_FILE is required")
	}
	if c.Redis.Enabled && c.Redis.SnapshotKey == "" {
		return fmt.Errorf("REDIS_SNAPSHOT_KEY is required when REDIS_ENABLED is set")
	}
	if c.Runtime.EventQueueSize <= 0 {
		return fmt.Errorf("EVENT_QUEUE_SIZE must be positive")
	}
	if c.Runtime.PlatformTimeout <= 0 {
		return fmt.Errorf("PLATFORM_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// readTokenFile returns the trimmed file contents, or "" when the file is absent.
func readTokenFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
