package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to run. All values come from the
// environment; Load applies defaults for anything unset.
type Config struct {
	Mode string // "dev" or "prod"
	Addr string

	// PublicOrigin is the origin the web client is served from. It is used
	// to build certificate verification URLs and the CORS allowlist.
	PublicOrigin string

	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Judge    JudgeConfig
	Speech   SpeechConfig
}

// DatabaseConfig selects the storage backend. When DSN is empty the server
// falls back to a local SQLite file, which is the development default.
type DatabaseConfig struct {
	Driver     string // "postgres" or "sqlite"
	DSN        string
	SQLitePath string
}

type RedisConfig struct {
	Addr    string
	Channel string
}

type AuthConfig struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// JudgeConfig points at the remote code-execution API.
type JudgeConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SpeechConfig configures ephemeral-key minting for the speech vendor.
type SpeechConfig struct {
	APIKey   string
	TokenURL string
	TokenTTL time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Mode:         getEnv("TTV_MODE", "dev"),
		Addr:         getEnv("TTV_ADDR", ":8080"),
		PublicOrigin: getEnv("TTV_PUBLIC_ORIGIN", "http://localhost:3000"),
		Database: DatabaseConfig{
			Driver:     getEnv("TTV_DB_DRIVER", "sqlite"),
			DSN:        os.Getenv("TTV_DB_DSN"),
			SQLitePath: getEnv("TTV_SQLITE_PATH", "techterview.db"),
		},
		Redis: RedisConfig{
			Addr:    os.Getenv("TTV_REDIS_ADDR"),
			Channel: getEnv("TTV_REDIS_CHANNEL", "techterview.events"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("TTV_JWT_SECRET", "dev-only-secret"),
			AccessTokenTTL: getEnvDuration("TTV_ACCESS_TOKEN_TTL", time.Hour),
		},
		Judge: JudgeConfig{
			BaseURL: getEnv("TTV_JUDGE_URL", "https://emkc.org/api/v2/piston"),
			Timeout: getEnvDuration("TTV_JUDGE_TIMEOUT", 15*time.Second),
		},
		Speech: SpeechConfig{
			APIKey:   os.Getenv("TTV_SPEECH_API_KEY"),
			TokenURL: getEnv("TTV_SPEECH_TOKEN_URL", "https://api.speech.vendor/v1/tokens"),
			TokenTTL: getEnvDuration("TTV_SPEECH_TOKEN_TTL", 10*time.Minute),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Database.Driver {
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("TTV_DB_DSN is required when TTV_DB_DRIVER=postgres")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}
	if c.Mode == "prod" && c.Auth.JWTSecret == "dev-only-secret" {
		return fmt.Errorf("TTV_JWT_SECRET must be set in prod mode")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
