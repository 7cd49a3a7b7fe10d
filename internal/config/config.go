package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const defaultAdminPassword = "admin123"

type Config struct {
	Mode      Mode   `yaml:"mode"`
	HTTPAddr  string `yaml:"http_addr"`
	PublicURL string `yaml:"public_url"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	BlobBasePath string `yaml:"blob_base_path"` // upload archive root

	AuthHMACSecret string `yaml:"auth_hmac_secret"`
	AdminPassword  string `yaml:"admin_password"`
	AdminPassHash  string `yaml:"admin_pass_hash"` // bcrypt, wins over AdminPassword

	CORSOriginsOnline  []string `yaml:"cors_origins_online"`
	CORSOriginsOffline []string `yaml:"cors_origins_offline"`

	OpenAIAPIKey     string        `yaml:"openai_api_key"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"`
	OpenAIModel      string        `yaml:"openai_model"`
	OpenAITimeout    time.Duration `yaml:"openai_timeout"`
	OpenAIMaxRetries int           `yaml:"openai_max_retries"`

	ExamQuestionCount int   `yaml:"exam_question_count"`
	MaxUploadBytes    int64 `yaml:"max_upload_bytes"`

	LogMode string `yaml:"log_mode"` // dev|prod
}

func Defaults() Config {
	return Config{
		Mode:               ModeOffline,
		HTTPAddr:           ":8080",
		DBDriver:           "sqlite",
		BlobBasePath:       "./data",
		AuthHMACSecret:     "supersecret-dev-key",
		CORSOriginsOnline:  []string{"https://ppl.example.com"},
		CORSOriginsOffline: []string{"http://localhost:3000", "http://localhost:5173"},
		OpenAIBaseURL:      "https://api.openai.com/v1",
		OpenAIModel:        "gpt-4o-mini",
		OpenAITimeout:      120 * time.Second,
		OpenAIMaxRetries:   3,
		ExamQuestionCount:  16,
		MaxUploadBytes:     32 << 20,
		LogMode:            "dev",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg = applyEnv(cfg)
	return cfg, cfg.Validate()
}

// FromEnv is Load without the config file and without validation.
func FromEnv() Config {
	return applyEnv(Defaults())
}

func applyEnv(c Config) Config {
	c.Mode = Mode(envOr("MODE", string(c.Mode)))
	c.HTTPAddr = envOr("HTTP_ADDR", c.HTTPAddr)
	c.PublicURL = envOr("PUBLIC_URL", c.PublicURL)
	c.DBDriver = envOr("DB_DRIVER", c.DBDriver)
	c.DBDSN = envOr("DB_DSN", c.DBDSN)
	c.BlobBasePath = envOr("BLOB_BASE_PATH", c.BlobBasePath)
	c.AuthHMACSecret = envOr("AUTH_HMAC_SECRET", c.AuthHMACSecret)
	c.AdminPassword = envOr("ADMIN_PASSWORD", c.AdminPassword)
	c.AdminPassHash = envOr("ADMIN_PASS_HASH", c.AdminPassHash)
	c.CORSOriginsOnline = csvOr("CORS_ORIGINS_ONLINE", c.CORSOriginsOnline)
	c.CORSOriginsOffline = csvOr("CORS_ORIGINS_OFFLINE", c.CORSOriginsOffline)
	c.OpenAIAPIKey = envOr("OPENAI_API_KEY", c.OpenAIAPIKey)
	c.OpenAIBaseURL = envOr("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.OpenAIModel = envOr("OPENAI_MODEL", c.OpenAIModel)
	c.OpenAITimeout = envDuration("OPENAI_TIMEOUT", c.OpenAITimeout)
	c.OpenAIMaxRetries = envInt("OPENAI_MAX_RETRIES", c.OpenAIMaxRetries)
	c.ExamQuestionCount = envInt("EXAM_QUESTION_COUNT", c.ExamQuestionCount)
	c.MaxUploadBytes = int64(envInt("MAX_UPLOAD_BYTES", int(c.MaxUploadBytes)))
	c.LogMode = envOr("LOG_MODE", c.LogMode)

	if c.AdminPassword == "" && c.AdminPassHash == "" && c.Mode == ModeOffline {
		c.AdminPassword = defaultAdminPassword
	}
	return c
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModeOffline, ModeOnline:
	default:
		return fmt.Errorf("mode must be offline or online, got %q", c.Mode)
	}
	if c.DBDriver != "sqlite" && c.DBDriver != "postgres" {
		return fmt.Errorf("db_driver must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.AdminPassword == "" && c.AdminPassHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASS_HASH is required in %s mode", c.Mode)
	}
	if c.ExamQuestionCount <= 0 {
		return fmt.Errorf("exam_question_count must be > 0")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be > 0")
	}
	return nil
}

// CORSOrigins returns the origin list for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}
func envDuration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return def
	}
	return d
}
func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
