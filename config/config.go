package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings of the scheduler.
type Config struct {
	Port         string   `yaml:"port"`
	Env          string   `yaml:"env"`
	// SingleTenant lets requests without an X-Google-Id header act as the
	// first stored user. Off by default, so a header-less GET /api/summary
	// answers with the fallback text unless SINGLE_TENANT=true.
	SingleTenant bool     `yaml:"single_tenant"`
	Timezone     string   `yaml:"timezone"`
	CORSOrigins  []string `yaml:"cors_origins"`

	Google GoogleConfig `yaml:"google"`
	AI     AIConfig     `yaml:"ai"`
	Store  StoreConfig  `yaml:"store"`
	Redis  RedisConfig  `yaml:"redis"`
	Notify NotifyConfig `yaml:"notify"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
}

type AIConfig struct {
	APIKey        string `yaml:"api_key"`
	PlanningModel string `yaml:"planning_model"`
	SummaryModel  string `yaml:"summary_model"`
}

// StoreConfig selects the persistence driver: mongo, postgres or memory.
type StoreConfig struct {
	Driver        string `yaml:"driver"`
	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	DatabaseURL   string `yaml:"database_url"`
}

type RedisConfig struct {
	URL        string `yaml:"url"`
	ServerName string `yaml:"tls_server_name"`
}

type NotifyConfig struct {
	SlackWebhookURL string `yaml:"slack_webhook_url"`
	EmailUser       string `yaml:"email_user"`
	EmailPass       string `yaml:"email_pass"`
	EmailTo         string `yaml:"email_to"`
	SMTPHost        string `yaml:"smtp_host"`
	SMTPPort        int    `yaml:"smtp_port"`
}

// EmailEnabled reports whether mail credentials are present.
func (n NotifyConfig) EmailEnabled() bool {
	return n.EmailUser != "" && n.EmailPass != ""
}

// Recipient falls back to the sending account when EMAIL_TO is unset.
func (n NotifyConfig) Recipient() string {
	if n.EmailTo != "" {
		return n.EmailTo
	}
	return n.EmailUser
}

// Location resolves the configured time zone, defaulting to the host's local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if present), then the optional YAML file named by CONFIG_FILE,
// and finally applies environment variables, which take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	overrideFromEnv(cfg)

	switch cfg.Store.Driver {
	case "mongo", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:        "3000",
		Env:         "development",
		Timezone:    "Local",
		CORSOrigins: []string{"http://localhost:5173"},
		AI: AIConfig{
			PlanningModel: "gemini-2.5-pro",
			SummaryModel:  "gemini-2.5-flash",
		},
		Store: StoreConfig{
			Driver:        "mongo",
			MongoDatabase: "task-scheduler",
		},
		Notify: NotifyConfig{
			SMTPHost: "smtp.gmail.com",
			SMTPPort: 587,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func overrideFromEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.Timezone = getEnv("TIMEZONE", cfg.Timezone)
	cfg.SingleTenant = getBool("SINGLE_TENANT", cfg.SingleTenant)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	cfg.Google.ClientID = getEnv("GOOGLE_CLIENT_ID", cfg.Google.ClientID)
	cfg.Google.ClientSecret = getEnv("GOOGLE_CLIENT_SECRET", cfg.Google.ClientSecret)
	cfg.Google.RedirectURI = getEnv("GOOGLE_REDIRECT_URI", cfg.Google.RedirectURI)

	cfg.AI.APIKey = getEnv("GEMINI_API_KEY", cfg.AI.APIKey)
	cfg.AI.PlanningModel = getEnv("AI_PLANNING_MODEL", cfg.AI.PlanningModel)
	cfg.AI.SummaryModel = getEnv("AI_SUMMARY_MODEL", cfg.AI.SummaryModel)

	cfg.Store.Driver = getEnv("STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.MongoURI = getEnv("MONGO_URI", cfg.Store.MongoURI)
	cfg.Store.MongoDatabase = getEnv("MONGO_DATABASE", cfg.Store.MongoDatabase)
	cfg.Store.DatabaseURL = getEnv("DATABASE_URL", cfg.Store.DatabaseURL)

	cfg.Redis.URL = getEnv("REDIS_URL", cfg.Redis.URL)
	cfg.Redis.ServerName = getEnv("REDIS_TLS_SERVER_NAME", cfg.Redis.ServerName)

	cfg.Notify.SlackWebhookURL = getEnv("SLACK_WEBHOOK_URL", cfg.Notify.SlackWebhookURL)
	cfg.Notify.EmailUser = getEnv("EMAIL_USER", cfg.Notify.EmailUser)
	cfg.Notify.EmailPass = getEnv("EMAIL_PASS", cfg.Notify.EmailPass)
	cfg.Notify.EmailTo = getEnv("EMAIL_TO", cfg.Notify.EmailTo)
	cfg.Notify.SMTPHost = getEnv("SMTP_HOST", cfg.Notify.SMTPHost)
	cfg.Notify.SMTPPort = getInt("SMTP_PORT", cfg.Notify.SMTPPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
