package config

import (
	"errors"
	"os"
	"path"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds non-secret tunables read from public.yaml.
type Public struct {
	JwtTTL                   time.Duration `yaml:"jwt_ttl"`
	ResetTokenTTL            time.Duration `yaml:"reset_token_ttl"`
	ResetMinResponse         time.Duration `yaml:"reset_min_response"`
	SecureCookies            bool          `yaml:"secure_cookies"`
	LogLevel                 string        `yaml:"log_level"`
	LogJSON                  bool          `yaml:"log_json"`
	AllowedOrigins           []string      `yaml:"allowed_origins"`
	CounterReconcileInterval time.Duration `yaml:"counter_reconcile_interval"`
	APIBaseURL               string        `yaml:"api_base_url"` // used by the frontend
	HTTPPort                 int           `yaml:"http_port"`
}

// Private holds secrets. Values come from private.yaml when it exists and
// environment variables always win.
type Private struct {
	JwtKey string `yaml:"jwt_key" env:"JWT_SECRET"`
	AppURL string `yaml:"app_url" env:"APP_URL"`
	Pg     Pg     `yaml:"pg"`
	Email  Email  `yaml:"email"`
}

type Pg struct {
	Host     string `yaml:"host" env:"PG_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"PG_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"PG_USER"`
	Password string `yaml:"password" env:"PG_PASSWORD"`
	Dbname   string `yaml:"dbname" env:"PG_DBNAME" env-default:"repospector"`
}

type Email struct {
	Transport  string `yaml:"transport" env:"EMAIL_TRANSPORT" env-default:"smtp"` // smtp or gmail
	Username   string `yaml:"username" env:"EMAIL_USER"`
	SenderName string `yaml:"sender_name" env:"EMAIL_SENDER_NAME" env-default:"Repospector"`
	Timeout    int    `yaml:"timeout" env:"EMAIL_TIMEOUT"` // seconds

	SMTPServer string `yaml:"smtp_server" env:"SMTP_SERVER"`
	SMTPPort   int    `yaml:"smtp_port" env:"SMTP_PORT" env-default:"587"`
	Password   string `yaml:"password" env:"SMTP_PASSWORD"`

	GmailClientID     string `yaml:"gmail_client_id" env:"GMAIL_CLIENT_ID"`
	GmailClientSecret string `yaml:"gmail_client_secret" env:"GMAIL_CLIENT_SECRET"`
	GmailRefreshToken string `yaml:"gmail_refresh_token" env:"GMAIL_REFRESH_TOKEN"`
}

const (
	EmailTransportSMTP  = "smtp"
	EmailTransportGmail = "gmail"
)

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return c.Public.JwtTTL
}

func (c *Config) ResetTokenTTL() time.Duration {
	return c.Public.ResetTokenTTL
}

func mustLoadPath(configPath string, output any) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file: " + err.Error())
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// LoadPrivate reads private.yaml from configFolder if present, then applies
// environment overrides.
func LoadPrivate(configFolder string) (Private, error) {
	var private Private
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil {
		if err := cleanenv.ReadConfig(privatePath, &private); err != nil {
			return Private{}, err
		}
	} else if err := cleanenv.ReadEnv(&private); err != nil {
		return Private{}, err
	}
	if private.AppURL == "" {
		// name used by the original deployment
		private.AppURL = os.Getenv("NEXT_PUBLIC_APP_URL")
	}
	return private, nil
}

func (p Public) withDefaults() Public {
	if p.JwtTTL == 0 {
		p.JwtTTL = 24 * time.Hour
	}
	if p.ResetTokenTTL == 0 {
		p.ResetTokenTTL = time.Hour
	}
	if p.ResetMinResponse == 0 {
		p.ResetMinResponse = 2 * time.Second
	}
	if p.CounterReconcileInterval == 0 {
		p.CounterReconcileInterval = 10 * time.Minute
	}
	if p.HTTPPort == 0 {
		p.HTTPPort = 8080
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
	return p
}

func (c *Config) validate() error {
	if c.Private.JwtKey == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Private.AppURL == "" {
		return errors.New("APP_URL is required")
	}
	return nil
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	private, err := LoadPrivate(configFolder)
	if err != nil {
		panic("can't read private config: " + err.Error())
	}

	cfg := &Config{Public: public.withDefaults(), Private: private}
	if err := cfg.validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}
