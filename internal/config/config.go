package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultAuthorizingOfficer = "CHRISTOPHER JOHN B. GAMBOA"

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type SinkConfig struct {
	URL        string
	Timeout    time.Duration
	OKStatuses []int
}

type AuthConfig struct {
	AccessSecret string
}

type FormConfig struct {
	DefaultOfficer string
	SessionTTL     time.Duration
}

type Config struct {
	Environment string
	LogLevel    string
	HTTP        HTTPConfig
	Sink        SinkConfig
	Auth        AuthConfig
	Form        FormConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	okStatuses, err := parseStatusList(v.GetString("SINK_OK_STATUSES"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Sink: SinkConfig{
			URL:        strings.TrimSpace(v.GetString("SINK_URL")),
			Timeout:    v.GetDuration("SINK_TIMEOUT"),
			OKStatuses: okStatuses,
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Form: FormConfig{
			DefaultOfficer: v.GetString("FORM_DEFAULT_OFFICER"),
			SessionTTL:     v.GetDuration("FORM_SESSION_TTL"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	if cfg.Sink.URL == "" {
		cfg.Sink.URL = "http://172.18.128.1:3000/trip-tickets"
	}
	if cfg.Sink.Timeout <= 0 {
		cfg.Sink.Timeout = 30 * time.Second
	}
	if cfg.Form.DefaultOfficer == "" {
		cfg.Form.DefaultOfficer = DefaultAuthorizingOfficer
	}
	if cfg.Form.SessionTTL <= 0 {
		cfg.Form.SessionTTL = 12 * time.Hour
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	parsed, err := url.Parse(cfg.Sink.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("SINK_URL must be an absolute URL, got %q", cfg.Sink.URL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("SINK_URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if cfg.HTTP.Port < 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT out of range: %d", cfg.HTTP.Port)
	}
	return nil
}

// parseList splits a comma separated value, dropping blank entries.
func parseList(raw string) []string {
	var out []string
	for _, item := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' }) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// parseStatusList returns nil for an empty value, meaning "any 2xx".
func parseStatusList(raw string) ([]int, error) {
	items := parseList(raw)
	if len(items) == 0 {
		return nil, nil
	}
	result := make([]int, 0, len(items))
	for _, item := range items {
		code, err := strconv.Atoi(item)
		if err != nil || code < 100 || code > 599 {
			return nil, fmt.Errorf("SINK_OK_STATUSES: invalid status %q", item)
		}
		result = append(result, code)
	}
	return result, nil
}
