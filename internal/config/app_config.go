package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/vm75/nginx-manager/internal/basepath"
)

// AppConfig holds all application-level configuration loaded from environment variables.
type AppConfig struct {
	// Port is the HTTP server port. Defaults to 8080.
	Port int `envconfig:"PORT" default:"8080"`

	// BasePath is the URL prefix the app is served under, e.g. "/nginx".
	// Normalized to "" or "/segment" by Load.
	BasePath string `envconfig:"BASE_PATH"`

	// ConfigDir is the nginx configuration tree exposed by the file API.
	ConfigDir string `envconfig:"NGINX_CONFIG_DIR" default:"/etc/nginx"`

	// NginxBinary is the nginx executable used for test and reload.
	NginxBinary string `envconfig:"NGINX_BINARY" default:"nginx"`

	// NginxLogDir holds access.log and error.log when nginx.conf names no
	// log files.
	NginxLogDir string `envconfig:"NGINX_LOG_DIR" default:"/var/log/nginx"`

	// CommandTimeout bounds every nginx invocation.
	CommandTimeout time.Duration `envconfig:"COMMAND_TIMEOUT" default:"30s"`

	// DataDir is the root data directory. Defaults to ~/.nginx-manager.
	DataDir string `envconfig:"NGINX_MANAGER_DATA_DIR"`

	// LogLevel sets the minimum log level (debug, info, warn, error). Defaults to info.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	LogMaxSizeMB  int `envconfig:"LOG_MAX_SIZE_MB" default:"10"`
	LogMaxBackups int `envconfig:"LOG_MAX_BACKUPS" default:"3"`

	// ViteDevURL is where the frontend dev server listens in dev builds.
	ViteDevURL string `envconfig:"VITE_DEV_URL" default:"http://localhost:5173"`

	// ServerURL is the running nginx-manager instance the CLI client talks to.
	ServerURL string `envconfig:"NGINX_MANAGER_URL" default:"http://localhost:8080"`

	// OTLPEndpoint enables OpenTelemetry export of traces, metrics and logs,
	// e.g. http://otel-collector:4317.
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// CheckInterval runs "nginx -t" in the background this often. Zero disables it.
	CheckInterval time.Duration `envconfig:"NGINX_CHECK_INTERVAL" default:"0s"`

	// AuditRetention is how long audit history is kept. Zero keeps it forever.
	AuditRetention time.Duration `envconfig:"AUDIT_RETENTION" default:"720h"`
	AuditPruneAt   string        `envconfig:"AUDIT_PRUNE_AT" default:"03:00"`

	// SMTP settings for failure alerts. Alerts are off unless host, from and to are set.
	SMTPHost       string `envconfig:"SMTP_HOST"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername   string `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom       string `envconfig:"SMTP_FROM"`
	SMTPTo         string `envconfig:"SMTP_TO"`
	SMTPEncryption string `envconfig:"SMTP_ENCRYPTION" default:"starttls"`
}

// Load reads AppConfig from environment variables using envconfig.
// DataDir defaults to ~/.nginx-manager if not set.
func Load() (*AppConfig, error) {
	var c AppConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, ".nginx-manager")
	}
	c.BasePath = basepath.Normalize(c.BasePath)

	if c.Port <= 0 || c.Port > 65535 {
		return nil, fmt.Errorf("loading config: invalid PORT %d", c.Port)
	}
	if c.CheckInterval < 0 {
		return nil, fmt.Errorf("loading config: NGINX_CHECK_INTERVAL must not be negative")
	}
	switch c.SMTPEncryption {
	case "none", "starttls", "ssl_tls":
	default:
		return nil, fmt.Errorf("loading config: invalid SMTP_ENCRYPTION %q (want none, starttls or ssl_tls)", c.SMTPEncryption)
	}
	return &c, nil
}

// SlogLevel converts the LogLevel string to a slog.Level.
// Unknown values default to slog.LevelInfo.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogDir returns the path to the log directory (~/.nginx-manager/logs).
func (c *AppConfig) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// DBPath returns the path of the SQLite history database.
func (c *AppConfig) DBPath() string {
	return filepath.Join(c.DataDir, "nginx-manager.db")
}

// ListenAddr returns the address the HTTP server binds to.
func (c *AppConfig) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
