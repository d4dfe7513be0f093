package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/api"
	"github.com/vm75/nginx-manager/internal/basepath"
	"github.com/vm75/nginx-manager/internal/build"
	"github.com/vm75/nginx-manager/internal/config"
	"github.com/vm75/nginx-manager/internal/eventbus"
	"github.com/vm75/nginx-manager/internal/logger"
	"github.com/vm75/nginx-manager/internal/notification"
	"github.com/vm75/nginx-manager/internal/scheduler"
	"github.com/vm75/nginx-manager/internal/server"
	"github.com/vm75/nginx-manager/internal/service"
	"github.com/vm75/nginx-manager/internal/storage"
	"github.com/vm75/nginx-manager/internal/telemetry"
)

// WebFS is set by main() before Execute() is called.
// It holds the embedded frontend filesystem (nil signals dev proxy mode).
var WebFS fs.FS

// NewWebCmd returns the "web" subcommand that starts the HTTP server.
func NewWebCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		port      int
		basePath  string
		configDir string
		noBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Start the web UI and API server",
		Long: `Start the nginx-manager HTTP server which serves both the REST API and the
embedded UI. Open http://localhost:<port><base-path>/ in your browser.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// CLI flags override env config.
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("base-path") {
				cfg.BasePath = basepath.Normalize(basePath)
			}
			if cmd.Flags().Changed("config-dir") {
				cfg.ConfigDir = configDir
			}

			serverURL := fmt.Sprintf("http://localhost:%d%s/", cfg.Port, cfg.BasePath)
			logFile := filepath.Join(cfg.LogDir(), "system.log")
			printBanner(cmd.OutOrStdout(), build.Version, serverURL, logFile)

			if err := runWeb(cfg, serverURL, noBrowser); err != nil {
				return fmt.Errorf("%w (logs: %s)", err, logFile)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", cfg.Port, "HTTP server port (overrides PORT env var)")
	cmd.Flags().StringVar(&basePath, "base-path", cfg.BasePath, "URL prefix to serve under, e.g. /nginx (overrides BASE_PATH)")
	cmd.Flags().StringVar(&configDir, "config-dir", cfg.ConfigDir, "nginx configuration directory (overrides NGINX_CONFIG_DIR)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Do not automatically open the browser on startup")

	return cmd
}

func runWeb(cfg *config.AppConfig, serverURL string, noBrowser bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := prometheus.NewRegistry()
	tel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName:    "nginx-manager",
		ServiceVersion: build.Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Registerer:     registry,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = tel.Shutdown(shutdownCtx)
	}()
	tel.InstallGlobals()

	var extra []slog.Handler
	if tel.LogHandler != nil {
		extra = append(extra, tel.LogHandler)
	}
	rot := logger.Rotation{MaxSizeMB: cfg.LogMaxSizeMB, MaxBackups: cfg.LogMaxBackups}
	sysLogger, err := logger.NewSystemLogger(cfg.LogDir(), cfg.SlogLevel(), rot, extra...)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	auditLogger, err := logger.NewAuditLogger(cfg.LogDir(), rot)
	if err != nil {
		return fmt.Errorf("initializing audit logger: %w", err)
	}

	sysLogger.Info("nginx-manager starting",
		slog.Int("port", cfg.Port),
		slog.String("base_path", cfg.BasePath),
		slog.String("config_dir", cfg.ConfigDir),
		slog.String("data_dir", cfg.DataDir),
		slog.Bool("otlp", cfg.OTLPEndpoint != ""),
		slog.String("version", build.Version),
		slog.String("commit", build.CommitSHA),
		slog.String("build_date", build.BuildDate),
	)

	store, err := storage.NewFSConfigStore(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("opening nginx config dir: %w", err)
	}

	db, err := storage.NewSQLiteDB(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			sysLogger.Error("failed to close history database", "error", cerr)
		}
	}()
	auditStore := storage.NewSQLiteAuditStore(db)
	notificationStore := storage.NewSQLiteNotificationStore(db)

	// Closed before the database so queued events are still persisted.
	bus := eventbus.New(2, sysLogger)
	defer bus.Close()
	bus.Subscribe(eventbus.AuditLogger(auditLogger))
	bus.Subscribe(service.AuditRecorder(auditStore, sysLogger))

	smtpCfg := notification.SMTPConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		Username:   cfg.SMTPUsername,
		Password:   cfg.SMTPPassword,
		FromAddr:   cfg.SMTPFrom,
		ToAddrs:    cfg.SMTPTo,
		Encryption: cfg.SMTPEncryption,
	}
	if smtpCfg.Enabled() {
		alerts := notification.NewHandler(notification.NewSMTPProvider(smtpCfg), notificationStore, sysLogger)
		bus.Subscribe(alerts.Listener())
		sysLogger.Info("failure alerts enabled", "smtp_host", smtpCfg.Host, "recipients", len(smtpCfg.Recipients()))
	}

	configSvc := service.NewConfigService(store, bus, sysLogger)
	nginxSvc := service.NewNginxService(service.ExecRunner{}, service.NginxOptions{
		Binary:  cfg.NginxBinary,
		Timeout: cfg.CommandTimeout,
	}, bus, sysLogger)
	historySvc := service.NewHistoryService(auditStore, notificationStore, sysLogger)
	logSvc := service.NewLogService(store, service.LogOptions{
		ConfigRoot: store.Root(),
		DefaultDir: cfg.NginxLogDir,
	}, sysLogger)
	certSvc := service.NewCertService(os.DirFS(store.Root()), sysLogger)

	sched, err := scheduler.New(scheduler.Config{
		Tester:        nginxSvc,
		CheckInterval: cfg.CheckInterval,
		Pruner:        historySvc,
		Retention:     cfg.AuditRetention,
		PruneAt:       cfg.AuditPruneAt,
		JobTimeout:    cfg.CommandTimeout + 5*time.Second,
		Logger:        sysLogger,
	})
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer func() {
		if serr := sched.Stop(); serr != nil {
			sysLogger.Error("failed to stop scheduler", "error", serr)
		}
	}()

	apiSrv := api.New(configSvc, nginxSvc, historySvc, logSvc, certSvc, sysLogger)
	srv, err := server.New(apiSrv, WebFS, server.Config{
		Port:           cfg.Port,
		BasePath:       cfg.BasePath,
		DevURL:         cfg.ViteDevURL,
		Registry:       registry,
		TracerProvider: tel.TracerProvider,
		MeterProvider:  tel.MeterProvider,
	}, sysLogger)
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}

	sysLogger.Info("server ready", "url", serverURL)

	if !noBrowser {
		go openBrowser(serverURL)
	}

	return srv.Run(ctx)
}

func openBrowser(url string) {
	time.Sleep(600 * time.Millisecond)
	ctx := context.Background()
	var c *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		c = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		c = exec.CommandContext(ctx, "open", url)
	default:
		c = exec.CommandContext(ctx, "xdg-open", url)
	}
	_ = c.Start()
}
