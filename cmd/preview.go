package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vm75/nginx-manager/internal/basepath"
	"github.com/vm75/nginx-manager/internal/buildconfig"
	"github.com/vm75/nginx-manager/internal/config"
	"github.com/vm75/nginx-manager/internal/devproxy"
	"github.com/vm75/nginx-manager/internal/server"
)

// NewPreviewCmd returns the "preview" subcommand that serves a built
// frontend with the manifest's proxy rules applied.
func NewPreviewCmd(cfg *config.AppConfig) *cobra.Command {
	var (
		manifestPath string
		port         int
		basePath     string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve a built frontend with the manifest's dev proxy",
		Long: `Serve the manifest's build.outDir as a single-page app and forward the
prefixes listed under server.proxy to their targets, the way the frontend
dev server would.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, dir, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}
			handler, err := previewHandler(m, dir, basepath.Normalize(basePath), slog.Default())
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			addr := fmt.Sprintf(":%d", port)
			fmt.Fprintf(cmd.OutOrStdout(), "Previewing %s on http://localhost%s%s/\n",
				filepath.Join(dir, m.Build.OutDir), addr, basepath.Normalize(basePath))
			return servePreview(ctx, addr, handler)
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "Build manifest YAML (default: built-in manifest)")
	cmd.Flags().IntVar(&port, "port", 4173, "Port to listen on")
	cmd.Flags().StringVar(&basePath, "base-path", cfg.BasePath, "URL prefix to serve under")
	return cmd
}

// loadManifest returns the manifest at path, or the built-in one when path
// is empty, together with the directory outDir is relative to.
func loadManifest(path string) (*buildconfig.Manifest, string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("resolving working directory: %w", err)
		}
		return buildconfig.Default(), wd, nil
	}
	m, err := buildconfig.Load(path)
	if err != nil {
		return nil, "", err
	}
	return m, filepath.Dir(path), nil
}

func previewHandler(m *buildconfig.Manifest, dir, base string, logger *slog.Logger) (http.Handler, error) {
	outDir := m.Build.OutDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(dir, outDir)
	}
	info, err := os.Stat(outDir)
	if err != nil {
		return nil, fmt.Errorf("build output %q: %w", outDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("build output %q is not a directory", outDir)
	}

	spa, err := server.NewSPAHandler(os.DirFS(outDir), base)
	if err != nil {
		return nil, err
	}
	proxy, err := devproxy.New(m.ProxyRules(), spa, logger)
	if err != nil {
		return nil, fmt.Errorf("building proxy: %w", err)
	}
	return proxy, nil
}

func servePreview(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
