// Package devproxy forwards requests by path prefix to separate backend
// processes during local development.
package devproxy

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/vm75/nginx-manager/internal/buildconfig"
)

type route struct {
	prefix string
	target *url.URL
	proxy  *httputil.ReverseProxy
}

// Proxy routes matching requests to their backend and everything else to a
// fallback handler.
type Proxy struct {
	routes   []route
	fallback http.Handler
	logger   *slog.Logger
}

// New builds a Proxy from rules, which are tried in order; pass them longest
// prefix first (buildconfig.Manifest.ProxyRules already does). A nil fallback
// answers unmatched requests with 404.
func New(rules []buildconfig.ProxyRule, fallback http.Handler, logger *slog.Logger) (*Proxy, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == nil {
		fallback = http.NotFoundHandler()
	}

	p := &Proxy{fallback: fallback, logger: logger}
	for _, rule := range rules {
		target, err := url.Parse(rule.Target)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy target for %q: %w", rule.Prefix, err)
		}
		if target.Scheme == "" || target.Host == "" {
			return nil, fmt.Errorf("proxy target for %q must be absolute, got %q", rule.Prefix, rule.Target)
		}
		p.routes = append(p.routes, route{
			prefix: strings.TrimRight(rule.Prefix, "/"),
			target: target,
			proxy:  p.reverseProxy(rule.Prefix, target, rule.ChangeOrigin),
		})
	}
	return p, nil
}

// Single proxies every request to target. The web server uses it in dev mode
// to hand the frontend over to the Vite dev server.
func Single(target string, changeOrigin bool, logger *slog.Logger) (*Proxy, error) {
	return New([]buildconfig.ProxyRule{{Prefix: "/", Target: target, ChangeOrigin: changeOrigin}}, nil, logger)
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for _, rt := range p.routes {
		if matches(rt.prefix, r.URL.Path) {
			rt.proxy.ServeHTTP(w, r)
			return
		}
	}
	p.fallback.ServeHTTP(w, r)
}

// matches reports whether path is prefix itself or lies below it. "/apix"
// does not match "/api". An empty prefix (from "/") matches everything.
func matches(prefix, path string) bool {
	if prefix == "" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (p *Proxy) reverseProxy(prefix string, target *url.URL, changeOrigin bool) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
			if !changeOrigin {
				pr.Out.Host = pr.In.Host
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			p.logger.Warn("dev proxy upstream failed",
				slog.String("prefix", prefix),
				slog.String("target", target.String()),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "upstream unavailable"})
		},
	}
}
