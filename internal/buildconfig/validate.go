package buildconfig

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// ValidationError reports one malformed manifest field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the manifest for configuration the bundler would reject.
// All problems are reported together.
func (m *Manifest) Validate() error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if strings.TrimSpace(m.Build.OutDir) == "" {
		add("build.outDir", "must not be empty")
	}

	switch m.Build.Minify {
	case "", MinifyTerser, MinifyEsbuild, MinifyNone:
	default:
		add("build.minify", "unknown minifier %q", m.Build.Minify)
	}
	if m.Build.Minify != MinifyTerser && m.Build.TerserOptions != (TerserOptions{}) {
		add("build.terserOptions", "only valid with minify %q", MinifyTerser)
	}

	if m.Build.ChunkSizeWarningLimit < 0 {
		add("build.chunkSizeWarningLimit", "must not be negative")
	}

	owner := make(map[string]string)
	for _, chunk := range sortedKeys(m.Build.ManualChunks) {
		modules := m.Build.ManualChunks[chunk]
		if len(modules) == 0 {
			add("build.manualChunks."+chunk, "has no modules")
		}
		for _, mod := range modules {
			if prev, ok := owner[mod]; ok {
				add("build.manualChunks."+chunk, "module %q already assigned to chunk %q", mod, prev)
				continue
			}
			owner[mod] = chunk
		}
	}

	for _, prefix := range sortedKeys(m.Server.Proxy) {
		field := "server.proxy." + prefix
		if !strings.HasPrefix(prefix, "/") {
			add(field, "prefix must start with \"/\"")
		}
		target, err := url.Parse(m.Server.Proxy[prefix].Target)
		if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
			add(field, "target %q must be an absolute http(s) URL", m.Server.Proxy[prefix].Target)
		}
	}

	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
