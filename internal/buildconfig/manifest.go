// Package buildconfig describes how the frontend bundle is produced and how
// the local development proxy forwards requests. The manifest is declarative:
// nothing in this binary runs a bundler. It is read by the preview server
// and printed for the frontend tooling.
package buildconfig

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Minifier names accepted in build.minify.
const (
	MinifyTerser  = "terser"
	MinifyEsbuild = "esbuild"
	MinifyNone    = "none"
)

// Manifest is the root of the build configuration.
type Manifest struct {
	// Plugins lists the source-transformation plugins the bundler applies.
	Plugins []string `yaml:"plugins" json:"plugins"`

	// Base is the prefix embedded in emitted asset references.
	Base string `yaml:"base" json:"base"`

	Build  Build  `yaml:"build" json:"build"`
	Server Server `yaml:"server" json:"server"`
}

// Build controls bundling, minification and chunking.
type Build struct {
	OutDir      string `yaml:"outDir" json:"outDir"`
	EmptyOutDir bool   `yaml:"emptyOutDir" json:"emptyOutDir"`

	Minify        string        `yaml:"minify" json:"minify"`
	TerserOptions TerserOptions `yaml:"terserOptions" json:"terserOptions"`

	// ManualChunks assigns module ids to named output bundles, overriding the
	// bundler's automatic chunking.
	ManualChunks map[string][]string `yaml:"manualChunks" json:"manualChunks"`

	// ChunkSizeWarningLimit is in kB. Chunks below it produce no warning.
	ChunkSizeWarningLimit int `yaml:"chunkSizeWarningLimit" json:"chunkSizeWarningLimit"`
}

// TerserOptions holds the terser sub-options the project sets.
type TerserOptions struct {
	Compress Compress `yaml:"compress" json:"compress"`
}

// Compress strips diagnostic statements from the output.
type Compress struct {
	DropConsole  bool `yaml:"dropConsole" json:"dropConsole"`
	DropDebugger bool `yaml:"dropDebugger" json:"dropDebugger"`
}

// Server configures the development server.
type Server struct {
	// Proxy maps a request path prefix to the backend it is forwarded to.
	Proxy map[string]ProxyTarget `yaml:"proxy" json:"proxy"`
}

// ProxyTarget is one development proxy destination.
type ProxyTarget struct {
	Target string `yaml:"target" json:"target"`
	// ChangeOrigin rewrites the Host header to the target's host.
	ChangeOrigin bool `yaml:"changeOrigin" json:"changeOrigin"`
}

// ProxyRule is a ProxyTarget bound to its prefix.
type ProxyRule struct {
	Prefix       string
	Target       string
	ChangeOrigin bool
}

// Default returns the manifest the project ships with.
func Default() *Manifest {
	return &Manifest{
		Plugins: []string{"svelte"},
		Base:    "./",
		Build: Build{
			OutDir:      "dist",
			EmptyOutDir: true,
			Minify:      MinifyTerser,
			TerserOptions: TerserOptions{
				Compress: Compress{DropConsole: true, DropDebugger: true},
			},
			ManualChunks: map[string][]string{
				"monaco-editor-core": {"monaco-editor/esm/vs/editor/editor.api"},
				"monaco-languages": {
					"monaco-editor/esm/vs/language/json/json.worker",
					"monaco-editor/esm/vs/language/css/css.worker",
					"monaco-editor/esm/vs/language/html/html.worker",
					"monaco-editor/esm/vs/language/typescript/ts.worker",
				},
			},
			ChunkSizeWarningLimit: 5000,
		},
		Server: Server{
			Proxy: map[string]ProxyTarget{
				"/api": {Target: "http://localhost:8080", ChangeOrigin: true},
			},
		},
	}
}

// Load reads a YAML manifest from path and validates it.
func Load(path string) (*Manifest, error) {
	//nolint:gosec // path is supplied by the operator on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading build manifest %q: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing build manifest %q: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid build manifest %q: %w", path, err)
	}
	return &m, nil
}

// YAML renders the manifest as a YAML document.
func (m *Manifest) YAML() ([]byte, error) {
	return yaml.Marshal(m)
}

// ProxyRules returns the proxy entries ordered longest prefix first, so the
// most specific rule wins when prefixes nest.
func (m *Manifest) ProxyRules() []ProxyRule {
	rules := make([]ProxyRule, 0, len(m.Server.Proxy))
	for prefix, t := range m.Server.Proxy {
		rules = append(rules, ProxyRule{Prefix: prefix, Target: t.Target, ChangeOrigin: t.ChangeOrigin})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].Prefix) != len(rules[j].Prefix) {
			return len(rules[i].Prefix) > len(rules[j].Prefix)
		}
		return rules[i].Prefix < rules[j].Prefix
	})
	return rules
}

// ChunkFor reports which manual chunk module is assigned to.
func (m *Manifest) ChunkFor(module string) (string, bool) {
	for chunk, modules := range m.Build.ManualChunks {
		for _, mod := range modules {
			if mod == module {
				return chunk, true
			}
		}
	}
	return "", false
}
