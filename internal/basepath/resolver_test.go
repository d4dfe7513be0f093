package basepath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vm75/nginx-manager/internal/basepath"
)

func TestResolver_BasePath(t *testing.T) {
	tests := []struct {
		name     string
		resolver *basepath.Resolver
		want     string
	}{
		{"nil resolver", nil, ""},
		{"zero value", &basepath.Resolver{}, ""},
		{"empty base", basepath.New(""), ""},
		{"subfolder", basepath.New("/app"), "/app"},
		{"kept verbatim", basepath.New("/app/"), "/app/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.resolver.BasePath())
		})
	}
}

func TestResolver_URL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"no base, leading slash", "", "/api/files", "/api/files"},
		{"no base, separator inserted", "", "api/files", "/api/files"},
		{"subfolder, leading slash", "/app", "/users", "/app/users"},
		{"subfolder, separator inserted", "/app", "users", "/app/users"},
		{"empty path", "/app", "", "/app/"},
		{"query kept", "/app", "api/file/read?path=/nginx.conf", "/app/api/file/read?path=/nginx.conf"},
		{"double slash in path kept", "/app", "//x", "/app//x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, basepath.New(tt.base).URL(tt.path))
		})
	}
}

func TestResolver_URL_NilResolver(t *testing.T) {
	var r *basepath.Resolver
	assert.Equal(t, "/users", r.URL("users"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"  ", ""},
		{"app", "/app"},
		{"/app", "/app"},
		{"/app/", "/app"},
		{" app/ ", "/app"},
		{"/tools/nginx/", "/tools/nginx"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, basepath.Normalize(tt.raw))
		})
	}
}
