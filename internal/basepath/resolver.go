// Package basepath resolves request paths against the prefix the application
// is deployed under. A subdomain deployment uses the empty prefix; a subfolder
// deployment uses something like "/app".
//
// The prefix is passed in explicitly by whoever constructs the Resolver. It is
// never read from the environment at call time.
package basepath

import "strings"

// Resolver builds request paths under a fixed deployment prefix.
// The zero value and a nil *Resolver both resolve with an empty prefix.
type Resolver struct {
	base string
}

// New returns a Resolver for the given base path. The value is kept verbatim;
// use Normalize first when it comes from user input.
func New(base string) *Resolver {
	return &Resolver{base: base}
}

// BasePath returns the configured base path, or "" when none is configured.
func (r *Resolver) BasePath() string {
	if r == nil {
		return ""
	}
	return r.base
}

// URL prefixes path with the base path. A leading "/" is added to path when
// missing so the two never run together.
func (r *Resolver) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.BasePath() + path
}

// Normalize turns a user-supplied base path into the form Resolver expects:
// a single leading slash and no trailing slash. Empty input and "/" both
// yield "".
func Normalize(raw string) string {
	value := strings.Trim(strings.TrimSpace(raw), "/")
	if value == "" {
		return ""
	}
	return "/" + value
}
