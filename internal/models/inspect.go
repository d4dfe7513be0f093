package models

// Log kinds accepted by the log viewer.
const (
	LogAccess = "access"
	LogError  = "error"
)

// LogTail is the end of an nginx log file.
type LogTail struct {
	Kind string `json:"kind"`
	// Path is the file read, as resolved from nginx.conf or the default.
	Path    string `json:"path"`
	Content string `json:"content"`
}

// CertificateInfo describes one certificate found under <configDir>/ssl.
// Paths are relative to the config root, like FileInfo.Path.
type CertificateInfo struct {
	Domain     string   `json:"domain"`
	DNSNames   []string `json:"dnsNames,omitempty"`
	Issuer     string   `json:"issuer,omitempty"`
	CertFile   string   `json:"certFile"`
	KeyFile    string   `json:"keyFile,omitempty"`
	NotBefore  string   `json:"notBefore"`
	NotAfter   string   `json:"notAfter"`
	DaysLeft   int      `json:"daysLeft"`
	IsWildcard bool     `json:"isWildcard"`
}
