package notification

import "strings"

// SMTPConfig holds connection parameters for the SMTP provider.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromAddr string
	// ToAddrs is a comma separated recipient list.
	ToAddrs string
	// Encryption is one of "none", "starttls" or "ssl_tls".
	Encryption string
}

// Enabled reports whether enough is configured to attempt delivery.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.FromAddr != "" && len(c.Recipients()) > 0
}

// Recipients splits ToAddrs, dropping blanks.
func (c SMTPConfig) Recipients() []string {
	var out []string
	for _, r := range strings.Split(c.ToAddrs, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
