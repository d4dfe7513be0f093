package service

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/vm75/nginx-manager/internal/models"
)

// certDir is where certificates live, relative to the config root.
const certDir = "ssl"

// CertService lists the TLS certificates kept in the nginx config tree.
type CertService interface {
	// List returns every certificate found in .crt and .pem files under
	// <configDir>/ssl. Files without a certificate, such as keys saved as
	// .pem, are skipped.
	List(ctx context.Context) ([]models.CertificateInfo, error)
}

type certService struct {
	fsys   fs.FS
	now    func() time.Time
	logger *slog.Logger
}

// NewCertService returns a CertService reading from fsys, which is rooted at
// the nginx config directory (os.DirFS in production).
func NewCertService(fsys fs.FS, logger *slog.Logger) CertService {
	return &certService{fsys: fsys, now: time.Now, logger: logger}
}

func (s *certService) List(ctx context.Context) ([]models.CertificateInfo, error) {
	certs := []models.CertificateInfo{}

	err := fs.WalkDir(s.fsys, certDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == certDir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			s.logger.Warn("skipping unreadable path under ssl", "path", p, "error", err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !(strings.HasSuffix(p, ".crt") || strings.HasSuffix(p, ".pem")) {
			return nil
		}

		info, ok, perr := s.parse(p)
		switch {
		case perr != nil:
			s.logger.Warn("skipping unparsable certificate", "path", p, "error", perr)
		case ok:
			certs = append(certs, info)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing certificates: %w", err)
	}
	return certs, nil
}

// parse reads the first certificate of the PEM file at p. ok is false when
// the file holds no certificate block.
func (s *certService) parse(p string) (models.CertificateInfo, bool, error) {
	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return models.CertificateInfo{}, false, err
	}

	var block *pem.Block
	for {
		block, data = pem.Decode(data)
		if block == nil {
			return models.CertificateInfo{}, false, nil
		}
		if block.Type == "CERTIFICATE" {
			break
		}
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return models.CertificateInfo{}, false, err
	}

	domain := cert.Subject.CommonName
	if domain == "" && len(cert.DNSNames) > 0 {
		domain = cert.DNSNames[0]
	}

	info := models.CertificateInfo{
		Domain:     domain,
		DNSNames:   cert.DNSNames,
		Issuer:     cert.Issuer.CommonName,
		CertFile:   "/" + p,
		NotBefore:  cert.NotBefore.UTC().Format(time.RFC3339),
		NotAfter:   cert.NotAfter.UTC().Format(time.RFC3339),
		DaysLeft:   int(cert.NotAfter.Sub(s.now()).Hours() / 24),
		IsWildcard: strings.HasPrefix(domain, "*."),
	}

	key := strings.TrimSuffix(p, path.Ext(p)) + ".key"
	if _, err := fs.Stat(s.fsys, key); err == nil {
		info.KeyFile = "/" + key
	}
	return info, true, nil
}
