package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/vm75/nginx-manager/internal/models"
)

// TailLog returns the last lines of the nginx access or error log. Zero lines
// leaves the count to the server.
func (c *Client) TailLog(ctx context.Context, kind string, lines int) (string, error) {
	var query url.Values
	if lines > 0 {
		query = url.Values{"lines": {strconv.Itoa(lines)}}
	}
	resp, err := c.Fetch(ctx, "/api/logs/"+url.PathEscape(kind), Options{Query: query})
	if err != nil {
		return "", fmt.Errorf("tail log request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return string(resp.Body()), nil
}

// ListCertificates returns the certificates found under the ssl directory of
// the config tree.
func (c *Client) ListCertificates(ctx context.Context) ([]models.CertificateInfo, error) {
	resp, err := c.Fetch(ctx, "/api/certificates", Options{})
	if err != nil {
		return nil, fmt.Errorf("list certificates request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var certs []models.CertificateInfo
	if err = json.Unmarshal(resp.Body(), &certs); err != nil {
		return nil, fmt.Errorf("decode certificates response: %w", err)
	}
	return certs, nil
}
