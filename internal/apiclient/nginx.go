package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vm75/nginx-manager/internal/models"
)

// TestConfig asks the server to run "nginx -t".
func (c *Client) TestConfig(ctx context.Context) (models.CommandResult, error) {
	return c.nginxCommand(ctx, "/api/nginx/test", "nginx test")
}

// Reload asks the server to run "nginx -s reload".
func (c *Client) Reload(ctx context.Context) (models.CommandResult, error) {
	return c.nginxCommand(ctx, "/api/nginx/reload", "nginx reload")
}

// Version returns the build information of the server.
func (c *Client) Version(ctx context.Context) (models.VersionInfo, error) {
	resp, err := c.Fetch(ctx, "/api/version", Options{})
	if err != nil {
		return models.VersionInfo{}, fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VersionInfo{}, err
	}

	var info models.VersionInfo
	if err = json.Unmarshal(resp.Body(), &info); err != nil {
		return models.VersionInfo{}, fmt.Errorf("decode version response: %w", err)
	}
	return info, nil
}

func (c *Client) nginxCommand(ctx context.Context, path, op string) (models.CommandResult, error) {
	resp, err := c.Fetch(ctx, path, Options{Method: http.MethodPost})
	if err != nil {
		return models.CommandResult{}, fmt.Errorf("%s request: %w", op, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CommandResult{}, err
	}

	var result models.CommandResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.CommandResult{}, fmt.Errorf("decode %s response: %w", op, err)
	}
	return result, nil
}
