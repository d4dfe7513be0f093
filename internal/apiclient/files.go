package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vm75/nginx-manager/internal/models"
)

var jsonHeader = http.Header{"Content-Type": []string{"application/json"}}

// ListFiles lists the entries of dir, relative to the nginx config root.
func (c *Client) ListFiles(ctx context.Context, dir string) ([]models.FileInfo, error) {
	resp, err := c.Fetch(ctx, "/api/files", Options{Query: url.Values{"path": {dir}}})
	if err != nil {
		return nil, fmt.Errorf("list files request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var files []models.FileInfo
	if err = json.Unmarshal(resp.Body(), &files); err != nil {
		return nil, fmt.Errorf("decode list files response: %w", err)
	}
	return files, nil
}

// ReadFile returns the content of the file at path.
func (c *Client) ReadFile(ctx context.Context, path string) (string, error) {
	resp, err := c.Fetch(ctx, "/api/file/read", Options{Query: url.Values{"path": {path}}})
	if err != nil {
		return "", fmt.Errorf("read file request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}
	return string(resp.Body()), nil
}

// WriteFile replaces the content of the file at path.
func (c *Client) WriteFile(ctx context.Context, path, content string) error {
	return c.post(ctx, "/api/file/write", models.WriteFileRequest{Path: path, Content: content}, "write file")
}

// CreateFile creates an empty file, or a directory when isDir is set.
func (c *Client) CreateFile(ctx context.Context, path string, isDir bool) error {
	return c.post(ctx, "/api/file/create", models.CreateFileRequest{Path: path, IsDir: isDir}, "create file")
}

// DeleteFile removes the entry at path.
func (c *Client) DeleteFile(ctx context.Context, path string) error {
	return c.post(ctx, "/api/file/delete", models.DeleteFileRequest{Path: path}, "delete file")
}

// RenameFile renames the entry at oldPath to newPath.
func (c *Client) RenameFile(ctx context.Context, oldPath, newPath string) error {
	return c.post(ctx, "/api/file/rename", models.RenameFileRequest{OldPath: oldPath, NewPath: newPath}, "rename file")
}

// MoveFile moves the entry at src into target, or renames it to target when
// target is not an existing directory.
func (c *Client) MoveFile(ctx context.Context, src, target string) error {
	return c.post(ctx, "/api/file/move", models.MoveFileRequest{SourcePath: src, TargetPath: target}, "move file")
}

// CreateSymlink creates linkPath pointing at target.
func (c *Client) CreateSymlink(ctx context.Context, target, linkPath string) error {
	return c.post(ctx, "/api/file/symlink", models.SymlinkRequest{TargetPath: target, LinkPath: linkPath}, "create symlink")
}

func (c *Client) post(ctx context.Context, path string, body any, op string) error {
	resp, err := c.Fetch(ctx, path, Options{
		Method: http.MethodPost,
		Header: jsonHeader,
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("%s request: %w", op, err)
	}
	return mapHTTPError(resp)
}
