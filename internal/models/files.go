// Package models holds the JSON payloads shared by the HTTP API and its Go client.
package models

// FileInfo describes one entry of the nginx configuration tree.
// Path is relative to the configuration root and always starts with "/".
type FileInfo struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	IsDir      bool   `json:"isDir"`
	IsSymlink  bool   `json:"isSymlink"`
	LinkTarget string `json:"linkTarget,omitempty"`
	Size       int64  `json:"size"`
	ModTime    string `json:"modTime"`
}

// WriteFileRequest replaces the content of an existing file.
type WriteFileRequest struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// CreateFileRequest creates an empty file or a directory.
type CreateFileRequest struct {
	Path  string `json:"path"`
	IsDir bool   `json:"isDir"`
}

// DeleteFileRequest removes a file, symlink or directory tree.
type DeleteFileRequest struct {
	Path string `json:"path"`
}

// RenameFileRequest renames OldPath to NewPath.
type RenameFileRequest struct {
	OldPath string `json:"oldPath"`
	NewPath string `json:"newPath"`
}

// MoveFileRequest moves SourcePath into TargetPath when TargetPath is an
// existing directory, and renames it to TargetPath otherwise.
type MoveFileRequest struct {
	SourcePath string `json:"sourcePath"`
	TargetPath string `json:"targetPath"`
}

// SymlinkRequest creates LinkPath pointing at TargetPath. An absolute
// TargetPath is taken inside the config root and stored relative to the
// link's directory, the way sites-enabled links to sites-available.
type SymlinkRequest struct {
	TargetPath string `json:"targetPath"`
	LinkPath   string `json:"linkPath"`
}

// StatusResponse is the body of mutating endpoints that have nothing else to return.
type StatusResponse struct {
	Status string `json:"status"`
}
