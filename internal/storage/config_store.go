package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vm75/nginx-manager/internal/models"
)

var (
	// ErrNotFound is returned when the requested path does not exist.
	ErrNotFound = errors.New("path not found")
	// ErrExists is returned when the destination of a create, rename or move already exists.
	ErrExists = errors.New("path already exists")
	// ErrOutsideRoot is returned for any path that resolves outside the config root.
	ErrOutsideRoot = errors.New("path outside config root")
	// ErrIsDir is returned when file content is requested for a directory.
	ErrIsDir = errors.New("path is a directory")
	// ErrIntoSelf is returned when a directory would be moved below itself.
	ErrIntoSelf = errors.New("cannot move a directory into itself")
)

// ConfigStore reads and edits files under the nginx configuration directory.
// All paths are relative to the root; a leading "/" is allowed and refers to
// the root itself.
type ConfigStore interface {
	List(dir string) ([]models.FileInfo, error)
	Read(path string) ([]byte, error)
	Write(path string, content []byte) error
	Create(path string, isDir bool) error
	Delete(path string) error
	Rename(oldPath, newPath string) error
	Move(src, target string) error
	Symlink(target, linkPath string) error
}

// FSConfigStore implements ConfigStore on the local filesystem.
type FSConfigStore struct {
	root string
}

// NewFSConfigStore creates an FSConfigStore rooted at root.
// The root must exist and be a directory.
func NewFSConfigStore(root string) (*FSConfigStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("config dir %q: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("config dir %q is not a directory", abs)
	}
	return &FSConfigStore{root: abs}, nil
}

// Root returns the absolute config directory.
func (s *FSConfigStore) Root() string {
	return s.root
}

// resolve maps a root-relative path onto the filesystem. The check is
// lexical: symlinks inside the root may still point elsewhere, which is how
// nginx configs are usually laid out.
func (s *FSConfigStore) resolve(p string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(p))
	if !s.within(full) {
		return "", fmt.Errorf("%q: %w", p, ErrOutsideRoot)
	}
	return full, nil
}

func (s *FSConfigStore) within(full string) bool {
	rel, err := filepath.Rel(s.root, full)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// relative converts a full path back to the "/"-rooted form used by the API.
func (s *FSConfigStore) relative(full string) string {
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == "." {
		return "/"
	}
	return "/" + filepath.ToSlash(rel)
}

func (s *FSConfigStore) List(dir string) ([]models.FileInfo, error) {
	full, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, wrapFSError("reading directory", dir, err)
	}

	files := make([]models.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		entryPath := filepath.Join(full, entry.Name())

		fi := models.FileInfo{
			Name:    entry.Name(),
			Path:    s.relative(entryPath),
			IsDir:   entry.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime().Format(time.RFC3339),
		}
		if info.Mode()&os.ModeSymlink != 0 {
			fi.IsSymlink = true
			if target, err := os.Readlink(entryPath); err == nil {
				fi.LinkTarget = target
			}
		}
		files = append(files, fi)
	}
	return files, nil
}

func (s *FSConfigStore) Read(p string) ([]byte, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, wrapFSError("reading file", p, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading file %q: %w", p, ErrIsDir)
	}

	//nolint:gosec // path is confined to the config root by resolve
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, wrapFSError("reading file", p, err)
	}
	return data, nil
}

// Write replaces the file content, creating the file when missing. The mode
// of an existing file is kept.
func (s *FSConfigStore) Write(p string, content []byte) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(full); err == nil {
		if info.IsDir() {
			return fmt.Errorf("writing file %q: %w", p, ErrIsDir)
		}
		mode = info.Mode().Perm()
	}

	if err := os.WriteFile(full, content, mode); err != nil {
		return wrapFSError("writing file", p, err)
	}
	return nil
}

// Create makes an empty file or a directory, creating missing parents.
func (s *FSConfigStore) Create(p string, isDir bool) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if full == s.root {
		return fmt.Errorf("creating %q: %w", p, ErrExists)
	}
	if _, err := os.Lstat(full); err == nil {
		return fmt.Errorf("creating %q: %w", p, ErrExists)
	}

	if isDir {
		//nolint:gosec // nginx must be able to traverse config directories
		if err := os.MkdirAll(full, 0755); err != nil {
			return wrapFSError("creating directory", p, err)
		}
		return nil
	}

	//nolint:gosec // nginx must be able to traverse config directories
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return wrapFSError("creating parent directory", p, err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return wrapFSError("creating file", p, err)
	}
	return f.Close()
}

// Delete removes a file or symlink, or a directory with everything below it.
// A symlink is removed without touching its target.
func (s *FSConfigStore) Delete(p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if full == s.root {
		return fmt.Errorf("deleting %q: %w", p, ErrOutsideRoot)
	}
	if _, err := os.Lstat(full); err != nil {
		return wrapFSError("deleting", p, err)
	}
	if err := os.RemoveAll(full); err != nil {
		return wrapFSError("deleting", p, err)
	}
	return nil
}

func (s *FSConfigStore) Rename(oldPath, newPath string) error {
	oldFull, err := s.resolve(oldPath)
	if err != nil {
		return err
	}
	newFull, err := s.resolve(newPath)
	if err != nil {
		return err
	}
	return s.rename(oldPath, oldFull, newFull)
}

// Move puts src inside target when target is an existing directory and
// renames src to target otherwise.
func (s *FSConfigStore) Move(src, target string) error {
	srcFull, err := s.resolve(src)
	if err != nil {
		return err
	}
	targetFull, err := s.resolve(target)
	if err != nil {
		return err
	}

	if info, err := os.Stat(targetFull); err == nil && info.IsDir() {
		targetFull = filepath.Join(targetFull, filepath.Base(srcFull))
	}
	return s.rename(src, srcFull, targetFull)
}

func (s *FSConfigStore) rename(p, from, to string) error {
	if from == s.root || to == s.root {
		return fmt.Errorf("moving %q: %w", p, ErrOutsideRoot)
	}
	if _, err := os.Lstat(from); err != nil {
		return wrapFSError("moving", p, err)
	}
	if isBelow(from, to) {
		return fmt.Errorf("moving %q to %q: %w", p, s.relative(to), ErrIntoSelf)
	}
	if _, err := os.Lstat(to); err == nil {
		return fmt.Errorf("moving %q to %q: %w", p, s.relative(to), ErrExists)
	}
	if err := os.Rename(from, to); err != nil {
		return wrapFSError("moving", p, err)
	}
	return nil
}

// isBelow reports whether child lies strictly inside dir.
func isBelow(dir, child string) bool {
	rel, err := filepath.Rel(dir, child)
	return err == nil && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Symlink creates linkPath pointing at target. An absolute target is
// resolved inside the root and stored relative to the link's directory; a
// relative target is stored as given.
func (s *FSConfigStore) Symlink(target, linkPath string) error {
	linkFull, err := s.resolve(linkPath)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(linkFull); err == nil {
		return fmt.Errorf("creating symlink %q: %w", linkPath, ErrExists)
	}

	stored := target
	if strings.HasPrefix(target, "/") {
		targetFull, err := s.resolve(target)
		if err != nil {
			return err
		}
		stored, err = filepath.Rel(filepath.Dir(linkFull), targetFull)
		if err != nil {
			return fmt.Errorf("creating symlink %q: %w", linkPath, err)
		}
	} else if !s.within(filepath.Join(filepath.Dir(linkFull), target)) {
		return fmt.Errorf("symlink target %q: %w", target, ErrOutsideRoot)
	}

	if err := os.Symlink(stored, linkFull); err != nil {
		return wrapFSError("creating symlink", linkPath, err)
	}
	return nil
}

func wrapFSError(op, p string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s %q: %w", op, p, ErrNotFound)
	}
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%s %q: %w", op, p, ErrExists)
	}
	return fmt.Errorf("%s %q: %w", op, p, err)
}
