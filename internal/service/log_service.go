package service

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vm75/nginx-manager/internal/models"
	"github.com/vm75/nginx-manager/internal/storage"
)

const (
	// DefaultLogLines is used when a tail request does not ask for a count.
	DefaultLogLines = 100
	// MaxLogLines caps a single tail request.
	MaxLogLines = 10000

	// maxTailBytes stops a tail from reading an unbounded file with very
	// long lines.
	maxTailBytes = 8 << 20
	tailChunk    = 64 << 10
)

// LogService shows the end of the nginx access and error logs.
type LogService interface {
	// Tail returns the last lines of the log of the given kind
	// (models.LogAccess or models.LogError). Zero lines means DefaultLogLines.
	Tail(ctx context.Context, kind string, lines int) (*models.LogTail, error)
}

// LogOptions configures NewLogService.
type LogOptions struct {
	// ConfigRoot anchors relative log paths found in nginx.conf.
	ConfigRoot string
	// DefaultDir holds access.log and error.log when nginx.conf names none.
	DefaultDir string
}

type logService struct {
	store  storage.ConfigStore
	opts   LogOptions
	logger *slog.Logger
}

// NewLogService returns a LogService that finds log paths by reading
// nginx.conf through store.
func NewLogService(store storage.ConfigStore, opts LogOptions, logger *slog.Logger) LogService {
	if opts.DefaultDir == "" {
		opts.DefaultDir = "/var/log/nginx"
	}
	return &logService{store: store, opts: opts, logger: logger}
}

func (s *logService) Tail(_ context.Context, kind string, lines int) (*models.LogTail, error) {
	if kind != models.LogAccess && kind != models.LogError {
		return nil, &ValidationError{Field: "kind", Message: fmt.Sprintf("unknown log %q (want access or error)", kind)}
	}
	if lines < 0 || lines > MaxLogLines {
		return nil, &ValidationError{Field: "lines", Message: fmt.Sprintf("lines must be between 0 and %d", MaxLogLines)}
	}
	if lines == 0 {
		lines = DefaultLogLines
	}

	path := s.logPath(kind)
	//nolint:gosec // path comes from nginx.conf or operator configuration
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Resource: kind + " log", ID: path}
		}
		return nil, fmt.Errorf("opening %s log: %w", kind, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s log: %w", kind, err)
	}
	if info.IsDir() {
		return nil, &ValidationError{Field: "kind", Message: fmt.Sprintf("%s log %q is a directory", kind, path)}
	}

	content, err := tailLines(f, info.Size(), lines)
	if err != nil {
		return nil, fmt.Errorf("reading %s log: %w", kind, err)
	}
	return &models.LogTail{Kind: kind, Path: path, Content: content}, nil
}

// logPath returns the first usable access_log or error_log directive of
// nginx.conf, or the default file in DefaultDir.
func (s *logService) logPath(kind string) string {
	directive := kind + "_log"
	fallback := filepath.Join(s.opts.DefaultDir, kind+".log")

	conf, err := s.store.Read("/nginx.conf")
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("cannot read nginx.conf for log paths", "error", err)
		}
		return fallback
	}

	p := findLogDirective(conf, directive)
	if p == "" {
		return fallback
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.opts.ConfigRoot, p)
	}
	return p
}

// findLogDirective scans an nginx config for directive and returns its first
// file argument. "off", "stderr", syslog and memory targets are skipped.
func findLogDirective(conf []byte, directive string) string {
	sc := bufio.NewScanner(bytes.NewReader(conf))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		for _, stmt := range strings.Split(line, ";") {
			if i := strings.LastIndexAny(stmt, "{}"); i >= 0 {
				stmt = stmt[i+1:]
			}
			fields := strings.Fields(stmt)
			if len(fields) < 2 || fields[0] != directive {
				continue
			}
			target := strings.Trim(fields[1], `"'`)
			switch {
			case target == "off", target == "stderr",
				strings.HasPrefix(target, "syslog:"), strings.HasPrefix(target, "memory:"):
				continue
			}
			return target
		}
	}
	return ""
}

// tailLines returns the last n lines of r, reading backwards from size in
// chunks. A final newline does not count as an empty last line.
func tailLines(r io.ReaderAt, size int64, n int) (string, error) {
	var buf []byte
	end := size
	for end > 0 && len(buf) < maxTailBytes {
		start := max(end-tailChunk, 0)
		chunk := make([]byte, end-start)
		if _, err := r.ReadAt(chunk, start); err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		buf = append(chunk, buf...)
		end = start

		if i := nthNewlineFromEnd(buf, n); i >= 0 {
			return string(buf[i+1:]), nil
		}
	}
	if end > 0 {
		// Hit the byte cap: drop the partial first line.
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			buf = buf[i+1:]
		}
	}
	return string(buf), nil
}

// nthNewlineFromEnd returns the index of the newline that precedes the last
// n lines of buf, or -1 when buf holds fewer lines.
func nthNewlineFromEnd(buf []byte, n int) int {
	body := bytes.TrimSuffix(buf, []byte("\n"))
	for i := len(body) - 1; i >= 0; i-- {
		if body[i] == '\n' {
			n--
			if n == 0 {
				return i
			}
		}
	}
	return -1
}
