package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vm75/nginx-manager/internal/eventbus"
	"github.com/vm75/nginx-manager/internal/models"
)

// DefaultCommandTimeout bounds every nginx invocation unless configured otherwise.
const DefaultCommandTimeout = 30 * time.Second

// maxEventOutput bounds the nginx output carried by a failure event.
const maxEventOutput = 4096

// CommandRunner runs an external program and returns its combined
// stdout/stderr. A non-zero exit is reported through err as *exec.ExitError
// alongside whatever output was produced.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

//nolint:gosec // the binary comes from operator configuration, not request input
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// NginxService drives the nginx binary.
type NginxService interface {
	// Test validates the configuration with "nginx -t".
	Test(ctx context.Context) (*models.CommandResult, error)

	// Reload signals the master process with "nginx -s reload".
	Reload(ctx context.Context) (*models.CommandResult, error)
}

// NginxOptions configures NewNginxService.
type NginxOptions struct {
	Binary  string
	Timeout time.Duration
}

type nginxService struct {
	runner    CommandRunner
	binary    string
	timeout   time.Duration
	publisher EventPublisher
	logger    *slog.Logger
}

// NewNginxService returns a NginxService that executes opts.Binary through
// runner. An empty binary defaults to "nginx" and a zero timeout to
// DefaultCommandTimeout.
func NewNginxService(runner CommandRunner, opts NginxOptions, publisher EventPublisher, logger *slog.Logger) NginxService {
	if opts.Binary == "" {
		opts.Binary = "nginx"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultCommandTimeout
	}
	return &nginxService{
		runner:    runner,
		binary:    opts.Binary,
		timeout:   opts.Timeout,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *nginxService) Test(ctx context.Context) (*models.CommandResult, error) {
	return s.run(ctx, eventbus.NginxTested, "-t")
}

func (s *nginxService) Reload(ctx context.Context) (*models.CommandResult, error) {
	return s.run(ctx, eventbus.NginxReloaded, "-s", "reload")
}

// run executes the binary. An exit status other than zero, or a binary that
// cannot be started, is a failed result rather than an error; errors are
// reserved for a timeout or a canceled context.
func (s *nginxService) run(ctx context.Context, eventType string, args ...string) (*models.CommandResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmdline := s.binary + " " + strings.Join(args, " ")
	out, err := s.runner.Run(ctx, s.binary, args...)

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case ctx.Err() != nil:
		s.logger.Error("nginx command aborted", "cmd", cmdline, "error", ctx.Err())
		return nil, fmt.Errorf("running %q: %w", cmdline, ctx.Err())
	case errors.As(err, &exitErr):
	default:
		s.logger.Error("nginx command failed to start", "cmd", cmdline, "error", err)
		out = []byte(err.Error())
	}

	result := &models.CommandResult{Success: err == nil, Output: string(out)}
	s.logger.Info("nginx command finished", "cmd", cmdline, "success", result.Success)
	if s.publisher != nil {
		payload := map[string]string{
			"cmd":     cmdline,
			"success": strconv.FormatBool(result.Success),
		}
		if !result.Success {
			payload["output"] = truncate(result.Output, maxEventOutput)
		}
		s.publisher.Publish(eventType, payload)
	}
	return result, nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
