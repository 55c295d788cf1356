package analyzer

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/diaglens/diaglens/internal/domain"
)

// stderrLimit caps the analyzer stderr kept for error context.
const stderrLimit = 64 * 1024

// Runner invokes the external analyzer as a subprocess. It implements
// domain.Analyzer and domain.AnalyzerInstaller.
type Runner struct {
	command   string
	args      []string
	install   []string
	maxOutput int64
	lookPath  func(string) (string, error)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLookPath replaces exec.LookPath for availability checks.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(r *Runner) { r.lookPath = fn }
}

// WithMaxOutput overrides the captured stdout cap in bytes.
func WithMaxOutput(n int64) Option {
	return func(r *Runner) { r.maxOutput = n }
}

// New creates a Runner from the analyzer section of the project config.
func New(cfg domain.AnalyzerConfig, opts ...Option) *Runner {
	if cfg.Command == "" {
		cfg.Command = domain.DefaultAnalyzerCommand
	}
	r := &Runner{
		command:   cfg.Command,
		args:      cfg.Args,
		install:   cfg.Install,
		maxOutput: cfg.MaxOutputBytes(),
		lookPath:  exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Describe returns the command line used for a scan.
func (r *Runner) Describe() string {
	return strings.Join(append([]string{r.command}, r.args...), " ")
}

// Run executes the analyzer in projectRoot and returns its stdout. A
// non-zero exit is how the analyzer signals findings, so its output is
// returned without error.
func (r *Runner) Run(ctx context.Context, projectRoot string) ([]byte, error) {
	stdout := &cappedBuffer{limit: r.maxOutput}
	stderr := &cappedBuffer{limit: stderrLimit}

	cmd := exec.CommandContext(ctx, r.command, r.args...)
	cmd.Dir = projectRoot
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err := cmd.Run()
	if stdout.overflow {
		return nil, goerr.Wrap(domain.ErrOutputTooLarge, "analyzer output exceeded limit",
			goerr.V("command", r.Describe()),
			goerr.V("limit_bytes", r.maxOutput))
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return stdout.Bytes(), nil
		}
		if ctx.Err() != nil {
			return nil, goerr.Wrap(ctx.Err(), "analyzer run cancelled", goerr.V("command", r.Describe()))
		}
		return nil, goerr.Wrap(domain.ErrToolUnavailable, "failed to start analyzer",
			goerr.V("command", r.Describe()),
			goerr.V("dir", projectRoot),
			goerr.V("cause", err.Error()))
	}
	return stdout.Bytes(), nil
}

// Available reports whether the analyzer executable can be found.
func (r *Runner) Available() bool {
	_, err := r.lookPath(r.command)
	return err == nil
}

// Install runs the configured install command.
func (r *Runner) Install(ctx context.Context) error {
	if len(r.install) == 0 {
		return goerr.Wrap(domain.ErrToolUnavailable, "no install command configured",
			goerr.V("command", r.command))
	}

	out := &cappedBuffer{limit: stderrLimit}
	cmd := exec.CommandContext(ctx, r.install[0], r.install[1:]...)
	cmd.Stdout = out
	cmd.Stderr = out
	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "analyzer install failed",
			goerr.V("install", strings.Join(r.install, " ")),
			goerr.V("output", strings.TrimSpace(out.String())))
	}
	return nil
}

// cappedBuffer keeps at most limit bytes and records whether more arrived.
// Writes past the limit are discarded, never rejected.
type cappedBuffer struct {
	bytes.Buffer
	limit    int64
	overflow bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.limit - int64(b.Len())
	if int64(len(p)) > room {
		b.overflow = true
		if room > 0 {
			b.Buffer.Write(p[:room])
		}
		return len(p), nil
	}
	return b.Buffer.Write(p)
}
