package convert

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mkvtomp4/ffmpeg"
)

// DefaultPollInterval paces the output loop between lines.
const DefaultPollInterval = 50 * time.Millisecond

const maxLineBytes = 1 << 20

// Runner executes conversion requests one at a time per caller.
type Runner struct {
	ff           *ffmpeg.FFmpeg
	logger       *slog.Logger
	pollInterval time.Duration
	assumed      time.Duration
	lockDir      string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithPollInterval overrides the pause between output lines.
func WithPollInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.pollInterval = d
	}
}

// WithLockDir sets where per-output lock files are created.
func WithLockDir(dir string) Option {
	return func(r *Runner) {
		r.lockDir = dir
	}
}

// NewRunner returns a Runner that invokes ff.
func NewRunner(ff *ffmpeg.FFmpeg, opts ...Option) *Runner {
	r := &Runner{
		ff:           ff,
		logger:       slog.New(slog.DiscardHandler),
		pollInterval: DefaultPollInterval,
		assumed:      AssumedDuration,
		lockDir:      os.TempDir(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run converts req and blocks until ffmpeg exits. progress, when non-nil,
// is called from the calling goroutine once per output line with a
// non-decreasing percentage. Run never panics on I/O failures; every failure
// is reported through the returned Outcome.
func (r *Runner) Run(ctx context.Context, req Request, progress func(Tick)) Outcome {
	if err := req.Validate(); err != nil {
		var inputErr *InputError
		reason := err.Error()
		if errors.As(err, &inputErr) {
			reason = inputErr.Reason
		}
		r.logger.Warn("conversion rejected", "input", req.InputPath, "output", req.OutputPath, "reason", reason)
		return Outcome{Kind: InvalidInput, OutputPath: req.OutputPath, ExitCode: -1, Message: reason}
	}

	logger := r.logger.With(
		"run_id", uuid.NewString(),
		"input", req.InputPath,
		"output", req.OutputPath,
		"log_path", req.LogPath(),
	)
	logger.Info("conversion started", "ffmpeg", r.ff.Path())

	outcome := r.execute(ctx, req, progress)

	attrs := []any{
		"outcome", outcome.Kind.String(),
		"exit_code", outcome.ExitCode,
		"elapsed", outcome.Elapsed.Round(time.Millisecond).String(),
	}
	if outcome.Kind == Success {
		logger.Info("conversion finished", attrs...)
	} else {
		logger.Error("conversion failed", append(attrs, "error", outcome.Message)...)
	}
	return outcome
}

func (r *Runner) execute(ctx context.Context, req Request, progress func(Tick)) Outcome {
	start := time.Now()
	logPath := req.LogPath()

	unexpected := func(err error) Outcome {
		return Outcome{
			Kind:       UnexpectedError,
			OutputPath: req.OutputPath,
			LogPath:    logPath,
			ExitCode:   -1,
			Message:    err.Error(),
			Elapsed:    time.Since(start),
		}
	}

	lock := flock.New(r.lockPath(req.OutputPath))
	locked, err := lock.TryLock()
	if err != nil {
		return unexpected(fmt.Errorf("lock output %s: %w", req.OutputPath, err))
	}
	if !locked {
		return unexpected(fmt.Errorf("%s is already being written by another conversion", req.OutputPath))
	}
	defer lock.Unlock()

	logFile, err := os.Create(logPath)
	if err != nil {
		return unexpected(fmt.Errorf("open log file: %w", err))
	}
	defer logFile.Close()

	exitCode, err := r.transcode(ctx, req, logFile, start, progress)
	if err != nil {
		return unexpected(err)
	}
	if _, err := fmt.Fprintf(logFile, "Return code: %d\n", exitCode); err != nil {
		return unexpected(fmt.Errorf("write log: %w", err))
	}
	if err := logFile.Close(); err != nil {
		return unexpected(fmt.Errorf("close log file: %w", err))
	}

	elapsed := time.Since(start)
	if exitCode != 0 {
		return Outcome{
			Kind:       ProcessFailed,
			OutputPath: req.OutputPath,
			LogPath:    logPath,
			ExitCode:   exitCode,
			Message:    fmt.Sprintf("ffmpeg exited with code %d", exitCode),
			Elapsed:    elapsed,
		}
	}

	info, err := os.Stat(req.OutputPath)
	if err != nil || !info.Mode().IsRegular() {
		return Outcome{
			Kind:       OutputMissing,
			OutputPath: req.OutputPath,
			LogPath:    logPath,
			ExitCode:   exitCode,
			Message:    "ffmpeg reported success but did not create " + req.OutputPath,
			Elapsed:    elapsed,
		}
	}

	return Outcome{
		Kind:       Success,
		OutputPath: req.OutputPath,
		LogPath:    logPath,
		ExitCode:   exitCode,
		OutputSize: info.Size(),
		Elapsed:    elapsed,
	}
}

// transcode runs ffmpeg with stdout and stderr joined on one pipe, copying
// each line to log. It returns the process exit code, or an error when the
// process could not be started or its output could not be handled.
func (r *Runner) transcode(ctx context.Context, req Request, log io.Writer, start time.Time, progress func(Tick)) (int, error) {
	cmd := r.ff.ConvertCommand(ctx, req.InputPath, req.OutputPath)

	pr, pw, err := os.Pipe()
	if err != nil {
		return -1, fmt.Errorf("create output pipe: %w", err)
	}
	defer pr.Close()

	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		pw.Close()
		return -1, fmt.Errorf("start ffmpeg: %w", err)
	}
	// The child holds its own copy; closing ours lets the reader see EOF.
	pw.Close()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(scanOutputLines)

	var last float64
	var loopErr error
	for scanner.Scan() {
		if _, err := fmt.Fprintln(log, scanner.Text()); err != nil {
			loopErr = fmt.Errorf("write log: %w", err)
			break
		}

		elapsed := time.Since(start)
		pct := Percent(elapsed, r.assumed)
		if pct < last {
			pct = last
		}
		last = pct
		if progress != nil {
			progress(Tick{Percent: pct, Elapsed: elapsed})
		}

		if r.pollInterval > 0 {
			time.Sleep(r.pollInterval)
		}
	}
	if loopErr == nil {
		if err := scanner.Err(); err != nil {
			loopErr = fmt.Errorf("read ffmpeg output: %w", err)
		}
	}
	if loopErr != nil {
		// Nothing drains the pipe any more, so stop the child before waiting.
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return -1, loopErr
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return -1, fmt.Errorf("wait for ffmpeg: %w", err)
		}
	}
	return cmd.ProcessState.ExitCode(), nil
}

func (r *Runner) lockPath(outputPath string) string {
	key := outputPath
	if abs, err := filepath.Abs(outputPath); err == nil {
		key = abs
	}
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(r.lockDir, "mkvtomp4-"+hex.EncodeToString(sum[:8])+".lock")
}
