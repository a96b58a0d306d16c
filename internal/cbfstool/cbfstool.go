// Package cbfstool drives coreboot's cbfstool binary as a bootorder.Backend.
//
// Every call runs one cbfstool command synchronously against the ROM file
// and exchanges data through a temporary file. Output is logged line by
// line; a non-zero exit becomes an *ExitError carrying the last line
// cbfstool printed on stderr.
package cbfstool

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrToolFailed indicates cbfstool could not be run or exited non-zero.
var ErrToolFailed = errors.New("cbfstool: command failed")

// ExitError is a cbfstool run that exited non-zero.
type ExitError struct {
	Args   []string
	Code   int
	Stderr string // last non-empty stderr line
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("cbfstool %s: exit status %d", strings.Join(e.Args, " "), e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Is makes errors.Is(err, ErrToolFailed) match.
func (e *ExitError) Is(target error) bool {
	return target == ErrToolFailed
}

// Tool runs cbfstool against one ROM file.
type Tool struct {
	// Path of the cbfstool binary. Looked up in $PATH when it has no slash.
	Path string
	// ROM is the image file every command operates on.
	ROM string
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
	// TempDir holds the exchange files. Empty means os.TempDir().
	TempDir string

	log *slog.Logger
}

// New returns a Tool for rom. A nil log uses slog.Default().
func New(path, rom string, log *slog.Logger) *Tool {
	if path == "" {
		path = "cbfstool"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Tool{Path: path, ROM: rom, log: log}
}

// Run executes cbfstool with the ROM as first argument and returns its
// standard output lines.
func (t *Tool) Run(ctx context.Context, args ...string) ([]string, error) {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, t.Path, append([]string{t.ROM}, args...)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolFailed, err)
	}

	t.log.Debug("running cbfstool", "path", t.Path, "args", args)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrToolFailed, err)
	}

	var (
		g         errgroup.Group
		outLines  []string
		errLines  []string
		lastError string
	)
	g.Go(func() error {
		var err error
		outLines, err = t.capture(stdout, "stdout")
		return err
	})
	g.Go(func() error {
		var err error
		errLines, err = t.capture(stderr, "stderr")
		return err
	})
	captureErr := g.Wait()
	waitErr := cmd.Wait()

	for i := len(errLines) - 1; i >= 0; i-- {
		if s := strings.TrimSpace(errLines[i]); s != "" {
			lastError = s
			break
		}
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return outLines, &ExitError{Args: args, Code: exitErr.ExitCode(), Stderr: lastError}
		}
		return outLines, fmt.Errorf("%w: %w", ErrToolFailed, waitErr)
	}
	if captureErr != nil {
		return outLines, fmt.Errorf("%w: reading output: %w", ErrToolFailed, captureErr)
	}
	return outLines, nil
}

func (t *Tool) capture(r io.Reader, stream string) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		lines = append(lines, line)
		t.log.Debug("cbfstool", "stream", stream, "line", line)
	}
	return lines, sc.Err()
}

// withTemp runs fn with the name of a fresh temporary file holding data,
// and removes the file afterwards.
func (t *Tool) withTemp(data []byte, fn func(name string) error) error {
	f, err := os.CreateTemp(t.TempDir, "cb-order.*")
	if err != nil {
		return fmt.Errorf("failed to create a temporary file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	return fn(name)
}

func (t *Tool) extract(args ...string) ([]byte, error) {
	var data []byte
	err := t.withTemp(nil, func(name string) error {
		if _, err := t.Run(context.Background(), append(args, "-f", name)...); err != nil {
			return err
		}
		var err error
		data, err = os.ReadFile(name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s from %s: %w", args[len(args)-1], t.ROM, err)
	}
	return data, nil
}

// ReadRegion implements bootorder.Backend with "cbfstool ROM read -r NAME".
func (t *Tool) ReadRegion(name string) ([]byte, error) {
	return t.extract("read", "-r", name)
}

// WriteRegion implements bootorder.Backend with "cbfstool ROM write -r NAME".
// Filling the region beyond data is left to cbfstool.
func (t *Tool) WriteRegion(name string, data []byte) error {
	return t.withTemp(data, func(file string) error {
		_, err := t.Run(context.Background(), "write", "-r", name, "-f", file)
		return err
	})
}

// ReadEntry implements bootorder.Backend with "cbfstool ROM extract -n NAME".
func (t *Tool) ReadEntry(name string) ([]byte, error) {
	return t.extract("extract", "-n", name)
}

// WriteEntry implements bootorder.Backend: the entry is removed if present,
// then added as a raw file.
func (t *Tool) WriteEntry(name string, data []byte, align int) error {
	if _, err := t.Run(context.Background(), "remove", "-n", name); err != nil {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) || !strings.Contains(exitErr.Stderr, "not found") {
			return err
		}
		t.log.Debug("entry absent, nothing to remove", "entry", name)
	}

	args := []string{"add", "-t", "raw", "-n", name}
	if align > 0 {
		args = append(args, "-a", fmt.Sprintf("0x%x", align))
	}
	return t.withTemp(data, func(file string) error {
		_, err := t.Run(context.Background(), append(args, "-f", file)...)
		return err
	})
}

// Close implements bootorder.Backend. cbfstool holds nothing open.
func (t *Tool) Close() error { return nil }
