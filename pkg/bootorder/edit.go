package bootorder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/bootkit/bootdata"
	"github.com/joshuapare/bootkit/internal/writer"
)

// Opener opens a Backend for the image at path.
type Opener func(path string, write bool, names Names, log *slog.Logger) (Backend, error)

// Options controls Read and Edit.
type Options struct {
	// CreateBackup copies the image to <path>.bak before it is modified.
	CreateBackup bool

	// DryRun loads and edits but never writes.
	DryRun bool

	// Names overrides artifact names. Nil means DefaultNames().
	Names *Names

	// Open selects the backend. Nil means OpenImage.
	Open Opener

	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// OnWarning receives non-fatal parse problems.
	OnWarning func(bootdata.Warning)
}

func (o *Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *Options) names() Names {
	if o.Names == nil {
		return DefaultNames()
	}
	return o.Names.withDefaults()
}

func (o *Options) open(path string, write bool) (Backend, error) {
	open := o.Open
	if open == nil {
		open = OpenImage
	}
	return open(path, write, o.names(), o.logger())
}

// Read loads the boot configuration of the image at path without
// modifying it.
func Read(path string, opts *Options) (*bootdata.Config, error) {
	if opts == nil {
		opts = &Options{}
	}

	b, err := opts.open(path, false)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	c, err := New(b, opts).Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Edit loads the boot configuration of the image at path, runs fn on it
// and stores the result. Nothing is written when fn fails or opts.DryRun
// is set.
//
// Example:
//
//	err := bootorder.Edit("coreboot.rom", func(c *bootdata.Config) error {
//	    return c.ApplySetting("watchdog=60")
//	}, nil)
func Edit(path string, fn func(*bootdata.Config) error, opts *Options) (err error) {
	if opts == nil {
		opts = &Options{}
	}
	log := opts.logger()

	b, err := opts.open(path, !opts.DryRun)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := b.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	a := New(b, opts)
	c, err := a.Load()
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := fn(c); err != nil {
		return err
	}

	if opts.DryRun {
		log.Info("dry run, image not modified", "path", path)
		return nil
	}

	// The backup is taken under the image lock.
	if opts.CreateBackup {
		backupPath := path + ".bak"
		if err := writer.CopyFile(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup at %s: %w", backupPath, err)
		}
		log.Info("created backup", "path", backupPath)
	}

	if err := a.Store(c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
