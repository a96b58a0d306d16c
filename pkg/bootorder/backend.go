package bootorder

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/bootkit/flash"
	"github.com/joshuapare/bootkit/flash/cbfs"
)

// Backend reads and writes named regions and CBFS entries of one image.
type Backend interface {
	// ReadRegion returns the bytes of a flash region.
	ReadRegion(name string) ([]byte, error)
	// WriteRegion writes data at the start of a flash region and clears
	// the rest of it.
	WriteRegion(name string, data []byte) error
	// ReadEntry returns the payload of a CBFS entry of the primary region.
	ReadEntry(name string) ([]byte, error)
	// WriteEntry replaces a CBFS entry of the primary region.
	WriteEntry(name string, data []byte, align int) error
	// Close releases the image. Written data is flushed first.
	Close() error
}

// ImageBackend edits an image in process through flash and cbfs.
type ImageBackend struct {
	img     *flash.Image
	primary string
	log     *slog.Logger
	dirty   bool
}

// NewImageBackend wraps an opened image. primary names the CBFS region.
func NewImageBackend(img *flash.Image, primary string, log *slog.Logger) *ImageBackend {
	if log == nil {
		log = slog.Default()
	}
	return &ImageBackend{img: img, primary: primary, log: log}
}

// OpenImage opens path and returns an ImageBackend owning the image.
func OpenImage(path string, write bool, names Names, log *slog.Logger) (Backend, error) {
	img, err := flash.Open(path, &flash.OpenOptions{Write: write, Logger: log})
	if err != nil {
		return nil, err
	}
	return NewImageBackend(img, names.withDefaults().Primary, log), nil
}

// Image returns the underlying image.
func (b *ImageBackend) Image() *flash.Image { return b.img }

// ReadRegion implements Backend. The result is a copy.
func (b *ImageBackend) ReadRegion(name string) ([]byte, error) {
	r, err := b.img.ReadRegion(name)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(r.Bytes()), nil
}

// WriteRegion implements Backend. Data larger than the region fails with
// a *cbfs.OutOfSpaceError; the rest of the region is zero-filled.
func (b *ImageBackend) WriteRegion(name string, data []byte) error {
	r, err := b.img.ReadRegion(name)
	if err != nil {
		return err
	}
	if len(data) > r.Size {
		return &cbfs.OutOfSpaceError{Name: name, Need: len(data), Free: r.Size}
	}

	dst := r.Bytes()
	copy(dst, data)
	clear(dst[len(data):])
	if err := b.img.WriteRegion(r); err != nil {
		return err
	}
	b.dirty = true
	b.log.Debug("wrote region", "region", name, "bytes", len(data), "size", r.Size)
	return nil
}

func (b *ImageBackend) store() (flash.Region, *cbfs.Store, error) {
	r, err := b.img.ReadRegion(b.primary)
	if err != nil {
		return flash.Region{}, nil, err
	}
	st, err := cbfs.Open(r.Bytes())
	if err != nil {
		return flash.Region{}, nil, fmt.Errorf("region %q: %w", b.primary, err)
	}
	return r, st, nil
}

// ReadEntry implements Backend. The result is a copy.
func (b *ImageBackend) ReadEntry(name string) ([]byte, error) {
	_, st, err := b.store()
	if err != nil {
		return nil, err
	}
	data, ok := st.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in region %q", ErrEntryNotFound, name, b.primary)
	}
	return bytes.Clone(data), nil
}

// WriteEntry implements Backend. The primary region is rewritten as a whole.
func (b *ImageBackend) WriteEntry(name string, data []byte, align int) error {
	r, st, err := b.store()
	if err != nil {
		return err
	}
	if err := st.Add(name, cbfs.TypeRaw, data, align); err != nil {
		return fmt.Errorf("region %q: %w", b.primary, err)
	}
	if err := b.img.WriteRegion(r); err != nil {
		return err
	}
	b.dirty = true
	b.log.Debug("wrote entry", "region", b.primary, "entry", name, "bytes", len(data), "free", st.Free())
	return nil
}

// Close implements Backend.
func (b *ImageBackend) Close() error {
	var syncErr error
	if b.dirty {
		syncErr = b.img.Sync()
		b.dirty = false
	}
	return errors.Join(syncErr, b.img.Close())
}
