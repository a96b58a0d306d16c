package flash

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/joshuapare/bootkit/internal/buf"
	"github.com/joshuapare/bootkit/internal/format"
)

// PrimaryRegion is the only region a legacy (FMAP-less) image exposes.
const PrimaryRegion = format.SectionPrimaryCBFS

// OpenOptions controls how an image is opened.
type OpenOptions struct {
	// Write opens the file read-write. Without it WriteRegion fails with ErrReadOnly.
	Write bool
	// Logger receives diagnostics. Nil means slog.Default().
	Logger *slog.Logger
}

// Image is an opened flash image held in memory under an exclusive lock.
type Image struct {
	path     string
	f        *os.File
	data     []byte
	fmap     *FMap
	fmapOff  int
	writable bool
	locked   bool
	log      *slog.Logger
}

// Region is a window into an Image's buffer. It stays valid until the
// Image is closed; overlapping Regions share bytes.
type Region struct {
	Name   string
	Offset int
	Size   int
	img    *Image
}

// Bytes returns the region's bytes, aliasing the image buffer. The slice
// capacity is clipped so appends cannot spill into neighbouring regions.
func (r Region) Bytes() []byte {
	if r.img == nil || r.img.data == nil {
		return nil
	}
	b, _ := buf.Slice(r.img.data, r.Offset, r.Size)
	return b
}

// Sub returns the window [off, off+n) of r, still aliasing the same buffer.
func (r Region) Sub(off, n int) (Region, error) {
	if off < 0 || n < 0 || off > r.Size || n > r.Size-off {
		return Region{}, fmt.Errorf("%w: [0x%x+0x%x] outside region %q of 0x%x bytes",
			ErrOutOfBounds, off, n, r.Name, r.Size)
	}
	return Region{Name: r.Name, Offset: r.Offset + off, Size: n, img: r.img}, nil
}

// Open reads the image at path into memory and locks the file.
//
// The FMAP is located with FindFMap. If none is found the image is opened in
// legacy mode. A found FMAP whose declared size exceeds the file, or whose
// FMAP area does not point back at the header, fails with ErrCorruptImage.
func Open(path string, opts *OpenOptions) (*Image, error) {
	if opts == nil {
		opts = &OpenOptions{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	flag := os.O_RDONLY
	if opts.Write {
		flag = os.O_RDWR
	}

	img := &Image{path: path, writable: opts.Write, log: log}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	img.f = f

	if lockErr := lockFile(f); lockErr != nil {
		_ = img.Close()
		return nil, fmt.Errorf("%s: %w", path, lockErr)
	}
	img.locked = true

	if readErr := img.load(); readErr != nil {
		_ = img.Close()
		return nil, readErr
	}

	if fmapErr := img.locateFMap(); fmapErr != nil {
		_ = img.Close()
		return nil, fmapErr
	}

	return img, nil
}

func (img *Image) load() error {
	st, err := img.f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	sz := st.Size()
	if sz == 0 {
		return fmt.Errorf("%w: empty image file: %s", ErrIO, img.path)
	}
	if sz > math.MaxInt32 {
		return fmt.Errorf("%w: image %s is %d bytes, FMAP offsets are 32-bit", ErrUnsupported, img.path, sz)
	}

	data := make([]byte, sz)
	if _, err := io.ReadFull(img.f, data); err != nil {
		return fmt.Errorf("%w: incomplete read of %s: %w", ErrIO, img.path, err)
	}
	img.data = data
	return nil
}

func (img *Image) locateFMap() error {
	off, ok := FindFMap(img.data)
	if !ok {
		img.log.Debug("no FMAP found, treating image as a single CBFS", "path", img.path)
		return nil
	}

	fm, err := ParseFMap(img.data[off:])
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptImage, img.path, err)
	}

	if int64(fm.ImageSize()) > int64(len(img.data)) {
		hint := "did something truncate this file?"
		if off == 0 && len(img.data) == fm.Len() {
			hint = "is it really an image, or just an FMAP?"
		}
		return fmt.Errorf("%w: %s: FMAP records image size as %d, but file is only %d bytes (%s)",
			ErrCorruptImage, img.path, fm.ImageSize(), len(img.data), hint)
	}

	self, ok := fm.FindArea(format.SectionFMap)
	if !ok {
		return fmt.Errorf("%w: %s: FMAP has no %q area", ErrCorruptImage, img.path, format.SectionFMap)
	}
	if int64(self.Offset) != int64(off) {
		return fmt.Errorf("%w: %s: %q area (0x%x) doesn't point back to FMAP start (0x%x)",
			ErrCorruptImage, img.path, format.SectionFMap, self.Offset, off)
	}

	img.fmap = fm
	img.fmapOff = off
	img.log.Debug("found FMAP", "path", img.path, "offset", off, "areas", fm.NumAreas())
	return nil
}

// Path returns the file the image was opened from.
func (img *Image) Path() string { return img.path }

// Size returns the image size in bytes.
func (img *Image) Size() int { return len(img.data) }

// Bytes returns the whole image buffer.
func (img *Image) Bytes() []byte { return img.data }

// Writable reports whether the image was opened for writing.
func (img *Image) Writable() bool { return img.writable }

// Legacy reports whether the image has no FMAP.
func (img *Image) Legacy() bool { return img.fmap == nil }

// FMap returns the image's FMAP view, or nil for legacy images.
func (img *Image) FMap() *FMap { return img.fmap }

// FMapOffset returns where the FMAP was found, or -1 for legacy images.
func (img *Image) FMapOffset() int {
	if img.fmap == nil {
		return -1
	}
	return img.fmapOff
}

// Areas lists the image's regions. Legacy images report a single
// PrimaryRegion area covering the file.
func (img *Image) Areas() []Area {
	if img.fmap == nil {
		return []Area{{Name: PrimaryRegion, Offset: 0, Size: uint32(len(img.data))}}
	}
	return img.fmap.Areas()
}

// ReadRegion returns a window over the named region.
func (img *Image) ReadRegion(name string) (Region, error) {
	if img.data == nil {
		return Region{}, ErrClosed
	}

	if img.fmap == nil {
		if name != PrimaryRegion {
			return Region{}, fmt.Errorf("%w: %s is a legacy image that contains only a %s region, not %q",
				ErrUnsupported, img.path, PrimaryRegion, name)
		}
		return Region{Name: name, Offset: 0, Size: len(img.data), img: img}, nil
	}

	a, ok := img.fmap.FindArea(name)
	if !ok {
		return Region{}, fmt.Errorf("%w: image is missing %q region", ErrRegionNotFound, name)
	}
	if a.End() > uint64(len(img.data)) {
		return Region{}, fmt.Errorf("%w: region %q (0x%x+0x%x) runs off the end of the image (0x%x)",
			ErrRegionNotFound, name, a.Offset, a.Size, len(img.data))
	}
	return Region{Name: name, Offset: int(a.Offset), Size: int(a.Size), img: img}, nil
}

// WriteRegion flushes the bytes under r to the backing file at r.Offset.
// r must come from this image. The in-memory buffer already holds whatever
// the caller wrote through r.Bytes(); this only persists it.
func (img *Image) WriteRegion(r Region) error {
	if img.f == nil || img.data == nil {
		return ErrClosed
	}
	if r.img != img {
		return fmt.Errorf("%w: %q", ErrForeignRegion, r.Name)
	}
	if !buf.Has(img.data, r.Offset, r.Size) {
		return fmt.Errorf("%w: %q (0x%x+0x%x) is past the end of the image (0x%x)",
			ErrOutOfBounds, r.Name, r.Offset, r.Size, len(img.data))
	}
	if !img.writable {
		return fmt.Errorf("write %q: %w", r.Name, ErrReadOnly)
	}

	if _, err := img.f.Seek(int64(r.Offset), io.SeekStart); err != nil {
		return fmt.Errorf("%w: seek to 0x%x in %s: %w", ErrIO, r.Offset, img.path, err)
	}
	n, err := img.f.Write(r.Bytes())
	if err != nil {
		return fmt.Errorf("%w: write %q to %s: %w", ErrIO, r.Name, img.path, err)
	}
	if n != r.Size {
		return fmt.Errorf("%w: write %q to %s: %w", ErrIO, r.Name, img.path, io.ErrShortWrite)
	}

	img.log.Debug("wrote region", "path", img.path, "region", r.Name, "offset", r.Offset, "size", r.Size)
	return nil
}

// Sync flushes written data to stable storage.
func (img *Image) Sync() error {
	if img.f == nil {
		return ErrClosed
	}
	if err := syncFile(img.f); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrIO, img.path, err)
	}
	return nil
}

// Close releases the lock and the file and drops the buffer. It is safe to
// call more than once and on a partially opened image.
func (img *Image) Close() error {
	if img == nil {
		return nil
	}

	var errs []error
	if img.f != nil {
		if img.locked {
			if err := unlockFile(img.f); err != nil {
				errs = append(errs, fmt.Errorf("%w: unlock %s: %w", ErrIO, img.path, err))
			}
			img.locked = false
		}
		if err := img.f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%w: close %s: %w", ErrIO, img.path, err))
		}
		img.f = nil
	}
	img.data = nil
	img.fmap = nil
	return errors.Join(errs...)
}
