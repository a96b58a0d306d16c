package bootorder

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/bootkit/bootdata"
	"github.com/joshuapare/bootkit/flash/cbfs"
	"github.com/joshuapare/bootkit/internal/format"
	"github.com/joshuapare/bootkit/internal/testutil"
)

var (
	testOrder = []byte("/pci@i0cf8/usb@10/usb-*@1\r\n/pci@i0cf8/sdhci@14,7\r\n/pci@i0cf8/*@11/drive@0\r\npxen1\r\nwatchdog0000\r\n")
	testMap   = []byte("a USB\r\nb SD\r\nc mSATA\r\n")
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func quietOpts() *Options {
	return &Options{Logger: quietLogger()}
}

// cbfsRegion builds an erased CBFS region holding the given raw entries.
func cbfsRegion(t *testing.T, size int, entries map[string][]byte) []byte {
	t.Helper()

	region := bytes.Repeat([]byte{format.CBFSErased}, size)
	st, err := cbfs.Open(region)
	require.NoError(t, err)
	// fixed order keeps layouts reproducible
	for _, name := range []string{"fallback/payload", "bootorder", "bootorder_def", "bootorder_map"} {
		if data, ok := entries[name]; ok {
			require.NoError(t, st.Add(name, cbfs.TypeRaw, data, 0x1000))
		}
	}
	return region
}

func pad(t *testing.T, b []byte) []byte {
	t.Helper()
	out, err := bootdata.Pad(b)
	require.NoError(t, err)
	return out
}

const (
	layoutOrderOff = 0x2000
	layoutMapOff   = 0x3000
	layoutCBFSOff  = 0x4000
	layoutCBFSSize = 0xC000
	layoutSize     = 0x10000
)

// regionImage has BOOTORDER and BOOTORDER_MAP regions. withMapRegion=false
// leaves the map to a CBFS entry.
func regionImage(t *testing.T, withMapRegion bool, orderSize uint32) []byte {
	t.Helper()

	areas := []testutil.Area{
		{Name: format.SectionFMap, Offset: testutil.StdFMapOffset, Size: testutil.StdFMapSize},
		{Name: "BOOTORDER", Offset: layoutOrderOff, Size: orderSize},
	}
	contents := map[string][]byte{"BOOTORDER": pad(t, testOrder)[:min(int(orderSize), bootdata.SectorSize)]}
	entries := map[string][]byte{"fallback/payload": []byte("payload")}
	if withMapRegion {
		areas = append(areas, testutil.Area{Name: "BOOTORDER_MAP", Offset: layoutMapOff, Size: 0x1000})
		contents["BOOTORDER_MAP"] = testMap
	} else {
		entries["bootorder_map"] = testMap
	}
	areas = append(areas, testutil.Area{Name: format.SectionPrimaryCBFS, Offset: layoutCBFSOff, Size: layoutCBFSSize})
	contents[format.SectionPrimaryCBFS] = cbfsRegion(t, layoutCBFSSize, entries)

	return testutil.Image(t, testutil.ImageOpts{
		Size:       layoutSize,
		FMapOffset: testutil.StdFMapOffset,
		FMap:       testutil.FMapOpts{Name: "TEST", Areas: areas},
		Contents:   contents,
	})
}

// legacyImage is a bare CBFS with every artifact stored as an entry.
func legacyImage(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	return cbfsRegion(t, 0x8000, entries)
}

func legacyEntries(t *testing.T) map[string][]byte {
	return map[string][]byte{
		"fallback/payload": []byte("payload"),
		"bootorder":        pad(t, testOrder),
		"bootorder_def":    testOrder,
		"bootorder_map":    testMap,
	}
}

// memBackend is an in-memory Backend that records writes and can fail one.
type memBackend struct {
	regions map[string][]byte
	entries map[string][]byte
	writes  []string
	failOn  string
	closed  bool
}

func (m *memBackend) ReadRegion(name string) ([]byte, error) {
	if b, ok := m.regions[name]; ok {
		return b, nil
	}
	return nil, errMissing
}

func (m *memBackend) WriteRegion(name string, data []byte) error {
	m.writes = append(m.writes, "region:"+name)
	if name == m.failOn {
		return errInjected
	}
	if m.regions == nil {
		m.regions = map[string][]byte{}
	}
	m.regions[name] = bytes.Clone(data)
	return nil
}

func (m *memBackend) ReadEntry(name string) ([]byte, error) {
	if b, ok := m.entries[name]; ok {
		return b, nil
	}
	return nil, ErrEntryNotFound
}

func (m *memBackend) WriteEntry(name string, data []byte, _ int) error {
	m.writes = append(m.writes, "entry:"+name)
	if name == m.failOn {
		return errInjected
	}
	if m.entries == nil {
		m.entries = map[string][]byte{}
	}
	m.entries[name] = bytes.Clone(data)
	return nil
}

func (m *memBackend) Close() error {
	m.closed = true
	return nil
}

type testError string

func (e testError) Error() string { return string(e) }

const (
	errMissing  = testError("no such region")
	errInjected = testError("injected failure")
)
