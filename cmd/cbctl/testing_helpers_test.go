package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/bootkit/bootdata"
	"github.com/joshuapare/bootkit/flash/cbfs"
	"github.com/joshuapare/bootkit/internal/config"
	"github.com/joshuapare/bootkit/internal/format"
	"github.com/joshuapare/bootkit/internal/logger"
	"github.com/joshuapare/bootkit/internal/testutil"
)

var (
	testOrder = []byte("/pci@i0cf8/usb@10/usb-*@1\r\n/pci@i0cf8/sdhci@14,7\r\n/pci@i0cf8/*@11/drive@0\r\npxen1\r\nusben1\r\nwatchdog0000\r\n")
	testMap   = []byte("a USB\r\nb SD\r\nc mSATA\r\n")
)

// testImage writes a 64 KiB FMAP image whose padded boot order lives in the
// BOOTORDER region and whose map is a CBFS entry. It returns the path.
func testImage(t *testing.T) string {
	t.Helper()

	padded, err := bootdata.Pad(testOrder)
	require.NoError(t, err)

	region := bytes.Repeat([]byte{format.CBFSErased}, testutil.StdCorebootSize)
	st, err := cbfs.Open(region)
	require.NoError(t, err)
	require.NoError(t, st.Add("fallback/payload", cbfs.TypeRaw, []byte("payload"), 0))
	require.NoError(t, st.Add("bootorder_map", cbfs.TypeRaw, testMap, 0x1000))

	return testutil.WriteImage(t, testutil.StandardImage(t, true, map[string][]byte{
		"BOOTORDER":               padded,
		format.SectionPrimaryCBFS: region,
	}))
}

// legacyTestImage writes an FMAP-less image holding every artifact as a
// CBFS entry.
func legacyTestImage(t *testing.T) string {
	t.Helper()

	padded, err := bootdata.Pad(testOrder)
	require.NoError(t, err)

	region := bytes.Repeat([]byte{format.CBFSErased}, 0x8000)
	st, err := cbfs.Open(region)
	require.NoError(t, err)
	require.NoError(t, st.Add("bootorder", cbfs.TypeRaw, padded, 0x1000))
	require.NoError(t, st.Add("bootorder_map", cbfs.TypeRaw, testMap, 0x1000))
	return testutil.WriteImage(t, region)
}

// resetFlags restores every flag and the configuration to their defaults.
func resetFlags(t *testing.T) {
	t.Helper()

	verbose, quiet, jsonOut = false, false, false
	configPath, logFile, logDir, cbfstoolPath = "", "", "", ""
	setOrder, setOptions, setBackup, setDryRun = nil, nil, false, false
	dumpArtifact, dumpOutput = "order", ""
	entriesRegion = ""
	editBackup = false
	cfg = config.Default()
	require.NoError(t, logger.Init(logger.Options{}))

	// keep the user's configuration out of the tests
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	// Save original stdout
	origStdout := os.Stdout

	// Create a pipe to capture output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}

	// Redirect stdout to pipe
	os.Stdout = w

	// Run function
	fnErr := fn()

	// Close write end and restore stdout
	w.Close()
	os.Stdout = origStdout

	// Read captured output
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	return buf.String(), fnErr
}

// assertJSON checks that output is valid JSON
func assertJSON(t *testing.T, output string) {
	t.Helper()
	var result interface{}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Errorf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}

// assertNotContains checks that output doesn't contain unwanted strings
func assertNotContains(t *testing.T, output string, unwanted []string) {
	t.Helper()
	for _, dont := range unwanted {
		if strings.Contains(output, dont) {
			t.Errorf("output contains unwanted string %q\nGot: %s", dont, output)
		}
	}
}
