package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteImage writes data to a fresh file under t.TempDir and returns its path.
//
// Example:
//
//	path := testutil.WriteImage(t, testutil.StandardImage(t, true, nil))
//	img, err := flash.Open(path, &flash.OpenOptions{Write: true})
func WriteImage(t *testing.T, data []byte) string {
	t.Helper()
	return WriteImageNamed(t, "coreboot.rom", data)
}

// WriteImageNamed is like WriteImage with an explicit file name.
func WriteImageNamed(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write image %s: %v", path, err)
	}
	return path
}

// ReadImage reads back an image file, failing the test on error.
func ReadImage(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read image %s: %v", path, err)
	}
	return data
}
