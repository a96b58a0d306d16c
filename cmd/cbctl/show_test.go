package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowCommand(t *testing.T) {
	tests := []struct {
		name           string
		legacy         bool
		verbose        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name:           "fmap image",
			wantContain:    []string{"Boot order:", "A  USB", "B  SD", "C  mSATA", "pxen", "on", "watchdog"},
			wantNotContain: []string{"/pci@i0cf8/sdhci@14,7"},
		},
		{
			name:        "verbose lists devices",
			verbose:     true,
			wantContain: []string{"A  USB", "/pci@i0cf8/sdhci@14,7", "/pci@i0cf8/*@11/drive@0"},
		},
		{
			name:        "legacy image",
			legacy:      true,
			wantContain: []string{"A  USB", "C  mSATA"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			verbose = tt.verbose

			path := testImage(t)
			if tt.legacy {
				path = legacyTestImage(t)
			}

			output, err := captureOutput(t, func() error {
				return runShow([]string{path})
			})
			require.NoError(t, err, output)

			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestShowJSON(t *testing.T) {
	resetFlags(t)
	jsonOut = true

	output, err := captureOutput(t, func() error {
		return runShow([]string{testImage(t)})
	})
	require.NoError(t, err)
	assertJSON(t, output)

	var got struct {
		Records []recordJSON `json:"records"`
		Options []optionJSON `json:"options"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	require.Len(t, got.Records, 3)
	assert.Equal(t, recordJSON{Key: "A", Name: "USB", Devices: []string{"/pci@i0cf8/usb@10/usb-*@1"}}, got.Records[0])

	byKeyword := map[string]optionJSON{}
	for _, o := range got.Options {
		byKeyword[o.Keyword] = o
	}
	assert.Equal(t, 1, byKeyword["pxen"].Value)
	assert.Equal(t, "on", byKeyword["pxen"].Display)
	assert.Equal(t, "hex4", byKeyword["watchdog"].Kind)
}

func TestShowMissingImage(t *testing.T) {
	resetFlags(t)

	_, err := captureOutput(t, func() error {
		return runShow([]string{t.TempDir() + "/missing.rom"})
	})
	assert.Error(t, err)
}
