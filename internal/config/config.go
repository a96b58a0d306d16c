// Package config reads the optional cbctl configuration file.
//
// The file is INI formatted:
//
//	[image]
//	primary_region = COREBOOT
//	order_region   = BOOTORDER
//	order_entry    = bootorder
//	def_entry      = bootorder_def
//	map_region     = BOOTORDER_MAP
//	map_entry      = bootorder_map
//	alignment      = 0x1000
//
//	[cbfstool]
//	enabled = false
//	path    = /usr/bin/cbfstool
//
//	[log]
//	level = info
//	file  = /tmp/cbctl.log
//	dir   = /var/log/cbctl
//	json  = false
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/ini.v1"

	"github.com/joshuapare/bootkit/pkg/bootorder"
)

// Config is the merged configuration: defaults overlaid with the file.
type Config struct {
	Names    bootorder.Names
	CBFSTool CBFSTool
	Log      Log
}

// CBFSTool configures the external cbfstool backend.
type CBFSTool struct {
	Enabled bool
	Path    string
}

// Log configures logging.
type Log struct {
	Level string
	File  string
	// Dir holds one log file per day. File takes precedence.
	Dir   string
	JSON  bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Names:    bootorder.DefaultNames(),
		CBFSTool: CBFSTool{Path: "cbfstool"},
		Log:      Log{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/bootkit/config.ini, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate config directory: %w", err)
	}
	return filepath.Join(dir, "bootkit", "config.ini"), nil
}

// Load reads the file at path over the defaults. When path is empty the
// default location is used and a missing file is not an error; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("cannot load %s: %w", path, err)
	}

	f, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot load %s: %w", path, err)
	}
	if err := apply(&cfg, f); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func apply(cfg *Config, f *ini.File) error {
	img := f.Section("image")
	setString(img, "primary_region", &cfg.Names.Primary)
	setString(img, "order_region", &cfg.Names.OrderRegion)
	setString(img, "order_entry", &cfg.Names.OrderEntry)
	setString(img, "def_entry", &cfg.Names.DefEntry)
	setString(img, "map_region", &cfg.Names.MapRegion)
	setString(img, "map_entry", &cfg.Names.MapEntry)
	if img.HasKey("alignment") {
		s := img.Key("alignment").String()
		n, err := strconv.ParseInt(s, 0, 32)
		if err != nil || n <= 0 || n&(n-1) != 0 {
			return fmt.Errorf("[image] alignment %q is not a power of two", s)
		}
		cfg.Names.Alignment = int(n)
	}

	tool := f.Section("cbfstool")
	setString(tool, "path", &cfg.CBFSTool.Path)
	if err := setBool(tool, "enabled", &cfg.CBFSTool.Enabled); err != nil {
		return err
	}

	log := f.Section("log")
	setString(log, "level", &cfg.Log.Level)
	setString(log, "file", &cfg.Log.File)
	setString(log, "dir", &cfg.Log.Dir)
	return setBool(log, "json", &cfg.Log.JSON)
}

func setString(sec *ini.Section, key string, dst *string) {
	if !sec.HasKey(key) {
		return
	}
	if v := sec.Key(key).String(); v != "" {
		*dst = v
	}
}

func setBool(sec *ini.Section, key string, dst *bool) error {
	if !sec.HasKey(key) {
		return nil
	}
	v, err := sec.Key(key).Bool()
	if err != nil {
		return fmt.Errorf("[%s] %s: %w", sec.Name(), key, err)
	}
	*dst = v
	return nil
}
