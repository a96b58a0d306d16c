package bootorder

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/joshuapare/bootkit/bootdata"
)

// Source tells where an artifact was loaded from.
type Source int

const (
	// Unknown means nothing was loaded yet.
	Unknown Source = iota
	// FromRegion means a dedicated flash region.
	FromRegion
	// FromEntry means a CBFS entry in the primary region.
	FromEntry
)

func (s Source) String() string {
	switch s {
	case FromRegion:
		return "region"
	case FromEntry:
		return "entry"
	default:
		return "unknown"
	}
}

// Adapter moves a bootdata.Config between a Backend and memory.
type Adapter struct {
	backend  Backend
	names    Names
	log      *slog.Logger
	parse    *bootdata.ParseOptions
	orderSrc Source
	mapSrc   Source
}

// New returns an Adapter over backend. A nil opts uses the defaults.
func New(backend Backend, opts *Options) *Adapter {
	if opts == nil {
		opts = &Options{}
	}
	a := &Adapter{backend: backend, log: opts.logger()}
	if opts.Names != nil {
		a.names = opts.Names.withDefaults()
	} else {
		a.names = DefaultNames()
	}
	a.parse = &bootdata.ParseOptions{Logger: a.log, OnWarning: opts.OnWarning}
	return a
}

// Names returns the artifact names in use.
func (a *Adapter) Names() Names { return a.names }

// OrderSource reports where the order artifact was loaded from.
func (a *Adapter) OrderSource() Source { return a.orderSrc }

// MapSource reports where the map artifact was loaded from.
func (a *Adapter) MapSource() Source { return a.mapSrc }

// Load reads both artifacts and parses them. Each artifact comes from its
// region when the image has one, else from its CBFS entry.
func (a *Adapter) Load() (*bootdata.Config, error) {
	order, orderSrc, err := a.read("order", a.names.OrderRegion, a.names.OrderEntry)
	if err != nil {
		return nil, err
	}
	mapData, mapSrc, err := a.read("map", a.names.MapRegion, a.names.MapEntry)
	if err != nil {
		return nil, err
	}

	c, err := bootdata.Parse(order, mapData, a.parse)
	if err != nil {
		return nil, err
	}
	a.orderSrc, a.mapSrc = orderSrc, mapSrc
	a.log.Info("loaded boot data",
		"records", len(c.Records), "order", orderSrc.String(), "map", mapSrc.String())
	return c, nil
}

func (a *Adapter) read(artifact, region, entry string) ([]byte, Source, error) {
	data, regionErr := a.backend.ReadRegion(region)
	if regionErr == nil {
		return data, FromRegion, nil
	}
	a.log.Debug("artifact region unavailable, trying CBFS entry",
		"artifact", artifact, "region", region, "entry", entry, "error", regionErr)

	data, entryErr := a.backend.ReadEntry(entry)
	if entryErr == nil {
		return data, FromEntry, nil
	}
	return nil, Unknown, fmt.Errorf("%w: %s: %w", ErrBootDataNotFound, artifact, errors.Join(regionErr, entryErr))
}

// Store writes c back: the unpadded order to the defaults entry, the padded
// order and then the map to wherever Load found them. It stops at the first
// failing step; earlier steps stay written. An order too large to pad fails
// before anything is written.
func (a *Adapter) Store(c *bootdata.Config) error {
	if a.orderSrc == Unknown || a.mapSrc == Unknown {
		return ErrNotLoaded
	}

	order := bootdata.DumpOrder(c)
	padded, err := bootdata.Pad(order)
	if err != nil {
		return err
	}

	if err := a.backend.WriteEntry(a.names.DefEntry, order, a.names.Alignment); err != nil {
		return fmt.Errorf("store %s: %w", a.names.DefEntry, err)
	}
	if err := a.write(a.orderSrc, a.names.OrderRegion, a.names.OrderEntry, padded); err != nil {
		return err
	}
	if err := a.write(a.mapSrc, a.names.MapRegion, a.names.MapEntry, bootdata.DumpMap(c)); err != nil {
		return err
	}

	a.log.Info("stored boot data", "records", len(c.Records), "bytes", len(order))
	return nil
}

func (a *Adapter) write(src Source, region, entry string, data []byte) error {
	if src == FromRegion {
		if err := a.backend.WriteRegion(region, data); err != nil {
			return fmt.Errorf("store region %s: %w", region, err)
		}
		return nil
	}
	if err := a.backend.WriteEntry(entry, data, a.names.Alignment); err != nil {
		return fmt.Errorf("store %s: %w", entry, err)
	}
	return nil
}
