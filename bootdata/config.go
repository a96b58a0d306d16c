package bootdata

import (
	"slices"
	"strconv"
)

// MaxRecords is the number of boot records the map artifact may declare.
const MaxRecords = 64

// Record is one selectable boot source: a name and its device path lines.
type Record struct {
	Name    string
	Devices []string
}

// Config is an ordered list of boot records plus one value per option.
// Options default to zero.
type Config struct {
	Records []Record
	values  [NumOptions]int
}

// New returns an empty configuration with every option at zero.
func New() *Config {
	return &Config{}
}

// Value returns the current value of option id.
func (c *Config) Value(id OptionID) int { return c.values[id] }

// Values returns every option value in table order.
func (c *Config) Values() []int {
	return slices.Clone(c.values[:])
}

// Set assigns v to option id. Boolean and Toggle options store 1 for any
// nonzero v. Hex4 options reject values outside [0, MaxHex4] and return
// false, leaving the value unchanged.
func (c *Config) Set(id OptionID, v int) bool {
	if optionTable[id].Kind != Hex4 {
		c.values[id] = b2i(v != 0)
		return true
	}
	if v < 0 || v > MaxHex4 {
		return false
	}
	c.values[id] = v
	return true
}

// Toggle flips a Boolean or Toggle option and clears a nonzero Hex4 option.
// It returns false for a Hex4 option already at zero: the new value has to
// come from the user through Set.
func (c *Config) Toggle(id OptionID) bool {
	if optionTable[id].Kind != Hex4 {
		c.values[id] ^= 1
		return true
	}
	if c.values[id] != 0 {
		c.values[id] = 0
		return true
	}
	return false
}

// FormatValue renders option id for display: on/off, the selected toggle
// label, or the decimal value.
func (c *Config) FormatValue(id OptionID) string {
	d := optionTable[id]
	v := c.values[id]
	switch d.Kind {
	case Boolean:
		if v != 0 {
			return "on"
		}
		return "off"
	case Toggle:
		first, second := d.Labels[0], d.Labels[1]
		if first == "" {
			first = "first"
		}
		if second == "" {
			second = "second"
		}
		if v != 0 {
			return first
		}
		return second
	default:
		return strconv.Itoa(v)
	}
}

// Move relocates the record at from to index to, shifting the records in
// between by one. Out-of-range indices leave the order unchanged.
//
//	[A B C D] Move(2, 0) -> [C A B D]
//	[A B C D] Move(0, 2) -> [B C A D]
func (c *Config) Move(from, to int) {
	n := len(c.Records)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return
	}
	r := c.Records[from]
	if from > to {
		copy(c.Records[to+1:from+1], c.Records[to:from])
	} else {
		copy(c.Records[from:to], c.Records[from+1:to+1])
	}
	c.Records[to] = r
}

// IndexOf returns the index of the first record named name, or -1.
func (c *Config) IndexOf(name string) int {
	for i, r := range c.Records {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// DeviceCount returns the total number of device lines across records.
func (c *Config) DeviceCount() int {
	n := 0
	for _, r := range c.Records {
		n += len(r.Devices)
	}
	return n
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := &Config{values: c.values}
	if c.Records != nil {
		out.Records = make([]Record, len(c.Records))
		for i, r := range c.Records {
			out.Records[i] = Record{Name: r.Name, Devices: slices.Clone(r.Devices)}
		}
	}
	return out
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
