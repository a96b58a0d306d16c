package bootdata

import (
	"fmt"
	"strconv"
	"strings"
)

// MoveNames reorders records so that names come first, in the given order.
// Records not named keep their relative order after them. An unknown name
// fails with ErrUnknownRecord; moves made before it are kept.
func (c *Config) MoveNames(names []string) error {
	for target, name := range names {
		i := c.IndexOf(name)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrUnknownRecord, name)
		}
		c.Move(i, target)
	}
	return nil
}

// ApplySetting parses "keyword=value" and sets the option.
//
// Boolean options take on/off, true/false or 1/0. Toggle options take one
// of their labels, first/second, or 1/0 (1 = first label). Hex4 options
// take a decimal or 0x-prefixed value in [0, 65535].
func (c *Config) ApplySetting(setting string) error {
	key, value, ok := strings.Cut(setting, "=")
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if !ok || key == "" || value == "" {
		return fmt.Errorf("%w: %q", ErrInvalidSetting, setting)
	}

	id, ok := LookupKeyword(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, key)
	}
	v, err := ParseValue(id, value)
	if err != nil {
		return err
	}
	if !c.Set(id, v) {
		return fmt.Errorf("%w: %s=%s: out of range [0; %d]", ErrInvalidValue, key, value, MaxHex4)
	}
	return nil
}

// ParseValue converts the user-facing form of a value for option id.
func ParseValue(id OptionID, value string) (int, error) {
	d := optionTable[id]
	lower := strings.ToLower(value)

	switch d.Kind {
	case Boolean:
		switch lower {
		case "on", "true", "1":
			return 1, nil
		case "off", "false", "0":
			return 0, nil
		}
	case Toggle:
		switch {
		case lower == "first" || lower == "1" || (d.Labels[0] != "" && strings.EqualFold(value, d.Labels[0])):
			return 1, nil
		case lower == "second" || lower == "0" || (d.Labels[1] != "" && strings.EqualFold(value, d.Labels[1])):
			return 0, nil
		}
	case Hex4:
		n, err := strconv.ParseInt(value, 0, 64)
		if err == nil {
			if n < 0 || n > MaxHex4 {
				return 0, fmt.Errorf("%w: %s=%s: out of range [0; %d]", ErrInvalidValue, d.Keyword, value, MaxHex4)
			}
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %s=%s (accepts %s)", ErrInvalidValue, d.Keyword, value, Accepted(id))
}

// Accepted describes the values option id accepts.
func Accepted(id OptionID) string {
	d := optionTable[id]
	switch d.Kind {
	case Boolean:
		return "on/off"
	case Toggle:
		if d.Labels[0] != "" {
			return d.Labels[0] + "/" + d.Labels[1]
		}
		return "first/second"
	default:
		return "[0; 65535]"
	}
}
