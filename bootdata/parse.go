package bootdata

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
)

// Warning is a non-fatal problem found while parsing. The offending line is
// skipped.
type Warning struct {
	// Artifact is "map" or "order".
	Artifact string
	// Line is 1-based.
	Line int
	Text string
	Msg  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s line %d: %s: %q", w.Artifact, w.Line, w.Msg, w.Text)
}

// ParseOptions controls diagnostics of Parse.
type ParseOptions struct {
	// Logger receives warnings at Warn level. Nil means slog.Default().
	Logger *slog.Logger
	// OnWarning, when set, is called for every warning as well.
	OnWarning func(Warning)
}

type parser struct {
	log  *slog.Logger
	warn func(Warning)
}

func newParser(opts *ParseOptions) *parser {
	p := &parser{log: slog.Default()}
	if opts != nil {
		if opts.Logger != nil {
			p.log = opts.Logger
		}
		p.warn = opts.OnWarning
	}
	return p
}

func (p *parser) warnf(artifact string, line int, text, format string, args ...any) {
	w := Warning{Artifact: artifact, Line: line, Text: text, Msg: fmt.Sprintf(format, args...)}
	p.log.Warn(w.Msg, "artifact", artifact, "line", line, "text", text)
	if p.warn != nil {
		p.warn(w)
	}
}

// Parse builds a Config from the raw order and map artifacts. Both may be
// padded: everything from the first NUL byte on is ignored. Lines end in
// LF or CRLF.
func Parse(order, mapData []byte, opts *ParseOptions) (*Config, error) {
	return ParseLines(splitLines(order), splitLines(mapData), opts)
}

// splitLines cuts b at the first NUL and splits it into lines without their
// terminators.
func splitLines(b []byte) []string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	if len(b) == 0 {
		return nil
	}
	lines := strings.Split(string(b), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// ParseLines is Parse over already split lines.
//
// The map is read first to learn each record's name and device count. Order
// lines starting with '/' are then handed out to records in map order; any
// other non-empty line sets an option. Device lines beyond what the map
// declares, or records the order leaves short, fail with a *MapMismatchError.
// Malformed map lines, records beyond MaxRecords, and unknown option lines
// are reported as warnings and skipped.
func ParseLines(orderLines, mapLines []string, opts *ParseOptions) (*Config, error) {
	p := newParser(opts)
	c := New()

	counts := p.parseMap(c, mapLines)

	cur := 0
	for i, line := range orderLines {
		lineNo := i + 1
		if line == "" {
			continue
		}
		if line[0] != '/' {
			p.parseOption(c, lineNo, line)
			continue
		}

		if cur == len(c.Records) {
			return nil, &MapMismatchError{
				Line:   lineNo,
				Text:   line,
				Reason: fmt.Sprintf("map describes only %d device lines", sum(counts)),
			}
		}
		r := &c.Records[cur]
		r.Devices = append(r.Devices, line)
		if len(r.Devices) == counts[cur] {
			cur++
		}
	}

	if cur < len(c.Records) {
		r := c.Records[cur]
		return nil, &MapMismatchError{
			Reason: fmt.Sprintf("record %q expects %d device lines, order has %d (%d of %d records filled)",
				r.Name, counts[cur], len(r.Devices), cur, len(c.Records)),
		}
	}
	return c, nil
}

// parseMap appends one record per run of equal tags and returns the device
// count of each.
func (p *parser) parseMap(c *Config, lines []string) []int {
	var (
		counts  []int
		lastTag byte
		started bool
	)
	for i, line := range lines {
		lineNo := i + 1
		if len(line) < 3 || line[1] != ' ' {
			p.warnf("map", lineNo, line, "ignoring invalid map line")
			continue
		}

		tag := line[0]
		if !started || tag != lastTag {
			if len(c.Records) == MaxRecords {
				p.warnf("map", lineNo, line, "ignoring records beyond the first %d", MaxRecords)
				break
			}
			c.Records = append(c.Records, Record{Name: line[2:]})
			counts = append(counts, 0)
			lastTag = tag
			started = true
		}
		counts[len(counts)-1]++
	}
	return counts
}

func (p *parser) parseOption(c *Config, lineNo int, line string) {
	d, rest, ok := matchOptionLine(line)
	if !ok {
		p.warnf("order", lineNo, line, "unrecognized option line")
		return
	}

	base := 10
	if d.Kind == Hex4 {
		base = 16
	}
	v := parseLeadingInt(rest, base)
	if d.Kind == Hex4 && (v < 0 || v > MaxHex4) {
		p.warnf("order", lineNo, line, "value of %s out of range [0, 0x%x]", d.Keyword, MaxHex4)
		return
	}
	c.Set(d.ID, int(v))
}

// parseLeadingInt reads an optionally signed integer from the start of s,
// ignoring leading blanks and anything after the digits. Base 16 accepts
// an optional 0x prefix. Without digits the result is 0; values saturate
// well outside the int16 range rather than overflow.
func parseLeadingInt(s string, base int) int64 {
	s = strings.TrimLeft(s, " \t")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if base == 16 && len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') && digitVal(s[2]) < 16 {
		s = s[2:]
	}

	const limit = 1 << 40
	var v int64
	for i := 0; i < len(s); i++ {
		d := digitVal(s[i])
		if d >= base {
			break
		}
		if v < limit {
			v = v*int64(base) + int64(d)
		}
	}
	if neg {
		return -v
	}
	return v
}

func digitVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return 99
	}
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
