package cbfs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/joshuapare/bootkit/internal/buf"
	"github.com/joshuapare/bootkit/internal/format"
)

// Store is the file directory of one CBFS region. It aliases the region
// bytes passed to Open and edits them in place.
type Store struct {
	region  []byte
	entries []Entry
}

// Open parses the directory at the start of region.
func Open(region []byte) (*Store, error) {
	s := &Store{region: region}
	if err := s.scan(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) scan() error {
	s.entries = s.entries[:0]
	for p := 0; ; {
		e, ok, err := readRecord(s.region, p)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		s.entries = append(s.entries, e)
		p = e.end
	}
}

// readRecord decodes the record at p. ok is false at the end of the directory.
// Empty records are returned like any other; the directory goes on after them.
func readRecord(b []byte, p int) (Entry, bool, error) {
	h, ok := buf.Slice(b, p, format.CBFSFileHeaderSize)
	if !ok {
		return Entry{}, false, nil
	}
	if !bytes.Equal(h[format.CBFSMagicOffset:format.CBFSMagicSize], format.CBFSFileMagic) {
		return Entry{}, false, nil
	}
	typ := format.ReadBE32(h, format.CBFSTypeOffset)

	length := int64(format.ReadBE32(h, format.CBFSLenOffset))
	attrOff := int64(format.ReadBE32(h, format.CBFSAttrOffsetOffset))
	dataOff := int64(format.ReadBE32(h, format.CBFSDataOffsetOffset))
	room := int64(len(b) - p)

	if dataOff <= format.CBFSFileHeaderSize || dataOff > room {
		return Entry{}, false, corruptf(p, "payload offset 0x%x outside [0x%x, 0x%x]", dataOff, format.CBFSFileHeaderSize+1, room)
	}
	if length > room-dataOff {
		return Entry{}, false, corruptf(p, "payload of %d bytes runs past the region end", length)
	}
	if attrOff != 0 && (attrOff < format.CBFSFileHeaderSize || attrOff > dataOff) {
		return Entry{}, false, corruptf(p, "attribute offset 0x%x outside the record header", attrOff)
	}

	nameEnd := dataOff
	if attrOff != 0 {
		nameEnd = attrOff
	}
	name, terminated := format.CString(b[p+format.CBFSFileHeaderSize : p+int(nameEnd)])
	if !terminated {
		return Entry{}, false, corruptf(p, "unterminated name")
	}

	align := 0
	if attrOff != 0 {
		var err error
		align, err = readAlignment(b[p+int(attrOff):p+int(dataOff)], p)
		if err != nil {
			return Entry{}, false, err
		}
	}

	payloadEnd := p + int(dataOff) + int(length)
	return Entry{
		Name:       name,
		Type:       typ,
		Offset:     p,
		DataOffset: p + int(dataOff),
		Len:        int(length),
		Align:      align,
		end:        min(buf.AlignUp(payloadEnd, format.CBFSAlignment), len(b)),
	}, true, nil
}

// readAlignment walks the attribute list and returns the alignment attribute value.
func readAlignment(attrs []byte, p int) (int, error) {
	for off := 0; off+format.CBFSAttrHeaderSize <= len(attrs); {
		tag := format.ReadBE32(attrs, off)
		if tag == format.CBFSAttrTagUnused || tag == format.CBFSAttrTagUnused2 {
			return 0, nil
		}
		size := int(format.ReadBE32(attrs, off+4))
		if size < format.CBFSAttrHeaderSize || size > len(attrs)-off {
			return 0, corruptf(p, "attribute 0x%08x of size %d", tag, size)
		}
		if tag == format.CBFSAttrTagAlignment && size >= format.CBFSAttrAlignmentSize {
			a := int(format.ReadBE32(attrs, off+format.CBFSAttrHeaderSize))
			if a != 0 && !buf.IsPowerOfTwo(a) {
				return 0, corruptf(p, "alignment %d is not a power of two", a)
			}
			return a, nil
		}
		off += size
	}
	return 0, nil
}

// Entries returns the records in directory order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Lookup returns the first record named name.
func (s *Store) Lookup(name string) (Entry, bool) {
	i := s.index(name)
	if i < 0 {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Find returns the payload of the first record named name. The slice aliases
// the region.
func (s *Store) Find(name string) ([]byte, bool) {
	e, ok := s.Lookup(name)
	if !ok {
		return nil, false
	}
	return buf.Slice(s.region, e.DataOffset, e.Len)
}

// Used returns the number of bytes taken by records that hold data.
func (s *Store) Used() int { return len(s.region) - s.Free() }

// Free returns the bytes available to Add: the extents of empty records plus
// the space after the last record.
func (s *Store) Free() int {
	n := len(s.region) - s.end()
	for _, e := range s.entries {
		if e.Empty() {
			n += e.Footprint()
		}
	}
	return n
}

// end returns the offset just past the last record.
func (s *Store) end() int {
	if len(s.entries) == 0 {
		return 0
	}
	return s.entries[len(s.entries)-1].end
}

func (s *Store) index(name string) int {
	for i, e := range s.entries {
		if !e.Empty() && e.Name == name {
			return i
		}
	}
	return -1
}

// Remove deletes the first record named name and moves the records after it
// down so the directory stays contiguous. Records past the next empty record
// keep their offsets; the freed bytes join that empty record instead. Without
// one the freed bytes at the end are erased. Removing a name that is not
// present does nothing.
func (s *Store) Remove(name string) error {
	i := s.index(name)
	if i < 0 {
		return nil
	}

	stop := len(s.entries)
	for j := i + 1; j < len(s.entries); j++ {
		if s.entries[j].Empty() {
			stop = j
			break
		}
	}

	tail := make([]Entry, stop-i-1)
	copy(tail, s.entries[i+1:stop])
	payloads := make([][]byte, len(tail))
	for j, e := range tail {
		payloads[j] = bytes.Clone(s.region[e.DataOffset : e.DataOffset+e.Len])
	}

	p := s.entries[i].Offset
	for j, e := range tail {
		end, _, ok := place(s.region, p, len(s.region), e.Name, e.Type, payloads[j], e.Align)
		if !ok {
			// Moving a record down can only shrink its padding.
			return corruptf(e.Offset, "record %q does not fit after repacking", e.Name)
		}
		p = end
	}

	if stop == len(s.entries) {
		fill(s.region[p:s.end()], format.CBFSErased)
	} else {
		putEmpty(s.region, p, s.entries[stop].end)
	}

	return s.scan()
}

// Add stores payload under name, replacing any record with the same name.
// The new record takes the first empty record it fits in, otherwise it goes
// after the last record. Its payload is aligned to align bytes from the
// region start (0 means no extra alignment). If it does not fit, Add returns
// an *OutOfSpaceError and the region is unchanged.
func (s *Store) Add(name string, typ uint32, payload []byte, align int) error {
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if isEmptyType(typ) {
		return fmt.Errorf("%w: %s", ErrInvalidType, TypeName(typ))
	}
	if align < 0 || (align > 1 && !buf.IsPowerOfTwo(align)) {
		return fmt.Errorf("%w: %d", ErrInvalidAlignment, align)
	}
	if align > len(s.region) {
		return &OutOfSpaceError{Name: name, Need: align, Free: s.Free()}
	}

	scratch := &Store{region: bytes.Clone(s.region), entries: s.Entries()}
	if err := scratch.Remove(name); err != nil {
		return err
	}

	if need, ok := scratch.insert(name, typ, payload, align); !ok {
		return &OutOfSpaceError{Name: name, Need: need, Free: scratch.Free()}
	}
	if err := scratch.scan(); err != nil {
		return err
	}

	copy(s.region, scratch.region)
	s.entries = scratch.entries
	return nil
}

// insert writes the record into the first empty record that can hold it and
// still describe what is left of the gap, or after the last record.
func (s *Store) insert(name string, typ uint32, payload []byte, align int) (need int, ok bool) {
	for _, e := range s.entries {
		if !e.Empty() {
			continue
		}
		_, _, payloadEnd := recordLayout(e.Offset, name, len(payload), align)
		if payloadEnd > e.end {
			continue
		}
		end := min(buf.AlignUp(payloadEnd, format.CBFSAlignment), e.end)
		if rest := e.end - end; rest != 0 && rest < emptyRecordSize {
			continue
		}
		place(s.region, e.Offset, e.end, name, typ, payload, align)
		if end < e.end {
			putEmpty(s.region, end, e.end)
		}
		return 0, true
	}

	_, need, ok = place(s.region, s.end(), len(s.region), name, typ, payload, align)
	return need, ok
}

// emptyRecordSize is the smallest empty record: a header and an empty name.
const emptyRecordSize = format.CBFSFileHeaderSize + format.CBFSNameAlign

// recordLayout returns where a record starting at p keeps its alignment
// attribute (0 when it has none), where its payload starts and where it ends.
func recordLayout(p int, name string, n, align int) (attrOff, data, payloadEnd int) {
	meta := format.CBFSFileHeaderSize + buf.AlignUp(len(name)+1, format.CBFSNameAlign)
	if align > 1 {
		attrOff = meta
		meta += format.CBFSAttrAlignmentSize
	}
	data = buf.AlignUp(p+meta, align)
	return attrOff, data, data + n
}

// place writes a record at p, which must end by limit. It returns the offset
// after the record, or the number of bytes the record needs when it does not
// fit.
func place(b []byte, p, limit int, name string, typ uint32, payload []byte, align int) (end, need int, ok bool) {
	attrOff, data, payloadEnd := recordLayout(p, name, len(payload), align)
	if payloadEnd > limit || p > limit {
		return 0, payloadEnd - p, false
	}

	rec := b[p:data]
	fill(rec, format.CBFSErased)
	copy(rec[format.CBFSMagicOffset:], format.CBFSFileMagic)
	format.PutBE32(rec, format.CBFSLenOffset, uint32(len(payload)))
	format.PutBE32(rec, format.CBFSTypeOffset, typ)
	format.PutBE32(rec, format.CBFSAttrOffsetOffset, uint32(attrOff))
	format.PutBE32(rec, format.CBFSDataOffsetOffset, uint32(data-p))
	nameEnd := format.CBFSFileHeaderSize + buf.AlignUp(len(name)+1, format.CBFSNameAlign)
	format.PutCString(rec[format.CBFSFileHeaderSize:nameEnd], name)
	if attrOff != 0 {
		format.PutBE32(rec, attrOff, format.CBFSAttrTagAlignment)
		format.PutBE32(rec, attrOff+4, format.CBFSAttrAlignmentSize)
		format.PutBE32(rec, attrOff+format.CBFSAttrHeaderSize, uint32(align))
	}
	copy(b[data:], payload)

	end = min(buf.AlignUp(payloadEnd, format.CBFSAlignment), limit)
	fill(b[payloadEnd:end], format.CBFSErased)
	return end, payloadEnd - p, true
}

// putEmpty writes an empty record covering [p, end), the way cbfstool marks
// free space between files.
func putEmpty(b []byte, p, end int) {
	rec := b[p:end]
	fill(rec, format.CBFSErased)
	copy(rec[format.CBFSMagicOffset:], format.CBFSFileMagic)
	format.PutBE32(rec, format.CBFSLenOffset, uint32(end-p-emptyRecordSize))
	format.PutBE32(rec, format.CBFSTypeOffset, format.CBFSTypeNull)
	format.PutBE32(rec, format.CBFSAttrOffsetOffset, 0)
	format.PutBE32(rec, format.CBFSDataOffsetOffset, emptyRecordSize)
	format.PutCString(rec[format.CBFSFileHeaderSize:emptyRecordSize], "")
}

func fill(b []byte, v byte) {
	for i := range b {
		b[i] = v
	}
}
