package cbfs

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/bootkit/internal/format"
)

func erased(n int) []byte {
	return bytes.Repeat([]byte{format.CBFSErased}, n)
}

func mustOpen(t *testing.T, region []byte) *Store {
	t.Helper()
	s, err := Open(region)
	require.NoError(t, err)
	return s
}

func names(s *Store) []string {
	var out []string
	for _, e := range s.Entries() {
		out = append(out, e.Name)
	}
	return out
}

func TestOpen_Empty(t *testing.T) {
	s := mustOpen(t, erased(0x1000))
	require.Empty(t, s.Entries())
	require.Equal(t, 0, s.Used())
	require.Equal(t, 0x1000, s.Free())

	s = mustOpen(t, nil)
	require.Empty(t, s.Entries())
}

func TestAdd_Find(t *testing.T) {
	region := erased(0x2000)
	s := mustOpen(t, region)

	require.NoError(t, s.Add("fallback/payload", TypeRaw, []byte("payload bytes"), 0))
	require.NoError(t, s.Add("bootorder", TypeRaw, []byte("/pci@i0cf8/usb@10\r\n"), 0x400))

	got, ok := s.Find("bootorder")
	require.True(t, ok)
	require.Equal(t, []byte("/pci@i0cf8/usb@10\r\n"), got)

	e, ok := s.Lookup("bootorder")
	require.True(t, ok)
	assert.Equal(t, 0, e.DataOffset%0x400)
	assert.Equal(t, 0x400, e.Align)
	assert.Equal(t, TypeRaw, e.Type)
	assert.Equal(t, 0, e.Offset%format.CBFSAlignment)

	_, ok = s.Find("missing")
	require.False(t, ok)

	// A fresh parse of the same bytes sees the same directory.
	again := mustOpen(t, region)
	require.Equal(t, s.Entries(), again.Entries())
	require.Equal(t, []string{"fallback/payload", "bootorder"}, names(again))
}

func TestFind_Aliases(t *testing.T) {
	region := erased(0x1000)
	s := mustOpen(t, region)
	require.NoError(t, s.Add("a", TypeRaw, []byte("xyz"), 0))

	b, ok := s.Find("a")
	require.True(t, ok)
	b[0] = 'X'
	require.True(t, bytes.Contains(region, []byte("Xyz")))
	require.Equal(t, 3, cap(b))
}

func TestAdd_Replaces(t *testing.T) {
	s := mustOpen(t, erased(0x2000))
	require.NoError(t, s.Add("one", TypeRaw, []byte("1"), 0))
	require.NoError(t, s.Add("two", TypeRaw, []byte("2"), 0))
	require.NoError(t, s.Add("one", TypeRaw, []byte("uno"), 0))

	require.Equal(t, []string{"two", "one"}, names(s))
	got, _ := s.Find("one")
	require.Equal(t, []byte("uno"), got)
}

func TestRemove_Repacks(t *testing.T) {
	region := erased(0x4000)
	s := mustOpen(t, region)
	require.NoError(t, s.Add("first", TypeRaw, bytes.Repeat([]byte{1}, 200), 0))
	require.NoError(t, s.Add("second", TypeRaw, bytes.Repeat([]byte{2}, 300), 0))
	require.NoError(t, s.Add("third", TypeRaw, []byte("third payload"), 0x100))
	require.NoError(t, s.Add("fourth", TypeRaw, []byte("4"), 0))

	firstOff := s.Entries()[0].Offset
	before := s.Used()
	secondSize := s.Entries()[1].Footprint()

	require.NoError(t, s.Remove("second"))
	require.Equal(t, []string{"first", "third", "fourth"}, names(s))

	entries := s.Entries()
	require.Equal(t, firstOff, entries[0].Offset)
	// No gap: each record starts where the previous one ends.
	for i := 1; i < len(entries); i++ {
		require.Equal(t, entries[i-1].Offset+entries[i-1].Footprint(), entries[i].Offset)
	}
	require.LessOrEqual(t, s.Used(), before)
	require.GreaterOrEqual(t, s.Used(), before-secondSize)

	third, ok := s.Lookup("third")
	require.True(t, ok)
	require.Zero(t, third.DataOffset%0x100)
	got, _ := s.Find("third")
	require.Equal(t, []byte("third payload"), got)
	got, _ = s.Find("first")
	require.Equal(t, bytes.Repeat([]byte{1}, 200), got)

	// The freed tail is erased.
	require.Equal(t, erased(len(region)-s.Used()), region[s.Used():])
	require.Equal(t, s.Entries(), mustOpen(t, region).Entries())
}

func TestRemove_Absent(t *testing.T) {
	region := erased(0x1000)
	s := mustOpen(t, region)
	require.NoError(t, s.Add("a", TypeRaw, []byte("a"), 0))
	snapshot := bytes.Clone(region)

	require.NoError(t, s.Remove("b"))
	require.NoError(t, s.Remove("b"))
	require.Equal(t, snapshot, region)

	require.NoError(t, s.Remove("a"))
	require.NoError(t, s.Remove("a"))
	require.Empty(t, s.Entries())
	require.Equal(t, erased(0x1000), region)
}

func TestAdd_OutOfSpace(t *testing.T) {
	region := erased(0x200)
	s := mustOpen(t, region)
	require.NoError(t, s.Add("small", TypeRaw, []byte("ok"), 0))
	snapshot := bytes.Clone(region)

	err := s.Add("big", TypeRaw, make([]byte, 0x200), 0)
	require.ErrorIs(t, err, ErrOutOfSpace)
	var oos *OutOfSpaceError
	require.ErrorAs(t, err, &oos)
	require.Equal(t, "big", oos.Name)
	require.Greater(t, oos.Need, oos.Free)
	require.Equal(t, s.Free(), oos.Free)
	require.Equal(t, snapshot, region)

	// Replacing an entry with something too large keeps the old one.
	err = s.Add("small", TypeRaw, make([]byte, 0x400), 0)
	require.ErrorIs(t, err, ErrOutOfSpace)
	require.Equal(t, snapshot, region)
	got, ok := s.Find("small")
	require.True(t, ok)
	require.Equal(t, []byte("ok"), got)

	err = s.Add("aligned", TypeRaw, []byte("x"), 0x1000)
	require.ErrorIs(t, err, ErrOutOfSpace)
}

func TestAdd_ExactFit(t *testing.T) {
	region := erased(0x100)
	s := mustOpen(t, region)
	// header 0x18 + name "x" padded to 0x10
	payload := make([]byte, 0x100-0x28)
	require.NoError(t, s.Add("x", TypeRaw, payload, 0))
	require.Equal(t, 0x100, s.Used())
	require.Zero(t, s.Free())
}

func TestAdd_Validation(t *testing.T) {
	s := mustOpen(t, erased(0x1000))
	require.ErrorIs(t, s.Add("", TypeRaw, nil, 0), ErrInvalidName)
	require.ErrorIs(t, s.Add("a\x00b", TypeRaw, nil, 0), ErrInvalidName)
	require.ErrorIs(t, s.Add("a", TypeRaw, nil, 3), ErrInvalidAlignment)
	require.ErrorIs(t, s.Add("a", TypeRaw, nil, -64), ErrInvalidAlignment)
	require.ErrorIs(t, s.Add("a", TypeNull, nil, 0), ErrInvalidType)
	require.ErrorIs(t, s.Add("a", format.CBFSTypeDeleted, nil, 0), ErrInvalidType)
	require.Empty(t, s.Entries())
}

// bootblockRegion lays out "a", an empty record up to 0x200 and a bootblock
// after it, the way cbfstool leaves the top of an x86 COREBOOT region.
func bootblockRegion(t *testing.T) []byte {
	t.Helper()
	region := erased(0x400)
	require.NoError(t, mustOpen(t, region).Add("a", TypeRaw, []byte("a"), 0))
	putEmpty(region, 0x40, 0x200)
	_, _, ok := place(region, 0x200, len(region), "bootblock", TypeRaw, bytes.Repeat([]byte{0xbb}, 0x100), 0)
	require.True(t, ok)
	return region
}

func TestOpen_ScansPastEmptyRecords(t *testing.T) {
	s := mustOpen(t, bootblockRegion(t))

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Name)
	assert.True(t, entries[1].Empty())
	assert.Equal(t, 0x40, entries[1].Offset)
	assert.Equal(t, 0x1c0, entries[1].Footprint())
	assert.Equal(t, "bootblock", entries[2].Name)
	assert.Equal(t, 0x200, entries[2].Offset)

	// bootblock ends at 0x340: the gap plus the tail are free.
	assert.Equal(t, 0x1c0+0xc0, s.Free())
	assert.Equal(t, 0x400-s.Free(), s.Used())

	_, ok := s.Lookup("")
	assert.False(t, ok)
	got, ok := s.Find("bootblock")
	require.True(t, ok)
	assert.Equal(t, bytes.Repeat([]byte{0xbb}, 0x100), got)
}

func TestAdd_KeepsRecordsAfterEmptyRecord(t *testing.T) {
	region := bootblockRegion(t)
	bootblock := bytes.Clone(region[0x200:0x340])
	snapshot := bytes.Clone(region)
	s := mustOpen(t, region)

	// Larger than both the gap and the tail.
	err := s.Add("bootorder_map", TypeRaw, make([]byte, 0x300), 0)
	require.ErrorIs(t, err, ErrOutOfSpace)
	var oos *OutOfSpaceError
	require.ErrorAs(t, err, &oos)
	require.Equal(t, s.Free(), oos.Free)
	require.Equal(t, snapshot, region)

	// Small enough for the gap, which shrinks to what is left.
	require.NoError(t, s.Add("bootorder_map", TypeRaw, []byte("a USB\r\n"), 0))
	entries := s.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "bootorder_map", entries[1].Name)
	assert.Equal(t, 0x40, entries[1].Offset)
	assert.True(t, entries[2].Empty())
	assert.Equal(t, 0x80, entries[2].Offset)
	assert.Equal(t, 0x200, entries[2].Offset+entries[2].Footprint())
	assert.Equal(t, "bootblock", entries[3].Name)
	assert.Equal(t, 0x200, entries[3].Offset)
	require.Equal(t, bootblock, region[0x200:0x340])
	require.Equal(t, entries, mustOpen(t, region).Entries())

	// Filling the rest of the gap exactly leaves no empty record behind.
	require.NoError(t, s.Add("fill", TypeRaw, make([]byte, 0x180-0x28), 0))
	assert.Equal(t, []string{"a", "bootorder_map", "fill", "bootblock"}, names(s))
	require.Equal(t, bootblock, region[0x200:0x340])
}

func TestRemove_StopsAtEmptyRecord(t *testing.T) {
	region := bootblockRegion(t)
	s := mustOpen(t, region)
	require.NoError(t, s.Add("b", TypeRaw, []byte("b"), 0))
	require.Equal(t, 0x40, s.Entries()[1].Offset)
	bootblock := bytes.Clone(region[0x200:0x340])
	free := s.Free()

	require.NoError(t, s.Remove("a"))

	entries := s.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "b", entries[0].Name)
	assert.Equal(t, 0, entries[0].Offset)
	assert.True(t, entries[1].Empty())
	assert.Equal(t, 0x40, entries[1].Offset)
	assert.Equal(t, 0x1c0, entries[1].Footprint())
	assert.Equal(t, "bootblock", entries[2].Name)
	assert.Equal(t, 0x200, entries[2].Offset)
	require.Equal(t, bootblock, region[0x200:0x340])
	assert.Equal(t, free+0x40, s.Free())
	require.Equal(t, entries, mustOpen(t, region).Entries())
}

func TestOpen_Corrupt(t *testing.T) {
	build := func(t *testing.T) []byte {
		region := erased(0x400)
		s := mustOpen(t, region)
		require.NoError(t, s.Add("victim", TypeRaw, []byte("data"), 0x40))
		return region
	}

	tests := []struct {
		name   string
		mutate func(b []byte)
	}{
		{"payload offset inside header", func(b []byte) { format.PutBE32(b, format.CBFSDataOffsetOffset, 4) }},
		{"payload offset past region", func(b []byte) { format.PutBE32(b, format.CBFSDataOffsetOffset, 0x1000) }},
		{"length past region", func(b []byte) { format.PutBE32(b, format.CBFSLenOffset, 0x1000) }},
		{"attribute offset past payload", func(b []byte) { format.PutBE32(b, format.CBFSAttrOffsetOffset, 0x200) }},
		{"unterminated name", func(b []byte) {
			for i := format.CBFSFileHeaderSize; i < format.CBFSFileHeaderSize+16; i++ {
				b[i] = 'n'
			}
		}},
		{"bad attribute size", func(b []byte) { format.PutBE32(b, format.CBFSFileHeaderSize+16+4, 2) }},
		{"alignment not a power of two", func(b []byte) { format.PutBE32(b, format.CBFSFileHeaderSize+16+8, 48) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := build(t)
			tt.mutate(b)
			_, err := Open(b)
			require.ErrorIs(t, err, ErrCorruptEntryTable)
		})
	}
}

func TestTypeName(t *testing.T) {
	require.Equal(t, "raw", TypeName(TypeRaw))
	require.Equal(t, "null", TypeName(TypeNull))
	require.Equal(t, "0x1234", TypeName(0x1234))
}
