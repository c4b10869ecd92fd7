package tst_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/milden6/tst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTrip(t *testing.T, s *tst.Set) *tst.Set {
	t.Helper()
	data, err := s.MarshalBinary()
	require.NoError(t, err)

	decoded := &tst.Set{}
	require.NoError(t, decoded.UnmarshalBinary(data))
	return decoded
}

func TestRoundTrip(t *testing.T) {
	cases := map[string][]string{
		"empty":     {},
		"single":    {"cat"},
		"emptyWord": {"", "cat"},
		"plain":     {"bat", "cat", "catnip", "cot", "mat", "oat"},
		"unicode":   {"héron", "日本語", "\U0001D11E-clef"},
	}
	for name, members := range cases {
		t.Run(name, func(t *testing.T) {
			s := tst.New(members...)
			decoded := roundTrip(t, s)
			assert.Equal(t, s.Words(), decoded.Words())
			assert.Equal(t, s.Len(), decoded.Len())
			assert.Equal(t, s.NodeCount(), decoded.NodeCount())
			assert.False(t, decoded.IsCompact())
		})
	}
}

func TestRoundTripCompacted(t *testing.T) {
	s := tst.New("a_aing", "b_aing", "c_bing", "d_bing")
	s.Compact()

	decoded := roundTrip(t, s)
	assert.True(t, decoded.IsCompact())
	assert.Equal(t, 11, decoded.NodeCount())
	assert.Equal(t, s.Words(), decoded.Words())
	assert.Equal(t, 4, decoded.Len())
}

func TestRoundTripLargeOffsets(t *testing.T) {
	// enough nodes to push some child offsets past the two-byte scaled range
	var members []string
	for a := 'a'; a <= 'z'; a++ {
		for b := 'a'; b <= 'z'; b++ {
			for c := 'a'; c <= 'z'; c++ {
				members = append(members, string([]rune{a, b, c, a, b, c}))
			}
		}
	}
	s := tst.New(members...)
	require.Greater(t, s.NodeCount(), 0x10000, "need offsets beyond the uint16 scaled range")
	decoded := roundTrip(t, s)
	assert.Equal(t, s.Len(), decoded.Len())
	assert.Equal(t, s.NodeCount(), decoded.NodeCount())
	assert.True(t, decoded.Has("mnomno"))
}

// v1 stored raw uint32 node records and no member count.
func TestDecodeV1(t *testing.T) {
	buf := []byte{0x74, 0x73, 0x01, 0x00}
	// node 0: 'a', equal child at offset 4
	buf = appendWords(buf, 'a'<<1, 0xFFFFFFFF, 4, 0xFFFFFFFF)
	// node 1: 'b' with end-of-string
	buf = appendWords(buf, 'b'<<1|1, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF)

	s := &tst.Set{}
	require.NoError(t, s.UnmarshalBinary(buf))
	assert.Equal(t, 1, s.Len(), "size recounted from end-of-string flags")
	assert.True(t, s.Has("ab"))
	assert.False(t, s.Has("a"))
	assert.False(t, s.Has(""))
}

func TestDecodeV1EmptyWordFlag(t *testing.T) {
	buf := []byte{0x74, 0x73, 0x01, 0x01}
	buf = appendWords(buf, 'a'<<1|1, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF)

	s := &tst.Set{}
	require.NoError(t, s.UnmarshalBinary(buf))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(""))
	assert.True(t, s.Has("a"))
}

// v2 stored a member count, uint16 value words and uint24 scaled offsets.
func TestDecodeV2(t *testing.T) {
	buf := []byte{0x74, 0x73, 0x02, 0x00}
	buf = appendWords(buf, 1) // member count
	buf = append(buf, 0x00, 'a'<<1)
	buf = append(buf,
		0xFF, 0xFF, 0xFF, // less absent
		0x00, 0x00, 0x01, // equal at scaled offset 1
		0xFF, 0xFF, 0xFF) // greater absent
	buf = append(buf, 0x00, 'b'<<1|1)
	buf = append(buf, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

	s := &tst.Set{}
	require.NoError(t, s.UnmarshalBinary(buf))
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Has("ab"))
}

func TestDecodeV2Wide(t *testing.T) {
	clef := rune(0x1D11E)
	buf := []byte{0x74, 0x73, 0x02, 0x04} // wide flag
	buf = appendWords(buf, 1)
	buf = appendWords(buf, uint32(clef)<<1|1)
	buf = append(buf, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF)

	s := &tst.Set{}
	require.NoError(t, s.UnmarshalBinary(buf))
	assert.True(t, s.Has(string(clef)))
}

func TestDecodeRejectsBadBuffers(t *testing.T) {
	valid, err := tst.New("cat", "cot").MarshalBinary()
	require.NoError(t, err)

	cases := map[string][]byte{
		"tooShort":      {0x74, 0x73, 0x03},
		"badMagic":      append([]byte{0x75, 0x73}, valid[2:]...),
		"badVersion":    mutate(valid, 2, 0x09),
		"unknownFlags":  mutate(valid, 3, 0x08),
		"wideFlagInV3":  mutate(valid, 3, 0x04),
		"compactFlagV1": {0x74, 0x73, 0x01, 0x02},
		"truncated":     valid[:len(valid)-2],
		"empty":         {},
	}
	for name, buf := range cases {
		t.Run(name, func(t *testing.T) {
			s := &tst.Set{}
			assert.ErrorIs(t, s.UnmarshalBinary(buf), tst.ErrInvalidData)
		})
	}
}

func TestDecodeRejectsBadOffsets(t *testing.T) {
	// v1 node whose equal child is not node-aligned
	buf := []byte{0x74, 0x73, 0x01, 0x00}
	buf = appendWords(buf, 'a'<<1|1, 0xFFFFFFFF, 3, 0xFFFFFFFF)
	s := &tst.Set{}
	assert.ErrorIs(t, s.UnmarshalBinary(buf), tst.ErrInvalidData)

	// v1 node whose child points past the node array
	buf = []byte{0x74, 0x73, 0x01, 0x00}
	buf = appendWords(buf, 'a'<<1|1, 0xFFFFFFFF, 64, 0xFFFFFFFF)
	s = &tst.Set{}
	assert.ErrorIs(t, s.UnmarshalBinary(buf), tst.ErrInvalidData)
}

func TestDecodeRejectsLinkCycles(t *testing.T) {
	// a node whose equal child points back at itself would recurse
	// forever on the first traversal
	buf := []byte{0x74, 0x73, 0x01, 0x00}
	buf = appendWords(buf, 'a'<<1, 0xFFFFFFFF, 0, 0xFFFFFFFF)
	s := &tst.Set{}
	assert.ErrorIs(t, s.UnmarshalBinary(buf), tst.ErrInvalidData)

	// two nodes linking each other
	buf = []byte{0x74, 0x73, 0x01, 0x00}
	buf = appendWords(buf, 'a'<<1, 0xFFFFFFFF, 4, 0xFFFFFFFF)
	buf = appendWords(buf, 'b'<<1|1, 0xFFFFFFFF, 0, 0xFFFFFFFF)
	s = &tst.Set{}
	assert.ErrorIs(t, s.UnmarshalBinary(buf), tst.ErrInvalidData)
}

func TestDecodeRejectsOrphanNodes(t *testing.T) {
	valid, err := tst.New("cat", "cot").MarshalBinary()
	require.NoError(t, err)

	// a trailing byte that parses as a childless common-value node but
	// that nothing links to
	buf := append(append([]byte{}, valid...), 0x03)
	s := &tst.Set{}
	assert.ErrorIs(t, s.UnmarshalBinary(buf), tst.ErrInvalidData)
}

func TestDecodeDoesNotMutateOnError(t *testing.T) {
	s := tst.New("keep")
	err := s.UnmarshalBinary([]byte{0x74, 0x73, 0x09, 0x00})
	require.ErrorIs(t, err, tst.ErrInvalidData)
	assert.True(t, s.Has("keep"), "failed decode leaves the receiver alone")
}

func TestWriteTo(t *testing.T) {
	s := tst.New("cat", "cot")
	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	decoded := &tst.Set{}
	require.NoError(t, decoded.UnmarshalBinary(buf.Bytes()))
	assert.Equal(t, s.Words(), decoded.Words())
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.tst")
	s := tst.New("bat", "cat", "", "catnip")
	s.Compact()

	n, err := s.Save(path)
	require.NoError(t, err)
	assert.Positive(t, n)

	loaded, err := tst.Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Words(), loaded.Words())
	assert.Equal(t, s.Len(), loaded.Len())
	assert.True(t, loaded.IsCompact())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := tst.Load(filepath.Join(t.TempDir(), "absent.tst"))
	assert.Error(t, err)
}

func appendWords(buf []byte, words ...uint32) []byte {
	for _, w := range words {
		buf = append(buf, byte(w>>24), byte(w>>16), byte(w>>8), byte(w))
	}
	return buf
}

func mutate(data []byte, at int, b byte) []byte {
	out := append([]byte{}, data...)
	out[at] = b
	return out
}
