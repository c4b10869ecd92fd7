package tst

import "fmt"

// Binary format. Two magic bytes, a version byte and a flags byte head
// every buffer; the node stream runs to the end of the buffer, so the
// buffer length itself delimits the tree. Decoding rejects a malformed
// node graph in any version: a child offset off the node array, a link
// cycle, or a node nothing links to. Trailing garbage that happens to
// parse as a node is therefore an error, not a silent orphan.
//
// Version 3, the only version written, stores the member count, the most
// frequent value word, and then one self-describing record per node: a
// shape byte whose four 2-bit fields select the width of the value word
// and of each child offset. Small code points near the top of the tree
// and short offsets near the root dominate real sets, but full-range
// fields are still needed near the leaves; per-node shapes serve both.
//
// Versions 1 and 2 are earlier fixed-width generations and are decoded
// for backward compatibility only. Version 1 has no member count (the
// size is recounted from end-of-string flags) and stores each node as
// four raw uint32s. Version 2 stores the member count, uint16 value
// words (uint32 when the wide flag is set) and uint24 scaled child
// offsets.
//
// Child offsets in versions 2 and 3 are scaled: the array offset divided
// by the node width, which keeps two bytes sufficient for the first
// sixty-five thousand nodes.
const (
	magic0 = 0x74
	magic1 = 0x73

	version1 = 1
	version2 = 2
	version3 = 3

	flagHasEmpty = 1 << 0
	flagCompact  = 1 << 1
	flagWide     = 1 << 2

	maxWord = int32(1)<<22 - 1

	v1Absent = 0xFFFFFFFF
	v2Absent = 0xFFFFFF
)

// Shape byte fields, two bits each: value width in bits 0-1, then the
// less, equal and greater child widths.
const (
	valueU32 = iota
	valueU16
	valueU8
	valueCommon
)

const (
	childAbsent = iota
	childU16
	childU24
	childU32
)

// MarshalBinary encodes the set in the current format generation.
func (s *Set) MarshalBinary() ([]byte, error) {
	flags := byte(0)
	if s.hasEmpty {
		flags |= flagHasEmpty
	}
	if s.compact {
		flags |= flagCompact
	}
	buf := []byte{magic0, magic1, version3, flags}
	buf = appendUint32(buf, uint32(s.size))

	common := s.commonWord()
	buf = appendUint32(buf, uint32(common))

	for off := 0; off < len(s.tree); off += nodeWidth {
		buf = s.appendNode(buf, int32(off), common)
	}
	return buf, nil
}

// commonWord returns the most frequent value word, preferring the
// smallest on ties so encoding is deterministic.
func (s *Set) commonWord() int32 {
	counts := make(map[int32]int)
	for off := 0; off < len(s.tree); off += nodeWidth {
		counts[s.tree[off]]++
	}
	best, bestCount := int32(0), 0
	for off := 0; off < len(s.tree); off += nodeWidth {
		w := s.tree[off]
		if c := counts[w]; c > bestCount || (c == bestCount && w < best) {
			best, bestCount = w, c
		}
	}
	return best
}

func (s *Set) appendNode(buf []byte, off int32, common int32) []byte {
	word := s.tree[off]
	children := [3]int32{s.tree[off+1], s.tree[off+2], s.tree[off+3]}

	shape := byte(valueU32)
	switch {
	case word == common:
		shape = valueCommon
	case word <= 0xFF:
		shape = valueU8
	case word <= 0xFFFF:
		shape = valueU16
	}
	widths := [3]byte{}
	for i, c := range children {
		switch scaled := uint32(c) / nodeWidth; {
		case c == nul:
			widths[i] = childAbsent
		case scaled <= 0xFFFF:
			widths[i] = childU16
		case scaled <= 0xFFFFFF:
			widths[i] = childU24
		default:
			widths[i] = childU32
		}
		shape |= widths[i] << (2 + 2*byte(i))
	}

	buf = append(buf, shape)
	switch shape & 3 {
	case valueU32:
		buf = appendUint32(buf, uint32(word))
	case valueU16:
		buf = append(buf, byte(word>>8), byte(word))
	case valueU8:
		buf = append(buf, byte(word))
	}
	for i, c := range children {
		scaled := uint32(c) / nodeWidth
		switch widths[i] {
		case childU16:
			buf = append(buf, byte(scaled>>8), byte(scaled))
		case childU24:
			buf = append(buf, byte(scaled>>16), byte(scaled>>8), byte(scaled))
		case childU32:
			buf = appendUint32(buf, scaled)
		}
	}
	return buf
}

func appendUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

// UnmarshalBinary decodes any supported format generation. The receiver
// is only modified once the whole buffer has decoded cleanly.
func (s *Set) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return fmt.Errorf("%w: buffer too short for header", ErrInvalidData)
	}
	if data[0] != magic0 || data[1] != magic1 {
		return fmt.Errorf("%w: bad magic %#02x%02x", ErrInvalidData, data[0], data[1])
	}
	version, flags := data[2], data[3]

	allowed := byte(0)
	switch version {
	case version1:
		allowed = flagHasEmpty
	case version2:
		allowed = flagHasEmpty | flagCompact | flagWide
	case version3:
		allowed = flagHasEmpty | flagCompact
	default:
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidData, version)
	}
	if flags&^allowed != 0 {
		return fmt.Errorf("%w: unknown flag bits %#02x", ErrInvalidData, flags&^allowed)
	}

	decoded := Set{
		hasEmpty: flags&flagHasEmpty != 0,
		compact:  flags&flagCompact != 0,
	}
	r := &byteReader{data: data[4:]}

	var err error
	switch version {
	case version1:
		err = decodeV1(r, &decoded)
	case version2:
		err = decodeV2(r, &decoded, flags&flagWide != 0)
	case version3:
		err = decodeV3(r, &decoded)
	}
	if err != nil {
		return err
	}
	if err := decoded.checkLinks(); err != nil {
		return err
	}
	*s = decoded
	return nil
}

func decodeV1(r *byteReader, s *Set) error {
	for !r.done() {
		word, err := r.uint32()
		if err != nil {
			return err
		}
		if err := checkWord(int32(word)); err != nil {
			return err
		}
		s.tree = append(s.tree, int32(word))
		for i := 0; i < 3; i++ {
			raw, err := r.uint32()
			if err != nil {
				return err
			}
			child, err := v1Child(raw)
			if err != nil {
				return err
			}
			s.tree = append(s.tree, child)
		}
	}
	// this generation stored no member count
	s.size = 0
	if s.hasEmpty {
		s.size = 1
	}
	for off := 0; off < len(s.tree); off += nodeWidth {
		if s.tree[off]&eosBit != 0 {
			s.size++
		}
	}
	return nil
}

func v1Child(raw uint32) (int32, error) {
	if raw == v1Absent {
		return nul, nil
	}
	if raw%nodeWidth != 0 || raw > maxOffset {
		return 0, fmt.Errorf("%w: bad node offset %d", ErrInvalidData, raw)
	}
	return int32(raw), nil
}

func decodeV2(r *byteReader, s *Set, wide bool) error {
	count, err := r.uint32()
	if err != nil {
		return err
	}
	for !r.done() {
		var word uint32
		if wide {
			word, err = r.uint32()
		} else {
			var w uint16
			w, err = r.uint16()
			word = uint32(w)
		}
		if err != nil {
			return err
		}
		if err := checkWord(int32(word)); err != nil {
			return err
		}
		s.tree = append(s.tree, int32(word))
		for i := 0; i < 3; i++ {
			scaled, err := r.uint24()
			if err != nil {
				return err
			}
			if scaled == v2Absent {
				s.tree = append(s.tree, nul)
				continue
			}
			child, err := scaledChild(scaled)
			if err != nil {
				return err
			}
			s.tree = append(s.tree, child)
		}
	}
	s.size = int(count)
	return nil
}

func decodeV3(r *byteReader, s *Set) error {
	count, err := r.uint32()
	if err != nil {
		return err
	}
	commonRaw, err := r.uint32()
	if err != nil {
		return err
	}
	common := int32(commonRaw)
	if err := checkWord(common); err != nil {
		return err
	}
	for !r.done() {
		shape, err := r.uint8()
		if err != nil {
			return err
		}
		var word uint32
		switch shape & 3 {
		case valueU32:
			word, err = r.uint32()
		case valueU16:
			var w uint16
			w, err = r.uint16()
			word = uint32(w)
		case valueU8:
			var w byte
			w, err = r.uint8()
			word = uint32(w)
		case valueCommon:
			word = uint32(common)
		}
		if err != nil {
			return err
		}
		if err := checkWord(int32(word)); err != nil {
			return err
		}
		s.tree = append(s.tree, int32(word))

		for i := 0; i < 3; i++ {
			width := shape >> (2 + 2*byte(i)) & 3
			if width == childAbsent {
				s.tree = append(s.tree, nul)
				continue
			}
			var scaled uint32
			switch width {
			case childU16:
				var w uint16
				w, err = r.uint16()
				scaled = uint32(w)
			case childU24:
				scaled, err = r.uint24()
			case childU32:
				scaled, err = r.uint32()
			}
			if err != nil {
				return err
			}
			child, err := scaledChild(scaled)
			if err != nil {
				return err
			}
			s.tree = append(s.tree, child)
		}
	}
	s.size = int(count)
	return nil
}

func checkWord(word int32) error {
	if word < 0 || word > maxWord {
		return fmt.Errorf("%w: value word %#x out of range", ErrInvalidData, word)
	}
	return nil
}

func scaledChild(scaled uint32) (int32, error) {
	if scaled > maxOffset/nodeWidth {
		return 0, fmt.Errorf("%w: bad scaled offset %d", ErrInvalidData, scaled)
	}
	return int32(scaled * nodeWidth), nil
}

// checkLinks verifies the decoded node graph: every child offset lands
// on a node, no link chain loops back on itself, and every node is
// reachable from the root. The encoder only ever writes acyclic graphs
// rooted at node zero, so anything else is a corrupt stream. The walk is
// iterative; a recursive one would overflow on the very chains this
// check exists to reject.
func (s *Set) checkLinks() error {
	limit := int32(len(s.tree))
	for off := 0; off < len(s.tree); off += nodeWidth {
		for i := 1; i < nodeWidth; i++ {
			c := s.tree[off+i]
			if c != nul && (c < 0 || c >= limit) {
				return fmt.Errorf("%w: child offset %d outside node array", ErrInvalidData, c)
			}
		}
	}
	if len(s.tree) == 0 {
		return nil
	}

	const (
		unseen = iota
		onPath
		settled
	)
	state := make([]byte, len(s.tree)/nodeWidth)
	type frame struct {
		node int32
		slot int32
	}
	stack := []frame{{node: 0, slot: 1}}
	state[0] = onPath
	reached := 1
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.slot == nodeWidth {
			state[f.node/nodeWidth] = settled
			stack = stack[:len(stack)-1]
			continue
		}
		child := s.tree[f.node+f.slot]
		f.slot++
		if child == nul {
			continue
		}
		switch state[child/nodeWidth] {
		case onPath:
			return fmt.Errorf("%w: node link cycle through offset %d", ErrInvalidData, child)
		case unseen:
			state[child/nodeWidth] = onPath
			reached++
			stack = append(stack, frame{node: child, slot: 1})
		}
	}
	if reached != len(state) {
		return fmt.Errorf("%w: %d nodes unreachable from the root", ErrInvalidData, len(state)-reached)
	}
	return nil
}

// byteReader walks a buffer with explicit bounds checks; every read past
// the end is a truncation error.
type byteReader struct {
	data []byte
	pos  int
}

func (r *byteReader) done() bool { return r.pos >= len(r.data) }

func (r *byteReader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("%w: truncated at byte %d", ErrInvalidData, r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) uint8() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *byteReader) uint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func (r *byteReader) uint24() (uint32, error) {
	b, err := r.take(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func (r *byteReader) uint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}
