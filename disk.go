package tst

import (
	"io"
	"os"

	"golang.org/x/exp/mmap"
)

// Save writes the set to a file in the current binary format. It returns
// the number of bytes written.
func (s *Set) Save(filename string) (int64, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return s.WriteTo(f)
}

// WriteTo writes the set's binary encoding to w.
func (s *Set) WriteTo(w io.Writer) (int64, error) {
	data, err := s.MarshalBinary()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Load reads a set saved in any supported format generation. The file is
// memory-mapped while decoding.
func Load(filename string) (*Set, error) {
	r, err := mmap.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if len(data) > 0 {
		if _, err := r.ReadAt(data, 0); err != nil {
			return nil, err
		}
	}
	s := &Set{}
	if err := s.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return s, nil
}
