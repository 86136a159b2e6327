// Package mmapfile provides read-only access to an immutable segment
// file, memory-mapped via blevesearch/mmap-go when available and
// falling back to a plain read when mmap can't be used (e.g. the
// LEXIDEX_NO_MMAP escape hatch, useful under test runners and on
// filesystems that don't support mmap).
package mmapfile

import (
	"os"

	mmap "github.com/blevesearch/mmap-go"
)

// File is a read-only view over an immutable on-disk segment file.
type File struct {
	f    *os.File
	mm   mmap.MMap
	data []byte
}

// Open maps path read-only. The returned File must be Closed.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if os.Getenv("LEXIDEX_NO_MMAP") != "" {
		data, err := readAll(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &File{f: f, data: data}, nil
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		data, rerr := readAll(f)
		if rerr != nil {
			f.Close()
			return nil, rerr
		}
		return &File{f: f, data: data}, nil
	}

	return &File{f: f, mm: mm, data: []byte(mm)}, nil
}

func readAll(f *os.File) ([]byte, error) {
	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, info.Size())
	if _, err := readFull(f, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readFull(f *os.File, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := f.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Bytes returns the mapped (or buffered) file contents.
func (f *File) Bytes() []byte {
	return f.data
}

// Close unmaps (if mapped) and closes the underlying file.
func (f *File) Close() error {
	var mmErr error
	if f.mm != nil {
		mmErr = f.mm.Unmap()
	}
	if err := f.f.Close(); err != nil {
		return err
	}
	return mmErr
}
