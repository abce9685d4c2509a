package fast

import (
	"fmt"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
)

// ReadIter is a forward, non-owning cursor over a snapshot of a Buffer's valid region.
//
// The snapshot is taken when the iterator is created: later appends to the source are not
// visible, and a reallocation of the source leaves the iterator reading the old array
// (see Stale). The zero value is an unbound cursor that holds no data.
//
// Bulk operations (Read, Skip) clamp to what is left. The raw operations (Peek, Next,
// DirectRead) panic with ErrOutOfRange when asked for more than is available.
type ReadIter struct {
	// buf is the unread region [begin, end).
	buf []byte
	// offset counts bytes consumed since construction.
	offset int

	src *Buffer
	gen uint64
}

// NewReadIter returns a cursor over bb that is not tied to any Buffer.
func NewReadIter(bb []byte) *ReadIter {
	return &ReadIter{buf: bb}
}

// IsData reports whether at least one unread byte remains.
func (it *ReadIter) IsData() bool {
	return len(it.buf) > 0
}

// Available returns how many bytes DirectRead can hand out. Storage is contiguous, so this
// is everything that remains.
func (it *ReadIter) Available() int {
	return len(it.buf)
}

// DirectRead returns the next n bytes without copying and advances past them.
// The result shares memory with the source buffer. Returns nil on an unbound cursor.
func (it *ReadIter) DirectRead(n int) []byte {
	if it.buf == nil {
		return nil
	}
	if n < 0 || n > len(it.buf) {
		panic(fmt.Errorf("%w: direct read of %d bytes, %d available", ErrOutOfRange, n, len(it.buf)))
	}
	res := it.buf[:n:n]
	it.buf = it.buf[n:]
	it.offset += n
	return res
}

// Peek returns the next byte without consuming it.
func (it *ReadIter) Peek() byte {
	if len(it.buf) == 0 {
		panic(fmt.Errorf("%w: peek on exhausted iterator", ErrOutOfRange))
	}
	return it.buf[0]
}

// Next advances the cursor by exactly one byte.
func (it *ReadIter) Next() {
	if len(it.buf) == 0 {
		panic(fmt.Errorf("%w: advance on exhausted iterator", ErrOutOfRange))
	}
	it.buf = it.buf[1:]
	it.offset++
}

// ReadUint8 consumes and returns a single byte.
func (it *ReadIter) ReadUint8() uint8 {
	v := it.Peek()
	it.Next()
	return v
}

// Read copies up to len(dst) bytes into dst and returns how many were copied.
// A short count only means fewer bytes remained; it is not an error.
func (it *ReadIter) Read(dst []byte) int {
	n := copy(dst, it.buf)
	it.buf = it.buf[n:]
	it.offset += n
	return n
}

// Skip advances by up to n bytes without copying and returns how many were skipped.
func (it *ReadIter) Skip(n int) int {
	if n <= 0 {
		return 0
	}
	n = minInt(n, len(it.buf))
	it.buf = it.buf[n:]
	it.offset += n
	return n
}

// Offset returns the number of bytes consumed since the iterator was created.
func (it *ReadIter) Offset() int {
	return it.offset
}

// Uint32BE consumes 4 bytes as a big-endian integer.
func (it *ReadIter) Uint32BE() uint32 {
	return bigendian.BytesToUint32(it.mustDirectRead(4))
}

// Uint64BE consumes 8 bytes as a big-endian integer.
func (it *ReadIter) Uint64BE() uint64 {
	return bigendian.BytesToUint64(it.mustDirectRead(8))
}

// Stale reports whether the source Buffer has reallocated or handed its storage over since
// the iterator was taken. A stale iterator still reads the old snapshot safely, but it no
// longer reflects the buffer; take a fresh one with Buffer.Iter.
func (it *ReadIter) Stale() bool {
	return it.src != nil && it.src.gen != it.gen
}

func (it *ReadIter) mustDirectRead(n int) []byte {
	if it.buf == nil {
		panic(fmt.Errorf("%w: read of %d bytes on unbound iterator", ErrOutOfRange, n))
	}
	return it.DirectRead(n)
}
