package fast

// buffer.go provides a single-owner, growable, contiguous byte store.
//
// Purpose:
// - Producers append into one backing array; consumers take a ReadIter over it and drain
//   it sequentially, with zero-copy slicing where possible.
// - Growth is exact-fit above a MinBuffer floor, there is no geometric doubling.
// - It is NOT thread safe. Any growth replaces the backing array, so slices returned by
//   Bytes/Tail and outstanding ReadIters must be re-fetched after an append.
// - Misuse (SetSize past capacity, Reserve on a used buffer, ...) panics. These are
//   programmer errors, not recoverable conditions.

import (
	"errors"
	"fmt"
	"io"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
)

// MinBuffer is the smallest allocation a Buffer ever makes.
const MinBuffer = 1024

const maxSize = int(^uint(0) >> 1)

// Panic values raised on contract violations. Match them with errors.Is after a recover.
var (
	ErrOutOfRange       = errors.New("fast: read past the end of the buffer")
	ErrNotAllocated     = errors.New("fast: buffer has no storage")
	ErrAlreadyAllocated = errors.New("fast: reserve on a buffer that already has storage")
	ErrCapacityExceeded = errors.New("fast: size exceeds capacity")
)

// noCopy makes `go vet` (copylocks) report Buffers passed or assigned by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Buffer is the owning byte store. The zero value is an empty, never-allocated buffer.
type Buffer struct {
	_ noCopy

	// data is the whole allocation; len(data) is the capacity.
	data []byte
	// size is the count of valid, appended bytes.
	size int
	// gen changes whenever data is replaced or handed over to another Buffer.
	gen uint64
}

// NewBuffer returns a buffer with storage for at least n bytes already allocated.
func NewBuffer(n int) *Buffer {
	b := &Buffer{}
	b.Reserve(n)
	return b
}

// Size returns the logical length.
func (b *Buffer) Size() int {
	return b.size
}

// Cap returns the allocated length. Bytes in [Size, Cap) are writable through Tail.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// Empty reports whether Size is zero.
func (b *Buffer) Empty() bool {
	return b.size == 0
}

// Bytes returns the valid region [begin, begin+size).
// The slice shares memory with the buffer and is invalidated by any growth.
func (b *Buffer) Bytes() []byte {
	if b.data == nil {
		return nil
	}
	return b.data[:b.size:b.size]
}

// Reserve makes the first allocation with room for max(n, MinBuffer) bytes.
// It panics if the buffer has ever allocated.
func (b *Buffer) Reserve(n int) {
	if b.size != 0 || b.data != nil {
		panic(fmt.Errorf("%w: size=%d cap=%d", ErrAlreadyAllocated, b.size, len(b.data)))
	}
	b.data = make([]byte, maxInt(n, MinBuffer))
	b.gen++
}

// ensureCapacity grows the allocation to hold n bytes. It may invalidate slices and iterators.
func (b *Buffer) ensureCapacity(n int) {
	if b.data == nil {
		b.Reserve(n)
		return
	}
	if n <= len(b.data) {
		return
	}
	// Only [0, size) was ever valid, the rest of the old array is not carried over.
	next := make([]byte, maxInt(n, MinBuffer))
	copy(next, b.data[:b.size])
	b.data = next
	b.gen++
}

// Append copies p to the end of the buffer, growing the storage first if needed.
func (b *Buffer) Append(p []byte) {
	b.ensureCapacity(b.size + len(p))
	b.size += copy(b.data[b.size:], p)
}

// AppendFrom drains up to count bytes from it straight into the tail of b and reports
// how many were moved. Capacity for the full count is reserved once, before the loop,
// even if the iterator holds less, unless size+count would overflow: then only what the
// iterator holds is reserved, so count can mean "everything".
// The iterator is advanced by the amount moved.
func (b *Buffer) AppendFrom(it *ReadIter, count int) int {
	if count <= 0 {
		return 0
	}
	reserve := count
	if reserve > maxSize-b.size {
		reserve = it.Available()
	}
	b.ensureCapacity(b.size + reserve)

	moved := 0
	for count != 0 && it.IsData() {
		toRead := minInt(count, it.Available())
		n := it.Read(b.data[b.size : b.size+toRead])
		b.size += n
		count -= n
		moved += n
	}
	return moved
}

// AppendUint8 appends a single byte and returns the new size.
func (b *Buffer) AppendUint8(v uint8) int {
	b.ensureCapacity(b.size + 1)
	b.data[b.size] = v
	b.size++
	return b.size
}

// AppendUint32BE appends v as 4 big-endian bytes.
func (b *Buffer) AppendUint32BE(v uint32) {
	b.Append(bigendian.Uint32ToBytes(v))
}

// AppendUint64BE appends v as 8 big-endian bytes.
func (b *Buffer) AppendUint64BE(v uint64) {
	b.Append(bigendian.Uint64ToBytes(v))
}

// SetSize overrides the logical length without touching the storage.
//
// WARNING: unsafe by convention. The caller must already have written valid bytes
// into [old size, n). Prefer Tail + Commit, which bound the writable region.
// Panics if the buffer has no storage or n is outside [0, Cap].
func (b *Buffer) SetSize(n int) {
	if b.data == nil {
		panic(ErrNotAllocated)
	}
	if n < 0 || n > len(b.data) {
		panic(fmt.Errorf("%w: size=%d cap=%d", ErrCapacityExceeded, n, len(b.data)))
	}
	b.size = n
}

// Tail ensures room for n more bytes and returns exactly that region, past the logical end.
// Write into it, then publish the bytes with Commit. The slice is capacity-bounded so an
// append on it can never spill into other storage.
func (b *Buffer) Tail(n int) []byte {
	if n < 0 {
		panic(fmt.Errorf("%w: tail of %d bytes", ErrOutOfRange, n))
	}
	if n > maxSize-b.size {
		panic(fmt.Errorf("%w: tail of %d bytes past size %d", ErrCapacityExceeded, n, b.size))
	}
	b.ensureCapacity(b.size + n)
	return b.data[b.size : b.size+n : b.size+n]
}

// Commit extends the logical length by n bytes previously written through Tail.
func (b *Buffer) Commit(n int) {
	if n < 0 {
		panic(fmt.Errorf("%w: commit of %d bytes", ErrOutOfRange, n))
	}
	b.SetSize(b.size + n)
}

// Iter returns a cursor over a snapshot of the current valid region.
func (b *Buffer) Iter() *ReadIter {
	return &ReadIter{
		buf: b.Bytes(),
		src: b,
		gen: b.gen,
	}
}

// Move hands the storage over to a new Buffer. b is left in the never-allocated state
// and iterators taken from b become stale.
func (b *Buffer) Move() *Buffer {
	moved := &Buffer{
		data: b.data,
		size: b.size,
		gen:  b.gen + 1,
	}
	b.data = nil
	b.size = 0
	b.gen++
	return moved
}

// Swap exchanges the contents of b and o.
func (b *Buffer) Swap(o *Buffer) {
	b.data, o.data = o.data, b.data
	b.size, o.size = o.size, b.size
	b.gen++
	o.gen++
}

// Write implements io.Writer. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.Append(p)
	return len(p), nil
}

// WriteByte implements io.ByteWriter. It never fails.
func (b *Buffer) WriteByte(c byte) error {
	b.AppendUint8(c)
	return nil
}

// ReadFrom implements io.ReaderFrom, reading r into the tail until io.EOF.
// Each round asks for as many bytes as are already stored (at least MinBuffer),
// so the exact-fit growth still runs in amortized linear time.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for {
		want := b.Cap() - b.size
		if want == 0 {
			want = maxInt(b.size, MinBuffer)
		}
		n, err := r.Read(b.Tail(want))
		if n < 0 || n > want {
			panic(fmt.Errorf("fast: reader returned invalid count %d", n))
		}
		b.Commit(n)
		total += int64(n)
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// WriteTo implements io.WriterTo, writing the valid region to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes())
	if err == nil && n != b.size {
		err = io.ErrShortWrite
	}
	return int64(n), err
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
