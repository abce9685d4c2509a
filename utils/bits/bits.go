package bits

// This package implements a bit-stream Writer and Reader for values that are not aligned
// to byte boundaries (boolean flags, 3-bit length prefixes, ...). It is the side channel
// of the CSER format in utils/cser.
//
// Bits are packed LSB first: the first bit written lands in bit 0 of the first byte.
// The Writer accumulates into a fast.Buffer; the Reader walks the bytes with a fast.ReadIter.

import (
	"github.com/rony4d/go-bytebuf/utils/fast"
)

type (
	// Array is a finished bit stream, as handed to a Reader.
	Array struct {
		Bytes []byte
	}

	// Writer appends variable-width values to a bit stream.
	Writer struct {
		buf       *fast.Buffer
		bitOffset int // 0-7: next free bit in the last byte of buf
	}

	// Reader consumes variable-width values from an Array.
	// A Reader is a plain value; copying it forks the cursor (see View).
	Reader struct {
		it        fast.ReadIter
		bitOffset int // 0-7: next unread bit in it.Peek()
	}
)

// NewWriter creates a bit-stream writer that appends to buf.
func NewWriter(buf *fast.Buffer) *Writer {
	return &Writer{
		buf: buf,
	}
}

// NewReader creates a bit-stream reader over arr.
func NewReader(arr *Array) *Reader {
	return &Reader{
		it: *fast.NewReadIter(arr.Bytes),
	}
}

// Bytes returns the bytes written so far. The last byte may be partially filled;
// its unused high bits are zero.
func (a *Writer) Bytes() []byte {
	return a.buf.Bytes()
}

// Array returns the bytes written so far as an Array ready for a Reader.
func (a *Writer) Array() *Array {
	return &Array{Bytes: a.buf.Bytes()}
}

func (a *Writer) byteBitsFree() int {
	return 8 - a.bitOffset
}

// writeIntoLastByte ORs v into the free bits of the last byte.
func (a *Writer) writeIntoLastByte(v uint) {
	bb := a.buf.Bytes()
	bb[len(bb)-1] |= byte(v << a.bitOffset)
}

// zeroTopByteBits clears the top 'bits' bits of a byte-sized v.
func zeroTopByteBits(v uint, bits int) uint {
	mask := uint(0xff) >> bits
	return v & mask
}

// Write appends the lowest 'bits' bits of v.
// Example: Write(3, 5) appends binary 101.
func (a *Writer) Write(bits int, v uint) {
	if bits == 0 {
		return
	}
	if a.bitOffset == 0 {
		a.buf.AppendUint8(0)
	}

	free := a.byteBitsFree()
	if bits <= free {
		a.writeIntoLastByte(v)
		if bits == free {
			a.bitOffset = 0
		} else {
			a.bitOffset += bits
		}
		return
	}

	// Fill the current byte, then carry the rest into the next one(s).
	a.writeIntoLastByte(zeroTopByteBits(v, a.bitOffset))
	a.bitOffset = 0
	a.Write(bits-free, v>>free)
}

func (a *Reader) byteBitsFree() int {
	return 8 - a.bitOffset
}

// Read consumes 'bits' bits and returns them as an integer.
// Panics with fast.ErrOutOfRange when the stream holds fewer bits.
func (a *Reader) Read(bits int) (v uint) {
	if bits == 0 {
		return 0
	}

	free := a.byteBitsFree()
	cur := uint(a.it.Peek())

	if bits <= free {
		// drop the bits above the requested window, then shift it down to bit 0
		clear := 8 - (a.bitOffset + bits)
		v = zeroTopByteBits(cur, clear) >> a.bitOffset

		if bits == free {
			a.bitOffset = 0
			a.it.Next()
		} else {
			a.bitOffset += bits
		}
		return v
	}

	// The value spans bytes: take the rest of this one, then the higher bits from the next.
	v = cur >> a.bitOffset
	a.bitOffset = 0
	a.it.Next()

	rest := a.Read(bits - free)
	return v | rest<<free
}

// View returns the next 'bits' bits without consuming them.
func (a *Reader) View(bits int) (v uint) {
	cp := *a
	return cp.Read(bits)
}

// NonReadBytes returns how many bytes are not fully consumed, the current one included.
func (a *Reader) NonReadBytes() int {
	return a.it.Available()
}

// NonReadBits returns the total count of unread bits.
func (a *Reader) NonReadBits() int {
	return a.NonReadBytes()*8 - a.bitOffset
}
