/*
Primitive encoding for the CSER format. binary.go frames the output; this file writes
and reads the values themselves.

Integers (U16, U32, U64, U56) use split encoding: the byte length goes to the bit stream,
the little-endian bytes go to the byte stream, so small numbers stay small.
Booleans are single bits in the bit stream. Slices are [U56 length][data].
Decoding is strict: any value not stored in its most compact form panics with
ErrNonCanonicalEncoding, which UnmarshalBinaryAdapter turns into an error.
*/
package cser

import (
	"errors"
	"math/big"

	"github.com/rony4d/go-bytebuf/utils/bits"
	"github.com/rony4d/go-bytebuf/utils/fast"
)

var (
	ErrNonCanonicalEncoding = errors.New("non canonical encoding: data not packed minimally or unused bits non-zero")
	ErrMalformedEncoding    = errors.New("malformed encoding: structure invalid or truncated")
	ErrTooLargeAlloc        = errors.New("too large allocation: decoded size exceeds limits")
)

// MaxAlloc limits the size of decoded byte slices.
const MaxAlloc = 100 * 1024

// Writer feeds the two output streams.
type Writer struct {
	BitsW  *bits.Writer // booleans and length prefixes
	BytesW *fast.Buffer // raw value bytes
}

// Reader consumes the two input streams.
type Reader struct {
	BitsR  *bits.Reader
	BytesR *fast.ReadIter
}

// NewWriter creates a ready-to-use CSER writer. Neither stream allocates until the
// first write, and then only MinBuffer bytes.
func NewWriter() *Writer {
	return &Writer{
		BitsW:  bits.NewWriter(&fast.Buffer{}),
		BytesW: &fast.Buffer{},
	}
}

// NewReader creates a CSER reader over already split streams.
func NewReader(bbits *bits.Array, bbytes []byte) *Reader {
	if bbytes == nil {
		// a nil slice would make an unbound iterator, which reads nothing without complaint
		bbytes = []byte{}
	}
	return &Reader{
		BitsR:  bits.NewReader(bbits),
		BytesR: fast.NewReadIter(bbytes),
	}
}

// writeUint64Compact writes v as a base-128 varint where a set MSB marks the LAST byte
// (the reverse of the usual convention). Only used for the frame suffix.
func writeUint64Compact(bytesW *fast.Buffer, v uint64) {
	for {
		chunk := v & 0b01111111
		v = v >> 7
		if v == 0 {
			chunk |= 0b10000000
		}
		bytesW.AppendUint8(byte(chunk))
		if v == 0 {
			break
		}
	}
}

// readUint64Compact decodes the reverse-logic varint.
func readUint64Compact(bytesR *fast.ReadIter) uint64 {
	v := uint64(0)
	stop := false
	for i := 0; !stop; i++ {
		chunk := uint64(bytesR.ReadUint8())
		stop = (chunk & 0b10000000) != 0
		word := chunk & 0b01111111
		v |= word << (i * 7)

		// a zero final group means the value was padded: [5, 0|stop] must be [5|stop]
		if i > 0 && stop && word == 0 {
			panic(ErrNonCanonicalEncoding)
		}
	}
	return v
}

// writeUint64BitCompact writes v little-endian in as few bytes as possible,
// but at least minSize, and returns the count.
func writeUint64BitCompact(bytesW *fast.Buffer, v uint64, minSize int) (size int) {
	for size < minSize || v != 0 {
		bytesW.AppendUint8(byte(v))
		size++
		v = v >> 8
	}
	return
}

// readUint64BitCompact reassembles a little-endian integer of 'size' bytes.
func readUint64BitCompact(bytesR *fast.ReadIter, size int) uint64 {
	var (
		v    uint64
		last byte
	)
	buf := bytesR.DirectRead(size)
	for i, b := range buf {
		v |= uint64(b) << uint(8*i)
		last = b
	}

	// a zero top byte means more bytes were used than necessary
	if size > 1 && last == 0 {
		panic(ErrNonCanonicalEncoding)
	}

	return v
}

// readU64_bits reads (length - minSize) from the bit stream, then that many bytes.
func (r *Reader) readU64_bits(minSize int, bitsForSize int) uint64 {
	size := r.BitsR.Read(bitsForSize)
	size += uint(minSize)
	return readUint64BitCompact(r.BytesR, int(size))
}

// writeU64_bits is the inverse of readU64_bits.
func (w *Writer) writeU64_bits(minSize int, bitsForSize int, v uint64) {
	size := writeUint64BitCompact(w.BytesW, v, minSize)
	w.BitsW.Write(bitsForSize, uint(size-minSize))
}

// U8 goes straight to the byte stream.
func (w *Writer) U8(v uint8) {
	w.BytesW.AppendUint8(v)
}
func (r *Reader) U8() uint8 {
	return r.BytesR.ReadUint8()
}

// U16: 1 length bit, 1..2 bytes.
func (w *Writer) U16(v uint16) {
	w.writeU64_bits(1, 1, uint64(v))
}
func (r *Reader) U16() uint16 {
	v64 := r.readU64_bits(1, 1)
	return uint16(v64)
}

// U32: 2 length bits, 1..4 bytes.
func (w *Writer) U32(v uint32) {
	w.writeU64_bits(1, 2, uint64(v))
}
func (r *Reader) U32() uint32 {
	v64 := r.readU64_bits(1, 2)
	return uint32(v64)
}

// U64: 3 length bits, 1..8 bytes.
func (w *Writer) U64(v uint64) {
	w.writeU64_bits(1, 3, v)
}
func (r *Reader) U64() uint64 {
	return r.readU64_bits(1, 3)
}

// VarUint shares the U64 encoding; it is used for counts.
func (r *Reader) VarUint() uint64 {
	return r.readU64_bits(1, 3)
}
func (w *Writer) VarUint(v uint64) {
	w.writeU64_bits(1, 3, v)
}

// I64 is a sign bit followed by the magnitude as U64.
func (w *Writer) I64(v int64) {
	w.Bool(v < 0)
	if v < 0 {
		w.U64(uint64(-v))
	} else {
		w.U64(uint64(v))
	}
}
func (r *Reader) I64() int64 {
	neg := r.Bool()
	abs := r.U64()

	// negative zero has two encodings, only the positive one is canonical
	if neg && abs == 0 {
		panic(ErrNonCanonicalEncoding)
	}
	if neg {
		return -int64(abs)
	}
	return int64(abs)
}

// U56 encodes slice lengths: 3 length bits, 0..7 bytes, so zero costs no byte at all.
func (w *Writer) U56(v uint64) {
	const max = 1<<(8*7) - 1
	if v > max {
		panic("Value too big")
	}
	w.writeU64_bits(0, 3, v)
}
func (r *Reader) U56() uint64 {
	return r.readU64_bits(0, 3)
}

// Bool is one bit.
func (w *Writer) Bool(v bool) {
	u8 := uint(0)
	if v {
		u8 = 1
	}
	w.BitsW.Write(1, u8)
}
func (r *Reader) Bool() bool {
	u8 := r.BitsR.Read(1)
	return u8 != 0
}

// FixedBytes writes raw bytes, no length prefix.
func (w *Writer) FixedBytes(v []byte) {
	w.BytesW.Append(v)
}

// FixedBytes fills v completely or panics with fast.ErrOutOfRange.
func (r *Reader) FixedBytes(v []byte) {
	copy(v, r.BytesR.DirectRead(len(v)))
}

// SliceBytes writes [U56 length][bytes].
func (w *Writer) SliceBytes(v []byte) {
	w.U56(uint64(len(v)))
	w.FixedBytes(v)
}

// SliceBytes reads a length-prefixed slice, panicking with ErrTooLargeAlloc above maxLen.
func (r *Reader) SliceBytes(maxLen int) []byte {
	size := r.U56()
	if size > uint64(maxLen) {
		panic(ErrTooLargeAlloc)
	}
	buf := make([]byte, size)
	r.FixedBytes(buf)
	return buf
}

// PaddedBytes left-pads b with zeros up to n bytes. Longer inputs are returned as is.
func PaddedBytes(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	padding := make([]byte, n-len(b))
	return append(padding, b...)
}

// BigInt writes the big-endian magnitude as a slice. The sign is not stored,
// negative values read back as their absolute value.
func (w *Writer) BigInt(v *big.Int) {
	bigBytes := []byte{}
	if v.Sign() != 0 {
		bigBytes = v.Bytes()
	}
	w.SliceBytes(bigBytes)
}

func (r *Reader) BigInt() *big.Int {
	buf := r.SliceBytes(512)
	if len(buf) == 0 {
		return new(big.Int)
	}
	return new(big.Int).SetBytes(buf)
}
