package cser

import (
	"github.com/rony4d/go-bytebuf/utils/bits"
	"github.com/rony4d/go-bytebuf/utils/fast"
)

// binary.go frames CSER output. A value is written to two streams (bytes and bits),
// and the streams are packed into one slice:
//
//	[ body bytes ... ][ bit stream bytes ... ][ REVERSED varint(len(bit stream)) ]
//
// The suffix is reversed so a decoder can find it by scanning back from the end.

// maxSuffix is the longest varint a 64-bit length can need.
const maxSuffix = 9

// MarshalBinaryAdapter runs marshalCser against a fresh Writer and returns the framed result.
// The returned slice is the Writer's byte buffer; no extra copy is made.
func MarshalBinaryAdapter(marshalCser func(*Writer) error) ([]byte, error) {
	w := NewWriter()

	err := marshalCser(w)
	if err != nil {
		return nil, err
	}

	return binaryFromCSER(w.BitsW.Bytes(), w.BytesW)
}

// binaryFromCSER appends the bit stream and the reversed size suffix to body.
func binaryFromCSER(bbits []byte, body *fast.Buffer) (raw []byte, err error) {
	body.Append(bbits)

	var size fast.Buffer
	writeUint64Compact(&size, uint64(len(bbits)))
	body.Append(reversed(size.Bytes()))

	return body.Bytes(), nil
}

// binaryToCSER splits raw back into its bit and byte streams.
func binaryToCSER(raw []byte) (bbits *bits.Array, bbytes []byte, err error) {
	suffix := fast.NewReadIter(reversed(tail(raw, maxSuffix)))
	bitsSize := readUint64Compact(suffix)

	raw = raw[:len(raw)-suffix.Offset()]

	if uint64(len(raw)) < bitsSize {
		err = ErrMalformedEncoding
		return
	}

	bbits = &bits.Array{Bytes: raw[uint64(len(raw))-bitsSize:]}
	bbytes = raw[:uint64(len(raw))-bitsSize]
	return
}

// UnmarshalBinaryAdapter splits raw and runs unmarshalCser over it. Every panic raised
// while decoding (truncated input, non-canonical values) is reported as ErrMalformedEncoding,
// and input left over after unmarshalCser returns is ErrNonCanonicalEncoding.
func UnmarshalBinaryAdapter(raw []byte, unmarshalCser func(reader *Reader) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrMalformedEncoding
		}
	}()

	bbits, bbytes, err := binaryToCSER(raw)
	if err != nil {
		return err
	}

	bodyReader := NewReader(bbits, bbytes)
	err = unmarshalCser(bodyReader)
	if err != nil {
		return err
	}

	// at most the partially used last byte may remain in the bit stream
	if bodyReader.BitsR.NonReadBytes() > 1 {
		return ErrNonCanonicalEncoding
	}
	// and its unused bits must be zero
	tail := bodyReader.BitsR.Read(bodyReader.BitsR.NonReadBits())
	if tail != 0 {
		return ErrNonCanonicalEncoding
	}
	if bodyReader.BytesR.IsData() {
		return ErrNonCanonicalEncoding
	}

	return nil
}

// tail returns the last n bytes of b, or all of b if it is shorter.
func tail(b []byte, n int) []byte {
	if len(b) > n {
		return b[len(b)-n:]
	}
	return b
}

// reversed returns a reversed copy of b.
func reversed(b []byte) []byte {
	reversed := make([]byte, len(b))
	for i, v := range b {
		reversed[len(b)-1-i] = v
	}
	return reversed
}
