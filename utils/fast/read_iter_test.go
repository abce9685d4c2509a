package fast

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadIter_Read(t *testing.T) {
	t.Run("Short read", func(t *testing.T) {
		it := NewReadIter([]byte{1, 2, 3, 4, 5})
		it.Skip(2)

		dst := make([]byte, 10)
		n := it.Read(dst)
		require.Equal(t, 3, n, "only the remaining bytes are copied")
		require.Equal(t, []byte{3, 4, 5}, dst[:n])
		require.Equal(t, make([]byte, 7), dst[n:], "nothing past the count is touched")
		require.False(t, it.IsData())
		require.Equal(t, 5, it.Offset())

		require.Equal(t, 0, it.Read(dst))
	})

	t.Run("Exact read", func(t *testing.T) {
		it := NewReadIter([]byte{1, 2, 3})
		dst := make([]byte, 2)
		require.Equal(t, 2, it.Read(dst))
		require.Equal(t, []byte{1, 2}, dst)
		require.True(t, it.IsData())
	})
}

func TestReadIter_Skip(t *testing.T) {
	it := NewReadIter(make([]byte, 10))

	require.Equal(t, 3, it.Skip(3))
	require.Equal(t, 3, it.Offset())
	require.Equal(t, 0, it.Skip(0))
	require.Equal(t, 0, it.Skip(-5), "negative skips do nothing")
	require.Equal(t, 3, it.Offset())

	require.Equal(t, 7, it.Skip(100), "skip clamps to what is left")
	require.Equal(t, 10, it.Offset())
	require.Equal(t, 0, it.Available())
	require.Equal(t, 0, it.Skip(1))
	require.Equal(t, 10, it.Offset())
}

func TestReadIter_DirectRead(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	it := NewReadIter(data)

	got := it.DirectRead(2)
	require.Equal(t, []byte{1, 2}, got)
	got[0] = 9
	require.Equal(t, byte(9), data[0], "direct reads share memory with the source")
	require.Equal(t, 2, cap(got), "the returned slice must not expose the unread bytes")

	require.Equal(t, []byte{}, it.DirectRead(0))
	requirePanicsWith(t, ErrOutOfRange, func() { it.DirectRead(3) })
	requirePanicsWith(t, ErrOutOfRange, func() { it.DirectRead(-1) })
	require.Equal(t, 2, it.Offset(), "a failed direct read does not move the cursor")

	require.Equal(t, []byte{3, 4}, it.DirectRead(2))
	require.False(t, it.IsData())
}

func TestReadIter_Unbound(t *testing.T) {
	var it ReadIter

	assert.False(t, it.IsData())
	assert.Equal(t, 0, it.Available())
	assert.Nil(t, it.DirectRead(5), "unbound direct reads return nil instead of panicking")
	assert.Equal(t, 0, it.Read(make([]byte, 5)))
	assert.Equal(t, 0, it.Skip(5))
	assert.Equal(t, 0, it.Offset())
	assert.False(t, it.Stale())
	requirePanicsWith(t, ErrOutOfRange, func() { it.Peek() })
	requirePanicsWith(t, ErrOutOfRange, func() { it.Next() })
}

func TestReadIter_PeekNext(t *testing.T) {
	it := NewReadIter([]byte{0xA, 0xB})

	require.Equal(t, byte(0xA), it.Peek())
	require.Equal(t, byte(0xA), it.Peek(), "peek does not consume")
	require.Equal(t, 0, it.Offset())

	it.Next()
	require.Equal(t, 1, it.Offset())
	require.Equal(t, uint8(0xB), it.ReadUint8())
	require.Equal(t, 2, it.Offset())

	requirePanicsWith(t, ErrOutOfRange, func() { it.Peek() })
	requirePanicsWith(t, ErrOutOfRange, func() { it.Next() })
	requirePanicsWith(t, ErrOutOfRange, func() { it.ReadUint8() })
}

// TestReadIter_RoundTrip appends random pieces and drains them back with random-sized
// direct reads, reads, skips and single-byte steps.
func TestReadIter_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(0))

	for round := 0; round < 20; round++ {
		var (
			b    Buffer
			want []byte
		)
		for i := r.Intn(30); i > 0; i-- {
			piece := make([]byte, r.Intn(700))
			r.Read(piece)
			b.Append(piece)
			want = append(want, piece...)
		}
		require.Equal(t, len(want), b.Size())

		it := b.Iter()
		got := make([]byte, 0, len(want))
		for it.IsData() {
			n := 1 + r.Intn(600)
			switch r.Intn(4) {
			case 0:
				if n > it.Available() {
					n = it.Available()
				}
				got = append(got, it.DirectRead(n)...)
			case 1:
				dst := make([]byte, n)
				got = append(got, dst[:it.Read(dst)]...)
			case 2:
				start := it.Offset()
				skipped := it.Skip(n)
				got = append(got, want[start:start+skipped]...)
			default:
				got = append(got, it.Peek())
				it.Next()
			}
			require.Equal(t, len(got), it.Offset())
		}
		if len(want) == 0 {
			require.Empty(t, got)
			continue
		}
		require.Equal(t, want, got, "round %d", round)
	}
}
