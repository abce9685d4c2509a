package bits

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-bytebuf/utils/fast"
)

type word struct {
	bits int
	v    uint
}

func randWords(r *rand.Rand, count, maxBits int) []word {
	words := make([]word, count)
	for i := range words {
		words[i].bits = 1 + r.Intn(maxBits)
		words[i].v = uint(r.Int63()) & (1<<uint(words[i].bits) - 1)
	}
	return words
}

func TestWriter_Layout(t *testing.T) {
	for name, tc := range map[string]struct {
		words []word
		exp   []byte
	}{
		"nothing":         {nil, nil},
		"zero width":      {[]word{{0, 1}, {0, 0}}, nil},
		"first bit low":   {[]word{{1, 1}}, []byte{0x01}},
		"fills one byte":  {[]word{{3, 0b101}, {0, 0}, {5, 0b11111}}, []byte{0xfd}},
		"spans two bytes": {[]word{{4, 0xa}, {8, 0xff}}, []byte{0xfa, 0x0f}},
		"wide":            {[]word{{17, 0x1ffff}}, []byte{0xff, 0xff, 0x01}},
	} {
		t.Run(name, func(t *testing.T) {
			w := NewWriter(&fast.Buffer{})
			for _, wd := range tc.words {
				w.Write(wd.bits, wd.v)
			}
			assert.Equal(t, tc.exp, w.Bytes())
			assert.Equal(t, tc.exp, w.Array().Bytes)
		})
	}
}

func TestWriter_SharedBuffer(t *testing.T) {
	require := require.New(t)

	buf := &fast.Buffer{}
	buf.Append([]byte{0xee})
	w := NewWriter(buf)

	// a fresh writer starts on a new byte, existing content stays as is
	w.Write(1, 1)
	w.Write(1, 1)
	require.Equal([]byte{0xee, 0x03}, buf.Bytes())

	it := buf.Iter()
	w.Write(6, 0)
	for buf.Size() < fast.MinBuffer {
		w.Write(8, 0x5a)
	}
	require.Equal(fast.MinBuffer, buf.Cap())
	require.False(it.Stale())

	w.Write(1, 1)
	require.Equal(fast.MinBuffer+1, buf.Cap(), "growth is exact-fit")
	require.True(it.Stale())
	require.Equal(w.Bytes(), buf.Bytes())
}

func TestReader_RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for _, maxBits := range []int{1, 8, 17, 32} {
		t.Run(fmt.Sprintf("up to %d bits", maxBits), func(t *testing.T) {
			require := require.New(t)

			words := randWords(r, 200, maxBits)
			w := NewWriter(&fast.Buffer{})
			total := 0
			for _, wd := range words {
				w.Write(wd.bits, wd.v)
				total += wd.bits
			}
			require.Equal((total+7)/8, len(w.Bytes()))

			reader := NewReader(w.Array())
			read := 0
			for i, wd := range words {
				require.Equal(wd.v, reader.Read(wd.bits), i)
				read += wd.bits
				require.Equal(len(w.Bytes())*8-read, reader.NonReadBits(), i)
				require.Equal((reader.NonReadBits()+7)/8, reader.NonReadBytes(), i)
			}

			// padding up to the byte boundary is zero
			require.Equal(uint(0), reader.Read(reader.NonReadBits()))
			require.Zero(reader.NonReadBytes())
		})
	}
}

func TestReader_View(t *testing.T) {
	w := NewWriter(&fast.Buffer{})
	w.Write(12, 0xabc)
	reader := NewReader(w.Array())

	assert.EqualValues(t, 0xabc, reader.View(12))
	assert.Equal(t, 16, reader.NonReadBits())

	assert.EqualValues(t, 0xc, reader.Read(4))
	// a view across the byte boundary forks the cursor and leaves this one in place
	assert.EqualValues(t, 0xab, reader.View(8))
	assert.Equal(t, 12, reader.NonReadBits())
	assert.Equal(t, 2, reader.NonReadBytes())
	assert.EqualValues(t, 0xab, reader.Read(8))
}

func TestReader_PastEnd(t *testing.T) {
	requireOutOfRange := func(t *testing.T, f func()) {
		defer func() {
			err, ok := recover().(error)
			require.True(t, ok)
			require.True(t, errors.Is(err, fast.ErrOutOfRange), "got %v", err)
		}()
		f()
	}

	t.Run("Partial byte", func(t *testing.T) {
		reader := NewReader(&Array{Bytes: []byte{0xff}})
		assert.EqualValues(t, 0x7f, reader.Read(7))
		assert.Equal(t, 1, reader.NonReadBytes())
		requireOutOfRange(t, func() { reader.Read(2) })
	})

	t.Run("No bytes", func(t *testing.T) {
		reader := NewReader(&Array{})
		assert.Zero(t, reader.NonReadBits())
		assert.EqualValues(t, 0, reader.Read(0))
		requireOutOfRange(t, func() { reader.Read(1) })
		requireOutOfRange(t, func() { reader.View(1) })
	})
}

func BenchmarkWriter_Write(b *testing.B) {
	for _, bits := range []int{1, 3, 8, 9} {
		b.Run(fmt.Sprintf("%d bits", bits), func(b *testing.B) {
			w := NewWriter(fast.NewBuffer((bits*b.N + 7) / 8))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w.Write(bits, 0xff)
			}
		})
	}
}

func BenchmarkReader_Read(b *testing.B) {
	for _, bits := range []int{1, 3, 8, 9} {
		b.Run(fmt.Sprintf("%d bits", bits), func(b *testing.B) {
			reader := NewReader(&Array{Bytes: make([]byte, (bits*b.N+7)/8)})
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = reader.Read(bits)
			}
		})
	}
}
