package launcher

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bytebuf/utils/fast"
)

var (
	errMissingFile = errors.New("missing FILE argument")
	errBadChunk    = errors.New("chunk must be positive")
	errBadWidth    = errors.New("width must be 0, 4 or 8")
	errFrameSize   = errors.New("payload does not fit the frame length prefix")
)

type commands struct {
	log *logrus.Logger
}

func newBuffer(reserve int) *fast.Buffer {
	if reserve > 0 {
		return fast.NewBuffer(reserve)
	}
	return &fast.Buffer{}
}

// appendFile reads the whole file at path into the tail of buf.
func appendFile(buf *fast.Buffer, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return buf.ReadFrom(f)
}

func (c *commands) load(path string, reserve int) (*fast.Buffer, error) {
	buf := newBuffer(reserve)
	n, err := appendFile(buf, path)
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"file": path, "bytes": n, "cap": buf.Cap()}).Debug("Loaded file")
	return buf, nil
}

func checkWidth(w int) error {
	if w != 0 && w != 4 && w != 8 {
		return errBadWidth
	}
	return nil
}

// next renders the line for the bytes at the cursor: one big-endian word when word is set
// and enough bytes remain, otherwise a hex chunk of at most chunk bytes.
func next(it *fast.ReadIter, chunk, word int) string {
	switch {
	case word == 4 && it.Available() >= 4:
		return hexutil.EncodeUint64(uint64(it.Uint32BE()))
	case word == 8 && it.Available() >= 8:
		return hexutil.EncodeUint64(it.Uint64BE())
	}
	n := chunk
	if n > it.Available() {
		n = it.Available()
	}
	return hexutil.Encode(it.DirectRead(n))
}

// frame returns payload behind a big-endian length prefix of the given width.
func frame(payload *fast.Buffer, width int) (*fast.Buffer, error) {
	size := payload.Size()
	out := fast.NewBuffer(width + size)
	switch width {
	case 4:
		if uint64(size) > math.MaxUint32 {
			return nil, errFrameSize
		}
		out.AppendUint32BE(uint32(size))
	case 8:
		out.AppendUint64BE(uint64(size))
	}
	out.AppendFrom(payload.Iter(), size)
	return out, nil
}

// skip moves it forward and warns when the input is shorter than requested.
func (c *commands) skip(it *fast.ReadIter, n int) {
	if skipped := it.Skip(n); skipped < n {
		c.log.WithFields(logrus.Fields{"requested": n, "skipped": skipped}).Warn("Skip ran past the end of the input")
	}
}

func (c *commands) stat(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errMissingFile
	}
	cfg := makeConfig(ctx).Buffer

	buf := newBuffer(cfg.Reserve)
	for _, path := range ctx.Args() {
		n, err := appendFile(buf, path)
		if err != nil {
			return err
		}
		c.log.WithFields(logrus.Fields{"file": path, "bytes": n, "size": buf.Size(), "cap": buf.Cap()}).Debug("Appended file")
	}

	_, err := fmt.Fprintf(ctx.App.Writer, "size=%d cap=%d keccak256=%s\n",
		buf.Size(), buf.Cap(), crypto.Keccak256Hash(buf.Bytes()).Hex())
	return err
}

func (c *commands) dump(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errMissingFile
	}
	cfg := makeConfig(ctx).Buffer
	if cfg.Chunk <= 0 {
		return errBadChunk
	}
	if err := checkWidth(cfg.Word); err != nil {
		return err
	}

	buf, err := c.load(ctx.Args().First(), cfg.Reserve)
	if err != nil {
		return err
	}

	it := buf.Iter()
	c.skip(it, cfg.Skip)
	for it.IsData() {
		off := it.Offset()
		if _, err := fmt.Fprintf(ctx.App.Writer, "%08x %s\n", off, next(it, cfg.Chunk, cfg.Word)); err != nil {
			return err
		}
	}
	return nil
}

func (c *commands) copy(ctx *cli.Context) (err error) {
	if ctx.NArg() != 2 {
		return fmt.Errorf("%w: copy needs SRC and DST", errMissingFile)
	}
	cfg := makeConfig(ctx).Buffer
	if err := checkWidth(cfg.Frame); err != nil {
		return err
	}

	src, err := c.load(ctx.Args().Get(0), cfg.Reserve)
	if err != nil {
		return err
	}
	it := src.Iter()
	c.skip(it, cfg.Skip)

	count := cfg.Count
	if count < 0 {
		count = it.Available()
	}
	dst := newBuffer(cfg.Reserve)
	moved := dst.AppendFrom(it, count)
	if moved < count {
		c.log.WithFields(logrus.Fields{"requested": count, "moved": moved}).Warn("Short copy")
	}
	if cfg.Frame != 0 {
		if dst, err = frame(dst, cfg.Frame); err != nil {
			return err
		}
	}

	f, err := os.Create(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err = dst.WriteTo(f); err != nil {
		return err
	}

	c.log.WithFields(logrus.Fields{"offset": it.Offset(), "bytes": moved}).Info("Copied")
	_, err = fmt.Fprintf(ctx.App.Writer, "copied %d bytes\n", moved)
	return err
}
