package launcher

import (
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bytebuf/flags"
)

// Config aggregates everything a command needs from the command line.
type Config struct {
	Logging LoggingConfig
	Buffer  BufferConfig
}

type LoggingConfig struct {
	Format    string
	Verbosity int
	Color     bool
	SentryDSN string
}

// BufferConfig drives how input is loaded and walked.
type BufferConfig struct {
	Reserve int // initial reservation per loaded buffer, 0 grows on demand
	Chunk   int // bytes per DirectRead
	Skip    int // bytes skipped before reading
	Count   int // bytes to transfer, negative means all that remain
	Word    int // big-endian word width for dump, 0 for hex chunks
	Frame   int // big-endian length prefix width for copy, 0 for none
}

// makeConfig maps the cli context onto a Config. Global flags are looked up through the
// parent contexts, command flags on ctx itself.
func makeConfig(ctx *cli.Context) Config {
	return Config{
		Logging: LoggingConfig{
			Format:    ctx.GlobalString(flags.LogFormatFlag.Name),
			Verbosity: ctx.GlobalInt(flags.LogVerbosityFlag.Name),
			Color:     ctx.GlobalBool(flags.LogColorFlag.Name),
			SentryDSN: ctx.GlobalString(flags.SentryDSNFlag.Name),
		},
		Buffer: BufferConfig{
			Reserve: ctx.GlobalInt(flags.ReserveFlag.Name),
			Chunk:   ctx.Int(flags.ChunkFlag.Name),
			Skip:    ctx.Int(flags.SkipFlag.Name),
			Count:   ctx.Int(flags.CountFlag.Name),
			Word:    ctx.Int(flags.WordFlag.Name),
			Frame:   ctx.Int(flags.FrameFlag.Name),
		},
	}
}
