package launcher

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-bytebuf/flags"
)

// Launch parses args and runs the selected command against stdout and the standard logger.
func Launch(args []string) error {
	return newApp(os.Stdout, logrus.StandardLogger()).Run(args)
}

func newApp(w io.Writer, log *logrus.Logger) *cli.App {
	app := flags.NewApp(w, "load files into growable byte buffers and walk them with a read cursor")
	app.Before = func(ctx *cli.Context) error {
		cfg := makeConfig(ctx).Logging
		return flags.SetupLogger(log, cfg.Format, cfg.Verbosity, cfg.Color, cfg.SentryDSN)
	}

	c := &commands{log: log}
	app.Commands = []cli.Command{
		{
			Name:      "stat",
			Usage:     "Append all files into one buffer and print its size, capacity and Keccak-256 digest",
			ArgsUsage: "FILE...",
			Action:    c.stat,
		},
		{
			Name:      "dump",
			Usage:     "Hex dump a file, one direct read per line",
			ArgsUsage: "FILE",
			Flags:     flags.DumpFlags(),
			Action:    c.dump,
		},
		{
			Name:      "copy",
			Usage:     "Drain bytes of SRC through a read cursor into a second buffer and write it to DST",
			ArgsUsage: "SRC DST",
			Flags:     flags.CopyFlags(),
			Action:    c.copy,
		},
	}
	return app
}
