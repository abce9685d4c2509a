package flags

import (
	"gopkg.in/urfave/cli.v1"
)

// Logging flags, shared by every command.
var (
	LogFormatFlag = cli.StringFlag{
		Name:  "log.format",
		Usage: "Log output format (text|json)",
		Value: "text",
	}
	LogVerbosityFlag = cli.IntFlag{
		Name:  "log.verbosity",
		Usage: "Logging verbosity (0=fatal,1=error,2=warn,3=info,4=debug,5=trace)",
		Value: 3,
	}
	LogColorFlag = cli.BoolFlag{
		Name:  "log.color",
		Usage: "Enable colored log output",
	}
	SentryDSNFlag = cli.StringFlag{
		Name:  "sentry.dsn",
		Usage: "Report error-level log entries to this Sentry DSN",
	}
	ReserveFlag = cli.IntFlag{
		Name:  "reserve",
		Usage: "Bytes to reserve up front for every loaded buffer (0 = grow on demand)",
	}
)

// CommonFlags returns the base set of CLI flags shared across commands.
func CommonFlags() []cli.Flag {
	return []cli.Flag{
		LogFormatFlag,
		LogVerbosityFlag,
		LogColorFlag,
		SentryDSNFlag,
		ReserveFlag,
	}
}
