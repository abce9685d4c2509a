package flags

import (
	"fmt"

	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// verbosityLevels maps --log.verbosity to logrus levels.
var verbosityLevels = []logrus.Level{
	logrus.FatalLevel,
	logrus.ErrorLevel,
	logrus.WarnLevel,
	logrus.InfoLevel,
	logrus.DebugLevel,
	logrus.TraceLevel,
}

// VerbosityLevel converts a verbosity number to a logrus level, clamping out of range values.
func VerbosityLevel(v int) logrus.Level {
	if v < 0 {
		v = 0
	}
	if v >= len(verbosityLevels) {
		v = len(verbosityLevels) - 1
	}
	return verbosityLevels[v]
}

// SetupLogger configures the standard logrus logger. A non-empty sentryDSN also forwards
// error, fatal and panic entries to Sentry.
func SetupLogger(log *logrus.Logger, format string, verbosity int, color bool, sentryDSN string) error {
	switch format {
	case "text":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   color,
			DisableColors: !color,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}
	log.SetLevel(VerbosityLevel(verbosity))

	if sentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(sentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return fmt.Errorf("sentry hook: %w", err)
		}
		log.AddHook(hook)
	}
	return nil
}
