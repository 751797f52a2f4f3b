package launcher

import (
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/log"
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

// setupLogging installs the root handler used by the library packages.
func setupLogging(w io.Writer, cfg LoggingConfig) error {
	if cfg.Verbosity < int(log.LvlCrit) || cfg.Verbosity > int(log.LvlTrace) {
		return fmt.Errorf("log verbosity %d out of range [0, 5]", cfg.Verbosity)
	}

	var format log.Format
	switch cfg.Format {
	case "text", "":
		format = log.TerminalFormat(cfg.Color)
	case "json":
		format = log.JSONFormat()
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	log.Root().SetHandler(log.LvlFilterHandler(log.Lvl(cfg.Verbosity), log.StreamHandler(w, format)))
	return nil
}

// newProcessLogger builds the launcher's own logger. Errors are forwarded to
// Sentry when a DSN is configured.
func newProcessLogger(w io.Writer, cfg NodeConfig) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrusLevel(cfg.Logging.Verbosity))
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Logging.Color,
			DisableColors: !cfg.Logging.Color,
			FullTimestamp: true,
		})
	}

	if cfg.SentryDSN != "" {
		hook, err := logrus_sentry.NewSentryHook(cfg.SentryDSN, []logrus.Level{
			logrus.PanicLevel,
			logrus.FatalLevel,
			logrus.ErrorLevel,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry: %w", err)
		}
		logger.AddHook(hook)
	}
	return logger, nil
}

func logrusLevel(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.FatalLevel
	case verbosity == 1:
		return logrus.ErrorLevel
	case verbosity == 2:
		return logrus.WarnLevel
	case verbosity == 3:
		return logrus.InfoLevel
	case verbosity == 4:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}
