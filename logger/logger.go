// Package logger wires the node's operational logging. Components log
// through go-ethereum's log package; this package forwards those records
// into a logrus stream, which optionally exports errors to Sentry.
package logger

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/evalphobia/logrus_sentry"
	"github.com/sirupsen/logrus"
)

var operational = logrus.New()

func init() {
	operational.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts the verbosity of the operational stream.
// Accepts the logrus level names ("debug", "info", "warn", "error").
func SetLevel(l string) error {
	lvl, err := logrus.ParseLevel(l)
	if err != nil {
		return err
	}
	operational.SetLevel(lvl)
	return nil
}

// SetDSN attaches a Sentry hook to the operational stream so that error
// and panic level records are exported.
func SetDSN(dsn string) error {
	hook, err := logrus_sentry.NewSentryHook(dsn, []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	})
	if err != nil {
		return err
	}
	hook.StacktraceConfiguration.Enable = true
	hook.Timeout = 3 * time.Second
	operational.AddHook(hook)
	return nil
}

// SentryHandler returns a go-ethereum log handler that mirrors records
// into the operational stream. Install it next to the terminal handler:
//
//	log.Root().SetHandler(log.MultiHandler(terminal, logger.SentryHandler()))
func SentryHandler() log.Handler {
	return log.FuncHandler(func(r *log.Record) error {
		entry := operational.WithFields(recordFields(r))
		switch r.Lvl {
		case log.LvlCrit, log.LvlError:
			// Crit exits the process after logging, so Fatal would
			// double the exit; Error keeps the Sentry export.
			entry.Error(r.Msg)
		case log.LvlWarn:
			entry.Warning(r.Msg)
		case log.LvlInfo:
			entry.Info(r.Msg)
		default:
			entry.Debug(r.Msg)
		}
		return nil
	})
}

func recordFields(r *log.Record) logrus.Fields {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(r.Ctx); i += 2 {
		name, ok := r.Ctx[i].(string)
		if !ok {
			continue
		}
		fields[name] = r.Ctx[i+1]
	}
	return fields
}
