package repository

import (
	"context"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// pgxLogger bridges pgx's tracelog into zerolog so SQL traffic lands in the
// same stream as everything else, tagged and filterable.
type pgxLogger struct {
	log zerolog.Logger
}

func newPgxLogger(logger zerolog.Logger) *pgxLogger {
	return &pgxLogger{log: logger.With().Str("component", "pgx").Logger()}
}

// Log maps a tracelog level onto the equivalent zerolog event. Trace-level
// entries promote the statement and its args to typed fields; the rest of
// the data map rides along untouched.
func (l *pgxLogger) Log(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if level == tracelog.LogLevelNone {
		return
	}

	event := l.event(level)
	if level == tracelog.LogLevelTrace {
		event = promoteTraceFields(event, data)
	}
	if len(data) > 0 {
		event = event.Fields(data)
	}
	event.Msg(msg)
}

func (l *pgxLogger) event(level tracelog.LogLevel) *zerolog.Event {
	switch level {
	case tracelog.LogLevelTrace:
		return l.log.Trace()
	case tracelog.LogLevelDebug:
		return l.log.Debug()
	case tracelog.LogLevelInfo:
		return l.log.Info()
	case tracelog.LogLevelWarn:
		return l.log.Warn()
	case tracelog.LogLevelError:
		return l.log.Error()
	default:
		return l.log.Info().Str("pgx_log_level", level.String())
	}
}

// promoteTraceFields lifts sql and args out of the generic data map so they
// render as first-class fields instead of a nested blob.
func promoteTraceFields(event *zerolog.Event, data map[string]any) *zerolog.Event {
	if sqlVal, ok := data["sql"]; ok {
		if s, ok := sqlVal.(string); ok {
			event = event.Str("sql", s)
		} else {
			event = event.Interface("sql", sqlVal)
		}
		delete(data, "sql")
	}
	if args, ok := data["args"]; ok {
		event = event.Interface("args", args)
		delete(data, "args")
	}
	return event
}
