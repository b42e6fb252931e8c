package event

import "go.uber.org/zap"

// ZapSink is the production DiagnosticSink: every handler panic becomes a
// structured error log line instead of a crashed match (spec.md §4.7, §7).
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink wraps log as a DiagnosticSink.
func NewZapSink(log *zap.Logger) ZapSink {
	return ZapSink{log: log}
}

func (s ZapSink) HandlerPanic(eventType string, recovered any) {
	s.log.Error("event handler panicked",
		zap.String("eventType", eventType),
		zap.Any("recovered", recovered),
	)
}
