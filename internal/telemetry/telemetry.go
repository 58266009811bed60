// Package telemetry provides the orchestrator's trace logger: a
// zap.Logger stamped with a per-compilation session id, distinct from
// the diagnostic list (internal/diag), which is compiler output rather
// than operational logging (SPEC_FULL.md AMBIENT STACK "Logging").
//
// Grounded in bufbuild-buf's zap.Logger-field-per-call-site style
// (private/buf/bufsync/syncer.go: `logger.Debug(msg, zap.String(...))`),
// with the session id sourced from google/uuid the way ottomap and buf
// both pull build/run identifiers from small well-known libraries.
package telemetry

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tracer is the orchestrator's trace logger, scoped to one compilation
// session.
type Tracer struct {
	logger    *zap.Logger
	sessionID uuid.UUID
}

// NewTracer wraps logger with a freshly minted session id. Pass
// zap.NewNop() for silent runs (the CLI's --silent flag).
func NewTracer(logger *zap.Logger) *Tracer {
	id := uuid.New()
	return &Tracer{
		logger:    logger.With(zap.String("session", id.String())),
		sessionID: id,
	}
}

// SessionID returns the session id stamped on every log line this
// tracer emits.
func (t *Tracer) SessionID() uuid.UUID { return t.sessionID }

// FileResolved logs a successful import resolution (spec §4.6).
func (t *Tracer) FileResolved(literal, canonical string) {
	t.logger.Debug("import resolved", zap.String("literal", literal), zap.String("canonical", canonical))
}

// FileNotFound logs a failed import resolution.
func (t *Tracer) FileNotFound(literal, importer string) {
	t.logger.Warn("import not found", zap.String("literal", literal), zap.String("importer", importer))
}

// CycleDetected logs a detected import cycle.
func (t *Tracer) CycleDetected(chain []string) {
	t.logger.Warn("import cycle detected", zap.Strings("chain", chain))
}

// StageTiming logs how long a pipeline stage took, in milliseconds.
func (t *Tracer) StageTiming(stage string, millis int64) {
	t.logger.Debug("stage timing", zap.String("stage", stage), zap.Int64("ms", millis))
}

// Sync flushes the underlying logger.
func (t *Tracer) Sync() error { return t.logger.Sync() }
