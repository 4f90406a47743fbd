// Package audit implements the audit trail: an append-only, newline-
// delimited JSON ledger of plugin and stage lifecycle transitions,
// distinct from the operational logger used for human-facing diagnostics.
package audit

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kernelforge/kernel/internal/component"
)

// Trail records lifecycle transitions as structured JSON events. It
// satisfies the Component contract so it can be inserted into the
// component registry like any other built-in service.
type Trail struct {
	mu     sync.Mutex
	logger zerolog.Logger
}

// New constructs a Trail writing newline-delimited JSON to w.
func New(w io.Writer) *Trail {
	return &Trail{logger: zerolog.New(w).With().Timestamp().Logger()}
}

var _ component.Component = (*Trail)(nil)

func (t *Trail) Name() string { return "audit_trail" }

func (t *Trail) Initialize(ctx context.Context) error { return nil }

func (t *Trail) Start(ctx context.Context) error { return nil }

func (t *Trail) Stop(ctx context.Context) error { return nil }

// Record appends one event of the given kind, with fields attached as
// structured key/value pairs. kind is a short dotted label such as
// "plugin.initialized" or "stage.failure"; fields alternates string keys
// with values, mirroring ports.Logger's field convention.
func (t *Trail) Record(kind string, fields ...interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	event := t.logger.Log().Str("kind", kind)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, fields[i+1])
	}
	event.Send()
}
