package mocks

import (
	"context"
	"sync"

	"escaperoom/infras/otel"
)

// Otel hands out recording scopes and remembers the latest one per span name.
type Otel struct {
	mu     sync.Mutex
	scopes map[string]*Scope
}

// NewScope implements otel.Otel.
func (o *Otel) NewScope(ctx context.Context, _, spanName string) (context.Context, otel.Scope) {
	scope := newScope(spanName)

	o.mu.Lock()
	o.scopes[spanName] = scope
	o.mu.Unlock()

	return ctx, scope
}

// Shutdown implements otel.Otel.
func (o *Otel) Shutdown(_ context.Context) error {
	return nil
}

// Scope returns the last scope opened under spanName, or nil.
func (o *Otel) Scope(spanName string) *Scope {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.scopes[spanName]
}

func NewOtel() otel.Otel {
	return NewRecorder()
}

func NewRecorder() *Otel {
	return &Otel{scopes: map[string]*Scope{}}
}
