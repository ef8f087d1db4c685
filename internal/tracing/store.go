package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/addressbook/internal/alias"
)

// Span names and attribute keys for alias persistence.
const (
	SpanReadAliases = "alias.store.read"
	SpanSaveAliases = "alias.store.save"

	AttrAliasCount = "alias.count"
	AttrBackend    = "alias.store.backend"
)

// Store wraps an alias.Store and records a span per call.
type Store struct {
	next    alias.Store
	tracer  trace.Tracer
	backend string
}

// NewStore instruments next. backend names the store in span attributes.
func NewStore(next alias.Store, tracer trace.Tracer, backend string) *Store {
	return &Store{next: next, tracer: tracer, backend: backend}
}

// Ensure Store implements alias.Store.
var _ alias.Store = (*Store)(nil)

// ReadAliases traces the wrapped read.
func (s *Store) ReadAliases() (map[string]string, error) {
	_, span := s.tracer.Start(context.Background(), SpanReadAliases,
		trace.WithAttributes(attribute.String(AttrBackend, s.backend)))
	defer span.End()

	aliases, err := s.next.ReadAliases()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int(AttrAliasCount, len(aliases)))
	return aliases, nil
}

// SaveAliases traces the wrapped save.
func (s *Store) SaveAliases(aliases map[string]string) error {
	_, span := s.tracer.Start(context.Background(), SpanSaveAliases,
		trace.WithAttributes(
			attribute.String(AttrBackend, s.backend),
			attribute.Int(AttrAliasCount, len(aliases)),
		))
	defer span.End()

	if err := s.next.SaveAliases(aliases); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
