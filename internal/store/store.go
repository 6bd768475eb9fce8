// Package store holds the most recently compiled document.
//
// The slot is replaced whole on every compile and read without locks. There
// is no history: a reader sees whichever compile stored last, which is not
// necessarily its own.
package store

import (
	"context"
	"sync/atomic"

	"resume-render/pkg/models"
)

// Store is a single-slot holder for the latest rendered document.
type Store interface {
	// Put replaces the slot.
	Put(ctx context.Context, doc *models.RenderedDocument) error
	// Latest returns the current document; ok is false when nothing was stored yet.
	Latest(ctx context.Context) (doc *models.RenderedDocument, ok bool, err error)
}

// MemoryStore keeps the slot in process memory behind an atomic pointer.
type MemoryStore struct {
	slot atomic.Pointer[models.RenderedDocument]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Put(_ context.Context, doc *models.RenderedDocument) error {
	s.slot.Store(doc)
	return nil
}

func (s *MemoryStore) Latest(_ context.Context) (*models.RenderedDocument, bool, error) {
	doc := s.slot.Load()
	return doc, doc != nil, nil
}
