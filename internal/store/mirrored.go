package store

import (
	"context"

	"resume-render/internal/logging"
	"resume-render/pkg/models"
)

// MirroredStore serves reads from memory and copies every write to a
// secondary store so other processes can read the latest document.
// A mirror failure is logged and never fails the write.
type MirroredStore struct {
	primary *MemoryStore
	mirror  Store
	logger  logging.Logger
}

func NewMirroredStore(mirror Store, logger logging.Logger) *MirroredStore {
	return &MirroredStore{
		primary: NewMemoryStore(),
		mirror:  mirror,
		logger:  logger.WithField("component", "store"),
	}
}

func (s *MirroredStore) Put(ctx context.Context, doc *models.RenderedDocument) error {
	s.primary.Put(ctx, doc)
	if err := s.mirror.Put(ctx, doc); err != nil {
		s.logger.Warn("Failed to mirror latest document", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return nil
}

// Latest prefers the local slot and falls back to the mirror before the first local write.
func (s *MirroredStore) Latest(ctx context.Context) (*models.RenderedDocument, bool, error) {
	if doc, ok, _ := s.primary.Latest(ctx); ok {
		return doc, true, nil
	}
	return s.mirror.Latest(ctx)
}
