package repository

import (
	"context"

	"vc7day/internal/cache"
	"vc7day/internal/models"
)

// cachedDocumentRepository serves Load from a tiered cache of the encoded
// document and writes through on Save.
type cachedDocumentRepository struct {
	next  DocumentRepository
	cache *cache.Tiered
}

// NewCachedDocumentRepository decorates next with c. Each Load decodes a
// fresh Document, so callers never share mutable state.
func NewCachedDocumentRepository(next DocumentRepository, c *cache.Tiered) DocumentRepository {
	return &cachedDocumentRepository{next: next, cache: c}
}

func (r *cachedDocumentRepository) Load(ctx context.Context) (*models.Document, error) {
	data, err := r.cache.Get(ctx, cache.DocumentKey, func(ctx context.Context) ([]byte, error) {
		doc, err := r.next.Load(ctx)
		if err != nil {
			return nil, err
		}
		return models.EncodeDocument(doc)
	})
	if err != nil {
		return nil, err
	}
	return models.DecodeDocument(data)
}

func (r *cachedDocumentRepository) Save(ctx context.Context, doc *models.Document) error {
	if err := r.next.Save(ctx, doc); err != nil {
		_ = r.cache.Delete(ctx, cache.DocumentKey)
		return err
	}

	data, err := models.EncodeDocument(doc)
	if err != nil {
		return r.cache.Delete(ctx, cache.DocumentKey)
	}
	r.cache.Set(ctx, cache.DocumentKey, data)
	return nil
}
