package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vc7day/internal/models"
	"vc7day/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormDocumentRepository stores the document as a single JSON row.
type gormDocumentRepository struct {
	db      *gorm.DB
	seed    Seeder
	backend string
	logger  *observability.StoreLogger
}

// NewGormDocumentRepository creates a repository backed by the
// catalog_documents table. An empty table is seeded on first Load.
func NewGormDocumentRepository(db *gorm.DB, seed Seeder) DocumentRepository {
	if seed == nil {
		seed = models.NewDocument
	}
	backend := "sql"
	if db.Dialector != nil {
		backend = db.Dialector.Name()
	}
	return &gormDocumentRepository{
		db:      db,
		seed:    seed,
		backend: backend,
		logger:  observability.NewStoreLogger(backend, nil),
	}
}

func (r *gormDocumentRepository) Load(ctx context.Context) (doc *models.Document, err error) {
	ctx, span := observability.StartStoreSpan(ctx, r.backend, "load")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackStore(r.backend, "load", &err)()

	var rec models.DocumentRecord
	err = r.db.WithContext(ctx).First(&rec, models.DocumentRecordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		doc = r.seed()
		if err = r.upsert(ctx, doc); err != nil {
			return nil, err
		}
		r.logger.LogSeed(ctx)
		return doc, nil
	}
	if err != nil {
		r.logger.LogError(ctx, err, "load")
		return nil, fmt.Errorf("load document: %w", err)
	}

	doc, err = models.DecodeDocument(rec.Body)
	if err != nil {
		r.logger.LogError(ctx, err, "load")
		return nil, models.NewInternalError(fmt.Errorf("stored document is unreadable: %w", err))
	}
	return doc, nil
}

func (r *gormDocumentRepository) Save(ctx context.Context, doc *models.Document) (err error) {
	ctx, span := observability.StartStoreSpan(ctx, r.backend, "save")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackStore(r.backend, "save", &err)()

	return r.upsert(ctx, doc)
}

func (r *gormDocumentRepository) upsert(ctx context.Context, doc *models.Document) error {
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return err
	}

	rec := models.DocumentRecord{
		ID:        models.DocumentRecordID,
		Body:      data,
		UpdatedAt: time.Now().UTC(),
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		r.logger.LogError(ctx, err, "save")
		return fmt.Errorf("save document: %w", err)
	}

	r.logger.LogSave(ctx, len(data))
	return nil
}
