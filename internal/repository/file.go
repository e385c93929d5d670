package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"vc7day/internal/models"
	"vc7day/internal/observability"
)

const fileBackend = "file"

// fileDocumentRepository stores the document as a JSON file.
type fileDocumentRepository struct {
	path   string
	seed   Seeder
	logger *observability.StoreLogger
}

// NewFileDocumentRepository creates a repository backed by the JSON file at
// path. A missing file is created from seed on first Load.
func NewFileDocumentRepository(path string, seed Seeder) DocumentRepository {
	if seed == nil {
		seed = models.NewDocument
	}
	return &fileDocumentRepository{
		path:   path,
		seed:   seed,
		logger: observability.NewStoreLogger(fileBackend, nil),
	}
}

func (r *fileDocumentRepository) Load(ctx context.Context) (doc *models.Document, err error) {
	ctx, span := observability.StartStoreSpan(ctx, fileBackend, "load")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackStore(fileBackend, "load", &err)()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		doc = r.seed()
		if err = r.write(ctx, doc); err != nil {
			return nil, err
		}
		r.logger.LogSeed(ctx)
		return doc, nil
	}
	if err != nil {
		r.logger.LogError(ctx, err, "load")
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}

	doc, err = models.DecodeDocument(data)
	if err != nil {
		r.logger.LogError(ctx, err, "load")
		return nil, models.NewInternalError(fmt.Errorf("stored document %s is unreadable: %w", r.path, err))
	}
	return doc, nil
}

func (r *fileDocumentRepository) Save(ctx context.Context, doc *models.Document) (err error) {
	ctx, span := observability.StartStoreSpan(ctx, fileBackend, "save")
	defer func() { observability.EndSpan(span, err) }()
	defer observability.TrackStore(fileBackend, "save", &err)()

	return r.write(ctx, doc)
}

// write replaces the file atomically: the document goes to a temp file in the
// same directory which is then renamed over the target.
func (r *fileDocumentRepository) write(ctx context.Context, doc *models.Document) error {
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		r.logger.LogError(ctx, err, "save")
		return fmt.Errorf("replace %s: %w", r.path, err)
	}

	r.logger.LogSave(ctx, len(data))
	return nil
}
