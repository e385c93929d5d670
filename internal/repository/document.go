// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"vc7day/internal/models"
)

// DocumentRepository loads and saves the whole catalog document.
//
// Every mutation is load-mutate-save with no locking: concurrent writers race
// and the last Save wins. Save must be atomic from a reader's point of view,
// so Load never observes a partially written document.
type DocumentRepository interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
}

// Seeder returns the document written when the store is empty.
type Seeder func() *models.Document
