package repository

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"vc7day/internal/database"
	"vc7day/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

func setupSQLiteDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "catalog.db")), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

const selectDocumentSQL = `SELECT * FROM "catalog_documents" WHERE "catalog_documents"."id" = $1 ORDER BY "catalog_documents"."id" LIMIT $2`

func TestGormDocumentRepository_LoadFromRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGormDocumentRepository(db, nil)

	body := `{"categories":[{"id":4,"name":"Tecnología","icon":"💻","created_at":null}],"playlists":[],"videos":[],"settings":{"related_videos_count":2,"auto_related":true,"default_related_strategy":"recent"}}`
	mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
		WithArgs(models.DocumentRecordID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body"}).AddRow(1, []byte(body)))

	doc, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.Categories, 1)
	assert.Equal(t, "Tecnología", doc.Categories[0].Name)
	assert.Equal(t, models.StrategyRecent, doc.Settings.DefaultRelatedStrategy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDocumentRepository_LoadErrors(t *testing.T) {
	tests := []struct {
		name         string
		mockBehavior func(mock sqlmock.Sqlmock)
	}{
		{
			name: "query failure",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
					WillReturnError(errors.New("connection reset"))
			},
		},
		{
			name: "corrupt body",
			mockBehavior: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(selectDocumentSQL)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "body"}).AddRow(1, []byte(`[]`)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			tt.mockBehavior(mock)

			doc, err := NewGormDocumentRepository(db, nil).Load(context.Background())
			assert.Nil(t, doc)
			assert.Error(t, err)
			assert.Equal(t, 500, models.StatusFor(err))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormDocumentRepository_SeedSaveLoad(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormDocumentRepository(db, seededDocument)
	ctx := context.Background()

	doc, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Videos, 1)

	var count int64
	require.NoError(t, db.Model(&models.DocumentRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	doc.Videos[0].Likes = 42
	require.NoError(t, repo.Save(ctx, doc))
	require.NoError(t, repo.Save(ctx, doc))

	require.NoError(t, db.Model(&models.DocumentRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "saves must update the single row")

	reloaded, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, reloaded.Videos[0].Likes)
}
