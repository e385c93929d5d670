package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vc7day/internal/models"
	"vc7day/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo keeps the document encoded so every Load hands out an
// independent copy, like the real stores do.
type memoryRepo struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func newMemoryRepo(t *testing.T, doc *models.Document) *memoryRepo {
	t.Helper()
	data, err := models.EncodeDocument(doc)
	require.NoError(t, err)
	return &memoryRepo{data: data}
}

func (r *memoryRepo) Load(_ context.Context) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.DecodeDocument(r.data)
}

func (r *memoryRepo) Save(_ context.Context, doc *models.Document) error {
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = data
	r.saves++
	return nil
}

func (r *memoryRepo) current(t *testing.T) *models.Document {
	t.Helper()
	doc, err := r.Load(context.Background())
	require.NoError(t, err)
	return doc
}

// docRepoStub is a stub for repository.DocumentRepository.
type docRepoStub struct {
	loadFn func(context.Context) (*models.Document, error)
	saveFn func(context.Context, *models.Document) error
}

func (s *docRepoStub) Load(ctx context.Context) (*models.Document, error) {
	return s.loadFn(ctx)
}
func (s *docRepoStub) Save(ctx context.Context, doc *models.Document) error {
	return s.saveFn(ctx, doc)
}

// publisherStub records published counter events.
type publisherStub struct {
	events []notifications.CounterEvent
	err    error
}

func (p *publisherStub) PublishCounters(_ context.Context, event notifications.CounterEvent) error {
	p.events = append(p.events, event)
	return p.err
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func ts(daysAgo int) models.Timestamp {
	return models.NewTimestamp(fixedNow.AddDate(0, 0, -daysAgo))
}

func intPtr(v int) *int { return &v }

// catalogDocument returns a small catalog: videos 1 and 2 in category 3,
// video 3 in category 4, playlist 1 holding [3, 1].
func catalogDocument() *models.Document {
	doc := models.NewDocument()
	doc.Categories = []models.Category{
		{ID: 3, Name: "Educación", Icon: "📚", CreatedAt: ts(30)},
		{ID: 4, Name: "Tecnología", Icon: "💻", CreatedAt: ts(30)},
		{ID: 5, Name: "Deportes", Icon: "⚽", CreatedAt: ts(30)},
	}
	doc.Playlists = []models.Playlist{
		{ID: 1, Name: "Tutoriales de Python", Description: "Aprende Python", CategoryID: 3, Videos: []int{3, 1}, CreatedAt: ts(10)},
	}
	doc.Videos = []models.Video{
		{ID: 1, Title: "Intro a Python", Description: "primer video", CategoryID: 3, PlaylistID: intPtr(1), Views: 10, Likes: 1, RelatedVideos: []int{}, CreatedAt: ts(3)},
		{ID: 2, Title: "Variables", Description: "segundo video", CategoryID: 3, Views: 50, Likes: 2, RelatedVideos: []int{}, CreatedAt: ts(2)},
		{ID: 3, Title: "Go vs Python", Description: "comparativa", CategoryID: 4, PlaylistID: intPtr(1), Views: 5, Likes: 3, RelatedVideos: []int{}, CreatedAt: ts(1)},
	}
	doc.Settings = models.Settings{RelatedVideosCount: 2, AutoRelated: true, DefaultRelatedStrategy: models.StrategyPopular}
	return doc
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func videoIDs(videos []models.Video) []int {
	ids := make([]int, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	return ids
}
