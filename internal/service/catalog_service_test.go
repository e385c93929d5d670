package service

import (
	"context"
	"errors"
	"testing"

	"vc7day/internal/models"
	"vc7day/internal/notifications"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Watch(t *testing.T) {
	repo := newMemoryRepo(t, catalogDocument())
	pub := &publisherStub{}
	svc := NewCatalogService(repo, pub)

	view, err := svc.Watch(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 11, view.Video.Views)
	assert.Equal(t, []int{2, 3}, videoIDs(view.Related), "popular order, video 2 first")
	require.NotNil(t, view.Category)
	assert.Equal(t, "Educación", view.Category.Name)
	require.NotNil(t, view.Playlist)
	assert.Equal(t, 1, view.Playlist.ID)

	stored := repo.current(t)
	assert.Equal(t, 11, stored.Videos[0].Views)
	assert.Equal(t, 1, repo.saves)

	require.Len(t, pub.events, 1)
	assert.Equal(t, notifications.CounterEvent{Type: notifications.EventCounters, VideoID: 1, Views: 11, Likes: 1}, pub.events[0])
}

func TestCatalogService_WatchCategoryStrategy(t *testing.T) {
	doc := catalogDocument()
	doc.Settings.DefaultRelatedStrategy = models.StrategyCategory
	svc := NewCatalogService(newMemoryRepo(t, doc), nil)

	view, err := svc.Watch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, videoIDs(view.Related))
}

func TestCatalogService_WatchSeesIncrementedViews(t *testing.T) {
	doc := catalogDocument()
	doc.Settings = models.Settings{RelatedVideosCount: 1, AutoRelated: true, DefaultRelatedStrategy: models.StrategyPopular}
	doc.Videos[2].Views = 50
	svc := NewCatalogService(newMemoryRepo(t, doc), nil)

	// Video 3 now has 51 views and beats video 2 when watching video 1.
	_, err := svc.Watch(context.Background(), 3)
	require.NoError(t, err)
	view, err := svc.Watch(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, videoIDs(view.Related))
}

func TestCatalogService_WatchErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo := newMemoryRepo(t, catalogDocument())
		svc := NewCatalogService(repo, nil)

		_, err := svc.Watch(context.Background(), 99)
		assertCode(t, err, models.CodeNotFound)
		assert.Zero(t, repo.saves)
	})

	t.Run("save failure is returned and nothing is published", func(t *testing.T) {
		pub := &publisherStub{}
		svc := NewCatalogService(&docRepoStub{
			loadFn: func(context.Context) (*models.Document, error) { return catalogDocument(), nil },
			saveFn: func(context.Context, *models.Document) error { return errors.New("disk full") },
		}, pub)

		_, err := svc.Watch(context.Background(), 1)
		require.Error(t, err)
		assert.Empty(t, pub.events)
	})

	t.Run("load failure is returned", func(t *testing.T) {
		svc := NewCatalogService(&docRepoStub{
			loadFn: func(context.Context) (*models.Document, error) { return nil, models.NewInternalError(errors.New("boom")) },
		}, nil)

		_, err := svc.Watch(context.Background(), 1)
		assertCode(t, err, models.CodeInternal)
	})
}

func TestCatalogService_Like(t *testing.T) {
	repo := newMemoryRepo(t, catalogDocument())
	pub := &publisherStub{err: errors.New("redis down")}
	svc := NewCatalogService(repo, pub)

	likes, err := svc.Like(context.Background(), 3)
	require.NoError(t, err, "publish failures must not fail the like")
	assert.Equal(t, 4, likes)
	assert.Equal(t, 4, repo.current(t).Videos[2].Likes)
	require.Len(t, pub.events, 1)
	assert.Equal(t, 4, pub.events[0].Likes)

	_, err = svc.Like(context.Background(), 42)
	assertCode(t, err, models.CodeNotFound)
}

func TestCatalogService_Home(t *testing.T) {
	svc := NewCatalogService(newMemoryRepo(t, catalogDocument()), nil)

	home, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1}, videoIDs(home.Videos), "newest first")
	assert.Len(t, home.Categories, 3)
	assert.Len(t, home.Playlists, 1)
}

func TestCatalogService_Categories(t *testing.T) {
	svc := NewCatalogService(newMemoryRepo(t, catalogDocument()), nil)

	summaries, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, 2, summaries[0].VideosCount)
	assert.Equal(t, 1, summaries[1].VideosCount)
	assert.Equal(t, 0, summaries[2].VideosCount)
}

func TestCatalogService_Category(t *testing.T) {
	svc := NewCatalogService(newMemoryRepo(t, catalogDocument()), nil)

	view, err := svc.Category(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, videoIDs(view.Videos))
	require.Len(t, view.Playlists, 1)

	_, err = svc.Category(context.Background(), 77)
	assertCode(t, err, models.CodeNotFound)
}

func TestCatalogService_Playlist(t *testing.T) {
	doc := catalogDocument()
	doc.Playlists[0].Videos = []int{3, 99, 1}
	svc := NewCatalogService(newMemoryRepo(t, doc), nil)

	view, err := svc.Playlist(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, videoIDs(view.Videos), "playlist order, dangling id skipped")
	require.NotNil(t, view.Category)
	assert.Equal(t, 3, view.Category.ID)

	_, err = svc.Playlist(context.Background(), 2)
	assertCode(t, err, models.CodeNotFound)
}

func TestCatalogService_Search(t *testing.T) {
	svc := NewCatalogService(newMemoryRepo(t, catalogDocument()), nil)
	ctx := context.Background()

	tests := []struct {
		name          string
		query         string
		wantVideos    []int
		wantPlaylists int
	}{
		{name: "title match", query: "python", wantVideos: []int{1, 3}, wantPlaylists: 1},
		{name: "description match", query: "SEGUNDO", wantVideos: []int{2}, wantPlaylists: 0},
		{name: "empty query matches nothing", query: "", wantVideos: []int{}, wantPlaylists: 0},
		{name: "no match", query: "rust", wantVideos: []int{}, wantPlaylists: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.query, res.Query)
			assert.Equal(t, tt.wantVideos, videoIDs(res.Videos))
			assert.Len(t, res.Playlists, tt.wantPlaylists)
		})
	}
}

func TestCatalogService_Suggestions(t *testing.T) {
	svc := NewCatalogService(newMemoryRepo(t, catalogDocument()), nil)
	ctx := context.Background()

	videos, err := svc.SuggestVideos(ctx, "python")
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "Intro a Python", videos[0].Title)

	playlists, err := svc.SuggestPlaylists(ctx, "tutoriales")
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, 1, playlists[0].ID)

	empty, err := svc.SuggestPlaylists(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
