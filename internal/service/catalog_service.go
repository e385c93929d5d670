package service

import (
	"context"
	"log/slog"

	"vc7day/internal/catalog"
	"vc7day/internal/models"
	"vc7day/internal/notifications"
	"vc7day/internal/observability"
	"vc7day/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// CounterPublisher pushes live counter events to subscribers.
type CounterPublisher interface {
	PublishCounters(ctx context.Context, event notifications.CounterEvent) error
}

// CatalogService serves the public, read-mostly side of the catalog.
type CatalogService struct {
	repo      repository.DocumentRepository
	publisher CounterPublisher
}

// HomeView is the home feed: every category and playlist, videos newest first.
type HomeView struct {
	Categories []models.Category `json:"categories"`
	Videos     []models.Video    `json:"videos"`
	Playlists  []models.Playlist `json:"playlists"`
}

// CategorySummary is a category with the number of videos filed under it.
type CategorySummary struct {
	models.Category
	VideosCount int `json:"videos_count"`
}

// CategoryView is one category with its videos and playlists.
type CategoryView struct {
	Category   models.Category   `json:"category"`
	Categories []models.Category `json:"categories"`
	Videos     []models.Video    `json:"videos"`
	Playlists  []models.Playlist `json:"playlists"`
}

// PlaylistView is one playlist with its videos in playlist order.
type PlaylistView struct {
	Playlist models.Playlist  `json:"playlist"`
	Category *models.Category `json:"category"`
	Videos   []models.Video   `json:"videos"`
}

// WatchView is what a viewer sees after opening a video.
type WatchView struct {
	Video    models.Video     `json:"video"`
	Category *models.Category `json:"category"`
	Playlist *models.Playlist `json:"playlist"`
	Related  []models.Video   `json:"related_videos"`
}

// SearchResult holds the matches for a search query.
type SearchResult struct {
	Query     string            `json:"query"`
	Videos    []models.Video    `json:"videos"`
	Playlists []models.Playlist `json:"playlists"`
}

// NewCatalogService creates a CatalogService. publisher may be nil.
func NewCatalogService(repo repository.DocumentRepository, publisher CounterPublisher) *CatalogService {
	return &CatalogService{repo: repo, publisher: publisher}
}

func (s *CatalogService) Home(ctx context.Context) (*HomeView, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &HomeView{
		Categories: doc.Categories,
		Videos:     catalog.SortByCreatedDesc(doc.Videos),
		Playlists:  doc.Playlists,
	}, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]CategorySummary, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CategorySummary, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		out = append(out, CategorySummary{Category: c, VideosCount: catalog.CountByCategory(doc.Videos, c.ID)})
	}
	return out, nil
}

func (s *CatalogService) Category(ctx context.Context, id int) (*CategoryView, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	category, ok := catalog.ByID(doc.Categories, id)
	if !ok {
		return nil, models.NewNotFoundError("Category", id)
	}
	return &CategoryView{
		Category:   category,
		Categories: doc.Categories,
		Videos:     catalog.ByCategory(doc.Videos, id),
		Playlists:  catalog.ByCategory(doc.Playlists, id),
	}, nil
}

func (s *CatalogService) Playlist(ctx context.Context, id int) (*PlaylistView, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	playlist, ok := catalog.ByID(doc.Playlists, id)
	if !ok {
		return nil, models.NewNotFoundError("Playlist", id)
	}
	view := &PlaylistView{
		Playlist: playlist,
		Videos:   catalog.ByPlaylist(doc.Videos, playlist),
	}
	if category, ok := catalog.ByID(doc.Categories, playlist.CategoryID); ok {
		view.Category = &category
	}
	return view, nil
}

// Watch records a view on the video, persists the document and returns the
// video together with its related list computed on the updated catalog.
func (s *CatalogService) Watch(ctx context.Context, id int) (view *WatchView, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "catalog", "Watch", attribute.Int("video.id", id))
	defer func() { observability.EndSpan(span, err) }()

	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := videoIndex(doc.Videos, id)
	if idx < 0 {
		return nil, models.NewNotFoundError("Video", id)
	}

	doc.Videos[idx].Views++
	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, err
	}
	observability.VideoViews.Inc()

	video := doc.Videos[idx]
	s.publish(ctx, notifications.CounterEvent{
		Type:    notifications.EventCounters,
		VideoID: video.ID,
		Views:   video.Views,
		Likes:   video.Likes,
	})

	view = &WatchView{
		Video:   video,
		Related: catalog.SelectRelated(video, doc.Videos, doc.Settings),
	}
	if category, ok := catalog.ByID(doc.Categories, video.CategoryID); ok {
		view.Category = &category
	}
	if video.PlaylistID != nil {
		if playlist, ok := catalog.ByID(doc.Playlists, *video.PlaylistID); ok {
			view.Playlist = &playlist
		}
	}
	return view, nil
}

// Like adds one like to the video and returns the new count.
func (s *CatalogService) Like(ctx context.Context, id int) (likes int, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "catalog", "Like", attribute.Int("video.id", id))
	defer func() { observability.EndSpan(span, err) }()

	doc, err := s.repo.Load(ctx)
	if err != nil {
		return 0, err
	}
	idx := videoIndex(doc.Videos, id)
	if idx < 0 {
		return 0, models.NewNotFoundError("Video", id)
	}

	doc.Videos[idx].Likes++
	if err := s.repo.Save(ctx, doc); err != nil {
		return 0, err
	}
	observability.VideoLikes.Inc()

	video := doc.Videos[idx]
	s.publish(ctx, notifications.CounterEvent{
		Type:    notifications.EventCounters,
		VideoID: video.ID,
		Views:   video.Views,
		Likes:   video.Likes,
	})
	return video.Likes, nil
}

func (s *CatalogService) Search(ctx context.Context, query string) (*SearchResult, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	videos, playlists := catalog.Search(doc.Videos, doc.Playlists, query)
	return &SearchResult{Query: query, Videos: videos, Playlists: playlists}, nil
}

func (s *CatalogService) SuggestVideos(ctx context.Context, query string) ([]catalog.VideoSuggestion, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.SuggestVideos(doc.Videos, query), nil
}

func (s *CatalogService) SuggestPlaylists(ctx context.Context, query string) ([]catalog.PlaylistSuggestion, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.SuggestPlaylists(doc.Playlists, query), nil
}

// publish is best effort: a failed notification never fails the request.
func (s *CatalogService) publish(ctx context.Context, event notifications.CounterEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishCounters(ctx, event); err != nil {
		slog.WarnContext(ctx, "Failed to publish counter event",
			slog.Int("video_id", event.VideoID),
			slog.String("type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}

func videoIndex(videos []models.Video, id int) int {
	for i := range videos {
		if videos[i].ID == id {
			return i
		}
	}
	return -1
}
