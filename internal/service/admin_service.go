package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vc7day/internal/catalog"
	"vc7day/internal/featureflags"
	"vc7day/internal/models"
	"vc7day/internal/notifications"
	"vc7day/internal/observability"
	"vc7day/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// Fallback labels shown for dangling or absent references in admin listings.
const (
	NoCategoryLabel = "Sin categoría"
	NoPlaylistLabel = "Sin playlist"
)

// AdminService implements the admin-only mutations. Every mutation loads the
// whole document, changes one collection and saves the whole document back.
type AdminService struct {
	repo      repository.DocumentRepository
	flags     *featureflags.Manager
	publisher CounterPublisher
	now       func() time.Time
}

// SettingsInput carries the related-video settings form.
type SettingsInput struct {
	RelatedVideosCount     int    `json:"related_videos_count" validate:"gt=0,lte=50"`
	AutoRelated            bool   `json:"auto_related"`
	DefaultRelatedStrategy string `json:"default_related_strategy" validate:"required,oneof=category recent popular"`
}

// CategoryInput carries the new-category form.
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Icon string `json:"icon" validate:"max=32"`
}

// PlaylistInput carries the playlist form. Videos is the raw comma-separated
// id list.
type PlaylistInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	CategoryID  int    `json:"category_id" validate:"gt=0"`
	Thumbnail   string `json:"thumbnail" validate:"max=2048"`
	Videos      string `json:"videos"`
}

// VideoInput carries the video form. RelatedVideos is the raw comma-separated
// id list and PlaylistID the raw playlist reference ("", "None" or an id).
type VideoInput struct {
	Title         string `json:"title" validate:"required,max=300"`
	Description   string `json:"description" validate:"max=5000"`
	VideoURL      string `json:"video_url" validate:"required,max=2048"`
	Thumbnail     string `json:"thumbnail" validate:"max=2048"`
	CategoryID    int    `json:"category_id" validate:"gt=0"`
	PlaylistID    string `json:"playlist_id"`
	RelatedVideos string `json:"related_videos"`
}

// DashboardStats are the totals shown on the admin dashboard.
type DashboardStats struct {
	Categories int `json:"categories"`
	Playlists  int `json:"playlists"`
	Videos     int `json:"videos"`
	TotalViews int `json:"total_views"`
	TotalLikes int `json:"total_likes"`
}

// Dashboard is every collection plus settings and totals.
type Dashboard struct {
	Categories []models.Category `json:"categories"`
	Playlists  []models.Playlist `json:"playlists"`
	Videos     []models.Video    `json:"videos"`
	Settings   models.Settings   `json:"settings"`
	Stats      DashboardStats    `json:"stats"`
	Flags      map[string]bool   `json:"feature_flags"`
}

// AdminPlaylist is a playlist decorated for the admin listing.
type AdminPlaylist struct {
	models.Playlist
	CategoryName string        `json:"category_name"`
	VideosCount  int           `json:"videos_count"`
	FirstVideo   *models.Video `json:"first_video"`
}

// PlaylistDetail backs the playlist edit view.
type PlaylistDetail struct {
	Playlist       models.Playlist   `json:"playlist"`
	PlaylistVideos []models.Video    `json:"playlist_videos"`
	Categories     []models.Category `json:"categories"`
	Videos         []models.Video    `json:"videos"`
}

// AdminVideo is a video decorated for the admin listing.
type AdminVideo struct {
	models.Video
	CategoryName string `json:"category_name"`
	PlaylistName string `json:"playlist_name"`
}

// VideoDetail backs the video edit view.
type VideoDetail struct {
	Video         models.Video              `json:"video"`
	RelatedVideos []catalog.VideoSuggestion `json:"related_videos_info"`
	Categories    []models.Category         `json:"categories"`
	Playlists     []models.Playlist         `json:"playlists"`
	OtherVideos   []models.Video            `json:"all_videos"`
}

// NewAdminService creates an AdminService. flags and publisher may be nil.
func NewAdminService(
	repo repository.DocumentRepository,
	flags *featureflags.Manager,
	publisher CounterPublisher,
) *AdminService {
	return &AdminService{
		repo:      repo,
		flags:     flags,
		publisher: publisher,
		now:       time.Now,
	}
}

// Dashboard returns all collections with view and like totals.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	stats := DashboardStats{
		Categories: len(doc.Categories),
		Playlists:  len(doc.Playlists),
		Videos:     len(doc.Videos),
	}
	for _, v := range doc.Videos {
		stats.TotalViews += v.Views
		stats.TotalLikes += v.Likes
	}
	return &Dashboard{
		Categories: doc.Categories,
		Playlists:  doc.Playlists,
		Videos:     doc.Videos,
		Settings:   doc.Settings,
		Stats:      stats,
		Flags:      s.flags.Snapshot(),
	}, nil
}

// Settings returns the current related-video settings.
func (s *AdminService) Settings(ctx context.Context) (models.Settings, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	return doc.Settings, nil
}

// UpdateSettings validates and replaces the related-video settings.
func (s *AdminService) UpdateSettings(ctx context.Context, in SettingsInput) (models.Settings, error) {
	if err := validateInput(in); err != nil {
		return models.Settings{}, err
	}
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return models.Settings{}, err
	}
	doc.Settings = models.Settings{
		RelatedVideosCount:     in.RelatedVideosCount,
		AutoRelated:            in.AutoRelated,
		DefaultRelatedStrategy: models.RelatedStrategy(in.DefaultRelatedStrategy),
	}
	if err := s.save(ctx, doc, "settings", "update", 0); err != nil {
		return models.Settings{}, err
	}
	return doc.Settings, nil
}

// Categories lists every category in stored order.
func (s *AdminService) Categories(ctx context.Context) ([]models.Category, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Categories, nil
}

// CreateCategory appends a category with the next free id.
func (s *AdminService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	category := models.Category{
		ID:        models.NextID(doc.Categories),
		Name:      in.Name,
		Icon:      in.Icon,
		CreatedAt: s.timestamp(),
	}
	doc.Categories = append(doc.Categories, category)
	if err := s.save(ctx, doc, "category", "create", category.ID); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category. It fails with REFERENTIAL_INTEGRITY
// while any video is filed under it.
func (s *AdminService) DeleteCategory(ctx context.Context, id int) error {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if _, ok := catalog.ByID(doc.Categories, id); !ok {
		return models.NewNotFoundError("Category", id)
	}
	if n := catalog.CountByCategory(doc.Videos, id); n > 0 {
		return models.NewReferentialIntegrityError(
			fmt.Sprintf("Category %d cannot be deleted: %d video(s) still reference it", id, n))
	}

	kept := make([]models.Category, 0, len(doc.Categories))
	for _, c := range doc.Categories {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	doc.Categories = kept
	return s.save(ctx, doc, "category", "delete", id)
}

// Playlists lists playlists with their category name, video count and first video.
func (s *AdminService) Playlists(ctx context.Context) ([]AdminPlaylist, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AdminPlaylist, 0, len(doc.Playlists))
	for _, p := range doc.Playlists {
		item := AdminPlaylist{
			Playlist:     p,
			CategoryName: categoryName(doc.Categories, p.CategoryID),
			VideosCount:  len(p.Videos),
		}
		if len(p.Videos) > 0 {
			if first, ok := catalog.ByID(doc.Videos, p.Videos[0]); ok {
				item.FirstVideo = &first
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// Playlist loads one playlist for editing. Missing ids are NOT_FOUND.
func (s *AdminService) Playlist(ctx context.Context, id int) (*PlaylistDetail, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	playlist, ok := catalog.ByID(doc.Playlists, id)
	if !ok {
		return nil, models.NewNotFoundError("Playlist", id)
	}
	return &PlaylistDetail{
		Playlist:       playlist,
		PlaylistVideos: catalog.ResolveVideos(doc.Videos, playlist.Videos),
		Categories:     doc.Categories,
		Videos:         doc.Videos,
	}, nil
}

// CreatePlaylist appends a playlist built from in.
func (s *AdminService) CreatePlaylist(ctx context.Context, in PlaylistInput) (*models.Playlist, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	videos, err := s.parseIDs(in.Videos)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkCategory(doc, in.CategoryID); err != nil {
		return nil, err
	}

	playlist := models.Playlist{
		ID:          models.NextID(doc.Playlists),
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Videos:      videos,
		Thumbnail:   in.Thumbnail,
		CreatedAt:   s.timestamp(),
	}
	doc.Playlists = append(doc.Playlists, playlist)
	if err := s.save(ctx, doc, "playlist", "create", playlist.ID); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// UpdatePlaylist replaces the editable fields of playlist id.
func (s *AdminService) UpdatePlaylist(ctx context.Context, id int, in PlaylistInput) (*models.Playlist, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	videos, err := s.parseIDs(in.Videos)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := playlistIndex(doc.Playlists, id)
	if idx < 0 {
		return nil, models.NewNotFoundError("Playlist", id)
	}
	if err := checkCategory(doc, in.CategoryID); err != nil {
		return nil, err
	}

	p := &doc.Playlists[idx]
	p.Name = in.Name
	p.Description = in.Description
	p.CategoryID = in.CategoryID
	p.Thumbnail = in.Thumbnail
	p.Videos = videos
	updated := *p
	if err := s.save(ctx, doc, "playlist", "update", id); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePlaylist removes a playlist. Videos keep their playlist_id unless
// cascade deletes are enabled.
func (s *AdminService) DeletePlaylist(ctx context.Context, id int) error {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	idx := playlistIndex(doc.Playlists, id)
	if idx < 0 {
		return models.NewNotFoundError("Playlist", id)
	}
	doc.Playlists = append(doc.Playlists[:idx], doc.Playlists[idx+1:]...)

	if s.flags.Enabled(featureflags.CascadeVideoDelete) {
		for i := range doc.Videos {
			if ref := doc.Videos[i].PlaylistID; ref != nil && *ref == id {
				doc.Videos[i].PlaylistID = nil
			}
		}
	}
	return s.save(ctx, doc, "playlist", "delete", id)
}

// Videos lists videos with their category and playlist names.
func (s *AdminService) Videos(ctx context.Context) ([]AdminVideo, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AdminVideo, 0, len(doc.Videos))
	for _, v := range doc.Videos {
		out = append(out, AdminVideo{
			Video:        v,
			CategoryName: categoryName(doc.Categories, v.CategoryID),
			PlaylistName: playlistName(doc.Playlists, v.PlaylistID),
		})
	}
	return out, nil
}

// Video loads one video for editing. Missing ids are NOT_FOUND.
func (s *AdminService) Video(ctx context.Context, id int) (*VideoDetail, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	video, ok := catalog.ByID(doc.Videos, id)
	if !ok {
		return nil, models.NewNotFoundError("Video", id)
	}

	related := make([]catalog.VideoSuggestion, 0, len(video.RelatedVideos))
	for _, v := range catalog.ResolveVideos(doc.Videos, video.RelatedVideos) {
		related = append(related, catalog.VideoSuggestion{ID: v.ID, Title: v.Title})
	}
	others := make([]models.Video, 0, len(doc.Videos))
	for _, v := range doc.Videos {
		if v.ID != id {
			others = append(others, v)
		}
	}
	return &VideoDetail{
		Video:         video,
		RelatedVideos: related,
		Categories:    doc.Categories,
		Playlists:     doc.Playlists,
		OtherVideos:   others,
	}, nil
}

// CreateVideo appends a video built from in with zeroed counters.
func (s *AdminService) CreateVideo(ctx context.Context, in VideoInput) (*models.Video, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	related, playlistID, err := s.parseVideoRefs(in)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := checkVideoRefs(doc, in.CategoryID, playlistID); err != nil {
		return nil, err
	}

	video := models.Video{
		ID:            models.NextID(doc.Videos),
		Title:         in.Title,
		Description:   in.Description,
		VideoURL:      in.VideoURL,
		Thumbnail:     in.Thumbnail,
		CategoryID:    in.CategoryID,
		PlaylistID:    playlistID,
		RelatedVideos: related,
		CreatedAt:     s.timestamp(),
	}
	doc.Videos = append(doc.Videos, video)
	if err := s.save(ctx, doc, "video", "create", video.ID); err != nil {
		return nil, err
	}
	return &video, nil
}

// UpdateVideo replaces the editable fields of a video. Counters and the
// creation time are kept.
func (s *AdminService) UpdateVideo(ctx context.Context, id int, in VideoInput) (*models.Video, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	related, playlistID, err := s.parseVideoRefs(in)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := videoIndex(doc.Videos, id)
	if idx < 0 {
		return nil, models.NewNotFoundError("Video", id)
	}
	if err := checkVideoRefs(doc, in.CategoryID, playlistID); err != nil {
		return nil, err
	}

	v := &doc.Videos[idx]
	v.Title = in.Title
	v.Description = in.Description
	v.VideoURL = in.VideoURL
	v.Thumbnail = in.Thumbnail
	v.CategoryID = in.CategoryID
	v.PlaylistID = playlistID
	v.RelatedVideos = related
	updated := *v
	if err := s.save(ctx, doc, "video", "update", id); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteVideo removes a video. References to it elsewhere in the document
// are left dangling unless cascade deletes are enabled.
func (s *AdminService) DeleteVideo(ctx context.Context, id int) error {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	idx := videoIndex(doc.Videos, id)
	if idx < 0 {
		return models.NewNotFoundError("Video", id)
	}
	doc.Videos = append(doc.Videos[:idx], doc.Videos[idx+1:]...)

	if s.flags.Enabled(featureflags.CascadeVideoDelete) {
		for i := range doc.Videos {
			doc.Videos[i].RelatedVideos = withoutID(doc.Videos[i].RelatedVideos, id)
		}
		for i := range doc.Playlists {
			doc.Playlists[i].Videos = withoutID(doc.Playlists[i].Videos, id)
		}
	}
	if err := s.save(ctx, doc, "video", "delete", id); err != nil {
		return err
	}

	if s.publisher != nil {
		event := notifications.CounterEvent{Type: notifications.EventDeleted, VideoID: id}
		if err := s.publisher.PublishCounters(ctx, event); err != nil {
			slog.WarnContext(ctx, "Failed to publish video deletion",
				slog.Int("video_id", id),
				slog.String("error", err.Error()),
			)
		}
	}
	return nil
}

// Export returns the stored document in its persisted JSON form.
func (s *AdminService) Export(ctx context.Context) ([]byte, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	data, err := models.EncodeDocument(doc)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return data, nil
}

// Import replaces the whole document. Malformed input yields a PARSE_ERROR
// and the stored document is not touched.
func (s *AdminService) Import(ctx context.Context, data []byte) (doc *models.Document, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "admin", "Import", attribute.Int("document.bytes", len(data)))
	defer func() { observability.EndSpan(span, err) }()

	doc, err = models.DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, doc, "document", "import", 0); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *AdminService) save(ctx context.Context, doc *models.Document, entity, action string, id int) error {
	if err := s.repo.Save(ctx, doc); err != nil {
		return err
	}
	observability.AdminMutations.WithLabelValues(entity, action).Inc()
	slog.InfoContext(ctx, "Catalog updated",
		slog.String("entity", entity),
		slog.String("action", action),
		slog.Int("id", id),
	)
	return nil
}

func (s *AdminService) timestamp() models.Timestamp {
	return models.NewTimestamp(s.now().UTC())
}

func (s *AdminService) parseIDs(raw string) ([]int, error) {
	if s.flags.Enabled(featureflags.StrictIDLists) {
		return catalog.ParseIDListStrict(raw)
	}
	return catalog.ParseIDList(raw), nil
}

func (s *AdminService) parseVideoRefs(in VideoInput) ([]int, *int, error) {
	related, err := s.parseIDs(in.RelatedVideos)
	if err != nil {
		return nil, nil, err
	}
	playlistID, err := catalog.ParsePlaylistRef(in.PlaylistID)
	if err != nil {
		return nil, nil, err
	}
	return related, playlistID, nil
}

func checkCategory(doc *models.Document, categoryID int) error {
	if _, ok := catalog.ByID(doc.Categories, categoryID); !ok {
		return models.NewValidationError(fmt.Sprintf("category_id %d does not exist", categoryID))
	}
	return nil
}

func checkVideoRefs(doc *models.Document, categoryID int, playlistID *int) error {
	if err := checkCategory(doc, categoryID); err != nil {
		return err
	}
	if playlistID == nil {
		return nil
	}
	if _, ok := catalog.ByID(doc.Playlists, *playlistID); !ok {
		return models.NewValidationError(fmt.Sprintf("playlist_id %d does not exist", *playlistID))
	}
	return nil
}

func categoryName(categories []models.Category, id int) string {
	if c, ok := catalog.ByID(categories, id); ok {
		return c.Name
	}
	return NoCategoryLabel
}

func playlistName(playlists []models.Playlist, id *int) string {
	if id == nil {
		return NoPlaylistLabel
	}
	if p, ok := catalog.ByID(playlists, *id); ok {
		return p.Name
	}
	return NoPlaylistLabel
}

func playlistIndex(playlists []models.Playlist, id int) int {
	for i := range playlists {
		if playlists[i].ID == id {
			return i
		}
	}
	return -1
}

func withoutID(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
