package seed

import (
	"fmt"
	"time"

	"vc7day/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var sampleClips = []string{
	"BigBuckBunny",
	"ElephantsDream",
	"ForBiggerBlazes",
	"ForBiggerEscapes",
	"ForBiggerFun",
	"ForBiggerJoyrides",
	"ForBiggerMeltdowns",
	"Sintel",
	"SubaruOutbackOnStreetAndDirt",
	"TearsOfSteel",
}

// DemoOptions sizes a generated demo catalog.
type DemoOptions struct {
	Categories int
	Playlists  int
	Videos     int
	// MaxDays spreads created_at over the last MaxDays days.
	MaxDays int
	// Seed makes generation reproducible. Zero picks a time-based seed.
	Seed int64
}

// DefaultDemoOptions returns a medium-sized demo catalog.
func DefaultDemoOptions() DemoOptions {
	return DemoOptions{Categories: 6, Playlists: 8, Videos: 40, MaxDays: 90}
}

// Factory builds fake catalog entities.
type Factory struct {
	faker *gofakeit.Faker
	opts  DemoOptions
	now   time.Time
}

// NewFactory creates a Factory for opts.
func NewFactory(opts DemoOptions) *Factory {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Factory{faker: gofakeit.New(seed), opts: opts, now: time.Now().UTC()}
}

// Document generates a whole catalog. Every video references an existing
// category, playlists only list existing videos and related lists never
// include the video itself.
func (f *Factory) Document() *models.Document {
	doc := models.NewDocument()
	doc.Settings = models.DefaultSettings()

	for i := 1; i <= max(f.opts.Categories, 1); i++ {
		doc.Categories = append(doc.Categories, f.Category(i))
	}

	for i := 1; i <= f.opts.Videos; i++ {
		category := doc.Categories[f.faker.Number(0, len(doc.Categories)-1)]
		doc.Videos = append(doc.Videos, f.Video(i, category.ID))
	}

	for i := 1; i <= f.opts.Playlists; i++ {
		category := doc.Categories[f.faker.Number(0, len(doc.Categories)-1)]
		playlist := f.Playlist(i, category.ID)
		for _, v := range doc.Videos {
			if v.CategoryID == category.ID && len(playlist.Videos) < 12 {
				playlist.Videos = append(playlist.Videos, v.ID)
			}
		}
		doc.Playlists = append(doc.Playlists, playlist)
	}

	for i := range doc.Videos {
		v := &doc.Videos[i]
		for _, p := range doc.Playlists {
			if containsID(p.Videos, v.ID) {
				id := p.ID
				v.PlaylistID = &id
				break
			}
		}
		v.RelatedVideos = f.relatedIDs(v.ID, len(doc.Videos))
	}

	doc.Normalize()
	return doc
}

// Category builds one category.
func (f *Factory) Category(id int) models.Category {
	return models.Category{
		ID:        id,
		Name:      f.faker.HipsterWord(),
		Icon:      f.faker.Emoji(),
		CreatedAt: f.createdAt(),
	}
}

// Playlist builds one playlist without videos.
func (f *Factory) Playlist(id, categoryID int) models.Playlist {
	clip := sampleClips[f.faker.Number(0, len(sampleClips)-1)]
	return models.Playlist{
		ID:          id,
		Name:        f.faker.Sentence(3),
		Description: f.faker.Sentence(12),
		CategoryID:  categoryID,
		Videos:      []int{},
		Thumbnail:   sampleBucket + "images/" + clip + ".jpg",
		CreatedAt:   f.createdAt(),
	}
}

// Video builds one video with random counters.
func (f *Factory) Video(id, categoryID int) models.Video {
	clip := sampleClips[f.faker.Number(0, len(sampleClips)-1)]
	views := f.faker.Number(0, 50000)
	return models.Video{
		ID:            id,
		Title:         fmt.Sprintf("%s - %s", f.faker.HipsterWord(), f.faker.Sentence(6)),
		Description:   f.faker.Paragraph(1, 3, 12, " "),
		VideoURL:      sampleBucket + clip + ".mp4",
		Thumbnail:     sampleBucket + "images/" + clip + ".jpg",
		CategoryID:    categoryID,
		Views:         views,
		Likes:         f.faker.Number(0, views/10+1),
		RelatedVideos: []int{},
		CreatedAt:     f.createdAt(),
	}
}

func (f *Factory) createdAt() models.Timestamp {
	back := time.Duration(f.faker.Number(0, f.opts.MaxDays*24*60)) * time.Minute
	return models.NewTimestamp(f.now.Add(-back).Truncate(time.Second))
}

func (f *Factory) relatedIDs(self, total int) []int {
	ids := []int{}
	if total < 2 {
		return ids
	}
	for n := f.faker.Number(0, 3); n > 0; n-- {
		id := f.faker.Number(1, total)
		if id != self && !containsID(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
