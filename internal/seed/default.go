// Package seed provides the built-in catalog written to an empty store and
// a generator for larger demo catalogs.
package seed

import (
	"vc7day/internal/models"
)

const sampleBucket = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/"

// DefaultDocument returns the catalog a fresh store starts with: five
// categories, two playlists and three sample videos.
func DefaultDocument() *models.Document {
	now := models.Now()
	one, two := 1, 2

	doc := &models.Document{
		Categories: []models.Category{
			{ID: 1, Name: "Música", Icon: "🎵", CreatedAt: now},
			{ID: 2, Name: "Gaming", Icon: "🎮", CreatedAt: now},
			{ID: 3, Name: "Educación", Icon: "📚", CreatedAt: now},
			{ID: 4, Name: "Tecnología", Icon: "💻", CreatedAt: now},
			{ID: 5, Name: "Deportes", Icon: "⚽", CreatedAt: now},
		},
		Playlists: []models.Playlist{
			{
				ID:          1,
				Name:        "Tutoriales de Python",
				Description: "Aprende Python desde cero hasta avanzado",
				CategoryID:  3,
				Videos:      []int{1, 3},
				Thumbnail:   sampleBucket + "images/ForBiggerBlazes.jpg",
				CreatedAt:   now,
			},
			{
				ID:          2,
				Name:        "Música Relajante",
				Description: "Las mejores melodías para estudiar y relajarse",
				CategoryID:  1,
				Videos:      []int{2},
				Thumbnail:   sampleBucket + "images/ElephantsDream.jpg",
				CreatedAt:   now,
			},
		},
		Videos: []models.Video{
			{
				ID:            1,
				Title:         "Bienvenido a VC7Day - La mejor plataforma de videos online para toda la familia",
				Description:   "La mejor plataforma de videos online con contenido variado y de calidad para todos los gustos",
				VideoURL:      sampleBucket + "BigBuckBunny.mp4",
				Thumbnail:     sampleBucket + "images/BigBuckBunny.jpg",
				CategoryID:    3,
				PlaylistID:    &one,
				Views:         150,
				Likes:         45,
				RelatedVideos: []int{2, 3},
				CreatedAt:     now,
			},
			{
				ID:            2,
				Title:         "Música Relajante - Las mejores melodías para relajarse después del trabajo",
				Description:   "Las mejores melodías para relajarse y meditar. Perfecto para momentos de tranquilidad.",
				VideoURL:      sampleBucket + "ElephantsDream.mp4",
				Thumbnail:     sampleBucket + "images/ElephantsDream.jpg",
				CategoryID:    1,
				PlaylistID:    &two,
				Views:         89,
				Likes:         23,
				RelatedVideos: []int{1},
				CreatedAt:     now,
			},
			{
				ID:            3,
				Title:         "Tutorial de Python Completo - Aprende Python desde cero hasta nivel avanzado",
				Description:   "Aprende Python desde cero con este tutorial completo que cubre todos los aspectos del lenguaje",
				VideoURL:      sampleBucket + "ForBiggerBlazes.mp4",
				Thumbnail:     sampleBucket + "images/ForBiggerBlazes.jpg",
				CategoryID:    4,
				PlaylistID:    &one,
				Views:         234,
				Likes:         67,
				RelatedVideos: []int{1, 2},
				CreatedAt:     now,
			},
		},
		Settings: models.DefaultSettings(),
	}
	doc.Normalize()
	return doc
}
