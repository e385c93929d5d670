package catalog

import (
	"sort"
	"strings"

	"vc7day/internal/models"
)

// SuggestionLimit caps autocomplete results.
const SuggestionLimit = 10

// VideoSuggestion is an autocomplete entry for a video.
type VideoSuggestion struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// PlaylistSuggestion is an autocomplete entry for a playlist.
type PlaylistSuggestion struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ByID returns the first item with the given id.
func ByID[T models.Identifiable](items []T, id int) (T, bool) {
	for _, item := range items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// ByCategory filters items to those in categoryID, preserving order.
func ByCategory[T models.Categorized](items []T, categoryID int) []T {
	out := make([]T, 0)
	for _, item := range items {
		if item.GetCategoryID() == categoryID {
			out = append(out, item)
		}
	}
	return out
}

// ByPlaylist resolves playlist.Videos against videos in playlist order.
// Ids with no matching video are skipped; repeated ids are kept.
func ByPlaylist(videos []models.Video, playlist models.Playlist) []models.Video {
	out := make([]models.Video, 0, len(playlist.Videos))
	for _, id := range playlist.Videos {
		if v, ok := ByID(videos, id); ok {
			out = append(out, v)
		}
	}
	return out
}

// ResolveVideos maps ids to videos in the given order, skipping unknown ids.
func ResolveVideos(videos []models.Video, ids []int) []models.Video {
	return ByPlaylist(videos, models.Playlist{Videos: ids})
}

// Search matches query case-insensitively against video title/description and
// playlist name/description. An empty query matches nothing; whitespace is
// matched literally.
func Search(videos []models.Video, playlists []models.Playlist, query string) ([]models.Video, []models.Playlist) {
	foundVideos := make([]models.Video, 0)
	foundPlaylists := make([]models.Playlist, 0)

	q := strings.ToLower(query)
	if q == "" {
		return foundVideos, foundPlaylists
	}

	for _, v := range videos {
		if contains(v.Title, q) || contains(v.Description, q) {
			foundVideos = append(foundVideos, v)
		}
	}
	for _, p := range playlists {
		if contains(p.Name, q) || contains(p.Description, q) {
			foundPlaylists = append(foundPlaylists, p)
		}
	}
	return foundVideos, foundPlaylists
}

// SuggestVideos returns up to SuggestionLimit videos whose title contains query.
func SuggestVideos(videos []models.Video, query string) []VideoSuggestion {
	out := make([]VideoSuggestion, 0)
	q := strings.ToLower(query)
	if q == "" {
		return out
	}
	for _, v := range videos {
		if len(out) == SuggestionLimit {
			break
		}
		if contains(v.Title, q) {
			out = append(out, VideoSuggestion{ID: v.ID, Title: v.Title})
		}
	}
	return out
}

// SuggestPlaylists returns up to SuggestionLimit playlists whose name contains query.
func SuggestPlaylists(playlists []models.Playlist, query string) []PlaylistSuggestion {
	out := make([]PlaylistSuggestion, 0)
	q := strings.ToLower(query)
	if q == "" {
		return out
	}
	for _, p := range playlists {
		if len(out) == SuggestionLimit {
			break
		}
		if contains(p.Name, q) {
			out = append(out, PlaylistSuggestion{ID: p.ID, Name: p.Name})
		}
	}
	return out
}

// SortByCreatedDesc returns a copy of videos, newest first. Equal timestamps
// keep their original order.
func SortByCreatedDesc(videos []models.Video) []models.Video {
	out := make([]models.Video, len(videos))
	copy(out, videos)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt.Time)
	})
	return out
}

// CountByCategory counts videos referencing categoryID.
func CountByCategory(videos []models.Video, categoryID int) int {
	n := 0
	for _, v := range videos {
		if v.CategoryID == categoryID {
			n++
		}
	}
	return n
}

func contains(field, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(field), lowerQuery)
}
