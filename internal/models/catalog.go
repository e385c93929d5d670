// Package models contains data structures for the catalog's domain models.
package models

// Identifiable is implemented by every entity stored in a Document collection.
type Identifiable interface {
	GetID() int
}

// Categorized is implemented by entities that belong to a Category.
type Categorized interface {
	GetCategoryID() int
}

// Category groups videos and playlists.
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Icon      string    `json:"icon"`
	CreatedAt Timestamp `json:"created_at"`
}

func (c Category) GetID() int { return c.ID }

// Playlist is an ordered list of video ids. The list may hold duplicates and
// ids of videos that no longer exist.
type Playlist struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CategoryID  int       `json:"category_id"`
	Videos      []int     `json:"videos"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedAt   Timestamp `json:"created_at"`
}

func (p Playlist) GetID() int         { return p.ID }
func (p Playlist) GetCategoryID() int { return p.CategoryID }

// Video is a single catalog entry. RelatedVideos is manually curated and,
// like Playlist.Videos, may reference deleted videos.
type Video struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	VideoURL      string    `json:"video_url"`
	Thumbnail     string    `json:"thumbnail"`
	CategoryID    int       `json:"category_id"`
	PlaylistID    *int      `json:"playlist_id"`
	Views         int       `json:"views"`
	Likes         int       `json:"likes"`
	RelatedVideos []int     `json:"related_videos"`
	CreatedAt     Timestamp `json:"created_at"`
}

func (v Video) GetID() int         { return v.ID }
func (v Video) GetCategoryID() int { return v.CategoryID }

// NextID returns max(existing ids)+1, or 1 for an empty collection.
func NextID[T Identifiable](items []T) int {
	maxID := 0
	for _, item := range items {
		if id := item.GetID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}
