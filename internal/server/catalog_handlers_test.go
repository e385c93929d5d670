package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vc7day/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHome(t *testing.T) {
	env := newTestEnv(t, "")

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/home", nil))
	require.Equal(t, http.StatusOK, status)

	var home struct {
		Categories []models.Category `json:"categories"`
		Videos     []models.Video    `json:"videos"`
		Playlists  []models.Playlist `json:"playlists"`
	}
	require.NoError(t, json.Unmarshal(body, &home))
	assert.Len(t, home.Categories, 3)
	assert.Len(t, home.Playlists, 1)
	assert.Equal(t, []int{3, 2, 1}, videoIDs(home.Videos), "newest first")
}

func TestGetCategories(t *testing.T) {
	env := newTestEnv(t, "")

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, http.StatusOK, status)

	var summaries []struct {
		ID          int `json:"id"`
		VideosCount int `json:"videos_count"`
	}
	require.NoError(t, json.Unmarshal(body, &summaries))
	require.Len(t, summaries, 3)
	assert.Equal(t, 2, summaries[0].VideosCount)
	assert.Equal(t, 1, summaries[1].VideosCount)
	assert.Equal(t, 0, summaries[2].VideosCount)
}

func TestGetCategory(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{name: "found", path: "/api/categories/1", wantStatus: http.StatusOK},
		{name: "missing", path: "/api/categories/99", wantStatus: http.StatusNotFound, wantCode: models.CodeNotFound},
		{name: "not a number", path: "/api/categories/abc", wantStatus: http.StatusBadRequest, wantCode: models.CodeValidation},
		{name: "zero", path: "/api/categories/0", wantStatus: http.StatusBadRequest, wantCode: models.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, body).Code)
			}
		})
	}

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/categories/1", nil))
	require.Equal(t, http.StatusOK, status)
	var view struct {
		Category  models.Category   `json:"category"`
		Videos    []models.Video    `json:"videos"`
		Playlists []models.Playlist `json:"playlists"`
	}
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, "Educación", view.Category.Name)
	assert.Equal(t, []int{1, 2}, videoIDs(view.Videos))
	assert.Len(t, view.Playlists, 1)
}

func TestGetPlaylist(t *testing.T) {
	env := newTestEnv(t, "")

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/playlists/1", nil))
	require.Equal(t, http.StatusOK, status)

	var view struct {
		Playlist models.Playlist  `json:"playlist"`
		Category *models.Category `json:"category"`
		Videos   []models.Video   `json:"videos"`
	}
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, []int{2, 1}, videoIDs(view.Videos), "playlist order")
	require.NotNil(t, view.Category)
	assert.Equal(t, 1, view.Category.ID)

	status, _ = env.do(t, httptest.NewRequest(http.MethodGet, "/api/playlists/7", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWatchVideo(t *testing.T) {
	env := newTestEnv(t, "")

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/videos/1", nil))
	require.Equal(t, http.StatusOK, status)

	var view struct {
		Video    models.Video     `json:"video"`
		Category *models.Category `json:"category"`
		Playlist *models.Playlist `json:"playlist"`
		Related  []models.Video   `json:"related_videos"`
	}
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, 11, view.Video.Views)
	assert.Equal(t, []int{2}, videoIDs(view.Related), "same category, self excluded")
	require.NotNil(t, view.Playlist)
	assert.Equal(t, 1, view.Playlist.ID)

	assert.Equal(t, 11, env.stored(t).Videos[0].Views, "view count is persisted")

	status, body = env.do(t, httptest.NewRequest(http.MethodGet, "/api/videos/42", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, models.CodeNotFound, decodeError(t, body).Code)
}

func TestLikeVideo(t *testing.T) {
	env := newTestEnv(t, "")

	status, body := env.do(t, httptest.NewRequest(http.MethodPost, "/api/videos/1/like", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"likes":3}`, string(body))
	assert.Equal(t, 3, env.stored(t).Videos[0].Likes)

	status, _ = env.do(t, httptest.NewRequest(http.MethodPost, "/api/videos/42/like", nil))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, "")

	tests := []struct {
		name          string
		path          string
		wantVideos    []int
		wantPlaylists int
	}{
		{name: "title", path: "/api/search?q=python", wantVideos: []int{1, 3}, wantPlaylists: 1},
		{name: "description is case insensitive", path: "/api/search?q=SEGUNDO", wantVideos: []int{2}},
		{name: "empty query", path: "/api/search", wantVideos: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, http.StatusOK, status)

			var res struct {
				Videos    []models.Video    `json:"videos"`
				Playlists []models.Playlist `json:"playlists"`
			}
			require.NoError(t, json.Unmarshal(body, &res))
			assert.Equal(t, tt.wantVideos, videoIDs(res.Videos))
			assert.Len(t, res.Playlists, tt.wantPlaylists)
		})
	}
}

func TestSuggestions(t *testing.T) {
	env := newTestEnv(t, "")

	status, body := env.do(t, httptest.NewRequest(http.MethodGet, "/api/videos/search?q=python", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":1,"title":"Intro a Python"},{"id":3,"title":"Go vs Python"}]`, string(body))

	status, body = env.do(t, httptest.NewRequest(http.MethodGet, "/api/playlists/search?q=tutoriales", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[{"id":1,"name":"Tutoriales de Python"}]`, string(body))

	status, body = env.do(t, httptest.NewRequest(http.MethodGet, "/api/playlists/search", nil))
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))
}
