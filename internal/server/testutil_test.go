package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"vc7day/internal/config"
	"vc7day/internal/models"
	"vc7day/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testPassword = "obi123"

// testEnv is a fully wired server backed by a file store in a temp dir.
type testEnv struct {
	srv  *Server
	app  *fiber.App
	path string
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		Env:               "test",
		AdminPassword:     testPassword,
		SessionSecret:     "server-test-secret-long-enough-for-hs256",
		SessionTTLMinutes: 60,
		AllowedOrigins:    "http://localhost:5173",
	}
}

func newTestEnv(t *testing.T, flags string) *testEnv {
	t.Helper()
	return newTestEnvWith(t, flags, nil)
}

// newTestEnvWithRedis wires the server to a miniredis instance.
func newTestEnvWithRedis(t *testing.T, mr *miniredis.Miniredis) *testEnv {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return newTestEnvWith(t, "", rdb)
}

func newTestEnvWith(t *testing.T, flags string, rdb *redis.Client) *testEnv {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	store := repository.NewFileDocumentRepository(path, testDocument)

	cfg := testConfig()
	cfg.FeatureFlags = flags
	srv, err := NewServerWithDeps(cfg, nil, rdb, store)
	require.NoError(t, err)

	app := srv.NewApp()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return &testEnv{srv: srv, app: app, path: path}
}

func ts(daysAgo int) models.Timestamp {
	return models.NewTimestamp(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, -daysAgo))
}

func intPtr(v int) *int { return &v }

// testDocument: videos 1 and 2 in category 1 and playlist 1, video 3 in
// category 2 with no playlist.
func testDocument() *models.Document {
	doc := models.NewDocument()
	doc.Categories = []models.Category{
		{ID: 1, Name: "Educación", Icon: "📚", CreatedAt: ts(30)},
		{ID: 2, Name: "Tecnología", Icon: "💻", CreatedAt: ts(30)},
		{ID: 3, Name: "Vacía", Icon: "📦", CreatedAt: ts(30)},
	}
	doc.Playlists = []models.Playlist{
		{ID: 1, Name: "Tutoriales de Python", Description: "Aprende Python", CategoryID: 1, Videos: []int{2, 1}, CreatedAt: ts(10)},
	}
	doc.Videos = []models.Video{
		{ID: 1, Title: "Intro a Python", Description: "primer video", VideoURL: "https://example.com/1.mp4", CategoryID: 1, PlaylistID: intPtr(1), Views: 10, Likes: 2, RelatedVideos: []int{}, CreatedAt: ts(3)},
		{ID: 2, Title: "Variables", Description: "segundo video", VideoURL: "https://example.com/2.mp4", CategoryID: 1, PlaylistID: intPtr(1), Views: 20, Likes: 1, RelatedVideos: []int{}, CreatedAt: ts(2)},
		{ID: 3, Title: "Go vs Python", Description: "comparativa", VideoURL: "https://example.com/3.mp4", CategoryID: 2, Views: 5, Likes: 0, RelatedVideos: []int{}, CreatedAt: ts(1)},
	}
	doc.Settings = models.Settings{RelatedVideosCount: 2, AutoRelated: true, DefaultRelatedStrategy: models.StrategyCategory}
	return doc
}

// do sends req through the app and returns the status and body.
func (e *testEnv) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func jsonRequest(t *testing.T, method, target string, body interface{}, token string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func formRequest(method, target string, values url.Values, token string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func uploadRequest(t *testing.T, target, filename string, content []byte, token string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// login returns a valid admin session token.
func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	status, body := e.do(t, jsonRequest(t, http.MethodPost, "/api/admin/login",
		map[string]string{"password": testPassword}, ""))
	require.Equal(t, http.StatusOK, status, string(body))

	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(body, &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

// stored reads the document currently in the store.
func (e *testEnv) stored(t *testing.T) *models.Document {
	t.Helper()
	doc, err := e.srv.store.Load(context.Background())
	require.NoError(t, err)
	return doc
}

func decodeError(t *testing.T, body []byte) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp), string(body))
	return resp
}

func videoIDs(videos []models.Video) []int {
	ids := make([]int, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	return ids
}
