package server

import (
	"vc7day/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetHome handles GET /api/home
// @Summary Home page
// @Description Categories, all videos newest first and playlists
// @Tags catalog
// @Produce json
// @Success 200 {object} service.HomeView
// @Failure 500 {object} models.ErrorResponse
// @Router /home [get]
func (s *Server) GetHome(c *fiber.Ctx) error {
	view, err := s.catalogService.Home(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(view)
}

// GetCategories handles GET /api/categories
// @Summary List categories
// @Description Categories with their video counts
// @Tags catalog
// @Produce json
// @Success 200 {array} service.CategorySummary
// @Router /categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	summaries, err := s.catalogService.Categories(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(summaries)
}

// GetCategory handles GET /api/categories/:id
// @Summary Get category
// @Tags catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} service.CategoryView
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id} [get]
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	view, err := s.catalogService.Category(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(view)
}

// GetPlaylist handles GET /api/playlists/:id
// @Summary Get playlist
// @Description Playlist with its videos in playlist order
// @Tags catalog
// @Produce json
// @Param id path int true "Playlist ID"
// @Success 200 {object} service.PlaylistView
// @Failure 404 {object} models.ErrorResponse
// @Router /playlists/{id} [get]
func (s *Server) GetPlaylist(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	view, err := s.catalogService.Playlist(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(view)
}

// WatchVideo handles GET /api/videos/:id
// @Summary Watch video
// @Description Counts a view and returns the video with its related videos
// @Tags catalog
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} service.WatchView
// @Failure 404 {object} models.ErrorResponse
// @Router /videos/{id} [get]
func (s *Server) WatchVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	view, err := s.catalogService.Watch(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(view)
}

// LikeVideo handles POST /api/videos/:id/like
// @Summary Like video
// @Tags catalog
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} object{likes=int}
// @Failure 404 {object} models.ErrorResponse
// @Failure 429 {object} models.ErrorResponse
// @Router /videos/{id}/like [post]
func (s *Server) LikeVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	likes, err := s.catalogService.Like(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"likes": likes})
}

// Search handles GET /api/search
// @Summary Search catalog
// @Description Case-insensitive substring search over videos and playlists
// @Tags catalog
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {object} service.SearchResult
// @Router /search [get]
func (s *Server) Search(c *fiber.Ctx) error {
	res, err := s.catalogService.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(res)
}

// SuggestVideos handles GET /api/videos/search
// @Summary Video autocomplete
// @Tags catalog
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {array} catalog.VideoSuggestion
// @Router /videos/search [get]
func (s *Server) SuggestVideos(c *fiber.Ctx) error {
	suggestions, err := s.catalogService.SuggestVideos(c.UserContext(), c.Query("q"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(suggestions)
}

// SuggestPlaylists handles GET /api/playlists/search
// @Summary Playlist autocomplete
// @Tags catalog
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {array} catalog.PlaylistSuggestion
// @Router /playlists/search [get]
func (s *Server) SuggestPlaylists(c *fiber.Ctx) error {
	suggestions, err := s.catalogService.SuggestPlaylists(c.UserContext(), c.Query("q"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(suggestions)
}
