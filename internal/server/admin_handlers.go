package server

import (
	"io"
	"strings"

	"vc7day/internal/models"
	"vc7day/internal/service"

	"github.com/gofiber/fiber/v2"
)

// settingsRequest mirrors service.SettingsInput for JSON clients.
type settingsRequest struct {
	RelatedVideosCount     int    `json:"related_videos_count"`
	AutoRelated            bool   `json:"auto_related"`
	DefaultRelatedStrategy string `json:"default_related_strategy"`
}

type playlistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  int    `json:"category_id"`
	Thumbnail   string `json:"thumbnail"`
	Videos      rawIDs `json:"videos"`
}

type videoRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	VideoURL      string `json:"video_url"`
	Thumbnail     string `json:"thumbnail"`
	CategoryID    int    `json:"category_id"`
	PlaylistID    rawIDs `json:"playlist_id"`
	RelatedVideos rawIDs `json:"related_videos"`
}

func bindSettings(c *fiber.Ctx) (service.SettingsInput, error) {
	if !isJSONRequest(c) {
		return service.SettingsInput{
			RelatedVideosCount:     formInt(c, "related_videos_count"),
			AutoRelated:            formBool(c, "auto_related"),
			DefaultRelatedStrategy: c.FormValue("default_related_strategy"),
		}, nil
	}
	var req settingsRequest
	if err := bindBody(c, &req); err != nil {
		return service.SettingsInput{}, err
	}
	return service.SettingsInput(req), nil
}

func bindCategory(c *fiber.Ctx) (service.CategoryInput, error) {
	if !isJSONRequest(c) {
		return service.CategoryInput{
			Name: c.FormValue("name"),
			Icon: c.FormValue("icon"),
		}, nil
	}
	var in service.CategoryInput
	err := bindBody(c, &in)
	return in, err
}

func bindPlaylist(c *fiber.Ctx) (service.PlaylistInput, error) {
	if !isJSONRequest(c) {
		return service.PlaylistInput{
			Name:        c.FormValue("name"),
			Description: c.FormValue("description"),
			CategoryID:  formInt(c, "category_id"),
			Thumbnail:   c.FormValue("thumbnail"),
			Videos:      c.FormValue("videos"),
		}, nil
	}
	var req playlistRequest
	if err := bindBody(c, &req); err != nil {
		return service.PlaylistInput{}, err
	}
	return service.PlaylistInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Thumbnail:   req.Thumbnail,
		Videos:      string(req.Videos),
	}, nil
}

func bindVideo(c *fiber.Ctx) (service.VideoInput, error) {
	if !isJSONRequest(c) {
		return service.VideoInput{
			Title:         c.FormValue("title"),
			Description:   c.FormValue("description"),
			VideoURL:      c.FormValue("video_url"),
			Thumbnail:     c.FormValue("thumbnail"),
			CategoryID:    formInt(c, "category_id"),
			PlaylistID:    c.FormValue("playlist_id"),
			RelatedVideos: c.FormValue("related_videos"),
		}, nil
	}
	var req videoRequest
	if err := bindBody(c, &req); err != nil {
		return service.VideoInput{}, err
	}
	return service.VideoInput{
		Title:         req.Title,
		Description:   req.Description,
		VideoURL:      req.VideoURL,
		Thumbnail:     req.Thumbnail,
		CategoryID:    req.CategoryID,
		PlaylistID:    string(req.PlaylistID),
		RelatedVideos: string(req.RelatedVideos),
	}, nil
}

// GetDashboard handles GET /api/admin
// @Summary Admin dashboard
// @Description All collections, settings, totals and feature flags
// @Tags admin
// @Produce json
// @Success 200 {object} service.Dashboard
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin [get]
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	dashboard, err := s.adminService.Dashboard(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(dashboard)
}

// GetFeatureFlags handles GET /api/admin/feature-flags
// @Summary Feature flags
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /admin/feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(s.featureFlags.Snapshot())
}

// GetSettings handles GET /api/admin/settings
// @Summary Get settings
// @Tags admin
// @Produce json
// @Success 200 {object} models.Settings
// @Security BearerAuth
// @Router /admin/settings [get]
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.adminService.Settings(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings handles PUT /api/admin/settings
// @Summary Update settings
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.SettingsInput true "Settings"
// @Success 200 {object} models.Settings
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/settings [put]
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	in, err := bindSettings(c)
	if err != nil {
		return nil
	}
	settings, err := s.adminService.UpdateSettings(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(settings)
}

// AdminListCategories handles GET /api/admin/categories
// @Summary List categories
// @Tags admin
// @Produce json
// @Success 200 {array} models.Category
// @Security BearerAuth
// @Router /admin/categories [get]
func (s *Server) AdminListCategories(c *fiber.Ctx) error {
	categories, err := s.adminService.Categories(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(categories)
}

// CreateCategory handles POST /api/admin/categories
// @Summary Create category
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.CategoryInput true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	in, err := bindCategory(c)
	if err != nil {
		return nil
	}
	category, err := s.adminService.CreateCategory(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// DeleteCategory handles DELETE /api/admin/categories/:id
// @Summary Delete category
// @Description Refused while any video still references the category
// @Tags admin
// @Param id path int true "Category ID"
// @Success 204
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/categories/{id} [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.DeleteCategory(c.UserContext(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminListPlaylists handles GET /api/admin/playlists
// @Summary List playlists
// @Tags admin
// @Produce json
// @Success 200 {array} service.AdminPlaylist
// @Security BearerAuth
// @Router /admin/playlists [get]
func (s *Server) AdminListPlaylists(c *fiber.Ctx) error {
	playlists, err := s.adminService.Playlists(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(playlists)
}

// AdminGetPlaylist handles GET /api/admin/playlists/:id
// @Summary Get playlist for editing
// @Tags admin
// @Produce json
// @Param id path int true "Playlist ID"
// @Success 200 {object} service.PlaylistDetail
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/playlists/{id} [get]
func (s *Server) AdminGetPlaylist(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	detail, err := s.adminService.Playlist(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(detail)
}

// CreatePlaylist handles POST /api/admin/playlists
// @Summary Create playlist
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.PlaylistInput true "Playlist"
// @Success 201 {object} models.Playlist
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/playlists [post]
func (s *Server) CreatePlaylist(c *fiber.Ctx) error {
	in, err := bindPlaylist(c)
	if err != nil {
		return nil
	}
	playlist, err := s.adminService.CreatePlaylist(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(playlist)
}

// UpdatePlaylist handles PUT /api/admin/playlists/:id
// @Summary Update playlist
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Playlist ID"
// @Param request body service.PlaylistInput true "Playlist"
// @Success 200 {object} models.Playlist
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/playlists/{id} [put]
func (s *Server) UpdatePlaylist(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	in, err := bindPlaylist(c)
	if err != nil {
		return nil
	}
	playlist, err := s.adminService.UpdatePlaylist(c.UserContext(), id, in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(playlist)
}

// DeletePlaylist handles DELETE /api/admin/playlists/:id
// @Summary Delete playlist
// @Tags admin
// @Param id path int true "Playlist ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/playlists/{id} [delete]
func (s *Server) DeletePlaylist(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.DeletePlaylist(c.UserContext(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdminListVideos handles GET /api/admin/videos
// @Summary List videos
// @Tags admin
// @Produce json
// @Success 200 {array} service.AdminVideo
// @Security BearerAuth
// @Router /admin/videos [get]
func (s *Server) AdminListVideos(c *fiber.Ctx) error {
	videos, err := s.adminService.Videos(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(videos)
}

// AdminGetVideo handles GET /api/admin/videos/:id
// @Summary Get video for editing
// @Tags admin
// @Produce json
// @Param id path int true "Video ID"
// @Success 200 {object} service.VideoDetail
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/videos/{id} [get]
func (s *Server) AdminGetVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	detail, err := s.adminService.Video(c.UserContext(), id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(detail)
}

// CreateVideo handles POST /api/admin/videos
// @Summary Create video
// @Tags admin
// @Accept json
// @Produce json
// @Param request body service.VideoInput true "Video"
// @Success 201 {object} models.Video
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/videos [post]
func (s *Server) CreateVideo(c *fiber.Ctx) error {
	in, err := bindVideo(c)
	if err != nil {
		return nil
	}
	video, err := s.adminService.CreateVideo(c.UserContext(), in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(video)
}

// UpdateVideo handles PUT /api/admin/videos/:id
// @Summary Update video
// @Description Views, likes and creation time are kept
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Video ID"
// @Param request body service.VideoInput true "Video"
// @Success 200 {object} models.Video
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/videos/{id} [put]
func (s *Server) UpdateVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	in, err := bindVideo(c)
	if err != nil {
		return nil
	}
	video, err := s.adminService.UpdateVideo(c.UserContext(), id, in)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(video)
}

// DeleteVideo handles DELETE /api/admin/videos/:id
// @Summary Delete video
// @Tags admin
// @Param id path int true "Video ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/videos/{id} [delete]
func (s *Server) DeleteVideo(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.adminService.DeleteVideo(c.UserContext(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportDocument handles GET /api/admin/export
// @Summary Export catalog
// @Description Download the whole catalog document as data.json
// @Tags admin
// @Produce json
// @Success 200 {file} file
// @Security BearerAuth
// @Router /admin/export [get]
func (s *Server) ExportDocument(c *fiber.Ctx) error {
	data, err := s.adminService.Export(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	c.Attachment("data.json")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(data)
}

// ImportDocument handles POST /api/admin/import
// @Summary Import catalog
// @Description Replace the whole catalog. Accepts a multipart "file" ending in .json or a raw JSON body. An invalid document leaves the store untouched.
// @Tags admin
// @Accept json,mpfd
// @Produce json
// @Param file formData file false "Catalog document"
// @Success 200 {object} object{message=string,categories=int,playlists=int,videos=int}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/import [post]
func (s *Server) ImportDocument(c *fiber.Ctx) error {
	data, err := importPayload(c)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	doc, err := s.adminService.Import(c.UserContext(), data)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":    "Catalog imported",
		"categories": len(doc.Categories),
		"playlists":  len(doc.Playlists),
		"videos":     len(doc.Videos),
	})
}

// importPayload returns the uploaded document bytes.
func importPayload(c *fiber.Ctx) ([]byte, error) {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		body := c.Body()
		if len(body) == 0 {
			return nil, models.NewValidationError("No file selected")
		}
		return append([]byte(nil), body...), nil
	}

	header, err := c.FormFile("file")
	if err != nil || header.Filename == "" {
		return nil, models.NewValidationError("No file selected")
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".json") {
		return nil, models.NewValidationError("File must be JSON")
	}

	f, err := header.Open()
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return data, nil
}
