package server

import (
	"time"

	"vc7day/internal/middleware"
	"vc7day/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Login handles POST /api/admin/login
// @Summary Admin login
// @Description Exchange the admin password for a session token. The token is also set as an HttpOnly cookie.
// @Tags admin-auth
// @Accept json
// @Produce json
// @Param request body object{password=string} true "Login request"
// @Success 200 {object} service.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /admin/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if isJSONRequest(c) {
		if err := bindBody(c, &req); err != nil {
			return nil
		}
	} else {
		req.Password = c.FormValue("password")
	}

	session, err := s.authService.Login(c.UserContext(), req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(session)
}

// Logout handles POST /api/admin/logout
// @Summary Admin logout
// @Description Revoke the current session
// @Tags admin-auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /admin/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	auth, _ := middleware.AuthFromContext(c)
	if err := s.authService.Logout(c.UserContext(), auth); err != nil {
		return models.RespondWithAppError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}
