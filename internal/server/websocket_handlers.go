package server

import (
	"context"
	"strconv"

	"vc7day/internal/middleware"
	"vc7day/internal/models"
	"vc7day/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// requireWebSocketUpgrade rejects plain HTTP requests on websocket routes
// and validates the video id before the upgrade.
func (s *Server) requireWebSocketUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return models.RespondWithError(c, fiber.StatusUpgradeRequired,
			models.NewValidationError("WebSocket upgrade required"))
	}
	if _, err := s.parseID(c, "id"); err != nil {
		return nil
	}
	return c.Next()
}

// VideoCountersHandler streams live view and like counters for one video.
// Clients only listen; counter events arrive as JSON text frames.
func (s *Server) VideoCountersHandler() fiber.Handler {
	wsLog := observability.NewWSLogger(s.videoHub.Name(), nil)

	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		ctx := context.Background()
		videoID, err := strconv.Atoi(conn.Params("id"))
		if err != nil || videoID <= 0 {
			_ = conn.Close()
			return
		}

		client, err := s.videoHub.Register(videoID, conn)
		if err != nil {
			wsLog.LogError(ctx, videoID, err, "register")
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}
		defer s.videoHub.UnregisterClient(client)

		wsLog.LogConnect(ctx, videoID)
		defer wsLog.LogDisconnect(ctx, videoID, "closed")

		// The connection returns to fiber's pool when this handler returns,
		// so the writer must be gone first.
		go client.WritePump()
		client.ReadPump()
		client.Wait()
	})
}
