// Package v1 provides HTTP handlers for the session service.
package v1

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uicraft/uicraft/internal/domain"
	"github.com/uicraft/uicraft/internal/service"
	"github.com/uicraft/uicraft/internal/upload"
)

// headerUserID carries the caller identity issued by the identity
// collaborator. Its value is trusted unconditionally.
const headerUserID = "X-User-ID"

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
	uploads upload.Storage
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service, uploads upload.Storage) *Handler {
	return &Handler{
		service: service,
		uploads: uploads,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/chat", h.SubmitTurn)

	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions", h.ListSessions)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.PUT("/v1/sessions/:session_id", h.UpdateSession)
	e.DELETE("/v1/sessions/:session_id", h.DeleteSession)

	e.POST("/v1/prompts", h.SavePrompt)
	e.GET("/v1/prompts", h.GetPrompt)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// ownerID extracts the caller identity from the request.
func ownerID(c echo.Context) string {
	return c.Request().Header.Get(headerUserID)
}

// writeError maps a failure onto its wire kind and HTTP status. Errors
// outside the taxonomy are reported as server errors without detail.
func writeError(c echo.Context, err error) error {
	kind := domain.Kind(err)
	message := err.Error()
	if kind == domain.KindServer {
		log.Printf("ERROR: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		message = "An unexpected error occurred. Please try again later."
	}
	return c.JSON(statusForKind(kind), map[string]string{
		"error":   kind,
		"message": message,
	})
}

func statusForKind(kind string) int {
	switch kind {
	case domain.KindInvalidID, domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
