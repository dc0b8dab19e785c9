package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uicraft/uicraft/internal/domain"
)

type createSessionRequest struct {
	Name string `json:"name"`
}

// CreateSession creates a session, deriving a dated name when none is given.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
	}

	session, err := h.service.CreateSession(c.Request().Context(), ownerID(c), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Session created",
		"session": session,
	})
}

// ListSessions returns the caller's session summaries, transcripts withheld.
// GET /v1/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	summaries, err := h.service.ListSessions(c.Request().Context(), ownerID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessions": summaries,
	})
}

// GetSession returns one full session.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	session, err := h.service.GetSession(c.Request().Context(), ownerID(c), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"session": session,
	})
}

// UpdateSession merges name, transcript and/or currentArtifact into the
// session. At least one field must be provided.
// PUT /v1/sessions/:session_id
func (h *Handler) UpdateSession(c echo.Context) error {
	var patch domain.SessionPatch
	if err := c.Bind(&patch); err != nil {
		return writeError(c, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
	}

	session, err := h.service.UpdateSession(c.Request().Context(), ownerID(c), c.Param("session_id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Session updated successfully",
		"session": session,
	})
}

// DeleteSession removes the caller's session.
// DELETE /v1/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	deletedID, err := h.service.DeleteSession(c.Request().Context(), ownerID(c), c.Param("session_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "Session deleted successfully",
		"deletedId": deletedID,
	})
}
