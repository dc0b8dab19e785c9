package v1

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uicraft/uicraft/internal/domain"
)

type savePromptRequest struct {
	Prompt string          `json:"prompt"`
	Code   domain.Artifact `json:"code"`
}

// SavePrompt saves or updates a prompt-library entry.
// POST /v1/prompts
func (h *Handler) SavePrompt(c echo.Context) error {
	var req savePromptRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
	}

	prompt, err := h.service.SavePrompt(c.Request().Context(), ownerID(c), req.Prompt, req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Prompt saved",
		"prompt":  prompt,
	})
}

// GetPrompt fetches a prompt-library entry by exact prompt text.
// GET /v1/prompts?prompt=...
func (h *Handler) GetPrompt(c echo.Context) error {
	prompt, err := h.service.GetPrompt(c.Request().Context(), ownerID(c), c.QueryParam("prompt"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"prompt": prompt,
	})
}
