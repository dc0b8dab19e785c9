package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/uicraft/uicraft/internal/domain"
	"github.com/uicraft/uicraft/internal/upload"
)

type chatRequest struct {
	Message   string `json:"message" form:"message"`
	SessionID string `json:"sessionId" form:"sessionId"`
}

type chatResponse struct {
	Message       string          `json:"message"`
	Code          domain.Artifact `json:"code"`
	UserTurn      domain.ChatTurn `json:"userTurn"`
	AssistantTurn domain.ChatTurn `json:"assistantTurn"`
}

// SubmitTurn handles one chat turn, optionally with an attached image.
// POST /v1/chat (JSON or multipart form)
func (h *Handler) SubmitTurn(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, fmt.Errorf("%w: malformed request body", domain.ErrValidation))
	}

	imageURL, err := h.maybeUploadImage(c)
	if err != nil {
		return writeError(c, err)
	}

	result, err := h.service.SubmitTurn(c.Request().Context(), ownerID(c), req.SessionID, req.Message, imageURL)
	if err != nil {
		// The turn was rejected, so the stored image has no referent.
		if imageURL != "" {
			_ = h.uploads.Remove(imageURL)
		}
		return writeError(c, err)
	}

	var code domain.Artifact
	if result.AssistantTurn.Artifact != nil {
		code = *result.AssistantTurn.Artifact
	}
	return c.JSON(http.StatusOK, chatResponse{
		Message:       "Component generated successfully",
		Code:          code,
		UserTurn:      result.UserTurn,
		AssistantTurn: result.AssistantTurn,
	})
}

// maybeUploadImage stores the request's image part, if any, and returns
// its URL. Requests without a multipart image yield an empty URL.
func (h *Handler) maybeUploadImage(c echo.Context) (string, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return "", nil
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("%w: malformed image part", domain.ErrValidation)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer file.Close()

	url, err := h.uploads.Upload(file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), fileHeader.Size)
	if err != nil {
		if errors.Is(err, upload.ErrEmptyImage) || errors.Is(err, upload.ErrImageTooLarge) || errors.Is(err, upload.ErrInvalidImageType) {
			return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return "", err
	}
	return url, nil
}
