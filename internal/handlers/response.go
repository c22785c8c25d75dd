package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stockroom-backend/internal/identity"
	"github.com/yungbote/stockroom-backend/internal/types"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// RespondMapped translates service sentinel errors into HTTP statuses so the
// handlers can stay one-liners on their error paths.
func RespondMapped(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrItemNotFound),
		errors.Is(err, types.ErrRoomNotFound),
		errors.Is(err, types.ErrShelfNotFound),
		errors.Is(err, types.ErrRowNotFound),
		errors.Is(err, types.ErrUploadNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, identity.ErrInvalidStyle),
		errors.Is(err, identity.ErrInvalidColor):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, types.ErrJobFailed):
		RespondError(c, http.StatusUnprocessableEntity, "job_failed", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal", err)
	}
}
