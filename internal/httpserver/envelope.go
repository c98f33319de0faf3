package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"marinaops/internal/auth"
	"marinaops/internal/domain"
	"marinaops/internal/service/authn"
)

// envelope wraps every API response.
type envelope struct {
	Message     string    `json:"message"`
	Status      int       `json:"status"`
	ErrorList   []string  `json:"errorList,omitempty"`
	Time        time.Time `json:"time"`
	Content     any       `json:"content"`
	TotalSize   *int64    `json:"totalSize,omitempty"`
	CurrentSize *int      `json:"currentSize,omitempty"`
}

func respond(c *gin.Context, status int, message string, content any) {
	c.JSON(status, envelope{
		Message: message,
		Status:  status,
		Time:    time.Now().UTC(),
		Content: content,
	})
}

func respondPage(c *gin.Context, message string, content any, total int64, current int) {
	c.JSON(http.StatusOK, envelope{
		Message:     message,
		Status:      http.StatusOK,
		Time:        time.Now().UTC(),
		Content:     content,
		TotalSize:   &total,
		CurrentSize: &current,
	})
}

func statusFor(err error) int {
	if errors.Is(err, authn.ErrInvalidCredentials) || errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, errMissingToken) {
		return http.StatusUnauthorized
	}
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDuplicate:
		return http.StatusConflict
	case domain.KindUnauthorized:
		return http.StatusForbidden
	case domain.KindValidation:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// fail writes err as an envelope and aborts the chain. Internal errors
// are logged and their text is not sent to the client.
func fail(c *gin.Context, logger zerolog.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("request_id", requestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, envelope{
		Message:   msg,
		Status:    status,
		ErrorList: []string{msg},
		Time:      time.Now().UTC(),
	})
}
