package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// MsgInternal - единственное сообщение, которое клиент видит при сбое хранилища.
const MsgInternal = "An error occured, please try again later"

const (
	msgBadRequest   = "Request body is malformed"
	msgUnauthorized = "Authentication is required"
)

// envelope - общий формат ответа API.
type envelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// errorStatus сопоставляет sentinel-ошибку домена с HTTP-кодом. Порядок важен:
// проверка идёт сверху вниз через errors.Is.
var errorStatus = []struct {
	err    error
	status int
}{
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrEmptyOrder, http.StatusBadRequest},
	{domain.ErrInvalidField, http.StatusBadRequest},
	{domain.ErrStatusRequired, http.StatusBadRequest},
	{domain.ErrInvalidStatus, http.StatusUnprocessableEntity},
	{domain.ErrUnknownItem, http.StatusNotFound},
	{domain.ErrOrderNotFound, http.StatusNotFound},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrMenuItemNotFound, http.StatusNotFound},
	{domain.ErrInvalidTransition, http.StatusConflict},
	{domain.ErrStatusConflict, http.StatusConflict},
}

// StatusFor возвращает HTTP-код для ошибки; всё неизвестное считается 500.
func StatusFor(err error) int {
	for _, entry := range errorStatus {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	return http.StatusInternalServerError
}

func respond(c *gin.Context, status int, message string, result any) {
	c.JSON(status, envelope{Status: true, Message: message, Result: result})
}

// respondError пишет ошибку в общем формате. Причина 500 уходит в лог,
// клиент получает только MsgInternal.
func respondError(c *gin.Context, logger *log.Entry, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithError(err).WithFields(log.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		}).Error("request failed")
		c.AbortWithStatusJSON(status, envelope{Message: MsgInternal})
		return
	}

	body := envelope{Message: err.Error()}
	var failure *domain.Failure
	if errors.As(err, &failure) {
		body.Message = failure.Error()
		if len(failure.Details) > 0 {
			body.Result = failure.Details
		}
	}
	c.AbortWithStatusJSON(status, body)
}
