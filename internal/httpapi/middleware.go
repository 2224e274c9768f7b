package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/metrics"
)

const (
	authHeaderKey   = "Authorization"
	authScheme      = "Bearer"
	principalCtxKey = "principal"
)

// TokenVerifier извлекает участника из токена.
type TokenVerifier interface {
	Verify(raw string) (domain.Principal, error)
}

// authRequired пропускает запрос дальше только с действительным Bearer-токеном.
func authRequired(tokens TokenVerifier, logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader(authHeaderKey))
		if header == "" {
			respondError(c, logger, domain.NewFailure(domain.ErrUnauthorized, "Authorization token is missing"))
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, authScheme) || strings.TrimSpace(token) == "" {
			respondError(c, logger, domain.NewFailure(domain.ErrUnauthorized, "Authorization header must be: Bearer <token>"))
			return
		}

		principal, err := tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			logger.WithError(err).Debug("token rejected")
			respondError(c, logger, domain.NewFailure(domain.ErrUnauthorized, "Invalid or expired token"))
			return
		}

		c.Set(principalCtxKey, principal)
		c.Next()
	}
}

// principalFrom возвращает участника, сохранённого authRequired.
func principalFrom(c *gin.Context) (domain.Principal, bool) {
	value, ok := c.Get(principalCtxKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := value.(domain.Principal)
	return principal, ok
}

// requestTimeout ограничивает время обработки запроса через контекст.
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// accessLog пишет строку на каждый запрос; 5xx пишутся с уровнем Warn.
func accessLog(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(log.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		})
		if principal, ok := principalFrom(c); ok {
			entry = entry.WithField("user_id", principal.ID)
		}
		if status >= http.StatusInternalServerError {
			entry.Warn("request served")
			return
		}
		entry.Info("request served")
	}
}

func observe(m *metrics.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.Observe(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// recovery переводит панику обработчика в обычный ответ 500.
func recovery(logger *log.Entry) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		respondError(c, logger, fmt.Errorf("panic: %v", recovered))
	})
}
