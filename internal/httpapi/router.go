// Package httpapi публикует операции сервиса заказов поверх HTTP (gin).
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/metrics"
)

// DefaultRequestTimeout ограничивает обработку одного запроса.
const DefaultRequestTimeout = 5 * time.Second

// Dependencies - всё, что нужно роутеру. Metrics и Logger необязательны.
type Dependencies struct {
	Orders   OrderService
	Menu     MenuService
	Profiles ProfileService
	Tokens   TokenVerifier
	Metrics  *metrics.HTTPMetrics
	Logger   *log.Entry
}

// Config задаёт параметры обработки запросов.
type Config struct {
	RequestTimeout time.Duration
}

// NewRouter собирает gin.Engine со всеми маршрутами API.
func NewRouter(deps Dependencies, cfg Config) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = log.WithField("component", "http")
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	h := &Handler{
		orders:   deps.Orders,
		menu:     deps.Menu,
		profiles: deps.Profiles,
		logger:   logger,
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(recovery(logger), accessLog(logger))
	if deps.Metrics != nil {
		router.Use(observe(deps.Metrics))
	}
	router.Use(requestTimeout(cfg.RequestTimeout))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Message: "Route not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, envelope{Message: "Method not allowed"})
	})

	router.GET("/menu", h.listMenu)

	authed := router.Group("/", authRequired(deps.Tokens, logger))
	{
		authed.POST("/menu", h.createMenuItem)

		orders := authed.Group("/orders")
		orders.GET("", h.listOrders)
		orders.POST("", h.createOrder)
		orders.GET("/user/:id", h.listUserOrders)
		orders.GET("/:id", h.getOrder)
		orders.PUT("/:id", h.updateOrderStatus)
		orders.DELETE("/:id", h.deleteOrder)
		orders.GET("/:id/timeline", h.orderTimeline)

		users := authed.Group("/users")
		users.PUT("/me", h.saveProfile)
		users.GET("/:id", h.getProfile)
	}

	return router
}

// tokenVerifierFunc позволяет передать функцию вместо TokenVerifier.
type tokenVerifierFunc func(raw string) (domain.Principal, error)

func (f tokenVerifierFunc) Verify(raw string) (domain.Principal, error) {
	return f(raw)
}
