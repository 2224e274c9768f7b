package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/service/menu"
)

const (
	msgMenuItemCreated   = "Menu item created successfully"
	msgInvalidPagination = "Invalid pagination parameters"
)

// listMenu доступен без токена.
func (h *Handler) listMenu(c *gin.Context) {
	var params menuQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, h.logger, domain.NewFailure(domain.ErrInvalidField, msgInvalidPagination,
			"offset must be a non-negative integer", "limit must be an integer between 1 and 100"))
		return
	}

	items, err := h.menu.List(c.Request.Context(), domain.MenuQuery{
		Offset: params.Offset,
		Limit:  params.Limit,
		Search: params.Search,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result := make([]menuItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, toMenuItemResponse(item))
	}
	respond(c, http.StatusOK, "", result)
}

func (h *Handler) createMenuItem(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req createMenuItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.menu.Create(c.Request.Context(), principal, menu.CreateInput{
		Name:     req.Name,
		Cost:     req.Cost,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, msgMenuItemCreated, toMenuItemResponse(item))
}
