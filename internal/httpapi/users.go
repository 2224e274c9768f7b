package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/foodorder/internal/service/validation"
)

const msgProfileSaved = "Profile saved successfully"

func (h *Handler) saveProfile(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	var req profileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.profiles.Save(c.Request.Context(), principal, validation.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Phone:     req.Phone,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, msgProfileSaved, toUserResponse(user))
}

func (h *Handler) getProfile(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}
	userID := c.Param("id")
	if userID == "me" {
		userID = principal.ID
	}
	user, err := h.profiles.Get(c.Request.Context(), principal, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, "", toUserResponse(user))
}
