package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

type createOrderRequest struct {
	ItemIDs []string `json:"itemIds"`
	// FoodIDs - прежнее имя поля, принимается для совместимости со старыми клиентами.
	FoodIDs []string `json:"foodIds"`
	Address string   `json:"address"`
}

func (r createOrderRequest) items() []string {
	if len(r.ItemIDs) > 0 {
		return r.ItemIDs
	}
	return r.FoodIDs
}

type updateStatusRequest struct {
	OrderStatus string `json:"orderStatus"`
}

type createMenuItemRequest struct {
	Name     string `json:"name"`
	Cost     string `json:"cost"`
	ImageURL string `json:"imageUrl"`
}

type profileRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

type menuQueryParams struct {
	Offset int    `form:"offset" binding:"omitempty,min=0"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
}

type orderResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ItemIDs   []string  `json:"itemIds"`
	Amount    string    `json:"amount"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedOn time.Time `json:"createdOn"`
}

type orderViewResponse struct {
	orderResponse
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type menuItemResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Cost     string `json:"cost"`
	ImageURL string `json:"imageUrl"`
}

type userResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
}

type timelineEventResponse struct {
	OrderID  string    `json:"orderId"`
	Type     string    `json:"type"`
	Reason   string    `json:"reason,omitempty"`
	ActorID  string    `json:"actorId,omitempty"`
	Occurred time.Time `json:"occurred"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := order.ItemIDs
	if items == nil {
		items = []string{}
	}
	return orderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		ItemIDs:   items,
		Amount:    order.Amount.String(),
		Address:   order.Address,
		Status:    string(order.Status),
		CreatedOn: order.CreatedOn,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	result := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		result = append(result, toOrderResponse(order))
	}
	return result
}

func toOrderViewResponses(views []domain.OrderView) []orderViewResponse {
	result := make([]orderViewResponse, 0, len(views))
	for _, view := range views {
		result = append(result, orderViewResponse{
			orderResponse: toOrderResponse(view.Order),
			FirstName:     view.OwnerFirstName,
			LastName:      view.OwnerLastName,
		})
	}
	return result
}

func toMenuItemResponse(item domain.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:       item.ID,
		Name:     item.Name,
		Cost:     item.Cost.String(),
		ImageURL: item.ImageURL,
	}
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Address:   user.Address,
		Phone:     user.Phone,
		IsAdmin:   user.IsAdmin,
	}
}

func toTimelineResponses(events []domain.TimelineEvent) []timelineEventResponse {
	result := make([]timelineEventResponse, 0, len(events))
	for _, event := range events {
		result = append(result, timelineEventResponse{
			OrderID:  event.OrderID,
			Type:     event.Type,
			Reason:   event.Reason,
			ActorID:  event.ActorID,
			Occurred: event.Occurred,
		})
	}
	return result
}
