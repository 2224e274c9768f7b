// Package menu отдаёт и пополняет меню.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/service/authz"
)

// MsgInvalidMenuItem - сообщение клиенту при некорректной позиции меню.
const MsgInvalidMenuItem = "Invalid menu item"

// Authorizer принимает решение о доступе.
type Authorizer interface {
	Authorize(principal domain.Principal, op authz.Operation) authz.Decision
}

// CreateInput - данные новой позиции. Cost передаётся строкой, чтобы не терять точность.
type CreateInput struct {
	Name     string
	Cost     string
	ImageURL string
}

// Service реализует операции над меню.
type Service struct {
	catalog domain.MenuCatalog
	guard   Authorizer
	logger  *log.Entry
}

// NewService создаёт Service. guard == nil заменяется authz.NewGuard().
func NewService(catalog domain.MenuCatalog, guard Authorizer, logger *log.Entry) *Service {
	if guard == nil {
		guard = authz.NewGuard()
	}
	if logger == nil {
		logger = log.WithField("component", "menu-service")
	}
	return &Service{catalog: catalog, guard: guard, logger: logger}
}

// List возвращает страницу меню. Доступно без аутентификации.
func (s *Service) List(ctx context.Context, query domain.MenuQuery) ([]domain.MenuItem, error) {
	items, err := s.catalog.List(ctx, query.Normalize())
	if err != nil {
		s.logger.WithError(err).Error("list menu failed")
		return nil, fmt.Errorf("list menu: %w", err)
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return items, nil
}

// Create добавляет позицию меню. Только для администратора.
func (s *Service) Create(ctx context.Context, principal domain.Principal, input CreateInput) (domain.MenuItem, error) {
	if decision := s.guard.Authorize(principal, authz.ManageMenu()); !decision.Allowed {
		return domain.MenuItem{}, decision.Err()
	}

	item := domain.MenuItem{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(input.Name),
		ImageURL: strings.TrimSpace(input.ImageURL),
	}

	var reasons []string
	cost, err := decimal.Parse(strings.TrimSpace(input.Cost))
	if err != nil {
		reasons = append(reasons, "Cost must be a decimal number")
	} else {
		item.Cost = cost
	}
	for _, problem := range item.Validate() {
		if err != nil && errors.Is(problem, domain.ErrMenuCostNotPositive) {
			continue
		}
		reasons = append(reasons, problem.Error())
	}
	if len(reasons) > 0 {
		return domain.MenuItem{}, domain.NewFailure(domain.ErrInvalidField, MsgInvalidMenuItem, reasons...)
	}

	if err := s.catalog.Create(ctx, item); err != nil {
		s.logger.WithError(err).WithField("name", item.Name).Error("create menu item failed")
		return domain.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	s.logger.WithFields(log.Fields{"menu_item_id": item.ID, "name": item.Name}).Info("menu item created")
	return item, nil
}
