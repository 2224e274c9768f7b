// Package order управляет жизненным циклом заказа: созданием, чтением,
// сменой статуса и удалением с проверкой прав на каждом шаге.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/metrics"
	"github.com/vladislavdragonenkov/foodorder/internal/service/authz"
	"github.com/vladislavdragonenkov/foodorder/internal/service/pricing"
	"github.com/vladislavdragonenkov/foodorder/internal/service/validation"
)

// Сообщения, которые видит клиент.
const (
	MsgNoOrderForID      = "No order exists for the specified id"
	MsgOrderDoesNotExist = "Order does not exist"
	MsgStatusRequired    = "No data was received to update the orderStatus"
	MsgInvalidStatus     = "Invalid orderStatus"
	MsgInvalidAddress    = "Invalid delivery address"
	MsgStatusConflict    = "Order status was changed by another request, please retry"
)

// Pricer считает сумму заказа по ID позиций.
type Pricer interface {
	Resolve(ctx context.Context, itemIDs []string) (pricing.Quote, error)
}

// Authorizer принимает решение о доступе.
type Authorizer interface {
	Authorize(principal domain.Principal, op authz.Operation) authz.Decision
}

// AddressValidator проверяет адрес доставки.
type AddressValidator interface {
	ValidateAddress(address string) validation.Result
}

// Dependencies - коллабораторы Service. Timeline, Outbox, Validator и Metrics
// необязательны.
type Dependencies struct {
	Store     domain.OrderStore
	Pricer    Pricer
	Guard     Authorizer
	Timeline  domain.TimelineRepository
	Outbox    domain.OutboxRepository
	Validator AddressValidator
	Metrics   *metrics.OrderMetrics
	Logger    *log.Entry
}

// Option настраивает Service.
type Option func(*Service)

// WithPolicy задаёт политику переходов статусов.
func WithPolicy(policy domain.TransitionPolicy) Option {
	return func(s *Service) { s.policy = policy }
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator подменяет генератор ID заказов.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// CreateInput - данные для создания заказа.
type CreateInput struct {
	ItemIDs []string
	// Address пуст - используется адрес участника.
	Address string
}

// Service реализует операции над заказами.
type Service struct {
	store     domain.OrderStore
	pricer    Pricer
	guard     Authorizer
	timeline  domain.TimelineRepository
	outbox    domain.OutboxRepository
	validator AddressValidator
	metrics   *metrics.OrderMetrics
	logger    *log.Entry

	policy domain.TransitionPolicy
	now    func() time.Time
	newID  func() string
}

// NewService создаёт Service. Политика по умолчанию - строгая.
func NewService(deps Dependencies, options ...Option) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	guard := deps.Guard
	if guard == nil {
		guard = authz.NewGuard()
	}

	s := &Service{
		store:     deps.Store,
		pricer:    deps.Pricer,
		guard:     guard,
		timeline:  deps.Timeline,
		outbox:    deps.Outbox,
		validator: deps.Validator,
		metrics:   deps.Metrics,
		logger:    logger,
		policy:    domain.TransitionPolicyStrict,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Policy возвращает действующую политику переходов.
func (s *Service) Policy() domain.TransitionPolicy {
	return s.policy
}

// Create оформляет заказ участника. Заказ либо сохраняется целиком с посчитанной
// суммой, либо не сохраняется вовсе.
func (s *Service) Create(ctx context.Context, principal domain.Principal, input CreateInput) (created domain.Order, err error) {
	defer s.observe("create", time.Now(), &err)

	if err := s.authorize(principal, authz.CreateOrder()); err != nil {
		s.rejected("forbidden")
		return domain.Order{}, err
	}

	address := strings.TrimSpace(input.Address)
	if address != "" && s.validator != nil {
		if result := s.validator.ValidateAddress(address); !result.Valid {
			s.rejected("invalid_address")
			return domain.Order{}, domain.NewFailure(domain.ErrInvalidField, MsgInvalidAddress, result.Reasons...)
		}
	}
	if address == "" {
		address = principal.Address
	}

	quote, err := s.pricer.Resolve(ctx, input.ItemIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyOrder):
			s.rejected("empty_order")
		case errors.Is(err, domain.ErrUnknownItem):
			s.rejected("unknown_item")
		default:
			s.logger.WithError(err).WithField("user_id", principal.ID).Error("price order failed")
		}
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:        s.newID(),
		UserID:    principal.ID,
		ItemIDs:   append([]string(nil), input.ItemIDs...),
		Amount:    quote.Amount,
		Address:   address,
		Status:    domain.OrderStatusNew,
		CreatedOn: s.now(),
	}
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, fmt.Errorf("build order: %w", errors.Join(errs...))
	}

	created, err = s.store.Insert(ctx, order)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", principal.ID).Error("insert order failed")
		return domain.Order{}, fmt.Errorf("insert order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.emit(created, principal.ID, domain.TimelineOrderCreated, domain.EventOrderCreated, "", "")
	s.logger.WithFields(log.Fields{
		"order_id": created.ID,
		"user_id":  created.UserID,
		"amount":   created.Amount.String(),
	}).Info("order created")
	return created, nil
}

// Get возвращает заказ. Существование проверяется раньше прав доступа.
func (s *Service) Get(ctx context.Context, principal domain.Principal, orderID string) (order domain.Order, err error) {
	defer s.observe("get", time.Now(), &err)

	order, err = s.load(ctx, orderID, MsgNoOrderForID)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.authorize(principal, authz.GetOrder(order)); err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// ListAll возвращает все заказы с именами владельцев. Только для администратора.
func (s *Service) ListAll(ctx context.Context, principal domain.Principal) (orders []domain.OrderView, err error) {
	defer s.observe("list_all", time.Now(), &err)

	if err := s.authorize(principal, authz.ListAllOrders()); err != nil {
		return nil, err
	}
	orders, err = s.store.ListAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("list orders failed")
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListForUser возвращает заказы пользователя; пустой список не ошибка.
func (s *Service) ListForUser(ctx context.Context, principal domain.Principal, userID string) (orders []domain.Order, err error) {
	defer s.observe("list_for_user", time.Now(), &err)

	if err := s.authorize(principal, authz.ListOrdersForUser(userID)); err != nil {
		return nil, err
	}
	orders, err = s.store.ListByUser(ctx, userID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("list user orders failed")
		return nil, fmt.Errorf("list orders of user %s: %w", userID, err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// UpdateStatus меняет статус заказа. Значение статуса проверяется до обращения
// к хранилищу; при строгой политике запись идёт через compare-and-set.
func (s *Service) UpdateStatus(ctx context.Context, principal domain.Principal, orderID, rawStatus string) (updated domain.Order, err error) {
	defer s.observe("update_status", time.Now(), &err)

	if err := s.authorize(principal, authz.UpdateOrderStatus()); err != nil {
		return domain.Order{}, err
	}

	if strings.TrimSpace(rawStatus) == "" {
		return domain.Order{}, domain.NewFailure(domain.ErrStatusRequired, MsgStatusRequired)
	}
	next, err := domain.ParseOrderStatus(rawStatus)
	if err != nil {
		return domain.Order{}, domain.NewFailure(domain.ErrInvalidStatus, MsgInvalidStatus)
	}

	current, err := s.load(ctx, orderID, MsgOrderDoesNotExist)
	if err != nil {
		return domain.Order{}, err
	}

	if !s.policy.CanTransition(current.Status, next) {
		return domain.Order{}, domain.NewFailure(domain.ErrInvalidTransition,
			fmt.Sprintf("Cannot change orderStatus from %s to %s", current.Status, next))
	}

	var expected domain.OrderStatus
	if s.policy == domain.TransitionPolicyStrict {
		expected = current.Status
	}

	updated, err = s.store.UpdateStatus(ctx, orderID, expected, next)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStatusConflict):
		return domain.Order{}, domain.NewFailure(domain.ErrStatusConflict, MsgStatusConflict)
	case errors.Is(err, domain.ErrOrderNotFound):
		return domain.Order{}, domain.NewFailure(domain.ErrOrderNotFound, MsgOrderDoesNotExist)
	default:
		s.logger.WithError(err).WithField("order_id", orderID).Error("update order status failed")
		return domain.Order{}, fmt.Errorf("update status of order %s: %w", orderID, err)
	}

	if s.metrics != nil {
		s.metrics.RecordStatusChange(string(current.Status), string(updated.Status))
	}
	reason := fmt.Sprintf("%s -> %s", current.Status, updated.Status)
	s.emit(updated, principal.ID, domain.TimelineOrderStatusChanged, domain.EventOrderStatusChanged, current.Status, reason)
	s.logger.WithFields(log.Fields{
		"order_id": updated.ID,
		"from":     current.Status,
		"to":       updated.Status,
	}).Info("order status updated")
	return updated, nil
}

// Delete удаляет заказ и возвращает его последнее состояние.
func (s *Service) Delete(ctx context.Context, principal domain.Principal, orderID string) (removed domain.Order, err error) {
	defer s.observe("delete", time.Now(), &err)

	current, err := s.load(ctx, orderID, MsgOrderDoesNotExist)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.authorize(principal, authz.DeleteOrder(current)); err != nil {
		return domain.Order{}, err
	}

	removed, err = s.store.Delete(ctx, orderID)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrOrderNotFound):
		return domain.Order{}, domain.NewFailure(domain.ErrOrderNotFound, MsgOrderDoesNotExist)
	default:
		s.logger.WithError(err).WithField("order_id", orderID).Error("delete order failed")
		return domain.Order{}, fmt.Errorf("delete order %s: %w", orderID, err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderDeleted()
	}
	s.emit(removed, principal.ID, domain.TimelineOrderDeleted, domain.EventOrderDeleted, "", "")
	return removed, nil
}

// Timeline возвращает историю заказа с теми же правами, что и Get.
func (s *Service) Timeline(ctx context.Context, principal domain.Principal, orderID string) ([]domain.TimelineEvent, error) {
	order, err := s.Get(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	if s.timeline == nil {
		return []domain.TimelineEvent{}, nil
	}
	events, err := s.timeline.List(order.ID)
	if err != nil {
		return nil, fmt.Errorf("list timeline of order %s: %w", order.ID, err)
	}
	return events, nil
}

func (s *Service) load(ctx context.Context, orderID, notFoundMessage string) (domain.Order, error) {
	order, err := s.store.Get(ctx, orderID)
	if err == nil {
		return order, nil
	}
	if errors.Is(err, domain.ErrOrderNotFound) {
		return domain.Order{}, domain.NewFailure(domain.ErrOrderNotFound, notFoundMessage)
	}
	s.logger.WithError(err).WithField("order_id", orderID).Error("load order failed")
	return domain.Order{}, fmt.Errorf("load order %s: %w", orderID, err)
}

func (s *Service) authorize(principal domain.Principal, op authz.Operation) error {
	decision := s.guard.Authorize(principal, op)
	if decision.Allowed {
		return nil
	}
	if s.metrics != nil {
		s.metrics.RecordAccessDenied(op.Kind.String())
	}
	s.logger.WithFields(log.Fields{
		"user_id":   principal.ID,
		"operation": op.Kind.String(),
	}).Debug("access denied")
	return decision.Err()
}

func (s *Service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.RecordCreateRejected(reason)
	}
}

func (s *Service) observe(operation string, start time.Time, err *error) {
	if s.metrics != nil {
		s.metrics.RecordOperation(operation, time.Since(start), *err)
	}
}
