// Package profile хранит и отдаёт профили пользователей.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
	"github.com/vladislavdragonenkov/foodorder/internal/service/authz"
	"github.com/vladislavdragonenkov/foodorder/internal/service/validation"
)

// Сообщения, которые видит клиент.
const (
	MsgInvalidUserData = "Invalid user data"
	MsgUserNotFound    = "User does not exist"
)

// Validator проверяет поля профиля.
type Validator interface {
	ValidateProfile(profile validation.Profile) validation.Result
}

// Authorizer принимает решение о доступе.
type Authorizer interface {
	Authorize(principal domain.Principal, op authz.Operation) authz.Decision
}

// Service реализует операции над профилями.
type Service struct {
	users     domain.UserDirectory
	validator Validator
	guard     Authorizer
	logger    *log.Entry
}

// NewService создаёт Service; nil-коллабораторы заменяются реализациями по умолчанию.
func NewService(users domain.UserDirectory, validator Validator, guard Authorizer, logger *log.Entry) *Service {
	if validator == nil {
		validator = validation.New()
	}
	if guard == nil {
		guard = authz.NewGuard()
	}
	if logger == nil {
		logger = log.WithField("component", "profile-service")
	}
	return &Service{users: users, validator: validator, guard: guard, logger: logger}
}

// Save создаёт или обновляет профиль участника. Флаг администратора берётся из токена.
func (s *Service) Save(ctx context.Context, principal domain.Principal, input validation.Profile) (domain.User, error) {
	input = validation.Profile{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Address:   strings.TrimSpace(input.Address),
		Phone:     strings.TrimSpace(input.Phone),
	}
	if result := s.validator.ValidateProfile(input); !result.Valid {
		return domain.User{}, domain.NewFailure(domain.ErrInvalidField, MsgInvalidUserData, result.Reasons...)
	}

	user, err := s.users.Upsert(ctx, domain.User{
		ID:        principal.ID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Address:   input.Address,
		Phone:     input.Phone,
		IsAdmin:   principal.IsAdmin,
	})
	if err != nil {
		s.logger.WithError(err).WithField("user_id", principal.ID).Error("save profile failed")
		return domain.User{}, fmt.Errorf("save profile: %w", err)
	}
	return user, nil
}

// Get возвращает профиль пользователя: свой или любой для администратора.
func (s *Service) Get(ctx context.Context, principal domain.Principal, userID string) (domain.User, error) {
	if decision := s.guard.Authorize(principal, authz.ViewProfile(userID)); !decision.Allowed {
		return domain.User{}, decision.Err()
	}

	user, err := s.users.Get(ctx, userID)
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, domain.ErrUserNotFound):
		return domain.User{}, domain.NewFailure(domain.ErrUserNotFound, MsgUserNotFound)
	default:
		s.logger.WithError(err).WithField("user_id", userID).Error("load profile failed")
		return domain.User{}, fmt.Errorf("load profile %s: %w", userID, err)
	}
}
