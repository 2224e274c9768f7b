package domain

import (
	"fmt"
	"strings"
)

// TransitionPolicy определяет, насколько строго проверяются смены статуса.
type TransitionPolicy string

const (
	// TransitionPolicyStrict разрешает только переходы конечного автомата.
	TransitionPolicyStrict TransitionPolicy = "strict"
	// TransitionPolicyPermissive принимает любой из четырёх статусов независимо от текущего.
	TransitionPolicyPermissive TransitionPolicy = "permissive"
)

// allowedTransitions: new -> processing -> complete, new|processing -> cancelled.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:        {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusComplete, OrderStatusCancelled},
}

// ParseTransitionPolicy разбирает значение политики из конфигурации.
func ParseTransitionPolicy(raw string) (TransitionPolicy, error) {
	switch policy := TransitionPolicy(strings.ToLower(strings.TrimSpace(raw))); policy {
	case TransitionPolicyStrict, TransitionPolicyPermissive:
		return policy, nil
	case "":
		return TransitionPolicyStrict, nil
	default:
		return "", fmt.Errorf("unsupported transition policy %q (use strict|permissive)", raw)
	}
}

// CanTransition проверяет переход from -> to с учётом политики.
func (p TransitionPolicy) CanTransition(from, to OrderStatus) bool {
	if !to.Valid() {
		return false
	}
	if p == TransitionPolicyPermissive {
		return true
	}

	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
