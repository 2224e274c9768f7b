package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestFailure_UnwrapAndMessage(t *testing.T) {
	failure := NewFailure(ErrForbidden, "Admins cannot place orders")

	if !errors.Is(failure, ErrForbidden) {
		t.Fatal("failure should unwrap to ErrForbidden")
	}
	if failure.Error() != "Admins cannot place orders" {
		t.Fatalf("unexpected message: %s", failure.Error())
	}

	wrapped := fmt.Errorf("create order: %w", failure)
	var target *Failure
	if !errors.As(wrapped, &target) {
		t.Fatal("expected errors.As to find Failure")
	}
	if target.Message != "Admins cannot place orders" {
		t.Fatalf("unexpected message after As: %s", target.Message)
	}
}

func TestFailure_FallbackMessage(t *testing.T) {
	if got := NewFailure(ErrUnknownItem, "").Error(); got != ErrUnknownItem.Error() {
		t.Fatalf("expected sentinel text, got %q", got)
	}
	if got := (&Failure{}).Error(); got == "" {
		t.Fatal("empty failure should still produce text")
	}
}

func TestFailure_Details(t *testing.T) {
	failure := NewFailure(ErrInvalidField, "Invalid user data", "First name must not be empty", "Phone number must have 11 digits")
	if len(failure.Details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(failure.Details))
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "order", err: ErrOrderNotFound, want: true},
		{name: "menu item", err: ErrMenuItemNotFound, want: true},
		{name: "user", err: ErrUserNotFound, want: true},
		{name: "wrapped order", err: fmt.Errorf("load: %w", ErrOrderNotFound), want: true},
		{name: "failure around order", err: NewFailure(ErrOrderNotFound, "No order exists for the specified id"), want: true},
		{name: "forbidden", err: ErrForbidden, want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}
