package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrNoItems               = errors.New("items are required")
	ErrInvalidQuantity       = errors.New("quantity must be greater than zero")
	ErrInvalidBookId         = errors.New("invalid book id")
	ErrMissingTotal          = errors.New("totalAmount is required")
	ErrUserBlocked           = errors.New("user is blocked")
	ErrMissingPaymentFields  = errors.New("missing payment details")
	ErrInvalidSignature      = errors.New("Invalid signature")
	ErrPaymentsNotConfigured = errors.New("online payments are not configured")
	ErrAmountMismatch        = errors.New("Payment amount does not match order total")
	ErrIllegalTransition     = errors.New("illegal order status transition")
	ErrNotOrderOwner         = errors.New("order does not belong to this user")
)

type BookNotFoundError struct {
	BookId string
}

func (e *BookNotFoundError) Error() string {
	return fmt.Sprintf("Book not found: %s", e.BookId)
}

type InsufficientStockError struct {
	BookId string
	Title  string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for %s", e.Title)
}

type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrIllegalTransition
}
