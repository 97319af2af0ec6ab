// Package errors provides custom error types for commerce store operations.
package errors

import "errors"

// ErrInvalidQuantity is returned for quantity values below one. Callers
// wanting to drop an item should remove it instead.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// ErrEmptyCart is returned when checkout is attempted with no cart items.
var ErrEmptyCart = errors.New("cart is empty")
