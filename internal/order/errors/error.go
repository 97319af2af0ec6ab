// Package errors provides custom error types for order storage operations.
package errors

import "errors"

var ErrOrderNotFound = errors.New("order not found")
var ErrCreateOrder = errors.New("failed to create order")
var ErrOrderDelivered = errors.New("order is delivered and can no longer change")
var ErrInvalidTransition = errors.New("invalid order status transition")

var ErrTransactionBegin = errors.New("failed to begin transaction")
var ErrTransactionCommit = errors.New("failed to commit transaction")
var ErrTransactionRollback = errors.New("failed to rollback transaction")
