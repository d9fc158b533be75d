package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart     = errors.New("cart is empty, nothing to checkout")
	ErrOrderNotFound = errors.New("order not found")
)

// ValidationError reports the first checkout form field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
