// internal/domain/cart/errors.go
package cart

import "errors"

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrItemNotFound = errors.New("cart item not found")
	ErrNotGuestCart = errors.New("cart does not belong to a guest session")
	ErrInvalidOwner = errors.New("cart owner is not identified")
)
