// internal/domain/catalog/errors.go
package catalog

import "errors"

// Sentinel errors returned by catalog services. Handlers map these to HTTP
// status codes; anything else is a store failure.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrParentNotFound   = errors.New("parent category not found")
	ErrHasChildren      = errors.New("category has subcategories")
	ErrHasProducts      = errors.New("category has products")
	ErrSlugTaken        = errors.New("slug already in use among siblings")
	ErrCircularParent   = errors.New("category cannot be its own ancestor")
	ErrProductNotFound  = errors.New("product not found")
	ErrBrandNotFound    = errors.New("brand not found")
)
