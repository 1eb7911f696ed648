package stage

import "errors"

var (
	// ErrStageNotFound indicates the requested stage id is not in the catalog.
	ErrStageNotFound = errors.New("stage not found")

	// ErrInvalidCatalog indicates the catalog definition breaks a structural rule.
	ErrInvalidCatalog = errors.New("invalid stage catalog")
)
