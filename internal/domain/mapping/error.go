package mapping

import "errors"

var (
	ErrNotFound         = errors.New("mapping not found")
	ErrInvalidData      = errors.New("invalid mapping data")
	ErrDuplicate        = errors.New("duplicate mapping")
	ErrPermissionDenied = errors.New("permission denied")
)
