package pinelabs

import (
	"errors"
	"fmt"
)

var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrMappingNotFound  = errors.New("mapping not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrDetailNotFound   = errors.New("pinelabs detail not found")
)

// Stage names one sub-step of the reconciliation apply sequence.
type Stage string

const (
	StageDelete Stage = "delete"
	StageInsert Stage = "insert"
	StageUpdate Stage = "update"
)

// ApplyError reports a failure mid-apply. Stages before the failing one
// have already been committed to the store and are not rolled back; only
// the in-memory mirror is restored.
type ApplyError struct {
	Stage Stage
	Err   error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("reconcile apply %s: %v", e.Stage, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
