package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrValidation      = errors.New("validation")      // 400
	ErrUnauthenticated = errors.New("unauthenticated") // 401
	ErrForbidden       = errors.New("forbidden")       // 403
	ErrNotFound        = errors.New("not found")       // 404
	ErrConflict        = errors.New("conflict")        // 409
)

// Error carries a client-facing message for one of the sentinel kinds.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func newErr(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// storeErr maps record-not-found and duplicate-key failures to the service
// kinds and wraps everything else as an opaque store failure.
func storeErr(op string, err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return newErr(ErrNotFound, "%s", notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return newErr(ErrConflict, "%s: duplicate value", op)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return newErr(ErrConflict, "%s: referenced by other records", op)
	}
	return fmt.Errorf("%s: %w", op, err)
}
