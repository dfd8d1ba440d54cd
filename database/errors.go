package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorKind tags a store failure so callers can branch on it without
// inspecting driver errors.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindUniqueViolation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUniqueViolation:
		return "unique violation"
	default:
		return "internal"
	}
}

const pgUniqueViolation = "23505"

type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of a store error. Anything not produced by this
// package is internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NewError(KindNotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return NewError(KindUniqueViolation, op, err)
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return NewError(KindUniqueViolation, op, err)
	default:
		return NewError(KindInternal, op, err)
	}
}
