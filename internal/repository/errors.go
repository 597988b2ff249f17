package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicate is returned when an insert hits a unique constraint
	ErrDuplicate = errors.New("repository: duplicate row")
	// ErrNotFound is returned when a write targets a row that does not exist
	ErrNotFound = errors.New("repository: row not found")
	// ErrInvalidReference is returned when a foreign key points at a missing row
	ErrInvalidReference = errors.New("repository: invalid reference")
)

// PostgreSQL SQLSTATE codes
const (
	uniqueViolation     pq.ErrorCode = "23505"
	foreignKeyViolation pq.ErrorCode = "23503"
)

// translate maps driver errors onto repository sentinels, leaving others untouched
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case uniqueViolation:
		return errors.Join(ErrDuplicate, err)
	case foreignKeyViolation:
		return errors.Join(ErrInvalidReference, err)
	}
	return err
}
