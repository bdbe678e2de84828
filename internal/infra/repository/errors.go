package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err comes from a postgres unique
// constraint.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// translate turns driver errors into business errors. notFound is the message
// used when the record is missing.
func translate(err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case httperr.CodeOf(err) != "":
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httperr.Wrap(httperr.CodeNotFound, err, notFound)
	default:
		return httperr.Wrap(httperr.CodePersistenceFailure, err, "database operation failed")
	}
}
