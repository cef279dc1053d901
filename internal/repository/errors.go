package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTransientStore    = errors.New("transient store failure")
)

// Postgres error codes that indicate the statement can be retried once the
// contention clears: serialization failure, deadlock, lock timeout, and
// statement/query cancellation.
var retryablePgCodes = map[string]bool{
	"40001": true,
	"40P01": true,
	"55P03": true,
	"57014": true,
}

// translate maps driver-level failures onto the package sentinels so callers
// can distinguish terminal from retryable conditions with errors.Is.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08 covers connection exceptions.
		if retryablePgCodes[pgErr.Code] || strings.HasPrefix(pgErr.Code, "08") {
			return fmt.Errorf("%w: %v", ErrTransientStore, err)
		}
	}
	if errors.Is(err, gorm.ErrInvalidTransaction) {
		return fmt.Errorf("%w: %v", ErrTransientStore, err)
	}
	return err
}

// IsTransient reports whether an operation failed in a way that is safe to
// retry: nothing was committed.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransientStore)
}
