package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/stickerart/art-ledger/internal/models"
)

// PostgreSQL hata kodları
const (
	pgUniqueViolation      = "23505"
	pgLockNotAvailable     = "55P03"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
)

// pqCode hata bir pq.Error ise kodunu döner
func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// isUniqueViolation unique constraint ihlali mi
func isUniqueViolation(err error) bool {
	return pqCode(err) == pgUniqueViolation
}

// IsTransient tekrar denemenin anlamlı olduğu veritabanı hataları
func IsTransient(err error) bool {
	switch pqCode(err) {
	case pgLockNotAvailable, pgSerializationFailure, pgDeadlockDetected, pgQueryCanceled:
		return true
	}
	return errors.Is(err, models.ErrLockTimeout)
}

// wrapLockError kilit beklerken alınan hataları ErrLockTimeout ile işaretler
func wrapLockError(op string, err error) error {
	switch pqCode(err) {
	case pgLockNotAvailable, pgQueryCanceled:
		return fmt.Errorf("%s: %w: %v", op, models.ErrLockTimeout, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
