package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// TransactionFunc database transaction içinde çalışacak fonksiyon tipi
type TransactionFunc func(tx *sql.Tx) error

// WithTransaction fn'i tek transaction içinde çalıştırır.
// Hata veya panic durumunda rollback, başarıda commit yapar.
func WithTransaction(ctx context.Context, db *sql.DB, fn TransactionFunc) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("transaction başlatılamadı: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				log.Error().Err(rollbackErr).Msg("Rollback hatası (panic)")
			}
			log.Error().Interface("panic", r).Msg("Transaction panic ile rollback yapıldı")
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && rollbackErr != sql.ErrTxDone {
			log.Error().Err(rollbackErr).Msg("Rollback hatası")
			return fmt.Errorf("transaction hatası ve rollback hatası: %w, rollback: %v", err, rollbackErr)
		}
		log.Debug().Err(err).Msg("Transaction rollback yapıldı")
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("Commit hatası")
		return fmt.Errorf("transaction commit hatası: %w", err)
	}

	log.Debug().Msg("Transaction başarıyla commit edildi")
	return nil
}
