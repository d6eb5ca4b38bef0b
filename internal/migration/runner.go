// Package migration gömülü SQL dosyalarını schema_migrations tablosuyla takip ederek uygular.
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// advisoryLockKey aynı anda iki runner'ın çalışmasını engeller
const advisoryLockKey = 7_240_113

// ErrChecksumMismatch uygulanmış bir migration dosyası sonradan değişmiş
var ErrChecksumMismatch = errors.New("uygulanmış migration dosyası değiştirilmiş")

// Runner migration işlemlerini yöneten ana yapı
type Runner struct {
	db     *sql.DB
	fsys   fs.FS
	config *Config
}

// NewRunner fsys içindeki *.up.sql / *.down.sql dosyaları için runner oluşturur
func NewRunner(db *sql.DB, fsys fs.FS, config *Config) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Runner{db: db, fsys: fsys, config: config}
}

type appliedRow struct {
	upChecksum   string
	downChecksum sql.NullString
	appliedAt    time.Time
}

// Initialize takip tablosunu oluşturur
func (r *Runner) Initialize(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version BIGINT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			up_checksum VARCHAR(64) NOT NULL,
			down_checksum VARCHAR(64),
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			execution_time_ms BIGINT NOT NULL DEFAULT 0,
			created_by VARCHAR(100) NOT NULL DEFAULT 'system'
		)`, pq.QuoteIdentifier(r.config.TableName))

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migration tracking tablosu oluşturulamadı: %w", err)
	}
	return nil
}

func (r *Runner) loadApplied(ctx context.Context) (map[int64]appliedRow, error) {
	query := fmt.Sprintf(`SELECT version, up_checksum, down_checksum, applied_at FROM %s ORDER BY version`,
		pq.QuoteIdentifier(r.config.TableName))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
			// İlk çalıştırma, tablo henüz yok
			return map[int64]appliedRow{}, nil
		}
		return nil, fmt.Errorf("uygulanmış migration'lar okunamadı: %w", err)
	}
	defer rows.Close()

	applied := make(map[int64]appliedRow)
	for rows.Next() {
		var version int64
		var row appliedRow
		if err := rows.Scan(&version, &row.upChecksum, &row.downChecksum, &row.appliedAt); err != nil {
			return nil, fmt.Errorf("migration kaydı okunamadı: %w", err)
		}
		applied[version] = row
	}
	return applied, rows.Err()
}

// Load dosyaları okur ve veritabanındaki kayıtlarla birleştirir
func (r *Runner) Load(ctx context.Context) ([]Migration, error) {
	migrations, err := loadMigrations(r.fsys, r.config.RequireDownFiles)
	if err != nil {
		return nil, err
	}

	applied, err := r.loadApplied(ctx)
	if err != nil {
		return nil, err
	}

	for i := range migrations {
		row, ok := applied[migrations[i].Version]
		if !ok {
			continue
		}
		migrations[i].Applied = true
		appliedAt := row.appliedAt
		migrations[i].AppliedAt = &appliedAt

		if r.config.ValidateChecksums && row.upChecksum != migrations[i].UpChecksum {
			return nil, fmt.Errorf("%w: version %d (%s)", ErrChecksumMismatch, migrations[i].Version, migrations[i].Name)
		}
	}
	return migrations, nil
}

// Status migration durumunu döner
func (r *Runner) Status(ctx context.Context) (*Status, error) {
	migrations, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{Migrations: migrations}
	for _, m := range migrations {
		if !m.Applied {
			status.PendingCount++
			continue
		}
		status.AppliedCount++
		if m.Version > status.CurrentVersion {
			status.CurrentVersion = m.Version
		}
		if m.AppliedAt != nil && (status.LastAppliedAt == nil || m.AppliedAt.After(*status.LastAppliedAt)) {
			status.LastAppliedAt = m.AppliedAt
		}
	}
	return status, nil
}

// Up bekleyen migration'ları sırayla uygular. İlk hatada durur.
func (r *Runner) Up(ctx context.Context) ([]Result, error) {
	if err := r.Initialize(ctx); err != nil {
		return nil, err
	}

	var results []Result
	err := r.withLock(ctx, func(conn *sql.Conn) error {
		migrations, err := r.Load(ctx)
		if err != nil {
			return err
		}

		for _, m := range migrations {
			if m.Applied {
				continue
			}
			result, err := r.execute(ctx, conn, m, DirectionUp)
			if err != nil {
				return err
			}
			results = append(results, result)
			log.Info().
				Int64("version", m.Version).
				Str("name", m.Name).
				Dur("duration", result.ExecutionTime).
				Msg("✅ Migration uygulandı")
		}
		return nil
	})
	return results, err
}

// Down son uygulanan steps adet migration'ı geri alır
func (r *Runner) Down(ctx context.Context, steps int) ([]Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps pozitif olmalı")
	}

	var results []Result
	err := r.withLock(ctx, func(conn *sql.Conn) error {
		migrations, err := r.Load(ctx)
		if err != nil {
			return err
		}

		for i := len(migrations) - 1; i >= 0 && len(results) < steps; i-- {
			m := migrations[i]
			if !m.Applied {
				continue
			}
			if !m.HasDownFile {
				return fmt.Errorf("version %d (%s) için DOWN dosyası yok", m.Version, m.Name)
			}
			result, err := r.execute(ctx, conn, m, DirectionDown)
			if err != nil {
				return err
			}
			results = append(results, result)
			log.Info().
				Int64("version", m.Version).
				Str("name", m.Name).
				Dur("duration", result.ExecutionTime).
				Msg("↩️  Migration geri alındı")
		}
		return nil
	})
	return results, err
}

// withLock işlemi session seviyesinde advisory lock altında çalıştırır
func (r *Runner) withLock(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("veritabanı bağlantısı alınamadı: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockKey); err != nil {
		return fmt.Errorf("migration kilidi alınamadı: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockKey); err != nil {
			log.Warn().Err(err).Msg("Migration kilidi bırakılamadı")
		}
	}()

	return fn(conn)
}

// execute migration'ı ve takip kaydını tek transaction içinde çalıştırır
func (r *Runner) execute(ctx context.Context, conn *sql.Conn, m Migration, direction Direction) (Result, error) {
	started := time.Now()
	result := Result{Version: m.Version, Name: m.Name, Direction: direction}

	sqlText := m.UpSQL
	if direction == DirectionDown {
		sqlText = m.DownSQL
	}
	statements := splitStatements(sqlText)
	if len(statements) == 0 {
		return result, fmt.Errorf("version %d %s: hiç SQL statement yok", m.Version, direction)
	}

	txCtx, cancel := context.WithTimeout(ctx, r.config.TransactionTimeout)
	defer cancel()

	tx, err := conn.BeginTx(txCtx, nil)
	if err != nil {
		return result, fmt.Errorf("transaction başlatılamadı: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range statements {
		if _, err := tx.ExecContext(txCtx, stmt); err != nil {
			return result, fmt.Errorf("version %d %s statement %d: %w", m.Version, direction, i+1, err)
		}
	}

	table := pq.QuoteIdentifier(r.config.TableName)
	if direction == DirectionUp {
		downChecksum := sql.NullString{String: m.DownChecksum, Valid: m.HasDownFile}
		_, err = tx.ExecContext(txCtx,
			fmt.Sprintf(`INSERT INTO %s (version, name, up_checksum, down_checksum, execution_time_ms, created_by)
				VALUES ($1, $2, $3, $4, $5, $6)`, table),
			m.Version, m.Name, m.UpChecksum, downChecksum, time.Since(started).Milliseconds(), r.config.CreatedBy)
	} else {
		_, err = tx.ExecContext(txCtx, fmt.Sprintf(`DELETE FROM %s WHERE version = $1`, table), m.Version)
	}
	if err != nil {
		return result, fmt.Errorf("migration kaydı güncellenemedi: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("transaction commit hatası: %w", err)
	}

	result.Statements = len(statements)
	result.ExecutionTime = time.Since(started)
	return result, nil
}
