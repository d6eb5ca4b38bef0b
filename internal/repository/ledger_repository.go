package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/stickerart/art-ledger/internal/db"
	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/models"
)

const transactionColumns = `id, user_id, rule_code, direction, delta, balance_after, metadata, external_id, performed_by, created_at`

// LedgerRepository art_balances ve art_transactions tabloları üzerinde LedgerStore
type LedgerRepository struct {
	db          *sql.DB
	lockTimeout time.Duration
}

var _ interfaces.LedgerStore = (*LedgerRepository)(nil)

// NewLedgerRepository yeni repository oluşturur. lockTimeout > 0 ise her
// transaction'da SET LOCAL lock_timeout uygulanır.
func NewLedgerRepository(db *sql.DB, lockTimeout time.Duration) *LedgerRepository {
	return &LedgerRepository{db: db, lockTimeout: lockTimeout}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		t           models.Transaction
		direction   string
		metadata    []byte
		externalID  sql.NullString
		performedBy sql.NullInt64
	)

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.RuleCode,
		&direction,
		&t.Delta,
		&t.BalanceAfter,
		&metadata,
		&externalID,
		&performedBy,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Direction = models.Direction(direction)
	if len(metadata) > 0 {
		t.Metadata = metadata
	}
	if externalID.Valid {
		t.ExternalID = &externalID.String
	}
	if performedBy.Valid {
		t.PerformedBy = &performedBy.Int64
	}
	return &t, nil
}

// FindByExternalID external id ile transaction arar
func (r *LedgerRepository) FindByExternalID(ctx context.Context, externalID string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM art_transactions WHERE external_id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, externalID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("external id ile transaction aranamadı: %w", err)
	}
	return t, nil
}

// WithinTx fn'i tek bir PostgreSQL transaction'ı içinde çalıştırır
func (r *LedgerRepository) WithinTx(ctx context.Context, fn func(tx interfaces.LedgerTx) error) error {
	return db.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if r.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("lock_timeout ayarlanamadı: %w", err)
			}
		}
		return fn(&pgLedgerTx{tx: tx})
	})
}

// GetBalance bakiyeyi kilitsiz okur
func (r *LedgerRepository) GetBalance(ctx context.Context, userID int64) (*models.Balance, error) {
	balance := &models.Balance{UserID: userID}

	err := r.db.QueryRowContext(ctx,
		`SELECT amount, updated_at FROM art_balances WHERE user_id = $1`, userID,
	).Scan(&balance.Amount, &balance.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return balance, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bakiye sorgusu hatası: %w", err)
	}
	return balance, nil
}

// ListByUser kullanıcının transaction'larını en yeniden eskiye döner
func (r *LedgerRepository) ListByUser(ctx context.Context, userID int64, page models.PageParams) ([]*models.Transaction, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM art_transactions WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("transaction sayısı alınamadı: %w", err)
	}

	query := `SELECT ` + transactionColumns + `
		FROM art_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	items, err := r.queryTransactions(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListAll tüm transaction'ları en yeniden eskiye döner
func (r *LedgerRepository) ListAll(ctx context.Context, page models.PageParams) ([]*models.Transaction, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM art_transactions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("transaction sayısı alınamadı: %w", err)
	}

	query := `SELECT ` + transactionColumns + `
		FROM art_transactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	items, err := r.queryTransactions(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *LedgerRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]*models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("transaction listesi alınamadı: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("transaction scan hatası: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("transaction iteration hatası: %w", err)
	}
	return items, nil
}

// pgLedgerTx açık bir *sql.Tx üzerinde LedgerTx
type pgLedgerTx struct {
	tx *sql.Tx
}

// GetBalanceForUpdate SELECT ... FOR UPDATE ile satırı kilitler
func (t *pgLedgerTx) GetBalanceForUpdate(ctx context.Context, userID int64) (int64, error) {
	const selectForUpdate = `SELECT amount FROM art_balances WHERE user_id = $1 FOR UPDATE`

	var amount int64
	err := t.tx.QueryRowContext(ctx, selectForUpdate, userID).Scan(&amount)
	if err == nil {
		return amount, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, wrapLockError("bakiye kilitlenemedi", err)
	}

	// Bakiye yoksa oluştur. Aynı anda oluşturan başka bir transaction varsa
	// ON CONFLICT onun commit'ini bekler, ardından satır kilitlenir.
	if _, err := t.tx.ExecContext(ctx,
		`INSERT INTO art_balances (user_id, amount) VALUES ($1, 0) ON CONFLICT (user_id) DO NOTHING`, userID,
	); err != nil {
		return 0, wrapLockError("bakiye oluşturulamadı", err)
	}

	if err := t.tx.QueryRowContext(ctx, selectForUpdate, userID).Scan(&amount); err != nil {
		return 0, wrapLockError("bakiye kilitlenemedi", err)
	}
	return amount, nil
}

// UpdateBalance kilitli bakiyeyi günceller
func (t *pgLedgerTx) UpdateBalance(ctx context.Context, userID int64, amount int64) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE art_balances SET amount = $1, updated_at = NOW() WHERE user_id = $2`, amount, userID,
	)
	if err != nil {
		return fmt.Errorf("bakiye güncellenemedi: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("bakiye güncellenemedi: user_id=%d satırı yok", userID)
	}
	return nil
}

// InsertTransaction transaction kaydını ekler
func (t *pgLedgerTx) InsertTransaction(ctx context.Context, in *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO art_transactions (user_id, rule_code, direction, delta, balance_after, metadata, external_id, performed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	out := *in
	err := t.tx.QueryRowContext(ctx, query,
		in.UserID,
		in.RuleCode,
		string(in.Direction),
		in.Delta,
		in.BalanceAfter,
		nullableJSON(in.Metadata),
		nullableString(in.ExternalID),
		nullableInt64(in.PerformedBy),
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("transaction kaydı oluşturulamadı: %w", models.ErrDuplicateExternalID)
		}
		return nil, fmt.Errorf("transaction kaydı oluşturulamadı: %w", err)
	}
	return &out, nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
