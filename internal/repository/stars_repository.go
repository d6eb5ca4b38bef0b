package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/models"
)

const (
	packageColumns  = `id, code, name, description, stars_price, art_amount, is_enabled, sort_order, created_at`
	purchaseColumns = `id, user_id, package_id, package_code, stars_paid, art_credited, telegram_charge_id, invoice_payload, art_transaction_id, created_at`
)

// StarsRepository stars_packages ve stars_purchases tabloları
type StarsRepository struct {
	db *sql.DB
}

var _ interfaces.StarsRepositoryInterface = (*StarsRepository)(nil)

// NewStarsRepository yeni repository oluşturur
func NewStarsRepository(db *sql.DB) *StarsRepository {
	return &StarsRepository{db: db}
}

func scanPackage(row rowScanner) (*models.StarsPackage, error) {
	var (
		p           models.StarsPackage
		description sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Code, &p.Name, &description, &p.StarsPrice,
		&p.ArtAmount, &p.Enabled, &p.SortOrder, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Description = description.String
	return &p, nil
}

func scanPurchase(row rowScanner) (*models.StarsPurchase, error) {
	var p models.StarsPurchase
	if err := row.Scan(&p.ID, &p.UserID, &p.PackageID, &p.PackageCode, &p.StarsPaid,
		&p.ArtCredited, &p.TelegramChargeID, &p.InvoicePayload, &p.ArtTransactionID, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPackageByID paket getirir, yoksa models.ErrNotFound
func (r *StarsRepository) GetPackageByID(ctx context.Context, id int64) (*models.StarsPackage, error) {
	p, err := scanPackage(r.db.QueryRowContext(ctx,
		`SELECT `+packageColumns+` FROM stars_packages WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("paket sorgusu hatası: %w", err)
	}
	return p, nil
}

// ListActivePackages etkin paketleri sort_order'a göre döner
func (r *StarsRepository) ListActivePackages(ctx context.Context) ([]*models.StarsPackage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+packageColumns+` FROM stars_packages WHERE is_enabled = TRUE ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("paket listesi alınamadı: %w", err)
	}
	defer rows.Close()

	packages := make([]*models.StarsPackage, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("paket scan hatası: %w", err)
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

// FindPurchaseByChargeID telegram charge id ile satın alım arar
func (r *StarsRepository) FindPurchaseByChargeID(ctx context.Context, chargeID string) (*models.StarsPurchase, error) {
	p, err := scanPurchase(r.db.QueryRowContext(ctx,
		`SELECT `+purchaseColumns+` FROM stars_purchases WHERE telegram_charge_id = $1`, chargeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("satın alım sorgusu hatası: %w", err)
	}
	return p, nil
}

// CreatePurchase satın alım kaydı ekler
func (r *StarsRepository) CreatePurchase(ctx context.Context, in *models.StarsPurchase) (*models.StarsPurchase, error) {
	query := `
		INSERT INTO stars_purchases (user_id, package_id, package_code, stars_paid, art_credited, telegram_charge_id, invoice_payload, art_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	out := *in
	err := r.db.QueryRowContext(ctx, query,
		in.UserID, in.PackageID, in.PackageCode, in.StarsPaid, in.ArtCredited,
		in.TelegramChargeID, in.InvoicePayload, in.ArtTransactionID,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("satın alım kaydı oluşturulamadı: %w", models.ErrDuplicateExternalID)
		}
		return nil, fmt.Errorf("satın alım kaydı oluşturulamadı: %w", err)
	}
	return &out, nil
}

// ListPurchasesByUser kullanıcının satın alımlarını en yeniden eskiye döner
func (r *StarsRepository) ListPurchasesByUser(ctx context.Context, userID int64, page models.PageParams) ([]*models.StarsPurchase, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+purchaseColumns+`
		FROM stars_purchases
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("satın alım listesi alınamadı: %w", err)
	}
	defer rows.Close()

	purchases := make([]*models.StarsPurchase, 0)
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("satın alım scan hatası: %w", err)
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}
