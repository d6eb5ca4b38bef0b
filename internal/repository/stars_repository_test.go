package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stickerart/art-ledger/internal/models"
)

func TestStarsRepository_GetPackageByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStarsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM stars_packages WHERE id = $1`)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "description", "stars_price", "art_amount", "is_enabled", "sort_order", "created_at"}).
			AddRow(int64(2), "BASIC", "Basic", nil, int64(100), int64(220), true, 2, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM stars_packages WHERE id = $1`)).
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	pkg, err := repo.GetPackageByID(context.Background(), 2)
	require.NoError(t, err)
	_, missingErr := repo.GetPackageByID(context.Background(), 404)

	assert.Equal(t, int64(220), pkg.ArtAmount)
	assert.ErrorIs(t, missingErr, models.ErrNotFound)
}

func TestStarsRepository_CreatePurchase_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStarsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO stars_purchases`)).
		WithArgs(int64(77), int64(2), "BASIC", int64(100), int64(220), "charge-abc", `{"package_id":2}`, int64(9)).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.CreatePurchase(context.Background(), &models.StarsPurchase{
		UserID: 77, PackageID: 2, PackageCode: "BASIC", StarsPaid: 100, ArtCredited: 220,
		TelegramChargeID: "charge-abc", InvoicePayload: `{"package_id":2}`, ArtTransactionID: 9,
	})

	assert.ErrorIs(t, err, models.ErrDuplicateExternalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStarsRepository_FindPurchaseByChargeID_Missing(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStarsRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM stars_purchases WHERE telegram_charge_id = $1`)).
		WithArgs("charge-404").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := repo.FindPurchaseByChargeID(context.Background(), "charge-404")

	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestAuditRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO audit_logs`)).
		WithArgs(models.AuditEntityRule, "UPLOAD_STICKERSET", models.AuditActionUpdate, "admin:1", `{"amount":10}`, `{"amount":25}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Create(context.Background(), &models.AuditLog{
		EntityType: models.AuditEntityRule, EntityID: "UPLOAD_STICKERSET", Action: models.AuditActionUpdate,
		Actor: "admin:1", OldData: []byte(`{"amount":10}`), NewData: []byte(`{"amount":25}`),
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
