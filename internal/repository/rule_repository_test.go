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

var ruleCols = []string{"id", "code", "direction", "amount", "is_enabled", "description", "metadata_schema", "created_at", "updated_at"}

func TestRuleRepository_GetByCode(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRuleRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM art_rules WHERE code = $1`)).
		WithArgs("UPLOAD_STICKERSET").
		WillReturnRows(sqlmock.NewRows(ruleCols).
			AddRow(int64(1), "UPLOAD_STICKERSET", "CREDIT", int64(10), true, nil, nil, now, now))

	rule, err := repo.GetByCode(context.Background(), "UPLOAD_STICKERSET")

	require.NoError(t, err)
	assert.Equal(t, models.DirectionCredit, rule.Direction)
	assert.Equal(t, int64(10), rule.Amount)
	assert.True(t, rule.Enabled)
	assert.Empty(t, rule.Description)
	assert.Nil(t, rule.MetadataSchema)
}

func TestRuleRepository_GetByCode_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRuleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM art_rules WHERE code = $1`)).
		WithArgs("UNKNOWN_RULE").
		WillReturnRows(sqlmock.NewRows(ruleCols))

	_, err := repo.GetByCode(context.Background(), "UNKNOWN_RULE")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRuleRepository_Create_Duplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRuleRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO art_rules`)).
		WithArgs("SWIPE_REWARD", "CREDIT", int64(1), true, "", nil).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Rule{
		Code: "SWIPE_REWARD", Direction: models.DirectionCredit, Amount: 1, Enabled: true,
	})

	assert.ErrorIs(t, err, models.ErrRuleExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRuleRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE art_rules`)).
		WithArgs("GENERATE_STICKER", "DEBIT", int64(15), false, "Sticker üretimi", `{"type":"object"}`).
		WillReturnRows(sqlmock.NewRows(ruleCols).
			AddRow(int64(3), "GENERATE_STICKER", "DEBIT", int64(15), false, "Sticker üretimi", []byte(`{"type":"object"}`), now, now))

	updated, err := repo.Update(context.Background(), &models.Rule{
		Code: "GENERATE_STICKER", Direction: models.DirectionDebit, Amount: 15,
		Description: "Sticker üretimi", MetadataSchema: []byte(`{"type":"object"}`),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(15), updated.Amount)
	assert.False(t, updated.Enabled)
	assert.JSONEq(t, `{"type":"object"}`, string(updated.MetadataSchema))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRuleRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRuleRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM art_rules ORDER BY code`)).
		WillReturnRows(sqlmock.NewRows(ruleCols).
			AddRow(int64(5), "ADMIN_MANUAL_CREDIT", "CREDIT", int64(0), true, "Admin", nil, now, now).
			AddRow(int64(1), "UPLOAD_STICKERSET", "CREDIT", int64(10), true, nil, nil, now, now))

	rules, err := repo.List(context.Background())

	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "Admin", rules[0].Description)
}
