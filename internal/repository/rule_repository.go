package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/models"
)

const ruleColumns = `id, code, direction, amount, is_enabled, description, metadata_schema, created_at, updated_at`

// RuleRepository art_rules tablosu işlemleri
type RuleRepository struct {
	db *sql.DB
}

var _ interfaces.RuleRepositoryInterface = (*RuleRepository)(nil)

// NewRuleRepository yeni repository oluşturur
func NewRuleRepository(db *sql.DB) *RuleRepository {
	return &RuleRepository{db: db}
}

func scanRule(row rowScanner) (*models.Rule, error) {
	var (
		rule        models.Rule
		direction   string
		description sql.NullString
		schema      []byte
	)
	if err := row.Scan(
		&rule.ID,
		&rule.Code,
		&direction,
		&rule.Amount,
		&rule.Enabled,
		&description,
		&schema,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rule.Direction = models.Direction(direction)
	rule.Description = description.String
	if len(schema) > 0 {
		rule.MetadataSchema = schema
	}
	return &rule, nil
}

// GetByCode kod ile kural getirir (etkin olup olmadığına bakmaz)
func (r *RuleRepository) GetByCode(ctx context.Context, code string) (*models.Rule, error) {
	rule, err := scanRule(r.db.QueryRowContext(ctx,
		`SELECT `+ruleColumns+` FROM art_rules WHERE code = $1`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kural sorgusu hatası: %w", err)
	}
	return rule, nil
}

// List tüm kuralları koda göre sıralı döner
func (r *RuleRepository) List(ctx context.Context) ([]*models.Rule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ruleColumns+` FROM art_rules ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("kural listesi alınamadı: %w", err)
	}
	defer rows.Close()

	rules := make([]*models.Rule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("kural scan hatası: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kural iteration hatası: %w", err)
	}
	return rules, nil
}

// Create yeni kural ekler
func (r *RuleRepository) Create(ctx context.Context, rule *models.Rule) (*models.Rule, error) {
	query := `
		INSERT INTO art_rules (code, direction, amount, is_enabled, description, metadata_schema)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + ruleColumns

	created, err := scanRule(r.db.QueryRowContext(ctx, query,
		rule.Code,
		string(rule.Direction),
		rule.Amount,
		rule.Enabled,
		rule.Description,
		nullableJSON(rule.MetadataSchema),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrRuleExists
		}
		return nil, fmt.Errorf("kural oluşturulamadı: %w", err)
	}
	return created, nil
}

// Update kuralı kod üzerinden günceller
func (r *RuleRepository) Update(ctx context.Context, rule *models.Rule) (*models.Rule, error) {
	query := `
		UPDATE art_rules
		SET direction = $2, amount = $3, is_enabled = $4, description = $5, metadata_schema = $6, updated_at = NOW()
		WHERE code = $1
		RETURNING ` + ruleColumns

	updated, err := scanRule(r.db.QueryRowContext(ctx, query,
		rule.Code,
		string(rule.Direction),
		rule.Amount,
		rule.Enabled,
		rule.Description,
		nullableJSON(rule.MetadataSchema),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kural güncellenemedi: %w", err)
	}
	return updated, nil
}
