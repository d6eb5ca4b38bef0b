package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/models"
)

// AuditRepository audit log database işlemleri
type AuditRepository struct {
	db *sql.DB
}

var _ interfaces.AuditRepositoryInterface = (*AuditRepository)(nil)

// NewAuditRepository yeni repository oluşturur
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create yeni audit log oluşturur
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (entity_type, entity_id, action, actor, old_data, new_data)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		entry.Actor,
		nullableJSON(entry.OldData),
		nullableJSON(entry.NewData),
	)
	if err != nil {
		return fmt.Errorf("audit log oluşturulamadı: %w", err)
	}
	return nil
}

// ListByEntity bir entity'nin audit loglarını en yeniden eskiye döner
func (r *AuditRepository) ListByEntity(ctx context.Context, entityType, entityID string, page models.PageParams) ([]*models.AuditLog, error) {
	query := `
		SELECT id, entity_type, entity_id, action, actor, old_data, new_data, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, entityType, entityID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("audit logları alınamadı: %w", err)
	}
	defer rows.Close()

	logs := make([]*models.AuditLog, 0)
	for rows.Next() {
		var (
			entry            models.AuditLog
			oldData, newData []byte
		)
		if err := rows.Scan(&entry.ID, &entry.EntityType, &entry.EntityID, &entry.Action,
			&entry.Actor, &oldData, &newData, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("audit log scan hatası: %w", err)
		}
		entry.OldData = oldData
		entry.NewData = newData
		logs = append(logs, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit log iteration hatası: %w", err)
	}
	return logs, nil
}
