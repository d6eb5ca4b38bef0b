package models

import (
	"encoding/json"
	"time"
)

// Audit entity tipleri ve aksiyonları
const (
	AuditEntityRule = "art_rule"

	AuditActionCreate = "create"
	AuditActionUpdate = "update"
)

// AuditLog kural değişikliklerinin kaydı
type AuditLog struct {
	ID         int64           `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	Actor      string          `json:"actor"`
	OldData    json.RawMessage `json:"old_data,omitempty"`
	NewData    json.RawMessage `json:"new_data,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
