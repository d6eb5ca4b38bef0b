package models

import (
	"encoding/json"
	"time"
)

// Transaction değişmez ART hareket kaydı
type Transaction struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	RuleCode     string          `json:"rule_code"`
	Direction    Direction       `json:"direction"`
	Delta        int64           `json:"delta"`
	BalanceAfter int64           `json:"balance_after"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	ExternalID   *string         `json:"external_id,omitempty"`
	PerformedBy  *int64          `json:"performed_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AwardRequest Award çağrısının parametreleri
type AwardRequest struct {
	UserID         int64           `json:"userId"`
	RuleCode       string          `json:"ruleCode"`
	OverrideAmount *int64          `json:"overrideAmount,omitempty"`
	Metadata       json.RawMessage `json:"metadata,omitempty"`
	ExternalID     *string         `json:"externalId,omitempty"`
	PerformedBy    *int64          `json:"performedBy,omitempty"`
}

// PageParams sayfalama parametreleri
type PageParams struct {
	Limit  int
	Offset int
}

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Normalize limit ve offset'i geçerli aralığa çeker
func (p PageParams) Normalize() PageParams {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// TransactionPage sayfalanmış transaction listesi (en yeni önce)
type TransactionPage struct {
	Items  []*Transaction `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// StringPtr opsiyonel alanlar için yardımcı
func StringPtr(s string) *string { return &s }

// Int64Ptr opsiyonel alanlar için yardımcı
func Int64Ptr(v int64) *int64 { return &v }
