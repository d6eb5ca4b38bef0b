package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Direction bakiye hareketinin yönü
type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

// Bilinen kural kodları
const (
	RuleUploadStickerset        = "UPLOAD_STICKERSET"
	RulePublishStickerset       = "PUBLISH_STICKERSET"
	RuleGenerateSticker         = "GENERATE_STICKER"
	RulePurchaseStars           = "PURCHASE_STARS"
	RuleAdminManualCredit       = "ADMIN_MANUAL_CREDIT"
	RuleAdminManualDebit        = "ADMIN_MANUAL_DEBIT"
	RuleReferralInviteeBonus    = "REFERRAL_INVITEE_BONUS"
	RuleReferralFirstGeneration = "REFERRAL_FIRST_GENERATION"
	RuleSwipeReward             = "SWIPE_REWARD"
)

var ruleCodePattern = regexp.MustCompile(`^[A-Z0-9_]{1,64}$`)

// Valid yön CREDIT veya DEBIT mi
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// Apply miktarın mutlak değerini yöne göre işaretler
func (d Direction) Apply(amount int64) int64 {
	if amount < 0 {
		amount = -amount
	}
	if d == DirectionDebit {
		return -amount
	}
	return amount
}

// Rule ART kazanma/harcama kuralı
type Rule struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Direction      Direction       `json:"direction"`
	Amount         int64           `json:"amount"`
	Enabled        bool            `json:"enabled"`
	Description    string          `json:"description,omitempty"`
	MetadataSchema json.RawMessage `json:"metadata_schema,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RuleInput kural oluşturma/güncelleme isteği. Nil alanlar değiştirilmez.
type RuleInput struct {
	Direction      *Direction      `json:"direction,omitempty"`
	Amount         *int64          `json:"amount,omitempty"`
	Enabled        *bool           `json:"enabled,omitempty"`
	Description    *string         `json:"description,omitempty"`
	MetadataSchema json.RawMessage `json:"metadata_schema,omitempty"`
}

// ValidateRuleCode kural kodunun formatını doğrular
func ValidateRuleCode(code string) error {
	if !ruleCodePattern.MatchString(code) {
		return fmt.Errorf("%w: kod [A-Z0-9_] karakterlerinden oluşmalı ve en fazla 64 karakter olmalı: %q", ErrInvalidRule, code)
	}
	return nil
}

// Validate kuralın tutarlı olduğunu kontrol eder
func (r *Rule) Validate() error {
	if err := ValidateRuleCode(r.Code); err != nil {
		return err
	}
	if !r.Direction.Valid() {
		return fmt.Errorf("%w: yön CREDIT veya DEBIT olmalı: %q", ErrInvalidRule, r.Direction)
	}
	if r.Amount < 0 {
		return fmt.Errorf("%w: miktar negatif olamaz", ErrInvalidRule)
	}
	if len(r.MetadataSchema) > 0 && !json.Valid(r.MetadataSchema) {
		return fmt.Errorf("%w: metadata_schema geçerli JSON değil", ErrInvalidRule)
	}
	return nil
}

// ApplyInput girdideki dolu alanları kurala uygular
func (r *Rule) ApplyInput(in *RuleInput) {
	if in == nil {
		return
	}
	if in.Direction != nil {
		r.Direction = *in.Direction
	}
	if in.Amount != nil {
		r.Amount = *in.Amount
	}
	if in.Enabled != nil {
		r.Enabled = *in.Enabled
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if len(in.MetadataSchema) > 0 {
		r.MetadataSchema = in.MetadataSchema
	}
}
