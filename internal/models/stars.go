package models

import (
	"encoding/json"
	"errors"
	"time"
)

// Telegram Stars webhook sabitleri
const (
	StarsPaymentEvent = "telegram_stars_payment_succeeded"
	StarsCurrency     = "XTR"
)

var (
	ErrInvalidWebhook   = errors.New("geçersiz webhook isteği")
	ErrPackageNotFound  = errors.New("stars paketi bulunamadı veya devre dışı")
	ErrPriceMismatch    = errors.New("ödenen stars miktarı paket fiyatıyla uyuşmuyor")
	ErrInvalidSignature = errors.New("geçersiz webhook imzası")
)

// StarsPackage satın alınabilir ART paketi
type StarsPackage struct {
	ID          int64     `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	StarsPrice  int64     `json:"stars_price"`
	ArtAmount   int64     `json:"art_amount"`
	Enabled     bool      `json:"enabled"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

// StarsPurchase tamamlanmış bir Stars ödemesi
type StarsPurchase struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	PackageID        int64     `json:"package_id"`
	PackageCode      string    `json:"package_code"`
	StarsPaid        int64     `json:"stars_paid"`
	ArtCredited      int64     `json:"art_credited"`
	TelegramChargeID string    `json:"telegram_charge_id"`
	InvoicePayload   string    `json:"invoice_payload"`
	ArtTransactionID int64     `json:"art_transaction_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// WebhookPaymentRequest bot tarafından iletilen ödeme bildirimi
type WebhookPaymentRequest struct {
	Event            string `json:"event"`
	UserID           int64  `json:"user_id"`
	AmountStars      int64  `json:"amount_stars"`
	Currency         string `json:"currency"`
	TelegramChargeID string `json:"telegram_charge_id"`
	InvoicePayload   string `json:"invoice_payload"`
	Timestamp        int64  `json:"timestamp"`
}

// InvoicePayload invoice_payload alanının içeriği
type InvoicePayload struct {
	PackageID   json.Number `json:"package_id"`
	PackageCode string      `json:"package_code,omitempty"`
}

// ProcessPaymentResponse webhook cevabı
type ProcessPaymentResponse struct {
	Success      bool   `json:"success"`
	PurchaseID   int64  `json:"purchaseId,omitempty"`
	ArtCredited  int64  `json:"artCredited,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}
