package models

import (
	"errors"
	"fmt"
)

// Ledger hata sınıfları. Çağıranlar errors.Is ile kontrol eder.
var (
	ErrRuleNotFound        = errors.New("art kuralı bulunamadı veya devre dışı")
	ErrInvalidAmount       = errors.New("geçersiz art miktarı")
	ErrInsufficientBalance = errors.New("yetersiz art bakiyesi")
	ErrStorage             = errors.New("depolama hatası")
	ErrInvalidRequest      = errors.New("geçersiz istek")

	ErrDuplicateExternalID = errors.New("external id zaten kullanılmış")
	ErrNotFound            = errors.New("kayıt bulunamadı")
	ErrRuleExists          = errors.New("bu kodla bir kural zaten var")
	ErrInvalidRule         = errors.New("geçersiz kural tanımı")
	ErrLockTimeout         = errors.New("bakiye kilidi beklenirken süre aşıldı")
)

// ErrorKind hatanın hangi sınıfa ait olduğunu belirtir
type ErrorKind int

const (
	KindRuleNotFound ErrorKind = iota + 1
	KindInvalidAmount
	KindInsufficientBalance
	KindStorage
	KindInvalidRequest
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindRuleNotFound:
		return ErrRuleNotFound
	case KindInvalidAmount:
		return ErrInvalidAmount
	case KindInsufficientBalance:
		return ErrInsufficientBalance
	case KindInvalidRequest:
		return ErrInvalidRequest
	default:
		return ErrStorage
	}
}

func (k ErrorKind) String() string {
	switch k {
	case KindRuleNotFound:
		return "rule_not_found"
	case KindInvalidAmount:
		return "invalid_amount"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindInvalidRequest:
		return "invalid_request"
	default:
		return "storage_failure"
	}
}

// LedgerError Award ve sorgu operasyonlarının döndürdüğü hata
type LedgerError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *LedgerError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind.sentinel())
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind.sentinel(), e.Err)
}

// Is errors.Is(err, ErrInsufficientBalance) gibi kontrollerin çalışmasını sağlar
func (e *LedgerError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Retryable sadece depolama hataları tekrar denenebilir
func (e *LedgerError) Retryable() bool {
	return e.Kind == KindStorage
}

// NewLedgerError yeni bir LedgerError oluşturur
func NewLedgerError(kind ErrorKind, op string, err error) *LedgerError {
	return &LedgerError{Kind: kind, Op: op, Err: err}
}

// KindOf hatanın sınıfını döner, ledger hatası değilse 0
func KindOf(err error) ErrorKind {
	var le *LedgerError
	if errors.As(err, &le) {
		return le.Kind
	}
	switch {
	case errors.Is(err, ErrRuleNotFound):
		return KindRuleNotFound
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrInsufficientBalance):
		return KindInsufficientBalance
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	case errors.Is(err, ErrStorage):
		return KindStorage
	}
	return 0
}
