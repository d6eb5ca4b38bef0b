package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/models"
)

// ManualTransactionResult admin işlemi ve mesaj gönderim durumu
type ManualTransactionResult struct {
	Transaction  *models.Transaction `json:"transaction"`
	MessageSent  bool                `json:"messageSent"`
	MessageError string              `json:"messageError,omitempty"`
}

type notificationSink interface {
	Enqueue(userID int64, text string) <-chan NotificationResult
}

// AdminService admin tarafındaki ledger işlemleri
type AdminService struct {
	ledger interfaces.LedgerServiceInterface
	queue  notificationSink
}

// NewAdminService queue nil olabilir, o durumda mesaj gönderilmez
func NewAdminService(ledger interfaces.LedgerServiceInterface, queue notificationSink) *AdminService {
	return &AdminService{ledger: ledger, queue: queue}
}

// ManualTransaction bakiyeyi düzeltir ve istenirse kullanıcıya mesaj gönderir.
// Mesaj gönderilemese de transaction geri alınmaz.
func (s *AdminService) ManualTransaction(ctx context.Context, adminID, userID, amount int64, message string, notify bool) (*ManualTransactionResult, error) {
	tx, err := s.ledger.ManualAdjust(ctx, adminID, userID, amount, message)
	if err != nil {
		return nil, err
	}

	result := &ManualTransactionResult{Transaction: tx}
	if !notify || message == "" {
		return result, nil
	}
	if s.queue == nil {
		result.MessageError = "bot mesajı yapılandırılmamış"
		return result, nil
	}

	select {
	case res := <-s.queue.Enqueue(userID, message):
		if res.Error != nil {
			result.MessageError = res.Error.Error()
		} else {
			result.MessageSent = res.Delivered
		}
	case <-ctx.Done():
		result.MessageError = fmt.Sprintf("mesaj sonucu beklenemedi: %v", ctx.Err())
	}

	log.Info().
		Int64("admin_id", adminID).
		Int64("user_id", userID).
		Int64("transaction_id", tx.ID).
		Bool("message_sent", result.MessageSent).
		Msg("🛠️ Admin manuel ART işlemi")

	return result, nil
}
