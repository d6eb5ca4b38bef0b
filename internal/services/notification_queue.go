package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stickerart/art-ledger/internal/interfaces"
	"github.com/stickerart/art-ledger/internal/metrics"
)

// NotificationJob queue'da gönderilecek bot mesajı
type NotificationJob struct {
	UserID     int64
	Text       string
	ResultChan chan NotificationResult
}

// NotificationResult gönderim sonucu
type NotificationResult struct {
	Delivered bool
	Error     error
}

// NotificationQueue bot mesajlarını worker havuzu ile gönderir
type NotificationQueue struct {
	jobChan     chan NotificationJob
	workers     int
	bufferSize  int
	sendTimeout time.Duration
	notifier    interfaces.Notifier
	metrics     *metrics.Metrics

	wg      sync.WaitGroup
	mu      sync.RWMutex
	stopped bool
}

// NewNotificationQueue yeni queue oluşturur
func NewNotificationQueue(workers int, notifier interfaces.Notifier, bufferSize int, m *metrics.Metrics) *NotificationQueue {
	if workers <= 0 {
		workers = 1
	}
	return &NotificationQueue{
		jobChan:     make(chan NotificationJob, bufferSize),
		workers:     workers,
		bufferSize:  bufferSize,
		sendTimeout: 10 * time.Second,
		notifier:    notifier,
		metrics:     m,
	}
}

// Start worker'ları başlatır
func (q *NotificationQueue) Start() {
	log.Info().
		Int("workers", q.workers).
		Int("buffer_size", q.bufferSize).
		Msg("🔄 Notification queue başlatıldı")

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(i)
	}
}

// Stop yeni iş almayı keser ve kuyruktakiler bitene kadar bekler
func (q *NotificationQueue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	close(q.jobChan)
	q.mu.Unlock()

	q.wg.Wait()
	log.Info().Msg("⏹️ Notification queue durduruldu")
}

func (q *NotificationQueue) worker(id int) {
	defer q.wg.Done()

	for job := range q.jobChan {
		q.process(id, job)
	}

	log.Debug().Int("worker_id", id).Msg("🛑 Notification worker durduruldu")
}

func (q *NotificationQueue) process(id int, job NotificationJob) {
	result := NotificationResult{}
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("recover", r).
				Int("worker_id", id).
				Msg("🚨 Notification worker panikledi ama toparlandı")
			result = NotificationResult{Error: fmt.Errorf("notifier panic: %v", r)}
		}
		job.ResultChan <- result
		close(job.ResultChan)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), q.sendTimeout)
	defer cancel()

	if err := q.notifier.SendMessage(ctx, job.UserID, job.Text); err != nil {
		q.metrics.Notification("failed")
		log.Warn().Err(err).Int("worker_id", id).Int64("user_id", job.UserID).Msg("❌ Bot mesajı gönderilemedi")
		result.Error = err
		return
	}

	q.metrics.Notification("delivered")
	log.Debug().Int("worker_id", id).Int64("user_id", job.UserID).Msg("📨 Bot mesajı gönderildi")
	result.Delivered = true
}

// Enqueue mesajı kuyruğa ekler. Kuyruk dolu veya kapalıysa sonuç hemen hata döner.
func (q *NotificationQueue) Enqueue(userID int64, text string) <-chan NotificationResult {
	resultChan := make(chan NotificationResult, 1)

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.stopped {
		q.metrics.Notification("dropped")
		resultChan <- NotificationResult{Error: fmt.Errorf("notification queue kapalı")}
		close(resultChan)
		return resultChan
	}

	select {
	case q.jobChan <- NotificationJob{UserID: userID, Text: text, ResultChan: resultChan}:
	default:
		q.metrics.Notification("dropped")
		resultChan <- NotificationResult{Error: fmt.Errorf("notification queue dolu, daha sonra tekrar deneyin")}
		close(resultChan)
	}
	return resultChan
}
