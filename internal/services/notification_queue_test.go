package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stickerart/art-ledger/internal/metrics"
)

func waitResult(t *testing.T, ch <-chan NotificationResult) NotificationResult {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("bildirim sonucu zamanında gelmedi")
		return NotificationResult{}
	}
}

// TestNotificationQueue_Delivers, mesajın notifier'a iletildiğini test eder.
func TestNotificationQueue_Delivers(t *testing.T) {
	// Arrange
	notifier := new(MockNotifier)
	notifier.On("SendMessage", mock.Anything, int64(42), "merhaba").Return(nil)
	queue := NewNotificationQueue(2, notifier, 4, metrics.NewNoop())
	queue.Start()
	defer queue.Stop()

	// Act
	res := waitResult(t, queue.Enqueue(42, "merhaba"))

	// Assert
	assert.True(t, res.Delivered)
	assert.NoError(t, res.Error)
	notifier.AssertExpectations(t)
}

// TestNotificationQueue_SendFailure, gönderim hatasının sonuçta döndüğünü test eder.
func TestNotificationQueue_SendFailure(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("SendMessage", mock.Anything, int64(42), "merhaba").Return(errors.New("Forbidden: bot was blocked by the user"))
	queue := NewNotificationQueue(1, notifier, 1, metrics.NewNoop())
	queue.Start()
	defer queue.Stop()

	res := waitResult(t, queue.Enqueue(42, "merhaba"))

	assert.False(t, res.Delivered)
	assert.ErrorContains(t, res.Error, "blocked")
}

// TestNotificationQueue_RecoversPanic, notifier panik yaptığında worker'ın çalışmaya devam ettiğini test eder.
func TestNotificationQueue_RecoversPanic(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("SendMessage", mock.Anything, int64(1), "boom").Panic("beklenmeyen durum").Once()
	notifier.On("SendMessage", mock.Anything, int64(2), "ok").Return(nil).Once()
	queue := NewNotificationQueue(1, notifier, 2, metrics.NewNoop())
	queue.Start()
	defer queue.Stop()

	first := waitResult(t, queue.Enqueue(1, "boom"))
	second := waitResult(t, queue.Enqueue(2, "ok"))

	assert.ErrorContains(t, first.Error, "panic")
	assert.True(t, second.Delivered)
}

// TestNotificationQueue_FullQueue, kuyruk doluyken hemen hata döndüğünü test eder.
func TestNotificationQueue_FullQueue(t *testing.T) {
	notifier := new(MockNotifier)
	queue := NewNotificationQueue(1, notifier, 1, metrics.NewNoop())
	// Worker başlatılmadı, kuyruk tek işle dolar

	pending := queue.Enqueue(1, "ilk")
	res := waitResult(t, queue.Enqueue(2, "ikinci"))

	assert.ErrorContains(t, res.Error, "dolu")

	notifier.On("SendMessage", mock.Anything, int64(1), "ilk").Return(nil)
	queue.Start()
	assert.True(t, waitResult(t, pending).Delivered)
	queue.Stop()
}

// TestNotificationQueue_StopDrainsAndRejects, Stop'un kuyruktakileri bitirdiğini ve sonra iş almadığını test eder.
func TestNotificationQueue_StopDrainsAndRejects(t *testing.T) {
	notifier := new(MockNotifier)
	notifier.On("SendMessage", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
		}).
		Return(nil)
	queue := NewNotificationQueue(2, notifier, 10, metrics.NewNoop())
	queue.Start()

	results := make([]<-chan NotificationResult, 0, 5)
	for i := int64(1); i <= 5; i++ {
		results = append(results, queue.Enqueue(i, "toplu"))
	}
	queue.Stop()
	queue.Stop()

	for _, ch := range results {
		require.True(t, waitResult(t, ch).Delivered)
	}
	notifier.AssertNumberOfCalls(t, "SendMessage", 5)

	res := waitResult(t, queue.Enqueue(6, "geç"))
	assert.ErrorContains(t, res.Error, "kapalı")
}
