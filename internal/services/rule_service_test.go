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
	"github.com/stickerart/art-ledger/internal/models"
	"github.com/stickerart/art-ledger/internal/repository/memory"
)

func newRuleServiceWithMocks() (*RuleService, *MockRuleRepository, *MockAuditRepository) {
	repo := new(MockRuleRepository)
	audit := new(MockAuditRepository)
	return NewRuleService(repo, audit, DefaultRuleCacheConfig(), metrics.NewNoop()), repo, audit
}

// TestRuleService_GetEnabledRule_CachesEnabledRule, ikinci okumanın repository'ye gitmediğini test eder.
func TestRuleService_GetEnabledRule_CachesEnabledRule(t *testing.T) {
	// Arrange
	service, repo, _ := newRuleServiceWithMocks()
	repo.On("GetByCode", mock.Anything, "UPLOAD_STICKERSET").Return(&models.Rule{
		Code: "UPLOAD_STICKERSET", Direction: models.DirectionCredit, Amount: 10, Enabled: true,
	}, nil).Once()

	// Act
	first, err1 := service.GetEnabledRule(context.Background(), "UPLOAD_STICKERSET")
	second, err2 := service.GetEnabledRule(context.Background(), "UPLOAD_STICKERSET")

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, int64(10), first.Amount)
	assert.Equal(t, first, second)
	repo.AssertNumberOfCalls(t, "GetByCode", 1)
}

// TestRuleService_GetEnabledRule_ReturnsCopy, dönen kuralın değiştirilmesinin cache'i bozmadığını test eder.
func TestRuleService_GetEnabledRule_ReturnsCopy(t *testing.T) {
	service, repo, _ := newRuleServiceWithMocks()
	repo.On("GetByCode", mock.Anything, "SWIPE_REWARD").Return(&models.Rule{
		Code: "SWIPE_REWARD", Direction: models.DirectionCredit, Amount: 1, Enabled: true,
	}, nil).Once()

	first, err := service.GetEnabledRule(context.Background(), "SWIPE_REWARD")
	require.NoError(t, err)
	first.Amount = 1000

	second, err := service.GetEnabledRule(context.Background(), "SWIPE_REWARD")
	require.NoError(t, err)
	assert.Equal(t, int64(1), second.Amount)
}

// TestRuleService_GetEnabledRule_NotFound, olmayan kuralın RuleNotFound döndüğünü test eder.
func TestRuleService_GetEnabledRule_NotFound(t *testing.T) {
	service, repo, _ := newRuleServiceWithMocks()
	repo.On("GetByCode", mock.Anything, "UNKNOWN_RULE").Return(nil, models.ErrNotFound).Twice()

	_, err := service.GetEnabledRule(context.Background(), "UNKNOWN_RULE")
	_, again := service.GetEnabledRule(context.Background(), "UNKNOWN_RULE")

	assert.ErrorIs(t, err, models.ErrRuleNotFound)
	assert.ErrorIs(t, again, models.ErrRuleNotFound)
	repo.AssertExpectations(t)
}

// TestRuleService_GetEnabledRule_Disabled, devre dışı kuralın bulunamamış sayıldığını ve cache'lenmediğini test eder.
func TestRuleService_GetEnabledRule_Disabled(t *testing.T) {
	service, repo, _ := newRuleServiceWithMocks()
	repo.On("GetByCode", mock.Anything, "PUBLISH_STICKERSET").Return(&models.Rule{
		Code: "PUBLISH_STICKERSET", Direction: models.DirectionCredit, Amount: 10, Enabled: false,
	}, nil).Twice()

	_, err := service.GetEnabledRule(context.Background(), "PUBLISH_STICKERSET")
	_, _ = service.GetEnabledRule(context.Background(), "PUBLISH_STICKERSET")

	assert.ErrorIs(t, err, models.ErrRuleNotFound)
	repo.AssertNumberOfCalls(t, "GetByCode", 2)
}

// TestRuleService_GetEnabledRule_RepositoryError, depolama hatasının RuleNotFound'a dönüşmediğini test eder.
func TestRuleService_GetEnabledRule_RepositoryError(t *testing.T) {
	service, repo, _ := newRuleServiceWithMocks()
	repo.On("GetByCode", mock.Anything, "UPLOAD_STICKERSET").Return(nil, errors.New("connection refused"))

	_, err := service.GetEnabledRule(context.Background(), "UPLOAD_STICKERSET")

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrRuleNotFound)
}

// TestRuleService_UpdateRule_EvictsCache, güncellemeden sonra yeni değerin okunduğunu test eder.
func TestRuleService_UpdateRule_EvictsCache(t *testing.T) {
	// Arrange
	repo := memory.NewRuleStore(&models.Rule{
		Code: "UPLOAD_STICKERSET", Direction: models.DirectionCredit, Amount: 10, Enabled: true,
	})
	audit := memory.NewAuditStore()
	service := NewRuleService(repo, audit, DefaultRuleCacheConfig(), metrics.NewNoop())

	before, err := service.GetEnabledRule(context.Background(), "UPLOAD_STICKERSET")
	require.NoError(t, err)

	// Act
	updated, err := service.UpdateRule(context.Background(), "UPLOAD_STICKERSET",
		&models.RuleInput{Amount: models.Int64Ptr(25)}, "admin:1")
	require.NoError(t, err)
	after, err := service.GetEnabledRule(context.Background(), "UPLOAD_STICKERSET")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(10), before.Amount)
	assert.Equal(t, int64(25), updated.Amount)
	assert.Equal(t, int64(25), after.Amount)

	entries, err := audit.ListByEntity(context.Background(), models.AuditEntityRule, "UPLOAD_STICKERSET", models.PageParams{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionUpdate, entries[0].Action)
	assert.Equal(t, "admin:1", entries[0].Actor)
	assert.Contains(t, string(entries[0].OldData), `"amount":10`)
	assert.Contains(t, string(entries[0].NewData), `"amount":25`)
}

// TestRuleService_UpdateRule_DisableMakesRuleUnavailable, devre dışı bırakılan kuralın hemen reddedildiğini test eder.
func TestRuleService_UpdateRule_DisableMakesRuleUnavailable(t *testing.T) {
	repo := memory.NewRuleStore(memory.DefaultRules()...)
	service := NewRuleService(repo, memory.NewAuditStore(), DefaultRuleCacheConfig(), metrics.NewNoop())

	_, err := service.GetEnabledRule(context.Background(), models.RuleSwipeReward)
	require.NoError(t, err)

	disabled := false
	_, err = service.UpdateRule(context.Background(), models.RuleSwipeReward, &models.RuleInput{Enabled: &disabled}, "admin:1")
	require.NoError(t, err)

	_, err = service.GetEnabledRule(context.Background(), models.RuleSwipeReward)
	assert.ErrorIs(t, err, models.ErrRuleNotFound)
}

// TestRuleService_UpdateRule_InvalidInput, geçersiz güncellemenin yazılmadığını test eder.
func TestRuleService_UpdateRule_InvalidInput(t *testing.T) {
	service, repo, audit := newRuleServiceWithMocks()
	repo.On("GetByCode", mock.Anything, "UPLOAD_STICKERSET").Return(&models.Rule{
		Code: "UPLOAD_STICKERSET", Direction: models.DirectionCredit, Amount: 10, Enabled: true,
	}, nil)

	_, err := service.UpdateRule(context.Background(), "UPLOAD_STICKERSET",
		&models.RuleInput{Amount: models.Int64Ptr(-3)}, "admin:1")

	assert.ErrorIs(t, err, models.ErrInvalidRule)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestRuleService_CreateRule, yeni kuralın oluşturulup audit yazıldığını test eder.
func TestRuleService_CreateRule(t *testing.T) {
	service, repo, audit := newRuleServiceWithMocks()
	rule := &models.Rule{Code: "DAILY_LOGIN", Direction: models.DirectionCredit, Amount: 2, Enabled: true}

	repo.On("Create", mock.Anything, rule).Return(&models.Rule{
		ID: 12, Code: "DAILY_LOGIN", Direction: models.DirectionCredit, Amount: 2, Enabled: true,
	}, nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(e *models.AuditLog) bool {
		return e.EntityType == models.AuditEntityRule &&
			e.EntityID == "DAILY_LOGIN" &&
			e.Action == models.AuditActionCreate &&
			e.OldData == nil
	})).Return(nil)

	created, err := service.CreateRule(context.Background(), rule, "admin:7")

	require.NoError(t, err)
	assert.Equal(t, int64(12), created.ID)
	repo.AssertExpectations(t)
	audit.AssertExpectations(t)
}

// TestRuleService_CreateRule_AuditFailureIsNotFatal, audit hatasının kural oluşturmayı bozmadığını test eder.
func TestRuleService_CreateRule_AuditFailureIsNotFatal(t *testing.T) {
	service, repo, audit := newRuleServiceWithMocks()
	rule := &models.Rule{Code: "DAILY_LOGIN", Direction: models.DirectionCredit, Amount: 2, Enabled: true}

	repo.On("Create", mock.Anything, rule).Return(rule, nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(errors.New("audit tablosu yok"))

	created, err := service.CreateRule(context.Background(), rule, "admin:7")

	require.NoError(t, err)
	assert.Equal(t, "DAILY_LOGIN", created.Code)
}

// TestRuleService_CreateRule_Validation, geçersiz kural tanımlarını test eder.
func TestRuleService_CreateRule_Validation(t *testing.T) {
	tests := []struct {
		name string
		rule *models.Rule
	}{
		{"küçük harfli kod", &models.Rule{Code: "upload", Direction: models.DirectionCredit, Amount: 1}},
		{"boş kod", &models.Rule{Code: "", Direction: models.DirectionCredit, Amount: 1}},
		{"geçersiz yön", &models.Rule{Code: "X", Direction: "SIDEWAYS", Amount: 1}},
		{"negatif miktar", &models.Rule{Code: "X", Direction: models.DirectionDebit, Amount: -1}},
		{"bozuk şema", &models.Rule{Code: "X", Direction: models.DirectionDebit, Amount: 1, MetadataSchema: []byte(`{`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := newRuleServiceWithMocks()

			_, err := service.CreateRule(context.Background(), tt.rule, "admin:1")

			assert.ErrorIs(t, err, models.ErrInvalidRule)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

// TestRuleService_Invalidate, cache temizlendikten sonra repository'nin tekrar okunduğunu test eder.
func TestRuleService_Invalidate(t *testing.T) {
	service, repo, _ := newRuleServiceWithMocks()
	repo.On("GetByCode", mock.Anything, "UPLOAD_STICKERSET").Return(&models.Rule{
		Code: "UPLOAD_STICKERSET", Direction: models.DirectionCredit, Amount: 10, Enabled: true,
	}, nil)

	_, _ = service.GetEnabledRule(context.Background(), "UPLOAD_STICKERSET")
	service.Invalidate()
	_, err := service.GetEnabledRule(context.Background(), "UPLOAD_STICKERSET")

	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetByCode", 2)
}

// TestRuleService_CacheTTL, süresi dolan kaydın tekrar okunduğunu test eder.
func TestRuleService_CacheTTL(t *testing.T) {
	repo := new(MockRuleRepository)
	service := NewRuleService(repo, nil, RuleCacheConfig{Size: 8, TTL: 20 * time.Millisecond}, metrics.NewNoop())
	repo.On("GetByCode", mock.Anything, "UPLOAD_STICKERSET").Return(&models.Rule{
		Code: "UPLOAD_STICKERSET", Direction: models.DirectionCredit, Amount: 10, Enabled: true,
	}, nil)

	_, _ = service.GetEnabledRule(context.Background(), "UPLOAD_STICKERSET")
	time.Sleep(60 * time.Millisecond)
	_, err := service.GetEnabledRule(context.Background(), "UPLOAD_STICKERSET")

	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "GetByCode", 2)
}

// TestRuleService_ListRules
func TestRuleService_ListRules(t *testing.T) {
	repo := memory.NewRuleStore(memory.DefaultRules()...)
	service := NewRuleService(repo, nil, DefaultRuleCacheConfig(), metrics.NewNoop())

	rules, err := service.ListRules(context.Background())

	require.NoError(t, err)
	assert.Len(t, rules, len(memory.DefaultRules()))
	assert.Equal(t, models.RuleAdminManualCredit, rules[0].Code)
}
