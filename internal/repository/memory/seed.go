package memory

import "github.com/stickerart/art-ledger/internal/models"

// DefaultRules ilk migration'daki kural seti
func DefaultRules() []*models.Rule {
	return []*models.Rule{
		{Code: models.RuleUploadStickerset, Direction: models.DirectionCredit, Amount: 10, Enabled: true, Description: "Stickerset yükleme ödülü"},
		{Code: models.RulePublishStickerset, Direction: models.DirectionCredit, Amount: 10, Enabled: true, Description: "Stickerset yayınlama ödülü"},
		{Code: models.RuleGenerateSticker, Direction: models.DirectionDebit, Amount: 10, Enabled: true, Description: "Sticker üretimi"},
		{Code: models.RulePurchaseStars, Direction: models.DirectionCredit, Amount: 0, Enabled: true, Description: "Telegram Stars ile ART satın alma"},
		{Code: models.RuleAdminManualCredit, Direction: models.DirectionCredit, Amount: 0, Enabled: true, Description: "Admin manuel ekleme"},
		{Code: models.RuleAdminManualDebit, Direction: models.DirectionDebit, Amount: 0, Enabled: true, Description: "Admin manuel düşme"},
		{Code: models.RuleReferralInviteeBonus, Direction: models.DirectionCredit, Amount: 100, Enabled: true, Description: "Davet edilen kullanıcı bonusu"},
		{Code: models.RuleReferralFirstGeneration, Direction: models.DirectionCredit, Amount: 50, Enabled: true, Description: "Davet edilenin ilk üretimi"},
		{Code: models.RuleSwipeReward, Direction: models.DirectionCredit, Amount: 1, Enabled: true, Description: "Swipe milestone ödülü"},
	}
}

// DefaultPackages ilk migration'daki stars paketleri
func DefaultPackages() []*models.StarsPackage {
	return []*models.StarsPackage{
		{ID: 1, Code: "STARTER", Name: "Starter", StarsPrice: 50, ArtAmount: 100, Enabled: true, SortOrder: 1},
		{ID: 2, Code: "BASIC", Name: "Basic", StarsPrice: 100, ArtAmount: 220, Enabled: true, SortOrder: 2},
		{ID: 3, Code: "PRO", Name: "Pro", StarsPrice: 250, ArtAmount: 600, Enabled: true, SortOrder: 3},
	}
}
