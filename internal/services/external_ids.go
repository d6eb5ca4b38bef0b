package services

import (
	"fmt"
	"time"
)

// Ödül çağıranların kullandığı externalId şemaları. Aynı olay her zaman
// aynı id'yi üretmelidir.

func UploadExternalID(userID, stickerSetID int64) string {
	return fmt.Sprintf("sticker-upload:%d:%d", userID, stickerSetID)
}

func PublishExternalID(stickerSetName string) string {
	return "sticker-publish:" + stickerSetName
}

// ReferralExternalID kind: "first_generation" veya "invitee_bonus"
func ReferralExternalID(kind string, userID int64) string {
	return fmt.Sprintf("referral:%s:%d", kind, userID)
}

func SwipeExternalID(userID int64, day time.Time, milestone int) string {
	return fmt.Sprintf("swipe-reward:%d:%s:%d", userID, day.UTC().Format("2006-01-02"), milestone)
}

func ManualAdjustExternalID(id string) string {
	return "admin-manual-" + id
}
