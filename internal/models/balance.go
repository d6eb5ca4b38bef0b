package models

import "time"

// Balance kullanıcının ART bakiyesi
type Balance struct {
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}
