package models

import "time"

// BuyState is what a friend intends to do about a gift.
type BuyState string

const (
	BuyNone      BuyState = "NONE"
	BuyWantToBuy BuyState = "WANT_TO_BUY"
	BuyBought    BuyState = "BOUGHT"
)

// Valid reports whether s is one of the known buy states.
func (s BuyState) Valid() bool {
	switch s {
	case BuyNone, BuyWantToBuy, BuyBought:
		return true
	}
	return false
}

// FriendActionOnGift records a friend's interest in, or purchase of, a gift.
// A row only exists while Interested is true or Buy is not NONE.
type FriendActionOnGift struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	GiftID     uint      `gorm:"not null;uniqueIndex:idx_action_gift_user" json:"gift_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_action_gift_user;index" json:"user_id"`
	Interested bool      `gorm:"not null" json:"interested"`
	Buy        BuyState  `gorm:"type:varchar(16);not null" json:"buy"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Gift *Gift `gorm:"foreignKey:GiftID" json:"-"`
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (FriendActionOnGift) TableName() string {
	return "friend_actions_on_gifts"
}

// Empty reports whether the record carries no information and must not be stored.
func (a FriendActionOnGift) Empty() bool {
	return !a.Interested && a.Buy == BuyNone
}
