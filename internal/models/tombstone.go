package models

import "time"

// OwnerStatus is the reason an owner gives when deleting a gift.
type OwnerStatus string

const (
	OwnerStatusReceived  OwnerStatus = "RECEIVED"
	OwnerStatusNotWanted OwnerStatus = "NOT_WANTED"
)

// Valid reports whether s is one of the known owner statuses.
func (s OwnerStatus) Valid() bool {
	return s == OwnerStatusReceived || s == OwnerStatusNotWanted
}

// ToDeleteGift is the tombstone left to an actor when a gift they acted on is deleted.
// GiftID carries no foreign key; the gift row no longer exists.
type ToDeleteGift struct {
	GiftID       uint        `gorm:"primaryKey;autoIncrement:false" json:"gift_id"`
	ActingUserID uint        `gorm:"primaryKey;autoIncrement:false;index" json:"acting_user_id"`
	OwnerUserID  uint        `gorm:"not null" json:"owner_user_id"`
	Name         string      `gorm:"not null;size:255" json:"name"`
	Description  *string     `json:"description,omitempty"`
	Price        *string     `gorm:"size:64" json:"price,omitempty"`
	WhereToBuy   *string     `json:"where_to_buy,omitempty"`
	Picture      *string     `json:"picture,omitempty"`
	OwnerStatus  OwnerStatus `gorm:"type:varchar(16);not null" json:"owner_status"`
	Interested   bool        `gorm:"not null" json:"interested"`
	Action       BuyState    `gorm:"type:varchar(16);not null" json:"action"`
	CreatedAt    time.Time   `json:"created_at"`

	ActingUser *User `gorm:"foreignKey:ActingUserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (ToDeleteGift) TableName() string {
	return "to_delete_gifts"
}

// NewTombstone snapshots gift for the actor that held action on it.
func NewTombstone(gift Gift, ownerID uint, status OwnerStatus, action FriendActionOnGift) ToDeleteGift {
	return ToDeleteGift{
		GiftID:       gift.ID,
		ActingUserID: action.UserID,
		OwnerUserID:  ownerID,
		Name:         gift.Name,
		Description:  gift.Description,
		Price:        gift.Price,
		WhereToBuy:   gift.WhereToBuy,
		Picture:      gift.Picture,
		OwnerStatus:  status,
		Interested:   action.Interested,
		Action:       action.Buy,
	}
}

// AllModels lists every persisted model in dependency order for migrations.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&FriendRequest{},
		&Category{},
		&Share{},
		&Gift{},
		&FriendActionOnGift{},
		&ToDeleteGift{},
	}
}
