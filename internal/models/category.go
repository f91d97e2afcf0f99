package models

import "time"

// Category groups gifts. Ownership lives in Share rows.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// Share grants a user ownership of a category at the user's own rank.
type Share struct {
	UserID     uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false;index" json:"category_id"`
	Rank       int  `gorm:"not null;index" json:"rank"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName specifies the table name for GORM
func (Share) TableName() string {
	return "shares"
}

// RankedCategory is a category as seen by one of its owners.
type RankedCategory struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Rank int    `json:"rank"`
}
