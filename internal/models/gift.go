package models

import "time"

// Gift is an item wished for inside a category. Rank orders gifts within the category.
type Gift struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description *string   `json:"description,omitempty"`
	Price       *string   `gorm:"size:64" json:"price,omitempty"`
	WhereToBuy  *string   `json:"where_to_buy,omitempty"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Picture     *string   `json:"picture,omitempty"`
	Secret      bool      `gorm:"not null;default:false" json:"secret"`
	Rank        int       `gorm:"not null" json:"rank"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName specifies the table name for GORM
func (Gift) TableName() string {
	return "gifts"
}

// GiftFields holds the descriptive, caller-editable part of a gift.
type GiftFields struct {
	Name        string  `validate:"required,max=255"`
	Description *string `validate:"omitempty,max=4000"`
	Price       *string `validate:"omitempty,max=64"`
	WhereToBuy  *string `validate:"omitempty,max=2000"`
	Picture     *string `validate:"omitempty,max=1024"`
}

// Apply copies the fields onto g.
func (f GiftFields) Apply(g *Gift) {
	g.Name = f.Name
	g.Description = f.Description
	g.Price = f.Price
	g.WhereToBuy = f.WhereToBuy
	g.Picture = f.Picture
}
