package models

import "time"

// FriendRequestStatus represents the status of a friend request.
type FriendRequestStatus string

const (
	// FriendRequestPending indicates a request awaiting an answer.
	FriendRequestPending FriendRequestStatus = "PENDING"
	// FriendRequestAccepted indicates the two users are friends.
	FriendRequestAccepted FriendRequestStatus = "ACCEPTED"
	// FriendRequestRejected indicates the addressee blocked the initiator.
	FriendRequestRejected FriendRequestStatus = "REJECTED"
)

// FriendRequest links two users. UserOne initiated it; the row is directional but
// stands for an undirected relationship.
type FriendRequest struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	UserOneID uint                `gorm:"not null;uniqueIndex:idx_friend_requests_pair" json:"user_one_id"`
	UserTwoID uint                `gorm:"not null;uniqueIndex:idx_friend_requests_pair;index" json:"user_two_id"`
	Status    FriendRequestStatus `gorm:"type:varchar(16);not null;default:'PENDING';index" json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`

	// Relationships
	UserOne *User `gorm:"foreignKey:UserOneID;constraint:OnDelete:CASCADE" json:"-"`
	UserTwo *User `gorm:"foreignKey:UserTwoID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Involves reports whether userID is one of the two ends of the request.
func (r FriendRequest) Involves(userID uint) bool {
	return r.UserOneID == userID || r.UserTwoID == userID
}

// Other returns the end of the request that is not userID.
func (r FriendRequest) Other(userID uint) uint {
	if r.UserOneID == userID {
		return r.UserTwoID
	}
	return r.UserOneID
}
