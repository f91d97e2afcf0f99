package repository

import (
	"context"
	"errors"

	"giftlist/internal/models"
	"giftlist/internal/observability"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friend request data operations
type FriendRepository interface {
	Create(ctx context.Context, req *models.FriendRequest) error
	GetByID(ctx context.Context, id uint) (*models.FriendRequest, error)
	// GetDirectional returns the request sent by from to to, or nil.
	GetDirectional(ctx context.Context, from, to uint) (*models.FriendRequest, error)
	// GetEitherDirection returns the request linking a and b whichever sent it, or nil.
	GetEitherDirection(ctx context.Context, a, b uint) (*models.FriendRequest, error)
	ListInitiated(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	ListReceived(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	ListBlocked(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	ListFriends(ctx context.Context, userID uint) ([]models.User, error)
	AreFriends(ctx context.Context, a, b uint) (bool, error)
	UpdateStatus(ctx context.Context, id uint, status models.FriendRequestStatus) error
	Delete(ctx context.Context, id uint) error
}

// friendRepository implements FriendRepository
type friendRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db, log: observability.NewRepoLogger("friend_requests")}
}

func (r *friendRepository) Create(ctx context.Context, req *models.FriendRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("A friend request already exists between these users").
				WithReason(models.ErrRequestExists)
		}
		return persistence(ctx, r.log, "CreateFriendRequest", err)
	}
	r.log.LogWrite(ctx, "create", "id", req.ID, "from", req.UserOneID, "to", req.UserTwoID)
	return nil
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, mapError(ctx, r.log, "GetFriendRequest", "FriendRequest", id, err)
	}
	return &req, nil
}

func (r *friendRepository) GetDirectional(ctx context.Context, from, to uint) (*models.FriendRequest, error) {
	return r.first(ctx, "GetFriendRequestDirectional",
		r.db.WithContext(ctx).Where("user_one_id = ? AND user_two_id = ?", from, to))
}

func (r *friendRepository) GetEitherDirection(ctx context.Context, a, b uint) (*models.FriendRequest, error) {
	return r.first(ctx, "GetFriendRequestEitherDirection",
		r.db.WithContext(ctx).
			Where("(user_one_id = ? AND user_two_id = ?) OR (user_one_id = ? AND user_two_id = ?)", a, b, b, a).
			Order("id"))
}

func (r *friendRepository) first(ctx context.Context, op string, q *gorm.DB) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := q.First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, persistence(ctx, r.log, op, err)
	}
	return &req, nil
}

func (r *friendRepository) ListInitiated(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return r.list(ctx, "ListInitiatedRequests", "user_one_id = ? AND status = ?", userID, models.FriendRequestPending)
}

func (r *friendRepository) ListReceived(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return r.list(ctx, "ListReceivedRequests", "user_two_id = ? AND status = ?", userID, models.FriendRequestPending)
}

// ListBlocked returns the requests userID rejected.
func (r *friendRepository) ListBlocked(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	return r.list(ctx, "ListBlockedRequests", "user_two_id = ? AND status = ?", userID, models.FriendRequestRejected)
}

func (r *friendRepository) list(ctx context.Context, op, where string, args ...any) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	if err := r.db.WithContext(ctx).Where(where, args...).Order("id").Find(&reqs).Error; err != nil {
		return nil, persistence(ctx, r.log, op, err)
	}
	return reqs, nil
}

func (r *friendRepository) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN friend_requests f ON (users.id = f.user_one_id OR users.id = f.user_two_id)").
		Where("f.status = ? AND (f.user_one_id = ? OR f.user_two_id = ?) AND users.id <> ?",
			models.FriendRequestAccepted, userID, userID, userID).
		Order("users.id").
		Find(&users).Error; err != nil {
		return nil, persistence(ctx, r.log, "ListFriends", err)
	}
	return users, nil
}

func (r *friendRepository) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("status = ? AND ((user_one_id = ? AND user_two_id = ?) OR (user_one_id = ? AND user_two_id = ?))",
			models.FriendRequestAccepted, a, b, b, a).
		Count(&count).Error; err != nil {
		return false, persistence(ctx, r.log, "AreFriends", err)
	}
	return count > 0, nil
}

func (r *friendRepository) UpdateStatus(ctx context.Context, id uint, status models.FriendRequestStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.FriendRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return persistence(ctx, r.log, "UpdateFriendRequestStatus", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("FriendRequest", id)
	}
	r.log.LogWrite(ctx, "update_status", "id", id, "status", status)
	return nil
}

func (r *friendRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.FriendRequest{}, id)
	if res.Error != nil {
		return persistence(ctx, r.log, "DeleteFriendRequest", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("FriendRequest", id)
	}
	r.log.LogWrite(ctx, "delete", "id", id)
	return nil
}
