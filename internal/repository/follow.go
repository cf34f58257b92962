package repository

import (
	"context"
	"errors"

	"auroric/internal/cache"
	"auroric/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository manages the user follow graph.
type FollowRepository interface {
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Follow(ctx context.Context, followerID, followeeID uint) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID uint) error
	Followers(ctx context.Context, userID uint, page, limit int) (models.Page[models.User], error)
	Following(ctx context.Context, userID uint, page, limit int) (models.Page[models.User], error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var follow models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&follow).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, models.NewInternalError(err)
	}
	return true, nil
}

// Follow inserts an edge if absent. Returns true when the edge was created,
// false when it already existed.
func (r *followRepository) Follow(ctx context.Context, followerID, followeeID uint) (bool, error) {
	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followeeID)
	return result.RowsAffected > 0, nil
}

func (r *followRepository) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, followerID)
	cache.InvalidateUser(ctx, followeeID)
	return nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint, page, limit int) (models.Page[models.User], error) {
	var zero models.Page[models.User]
	page, limit, offset := normalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var users []models.User
	if err := applyUserDetails(r.db.WithContext(ctx)).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(users, total, page, limit), nil
}

func (r *followRepository) Following(ctx context.Context, userID uint, page, limit int) (models.Page[models.User], error) {
	var zero models.Page[models.User]
	page, limit, offset := normalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var users []models.User
	if err := applyUserDetails(r.db.WithContext(ctx)).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(users, total, page, limit), nil
}
