package repository

import (
	"context"
	"errors"

	"auroric/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines persistence operations for comments and
// their like edges.
type CommentRepository interface {
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	ByPin(ctx context.Context, pinID, viewerID uint, page, limit int) (models.Page[models.Comment], error)
	DeleteByPin(ctx context.Context, pinID uint) error

	Like(ctx context.Context, commentID, userID uint) (bool, error)
	Unlike(ctx context.Context, commentID, userID uint) error
	IsLiked(ctx context.Context, commentID, userID uint) (bool, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func applyCommentDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Select("comments.*, "+
		"(SELECT COUNT(*) FROM comment_likes WHERE comment_likes.comment_id = comments.id) AS likes_count, "+
		"EXISTS(SELECT 1 FROM comment_likes WHERE comment_likes.comment_id = comments.id AND comment_likes.user_id = ?) AS liked",
		viewerID)
}

func (r *commentRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Comment, error) {
	var comment models.Comment
	err := applyCommentDetails(r.db.WithContext(ctx), viewerID).
		Preload("Author").
		First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) ByPin(ctx context.Context, pinID, viewerID uint, page, limit int) (models.Page[models.Comment], error) {
	var zero models.Page[models.Comment]
	page, limit, offset := normalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("pin_id = ?", pinID).
		Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var comments []models.Comment
	if err := applyCommentDetails(r.db.WithContext(ctx), viewerID).
		Where("comments.pin_id = ?", pinID).
		Preload("Author").
		Order("comments.created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(comments, total, page, limit), nil
}

// DeleteByPin removes every comment on a pin along with their like
// edges, used by the pin delete cascade.
func (r *commentRepository) DeleteByPin(ctx context.Context, pinID uint) error {
	err := r.db.WithContext(ctx).
		Where("comment_id IN (SELECT id FROM comments WHERE pin_id = ?)", pinID).
		Delete(&models.CommentLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Where("pin_id = ?", pinID).Delete(&models.Comment{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Like inserts a like edge if absent. Returns true when the edge was
// created, false when the comment was already liked.
func (r *commentRepository) Like(ctx context.Context, commentID, userID uint) (bool, error) {
	like := models.CommentLike{CommentID: commentID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *commentRepository) Unlike(ctx context.Context, commentID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) IsLiked(ctx context.Context, commentID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
