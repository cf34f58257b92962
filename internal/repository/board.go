package repository

import (
	"context"
	"errors"

	"auroric/internal/cache"
	"auroric/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BoardRepository defines persistence operations for boards, their
// follower edges and collaborator edges.
type BoardRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Board, error)
	Create(ctx context.Context, board *models.Board) error
	Update(ctx context.Context, board *models.Board) error
	Delete(ctx context.Context, id uint) error
	ByOwner(ctx context.Context, ownerID uint, includePrivate bool, page, limit int) (models.Page[models.Board], error)
	List(ctx context.Context, page, limit int) (models.Page[models.Board], error)
	Search(ctx context.Context, query string, limit int) ([]models.Board, error)

	FollowBoard(ctx context.Context, boardID, userID uint) (bool, error)
	UnfollowBoard(ctx context.Context, boardID, userID uint) error
	IsFollowingBoard(ctx context.Context, boardID, userID uint) (bool, error)

	AddCollaborator(ctx context.Context, boardID, userID uint) (bool, error)
	RemoveCollaborator(ctx context.Context, boardID, userID uint) error
	IsCollaborator(ctx context.Context, boardID, userID uint) (bool, error)
}

type boardRepository struct {
	db *gorm.DB
}

// NewBoardRepository returns a new BoardRepository implementation.
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db}
}

func applyBoardDetails(db *gorm.DB) *gorm.DB {
	return db.Select("boards.*, " +
		"(SELECT COUNT(*) FROM pins WHERE pins.board_id = boards.id AND pins.deleted_at IS NULL) AS pins_count, " +
		"(SELECT COUNT(*) FROM board_followers WHERE board_followers.board_id = boards.id) AS followers_count")
}

func (r *boardRepository) GetByID(ctx context.Context, id uint) (*models.Board, error) {
	var board models.Board
	key := cache.BoardKey(id)

	err := cache.Aside(ctx, key, &board, cache.BoardTTL, func() error {
		if err := applyBoardDetails(r.db.WithContext(ctx)).First(&board, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Board", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) Create(ctx context.Context, board *models.Board) error {
	if err := r.db.WithContext(ctx).Create(board).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *boardRepository) Update(ctx context.Context, board *models.Board) error {
	if err := r.db.WithContext(ctx).Save(board).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBoard(ctx, board.ID)
	return nil
}

func (r *boardRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("board_id = ?", id).Delete(&models.BoardFollower{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Where("board_id = ?", id).Delete(&models.BoardCollaborator{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.Board{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBoard(ctx, id)
	return nil
}

func (r *boardRepository) ByOwner(ctx context.Context, ownerID uint, includePrivate bool, page, limit int) (models.Page[models.Board], error) {
	var zero models.Page[models.Board]
	page, limit, offset := normalizePage(page, limit)

	base := r.db.WithContext(ctx).Model(&models.Board{}).Where("boards.owner_id = ?", ownerID)
	query := applyBoardDetails(r.db.WithContext(ctx)).Where("boards.owner_id = ?", ownerID)
	if !includePrivate {
		base = base.Where("boards.is_private = ?", false)
		query = query.Where("boards.is_private = ?", false)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var boards []models.Board
	if err := query.
		Order("boards.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&boards).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(boards, total, page, limit), nil
}

func (r *boardRepository) List(ctx context.Context, page, limit int) (models.Page[models.Board], error) {
	var zero models.Page[models.Board]
	page, limit, offset := normalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Board{}).
		Where("is_private = ?", false).
		Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var boards []models.Board
	if err := applyBoardDetails(r.db.WithContext(ctx)).
		Where("boards.is_private = ?", false).
		Order("boards.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&boards).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(boards, total, page, limit), nil
}

// Search matches boards on name, description and category. Private
// boards never surface here, whoever is asking.
func (r *boardRepository) Search(ctx context.Context, query string, limit int) ([]models.Board, error) {
	_, limit, _ = normalizePage(1, limit)
	like := likePattern(query)

	var boards []models.Board
	if err := applyBoardDetails(r.db.WithContext(ctx)).
		Where("boards.is_private = ?", false).
		Where("LOWER(boards.name) LIKE ? OR LOWER(boards.description) LIKE ? OR LOWER(boards.category) LIKE ?",
			like, like, like).
		Order("boards.created_at DESC").
		Limit(limit).
		Find(&boards).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return boards, nil
}

// FollowBoard inserts a follower edge if absent. Returns true when the
// edge was created, false when the board was already followed.
func (r *boardRepository) FollowBoard(ctx context.Context, boardID, userID uint) (bool, error) {
	follower := models.BoardFollower{BoardID: boardID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follower)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	cache.InvalidateBoard(ctx, boardID)
	return result.RowsAffected > 0, nil
}

func (r *boardRepository) UnfollowBoard(ctx context.Context, boardID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&models.BoardFollower{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBoard(ctx, boardID)
	return nil
}

func (r *boardRepository) IsFollowingBoard(ctx context.Context, boardID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BoardFollower{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// AddCollaborator inserts a collaborator edge if absent. Returns true
// when the edge was created.
func (r *boardRepository) AddCollaborator(ctx context.Context, boardID, userID uint) (bool, error) {
	collab := models.BoardCollaborator{BoardID: boardID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&collab)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *boardRepository) RemoveCollaborator(ctx context.Context, boardID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Delete(&models.BoardCollaborator{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *boardRepository) IsCollaborator(ctx context.Context, boardID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BoardCollaborator{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
