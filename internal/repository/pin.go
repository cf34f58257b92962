package repository

import (
	"context"
	"errors"

	"auroric/internal/cache"
	"auroric/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PinRepository defines persistence operations for pins and their
// like/save interaction edges.
type PinRepository interface {
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Pin, error)
	Create(ctx context.Context, pin *models.Pin) error
	Update(ctx context.Context, pin *models.Pin) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, viewerID uint, category string, page, limit int) (models.Page[models.Pin], error)
	ByAuthor(ctx context.Context, authorID, viewerID uint, includePrivate bool, page, limit int) (models.Page[models.Pin], error)
	ByBoard(ctx context.Context, boardID, viewerID uint, page, limit int) (models.Page[models.Pin], error)
	SavedByUser(ctx context.Context, userID, viewerID uint, page, limit int) (models.Page[models.Pin], error)
	Search(ctx context.Context, query string, viewerID uint, page, limit int) (models.Page[models.Pin], error)
	Trending(ctx context.Context, viewerID uint, limit int) ([]models.Pin, error)

	Like(ctx context.Context, pinID, userID uint) (bool, error)
	Unlike(ctx context.Context, pinID, userID uint) error
	IsLiked(ctx context.Context, pinID, userID uint) (bool, error)
	Save(ctx context.Context, pinID, userID uint) (bool, error)
	Unsave(ctx context.Context, pinID, userID uint) error
	IsSaved(ctx context.Context, pinID, userID uint) (bool, error)

	SetBoard(ctx context.Context, pinID uint, boardID *uint) error
	UnlinkBoard(ctx context.Context, boardID uint) error
	DeleteLikes(ctx context.Context, pinID uint) error
	DeleteSaves(ctx context.Context, pinID uint) error
}

type pinRepository struct {
	db *gorm.DB
}

// NewPinRepository returns a new PinRepository implementation.
func NewPinRepository(db *gorm.DB) PinRepository {
	return &pinRepository{db: db}
}

// applyPinDetails selects engagement counts and the viewer's own
// liked/saved flags alongside the pin columns. viewerID 0 means an
// anonymous viewer and yields liked=false, saved=false.
func applyPinDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Select("pins.*, "+
		"(SELECT COUNT(*) FROM pin_likes WHERE pin_likes.pin_id = pins.id) AS likes_count, "+
		"(SELECT COUNT(*) FROM pin_saves WHERE pin_saves.pin_id = pins.id) AS saves_count, "+
		"(SELECT COUNT(*) FROM comments WHERE comments.pin_id = pins.id AND comments.deleted_at IS NULL) AS comments_count, "+
		"EXISTS(SELECT 1 FROM pin_likes WHERE pin_likes.pin_id = pins.id AND pin_likes.user_id = ?) AS liked, "+
		"EXISTS(SELECT 1 FROM pin_saves WHERE pin_saves.pin_id = pins.id AND pin_saves.user_id = ?) AS saved",
		viewerID, viewerID)
}

// visibleTo restricts rows to public pins plus the viewer's own.
func visibleTo(db *gorm.DB, viewerID uint) *gorm.DB {
	return db.Where("pins.is_private = ? OR pins.author_id = ?", false, viewerID)
}

func (r *pinRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Pin, error) {
	var pin models.Pin
	err := applyPinDetails(r.db.WithContext(ctx), viewerID).
		Preload("Author").
		First(&pin, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Pin", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &pin, nil
}

func (r *pinRepository) Create(ctx context.Context, pin *models.Pin) error {
	if err := r.db.WithContext(ctx).Create(pin).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.PinsListKey())
	return nil
}

func (r *pinRepository) Update(ctx context.Context, pin *models.Pin) error {
	if err := r.db.WithContext(ctx).Save(pin).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePinLists(ctx)
	return nil
}

func (r *pinRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Pin{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePinLists(ctx)
	return nil
}

func (r *pinRepository) List(ctx context.Context, viewerID uint, category string, page, limit int) (models.Page[models.Pin], error) {
	var zero models.Page[models.Pin]
	page, limit, offset := normalizePage(page, limit)

	base := visibleTo(r.db.WithContext(ctx).Model(&models.Pin{}), viewerID)
	if category != "" && category != "All" {
		base = base.Where("pins.category = ?", category)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	query := visibleTo(applyPinDetails(r.db.WithContext(ctx), viewerID), viewerID)
	if category != "" && category != "All" {
		query = query.Where("pins.category = ?", category)
	}

	var pins []models.Pin
	if err := query.
		Preload("Author").
		Order("pins.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pins).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(pins, total, page, limit), nil
}

func (r *pinRepository) ByAuthor(ctx context.Context, authorID, viewerID uint, includePrivate bool, page, limit int) (models.Page[models.Pin], error) {
	var zero models.Page[models.Pin]
	page, limit, offset := normalizePage(page, limit)

	base := r.db.WithContext(ctx).Model(&models.Pin{}).Where("pins.author_id = ?", authorID)
	query := applyPinDetails(r.db.WithContext(ctx), viewerID).Where("pins.author_id = ?", authorID)
	if !includePrivate {
		base = base.Where("pins.is_private = ?", false)
		query = query.Where("pins.is_private = ?", false)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var pins []models.Pin
	if err := query.
		Preload("Author").
		Order("pins.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pins).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(pins, total, page, limit), nil
}

func (r *pinRepository) ByBoard(ctx context.Context, boardID, viewerID uint, page, limit int) (models.Page[models.Pin], error) {
	var zero models.Page[models.Pin]
	page, limit, offset := normalizePage(page, limit)

	var total int64
	if err := visibleTo(r.db.WithContext(ctx).Model(&models.Pin{}), viewerID).
		Where("pins.board_id = ?", boardID).
		Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var pins []models.Pin
	if err := visibleTo(applyPinDetails(r.db.WithContext(ctx), viewerID), viewerID).
		Where("pins.board_id = ?", boardID).
		Preload("Author").
		Order("pins.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pins).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(pins, total, page, limit), nil
}

func (r *pinRepository) SavedByUser(ctx context.Context, userID, viewerID uint, page, limit int) (models.Page[models.Pin], error) {
	var zero models.Page[models.Pin]
	page, limit, offset := normalizePage(page, limit)

	var total int64
	if err := visibleTo(r.db.WithContext(ctx).Model(&models.Pin{}), viewerID).
		Joins("JOIN pin_saves ON pin_saves.pin_id = pins.id").
		Where("pin_saves.user_id = ?", userID).
		Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var pins []models.Pin
	if err := visibleTo(applyPinDetails(r.db.WithContext(ctx), viewerID), viewerID).
		Joins("JOIN pin_saves ON pin_saves.pin_id = pins.id").
		Where("pin_saves.user_id = ?", userID).
		Preload("Author").
		Order("pin_saves.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pins).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(pins, total, page, limit), nil
}

func (r *pinRepository) Search(ctx context.Context, query string, viewerID uint, page, limit int) (models.Page[models.Pin], error) {
	var zero models.Page[models.Pin]
	page, limit, offset := normalizePage(page, limit)
	like := likePattern(query)

	match := "LOWER(pins.title) LIKE ? OR LOWER(pins.description) LIKE ? OR LOWER(pins.category) LIKE ? OR LOWER(pins.tags) LIKE ?"

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Pin{}).
		Where("pins.is_private = ?", false).
		Where(match, like, like, like, like).
		Count(&total).Error; err != nil {
		return zero, models.NewInternalError(err)
	}

	var pins []models.Pin
	if err := applyPinDetails(r.db.WithContext(ctx), viewerID).
		Where("pins.is_private = ?", false).
		Where(match, like, like, like, like).
		Preload("Author").
		Order("pins.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pins).Error; err != nil {
		return zero, models.NewInternalError(err)
	}
	return models.NewPage(pins, total, page, limit), nil
}

func (r *pinRepository) Trending(ctx context.Context, viewerID uint, limit int) ([]models.Pin, error) {
	_, limit, _ = normalizePage(1, limit)

	var pins []models.Pin
	if err := applyPinDetails(r.db.WithContext(ctx), viewerID).
		Where("pins.is_private = ?", false).
		Preload("Author").
		Order("(SELECT COUNT(*) FROM pin_likes WHERE pin_likes.pin_id = pins.id) + " +
			"(SELECT COUNT(*) FROM pin_saves WHERE pin_saves.pin_id = pins.id) + " +
			"(SELECT COUNT(*) FROM comments WHERE comments.pin_id = pins.id AND comments.deleted_at IS NULL) DESC").
		Limit(limit).
		Find(&pins).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return pins, nil
}

// Like inserts a like edge if absent. Returns true when the edge was
// created, false when the pin was already liked.
func (r *pinRepository) Like(ctx context.Context, pinID, userID uint) (bool, error) {
	like := models.PinLike{PinID: pinID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	cache.InvalidatePinLists(ctx)
	return result.RowsAffected > 0, nil
}

func (r *pinRepository) Unlike(ctx context.Context, pinID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("pin_id = ? AND user_id = ?", pinID, userID).
		Delete(&models.PinLike{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePinLists(ctx)
	return nil
}

func (r *pinRepository) IsLiked(ctx context.Context, pinID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PinLike{}).
		Where("pin_id = ? AND user_id = ?", pinID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Save inserts a save edge if absent. Returns true when the edge was
// created, false when the pin was already saved.
func (r *pinRepository) Save(ctx context.Context, pinID, userID uint) (bool, error) {
	save := models.PinSave{PinID: pinID, UserID: userID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&save)
	if result.Error != nil {
		return false, models.NewInternalError(result.Error)
	}
	cache.InvalidatePinLists(ctx)
	return result.RowsAffected > 0, nil
}

func (r *pinRepository) Unsave(ctx context.Context, pinID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("pin_id = ? AND user_id = ?", pinID, userID).
		Delete(&models.PinSave{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePinLists(ctx)
	return nil
}

func (r *pinRepository) IsSaved(ctx context.Context, pinID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PinSave{}).
		Where("pin_id = ? AND user_id = ?", pinID, userID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *pinRepository) SetBoard(ctx context.Context, pinID uint, boardID *uint) error {
	err := r.db.WithContext(ctx).Model(&models.Pin{}).
		Where("id = ?", pinID).
		Update("board_id", boardID).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePinLists(ctx)
	return nil
}

// UnlinkBoard detaches every pin from a board, used when the board is
// deleted. The pins themselves survive.
func (r *pinRepository) UnlinkBoard(ctx context.Context, boardID uint) error {
	err := r.db.WithContext(ctx).Model(&models.Pin{}).
		Where("board_id = ?", boardID).
		Update("board_id", nil).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pinRepository) DeleteLikes(ctx context.Context, pinID uint) error {
	if err := r.db.WithContext(ctx).Where("pin_id = ?", pinID).Delete(&models.PinLike{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *pinRepository) DeleteSaves(ctx context.Context, pinID uint) error {
	if err := r.db.WithContext(ctx).Where("pin_id = ?", pinID).Delete(&models.PinSave{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
