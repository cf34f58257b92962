package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"auroric/internal/models"
	"auroric/internal/repository"
)

// CreatePinRequest carries the fields required to create a pin.
type CreatePinRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	SourceURL   string   `json:"source_url"`
	BoardID     *uint    `json:"board_id"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	IsPrivate   bool     `json:"is_private"`
}

// UpdatePinRequest carries a partial pin update. Nil fields are left
// untouched.
type UpdatePinRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	SourceURL   *string   `json:"source_url"`
	BoardID     *uint     `json:"board_id"`
	Tags        *[]string `json:"tags"`
	Category    *string   `json:"category"`
	IsPrivate   *bool     `json:"is_private"`
}

// PinService implements pin lifecycle, discovery and like/save toggles.
type PinService struct {
	pins          repository.PinRepository
	boards        repository.BoardRepository
	comments      repository.CommentRepository
	notifications repository.NotificationRepository
	notifier      *Notifier
}

// NewPinService returns a PinService backed by the given repositories.
func NewPinService(
	pins repository.PinRepository,
	boards repository.BoardRepository,
	comments repository.CommentRepository,
	notifications repository.NotificationRepository,
	notifier *Notifier,
) *PinService {
	return &PinService{
		pins:          pins,
		boards:        boards,
		comments:      comments,
		notifications: notifications,
		notifier:      notifier,
	}
}

// Create validates and stores a new pin. When a board is named, it must
// exist and be owned by the author; the pin is filed on it atomically
// with creation.
func (s *PinService) Create(ctx context.Context, authorID uint, req CreatePinRequest) (*models.Pin, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return nil, models.NewValidationError("title is required")
	}
	if len(req.Title) > 300 {
		return nil, models.NewValidationError("title must not exceed 300 characters")
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		return nil, models.NewValidationError("image_url is required")
	}
	if req.Category != "" && (req.Category == "All" || !models.IsValidCategory(req.Category)) {
		return nil, models.NewValidationError(fmt.Sprintf("unknown category %q", req.Category))
	}

	if req.BoardID != nil {
		board, err := s.boards.GetByID(ctx, *req.BoardID)
		if err != nil {
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
				return nil, models.NewValidationError("board does not exist")
			}
			return nil, err
		}
		if board.OwnerID != authorID {
			return nil, models.NewForbiddenError("board belongs to another user")
		}
	}

	pin := &models.Pin{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SourceURL:   req.SourceURL,
		AuthorID:    authorID,
		BoardID:     req.BoardID,
		Tags:        normalizeTags(req.Tags),
		Category:    req.Category,
		IsPrivate:   req.IsPrivate,
	}
	if err := s.pins.Create(ctx, pin); err != nil {
		return nil, err
	}
	return s.pins.GetByID(ctx, pin.ID, authorID)
}

func normalizeTags(tags []string) models.StringList {
	out := make(models.StringList, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(strings.ToLower(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Get returns a single pin. Private pins are only visible to their author.
func (s *PinService) Get(ctx context.Context, id, viewerID uint) (*models.Pin, error) {
	pin, err := s.pins.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if pin.IsPrivate && pin.AuthorID != viewerID {
		return nil, models.NewNotFoundError("Pin", id)
	}
	return pin, nil
}

// Update applies a partial update to a pin owned by the caller.
func (s *PinService) Update(ctx context.Context, id, userID uint, req UpdatePinRequest) (*models.Pin, error) {
	pin, err := s.pins.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if pin.AuthorID != userID {
		return nil, models.NewForbiddenError("only the author can edit this pin")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, models.NewValidationError("title is required")
		}
		if len(title) > 300 {
			return nil, models.NewValidationError("title must not exceed 300 characters")
		}
		pin.Title = title
	}
	if req.Description != nil {
		pin.Description = *req.Description
	}
	if req.SourceURL != nil {
		pin.SourceURL = *req.SourceURL
	}
	if req.Category != nil {
		if *req.Category != "" && (*req.Category == "All" || !models.IsValidCategory(*req.Category)) {
			return nil, models.NewValidationError(fmt.Sprintf("unknown category %q", *req.Category))
		}
		pin.Category = *req.Category
	}
	if req.Tags != nil {
		pin.Tags = normalizeTags(*req.Tags)
	}
	if req.IsPrivate != nil {
		pin.IsPrivate = *req.IsPrivate
	}
	if req.BoardID != nil {
		board, err := s.boards.GetByID(ctx, *req.BoardID)
		if err != nil {
			return nil, err
		}
		if board.OwnerID != userID {
			return nil, models.NewForbiddenError("board belongs to another user")
		}
		pin.BoardID = req.BoardID
	}

	if err := s.pins.Update(ctx, pin); err != nil {
		return nil, err
	}
	return s.pins.GetByID(ctx, pin.ID, userID)
}

// Delete removes a pin owned by the caller and cascades: its like and
// save edges, its comments with their likes, and any notifications that
// reference it. Partial cleanup failures are surfaced, never masked.
func (s *PinService) Delete(ctx context.Context, id, userID uint) error {
	pin, err := s.pins.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	if pin.AuthorID != userID {
		return models.NewForbiddenError("only the author can delete this pin")
	}

	var cleanupErr error
	if err := s.pins.DeleteLikes(ctx, id); err != nil {
		cleanupErr = errors.Join(cleanupErr, err)
	}
	if err := s.pins.DeleteSaves(ctx, id); err != nil {
		cleanupErr = errors.Join(cleanupErr, err)
	}
	if err := s.comments.DeleteByPin(ctx, id); err != nil {
		cleanupErr = errors.Join(cleanupErr, err)
	}
	if err := s.notifications.DeleteByPin(ctx, id); err != nil {
		cleanupErr = errors.Join(cleanupErr, err)
	}
	if err := s.pins.Delete(ctx, id); err != nil {
		cleanupErr = errors.Join(cleanupErr, err)
	}
	if cleanupErr != nil {
		return models.NewInternalError(cleanupErr)
	}
	return nil
}

// ToggleLike flips the caller's like on a pin and returns true when the
// pin is now liked. A fresh like notifies the pin author. Pins the
// caller cannot see cannot be liked.
func (s *PinService) ToggleLike(ctx context.Context, pinID, userID uint) (bool, error) {
	pin, err := s.Get(ctx, pinID, userID)
	if err != nil {
		return false, err
	}

	liked, err := s.pins.IsLiked(ctx, pinID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.pins.Unlike(ctx, pinID, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	created, err := s.pins.Like(ctx, pinID, userID)
	if err != nil {
		return false, err
	}
	if created {
		s.notifier.Emit(ctx, models.NotificationTypeLike, userID, pin.AuthorID, &pinID, nil)
	}
	return true, nil
}

// ToggleSave flips the caller's save on a pin and returns true when the
// pin is now saved. A fresh save notifies the pin author. Pins the
// caller cannot see cannot be saved.
func (s *PinService) ToggleSave(ctx context.Context, pinID, userID uint) (bool, error) {
	pin, err := s.Get(ctx, pinID, userID)
	if err != nil {
		return false, err
	}

	saved, err := s.pins.IsSaved(ctx, pinID, userID)
	if err != nil {
		return false, err
	}
	if saved {
		if err := s.pins.Unsave(ctx, pinID, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	created, err := s.pins.Save(ctx, pinID, userID)
	if err != nil {
		return false, err
	}
	if created {
		s.notifier.Emit(ctx, models.NotificationTypeSave, userID, pin.AuthorID, &pinID, nil)
	}
	return true, nil
}

// List returns the public feed, optionally filtered by category. The
// viewer's own private pins are included.
func (s *PinService) List(ctx context.Context, viewerID uint, category string, page, limit int) (models.Page[models.Pin], error) {
	if category != "" && !models.IsValidCategory(category) {
		var zero models.Page[models.Pin]
		return zero, models.NewValidationError(fmt.Sprintf("unknown category %q", category))
	}
	return s.pins.List(ctx, viewerID, category, page, limit)
}

// ByAuthor lists a user's pins. Private pins appear only when the
// viewer is the author.
func (s *PinService) ByAuthor(ctx context.Context, authorID, viewerID uint, page, limit int) (models.Page[models.Pin], error) {
	return s.pins.ByAuthor(ctx, authorID, viewerID, authorID == viewerID, page, limit)
}

// SavedByUser lists the pins a user has saved.
func (s *PinService) SavedByUser(ctx context.Context, userID, viewerID uint, page, limit int) (models.Page[models.Pin], error) {
	return s.pins.SavedByUser(ctx, userID, viewerID, page, limit)
}

// Search matches public pins by title, description, category or tags.
// A blank query returns an empty page.
func (s *PinService) Search(ctx context.Context, query string, viewerID uint, page, limit int) (models.Page[models.Pin], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return models.NewPage([]models.Pin{}, 0, page, limit), nil
	}
	return s.pins.Search(ctx, query, viewerID, page, limit)
}

// Trending returns the public pins with the highest combined likes,
// saves and comments.
func (s *PinService) Trending(ctx context.Context, viewerID uint, limit int) ([]models.Pin, error) {
	return s.pins.Trending(ctx, viewerID, limit)
}
