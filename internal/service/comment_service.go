package service

import (
	"context"
	"strings"

	"auroric/internal/models"
	"auroric/internal/repository"
)

// CommentService implements commenting and comment likes.
type CommentService struct {
	comments repository.CommentRepository
	pins     repository.PinRepository
	notifier *Notifier
}

// NewCommentService returns a CommentService backed by the given repositories.
func NewCommentService(comments repository.CommentRepository, pins repository.PinRepository, notifier *Notifier) *CommentService {
	return &CommentService{comments: comments, pins: pins, notifier: notifier}
}

// visiblePin fetches a pin with the same visibility rule as a direct
// read: a private pin is not found for anyone but its author.
func (s *CommentService) visiblePin(ctx context.Context, pinID, viewerID uint) (*models.Pin, error) {
	pin, err := s.pins.GetByID(ctx, pinID, viewerID)
	if err != nil {
		return nil, err
	}
	if pin.IsPrivate && pin.AuthorID != viewerID {
		return nil, models.NewNotFoundError("Pin", pinID)
	}
	return pin, nil
}

// Add creates a comment on a pin and notifies the pin author.
func (s *CommentService) Add(ctx context.Context, pinID, authorID uint, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("comment text is required")
	}
	if len(text) > 2000 {
		return nil, models.NewValidationError("comment must not exceed 2000 characters")
	}

	pin, err := s.visiblePin(ctx, pinID, authorID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     text,
		AuthorID: authorID,
		PinID:    pinID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, models.NotificationTypeComment, authorID, pin.AuthorID, &pinID, nil)

	return s.comments.GetByID(ctx, comment.ID, authorID)
}

// Delete removes a comment. Both the comment author and the author of
// the pin it sits on may delete it.
func (s *CommentService) Delete(ctx context.Context, commentID, userID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID, userID)
	if err != nil {
		return err
	}

	if comment.AuthorID != userID {
		pin, err := s.pins.GetByID(ctx, comment.PinID, userID)
		if err != nil {
			return err
		}
		if pin.AuthorID != userID {
			return models.NewForbiddenError("only the comment author or pin author can delete this comment")
		}
	}

	return s.comments.Delete(ctx, commentID)
}

// ToggleLike flips the caller's like on a comment and returns true when
// the comment is now liked. Comment likes never notify anyone. Comments
// on pins the caller cannot see are not found.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID uint) (bool, error) {
	comment, err := s.comments.GetByID(ctx, commentID, userID)
	if err != nil {
		return false, err
	}
	if _, err := s.visiblePin(ctx, comment.PinID, userID); err != nil {
		return false, err
	}

	liked, err := s.comments.IsLiked(ctx, commentID, userID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.comments.Unlike(ctx, commentID, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := s.comments.Like(ctx, commentID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// ByPin lists comments on a pin, oldest first. Comments on a pin the
// viewer cannot see are not found.
func (s *CommentService) ByPin(ctx context.Context, pinID, viewerID uint, page, limit int) (models.Page[models.Comment], error) {
	if _, err := s.visiblePin(ctx, pinID, viewerID); err != nil {
		var zero models.Page[models.Comment]
		return zero, err
	}
	return s.comments.ByPin(ctx, pinID, viewerID, page, limit)
}
