package service

import (
	"context"
	"fmt"
	"strings"

	"auroric/internal/models"
	"auroric/internal/repository"
)

// CreateBoardRequest carries the fields required to create a board.
type CreateBoardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	Category    string `json:"category"`
	IsPrivate   bool   `json:"is_private"`
}

// UpdateBoardRequest carries a partial board update. Nil fields are
// left untouched.
type UpdateBoardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CoverImage  *string `json:"cover_image"`
	Category    *string `json:"category"`
	IsPrivate   *bool   `json:"is_private"`
}

// BoardService implements board lifecycle, membership and pin filing.
type BoardService struct {
	boards   repository.BoardRepository
	pins     repository.PinRepository
	users    repository.UserRepository
	notifier *Notifier
}

// NewBoardService returns a BoardService backed by the given repositories.
func NewBoardService(boards repository.BoardRepository, pins repository.PinRepository, users repository.UserRepository, notifier *Notifier) *BoardService {
	return &BoardService{boards: boards, pins: pins, users: users, notifier: notifier}
}

// Create validates and stores a new board owned by the caller.
func (s *BoardService) Create(ctx context.Context, ownerID uint, req CreateBoardRequest) (*models.Board, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, models.NewValidationError("board name is required")
	}
	if len(req.Name) > 120 {
		return nil, models.NewValidationError("board name must not exceed 120 characters")
	}
	if req.Category != "" && (req.Category == "All" || !models.IsValidCategory(req.Category)) {
		return nil, models.NewValidationError(fmt.Sprintf("unknown category %q", req.Category))
	}

	board := &models.Board{
		Name:        req.Name,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		OwnerID:     ownerID,
		Category:    req.Category,
		IsPrivate:   req.IsPrivate,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// Get returns a single board. Private boards are visible only to their
// owner and collaborators.
func (s *BoardService) Get(ctx context.Context, id, viewerID uint) (*models.Board, error) {
	board, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.IsPrivate && board.OwnerID != viewerID {
		collab, err := s.boards.IsCollaborator(ctx, id, viewerID)
		if err != nil {
			return nil, err
		}
		if !collab {
			return nil, models.NewNotFoundError("Board", id)
		}
	}
	return board, nil
}

// Update applies a partial update to a board owned by the caller.
func (s *BoardService) Update(ctx context.Context, id, userID uint, req UpdateBoardRequest) (*models.Board, error) {
	board, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != userID {
		return nil, models.NewForbiddenError("only the owner can edit this board")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, models.NewValidationError("board name is required")
		}
		if len(name) > 120 {
			return nil, models.NewValidationError("board name must not exceed 120 characters")
		}
		board.Name = name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}
	if req.CoverImage != nil {
		board.CoverImage = *req.CoverImage
	}
	if req.Category != nil {
		if *req.Category != "" && (*req.Category == "All" || !models.IsValidCategory(*req.Category)) {
			return nil, models.NewValidationError(fmt.Sprintf("unknown category %q", *req.Category))
		}
		board.Category = *req.Category
	}
	if req.IsPrivate != nil {
		board.IsPrivate = *req.IsPrivate
	}

	if err := s.boards.Update(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes a board owned by the caller. Pins filed on the board
// are detached, not deleted.
func (s *BoardService) Delete(ctx context.Context, id, userID uint) error {
	board, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if board.OwnerID != userID {
		return models.NewForbiddenError("only the owner can delete this board")
	}

	if err := s.pins.UnlinkBoard(ctx, id); err != nil {
		return err
	}
	return s.boards.Delete(ctx, id)
}

// ByOwner lists a user's boards. Private boards appear only when the
// viewer is the owner.
func (s *BoardService) ByOwner(ctx context.Context, ownerID, viewerID uint, page, limit int) (models.Page[models.Board], error) {
	return s.boards.ByOwner(ctx, ownerID, viewerID == ownerID, page, limit)
}

// List returns a page of public boards, newest first.
func (s *BoardService) List(ctx context.Context, page, limit int) (models.Page[models.Board], error) {
	return s.boards.List(ctx, page, limit)
}

// Search matches public boards by substring. A blank query returns
// nothing rather than everything.
func (s *BoardService) Search(ctx context.Context, query string, limit int) ([]models.Board, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Board{}, nil
	}
	return s.boards.Search(ctx, query, limit)
}

// Pins lists the pins filed on a board.
func (s *BoardService) Pins(ctx context.Context, boardID, viewerID uint, page, limit int) (models.Page[models.Pin], error) {
	if _, err := s.Get(ctx, boardID, viewerID); err != nil {
		var zero models.Page[models.Pin]
		return zero, err
	}
	return s.pins.ByBoard(ctx, boardID, viewerID, page, limit)
}

// ToggleFollow flips the caller's follow on a board and returns true
// when the board is now followed. Owners cannot follow their own board.
func (s *BoardService) ToggleFollow(ctx context.Context, boardID, userID uint) (bool, error) {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return false, err
	}
	if board.OwnerID == userID {
		return false, models.NewValidationError("cannot follow your own board")
	}

	following, err := s.boards.IsFollowingBoard(ctx, boardID, userID)
	if err != nil {
		return false, err
	}
	if following {
		if err := s.boards.UnfollowBoard(ctx, boardID, userID); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := s.boards.FollowBoard(ctx, boardID, userID); err != nil {
		return false, err
	}
	return true, nil
}

// InviteCollaborator adds another user as a board collaborator and
// notifies them. Only the owner can invite; re-inviting is idempotent
// and emits no duplicate notification.
func (s *BoardService) InviteCollaborator(ctx context.Context, boardID, ownerID, inviteeID uint) error {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID != ownerID {
		return models.NewForbiddenError("only the owner can invite collaborators")
	}
	if inviteeID == ownerID {
		return models.NewValidationError("cannot invite yourself")
	}
	if _, err := s.users.GetByID(ctx, inviteeID); err != nil {
		return err
	}

	created, err := s.boards.AddCollaborator(ctx, boardID, inviteeID)
	if err != nil {
		return err
	}
	if created {
		s.notifier.Emit(ctx, models.NotificationTypeBoardInvite, ownerID, inviteeID, nil, &boardID)
	}
	return nil
}

// RemoveCollaborator drops a collaborator from a board. The owner can
// remove anyone; a collaborator can remove themselves.
func (s *BoardService) RemoveCollaborator(ctx context.Context, boardID, callerID, userID uint) error {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID != callerID && callerID != userID {
		return models.NewForbiddenError("only the owner can remove collaborators")
	}
	return s.boards.RemoveCollaborator(ctx, boardID, userID)
}

// SavePinToBoard files a pin on a board the caller owns or collaborates
// on. Filing the same pin twice is a no-op.
func (s *BoardService) SavePinToBoard(ctx context.Context, boardID, pinID, userID uint) error {
	board, err := s.boards.GetByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board.OwnerID != userID {
		collab, err := s.boards.IsCollaborator(ctx, boardID, userID)
		if err != nil {
			return err
		}
		if !collab {
			return models.NewForbiddenError("not a member of this board")
		}
	}

	pin, err := s.pins.GetByID(ctx, pinID, userID)
	if err != nil {
		return err
	}
	if pin.BoardID != nil && *pin.BoardID == boardID {
		return nil
	}
	return s.pins.SetBoard(ctx, pinID, &boardID)
}
