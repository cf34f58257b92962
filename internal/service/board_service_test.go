package service

import (
	"context"
	"testing"

	"auroric/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBoardAndFilePin(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	board, err := env.boards.Create(ctx, alice.ID, CreateBoardRequest{
		Name: "Mood Board", Category: "Art",
	})
	require.NoError(t, err)

	pin, err := env.pins.Create(ctx, alice.ID, CreatePinRequest{
		Title: "collage", ImageURL: "https://x.jpg", BoardID: &board.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, pin.BoardID)
	assert.Equal(t, board.ID, *pin.BoardID)

	pins, err := env.boards.Pins(ctx, board.ID, alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pins.Total)
}

func TestCreatePin_OnAnotherUsersBoard(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	board, err := env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Private Shelf"})
	require.NoError(t, err)

	_, err = env.pins.Create(ctx, bob.ID, CreatePinRequest{
		Title: "intruder", ImageURL: "https://x.jpg", BoardID: &board.ID,
	})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestDeleteBoard_DetachesPins(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	board, err := env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Temporary"})
	require.NoError(t, err)
	pin, err := env.pins.Create(ctx, alice.ID, CreatePinRequest{
		Title: "survivor", ImageURL: "https://x.jpg", BoardID: &board.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.boards.Delete(ctx, board.ID, alice.ID))

	// The pin survives, detached from the deleted board.
	got, err := env.pins.Get(ctx, pin.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, got.BoardID)

	_, err = env.boards.Get(ctx, board.ID, alice.ID)
	require.Error(t, err)
}

func TestToggleBoardFollow(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	board, err := env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Popular"})
	require.NoError(t, err)

	// Owners cannot follow their own board.
	_, err = env.boards.ToggleFollow(ctx, board.ID, alice.ID)
	require.Error(t, err)

	following, err := env.boards.ToggleFollow(ctx, board.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	got, err := env.boards.Get(ctx, board.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.FollowersCount)

	following, err = env.boards.ToggleFollow(ctx, board.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestInviteCollaborator(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	board, err := env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Shared"})
	require.NoError(t, err)

	// Only the owner can invite.
	err = env.boards.InviteCollaborator(ctx, board.ID, bob.ID, carol.ID)
	require.Error(t, err)

	require.NoError(t, env.boards.InviteCollaborator(ctx, board.ID, alice.ID, bob.ID))
	assert.EqualValues(t, 1, env.notificationCount(t, bob.ID))

	var n models.Notification
	require.NoError(t, env.db.Where("to_user_id = ?", bob.ID).First(&n).Error)
	assert.Equal(t, models.NotificationTypeBoardInvite, n.Type)
	require.NotNil(t, n.BoardID)
	assert.Equal(t, board.ID, *n.BoardID)

	// Re-inviting is idempotent and emits no duplicate notification.
	require.NoError(t, env.boards.InviteCollaborator(ctx, board.ID, alice.ID, bob.ID))
	assert.EqualValues(t, 1, env.notificationCount(t, bob.ID))
}

func TestPrivateBoard_VisibleToCollaborators(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	board, err := env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Hidden", IsPrivate: true})
	require.NoError(t, err)
	require.NoError(t, env.boards.InviteCollaborator(ctx, board.ID, alice.ID, bob.ID))

	_, err = env.boards.Get(ctx, board.ID, bob.ID)
	require.NoError(t, err)

	_, err = env.boards.Get(ctx, board.ID, carol.ID)
	require.Error(t, err)
}

func TestSavePinToBoard_Idempotent(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	board, err := env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Collection"})
	require.NoError(t, err)
	pin := env.createPin(t, bob, "borrowed", false)

	require.NoError(t, env.boards.SavePinToBoard(ctx, board.ID, pin.ID, alice.ID))
	require.NoError(t, env.boards.SavePinToBoard(ctx, board.ID, pin.ID, alice.ID))

	got, err := env.pins.Get(ctx, pin.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BoardID)
	assert.Equal(t, board.ID, *got.BoardID)

	// Non-members may not file pins on the board.
	carol := env.createUser(t, "carol")
	other := env.createPin(t, carol, "outsider", false)
	err = env.boards.SavePinToBoard(ctx, board.ID, other.ID, carol.ID)
	require.Error(t, err)
}

func TestBoardsByOwner_PrivateOnlyForOwner(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	_, err := env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Open"})
	require.NoError(t, err)
	_, err = env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Closed", IsPrivate: true})
	require.NoError(t, err)

	own, err := env.boards.ByOwner(ctx, alice.ID, alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, own.Total)

	visiting, err := env.boards.ByOwner(ctx, alice.ID, bob.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, visiting.Total)
}

func TestSearchBoards_ExcludesPrivate(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	_, err := env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Kitchen ideas"})
	require.NoError(t, err)
	_, err = env.boards.Create(ctx, alice.ID, CreateBoardRequest{Name: "Kitchen remodel budget", IsPrivate: true})
	require.NoError(t, err)

	boards, err := env.boards.Search(ctx, "KITCHEN", 20)
	require.NoError(t, err)
	require.Len(t, boards, 1)
	assert.Equal(t, "Kitchen ideas", boards[0].Name)

	boards, err = env.boards.Search(ctx, "  ", 20)
	require.NoError(t, err)
	assert.Empty(t, boards)
}
