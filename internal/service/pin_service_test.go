package service

import (
	"context"
	"fmt"
	"testing"

	"auroric/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLike_AliceAndBob(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	pin := env.createPin(t, bob, "sunset", false)

	liked, err := env.pins.ToggleLike(ctx, pin.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	// Alice sees her like, Bob does not see one of his own.
	fromAlice, err := env.pins.Get(ctx, pin.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, fromAlice.Liked)
	assert.Equal(t, 1, fromAlice.LikesCount)

	fromBob, err := env.pins.Get(ctx, pin.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, fromBob.Liked)
	assert.Equal(t, 1, fromBob.LikesCount)

	// Bob got exactly one like notification.
	assert.EqualValues(t, 1, env.notificationCount(t, bob.ID))

	// Unlike restores the original state and emits nothing new.
	liked, err = env.pins.ToggleLike(ctx, pin.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	fromAlice, err = env.pins.Get(ctx, pin.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, fromAlice.Liked)
	assert.Equal(t, 0, fromAlice.LikesCount)
	assert.EqualValues(t, 1, env.notificationCount(t, bob.ID))
}

func TestToggleLike_NoSelfNotification(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	pin := env.createPin(t, alice, "own-pin", false)

	liked, err := env.pins.ToggleLike(ctx, pin.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Zero(t, env.notificationCount(t, alice.ID))
}

func TestToggleSave_DoubleToggleRestoresState(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	pin := env.createPin(t, bob, "recipe", false)

	saved, err := env.pins.ToggleSave(ctx, pin.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, saved)
	assert.EqualValues(t, 1, env.notificationCount(t, bob.ID))

	saved, err = env.pins.ToggleSave(ctx, pin.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	var edges int64
	env.db.Model(&models.PinSave{}).Count(&edges)
	assert.Zero(t, edges)
	// The save notification from the first toggle survives.
	assert.EqualValues(t, 1, env.notificationCount(t, bob.ID))
}

func TestSavedByUser(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	first := env.createPin(t, bob, "first", false)
	second := env.createPin(t, bob, "second", false)
	env.createPin(t, bob, "unsaved", false)

	_, err := env.pins.ToggleSave(ctx, first.ID, alice.ID)
	require.NoError(t, err)
	_, err = env.pins.ToggleSave(ctx, second.ID, alice.ID)
	require.NoError(t, err)

	page, err := env.pins.SavedByUser(ctx, alice.ID, alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Data, 2)
	for _, pin := range page.Data {
		assert.True(t, pin.Saved)
	}
}

func TestDeletePin_CascadesInteractions(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	pin := env.createPin(t, alice, "doomed", false)

	_, err := env.pins.ToggleLike(ctx, pin.ID, bob.ID)
	require.NoError(t, err)
	_, err = env.pins.ToggleSave(ctx, pin.ID, bob.ID)
	require.NoError(t, err)
	comment, err := env.comments.Add(ctx, pin.ID, bob.ID, "nice one")
	require.NoError(t, err)
	_, err = env.comments.ToggleLike(ctx, comment.ID, alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, env.notificationCount(t, alice.ID))

	require.NoError(t, env.pins.Delete(ctx, pin.ID, alice.ID))

	var likes, saves, comments, commentLikes, notifications int64
	env.db.Model(&models.PinLike{}).Count(&likes)
	env.db.Model(&models.PinSave{}).Count(&saves)
	env.db.Model(&models.Comment{}).Count(&comments)
	env.db.Model(&models.CommentLike{}).Count(&commentLikes)
	env.db.Model(&models.Notification{}).Where("pin_id = ?", pin.ID).Count(&notifications)

	assert.Zero(t, likes)
	assert.Zero(t, saves)
	assert.Zero(t, comments)
	assert.Zero(t, commentLikes)
	assert.Zero(t, notifications)

	_, err = env.pins.Get(ctx, pin.ID, alice.ID)
	require.Error(t, err)
}

func TestDeletePin_OnlyAuthor(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	pin := env.createPin(t, alice, "keeper", false)

	err := env.pins.Delete(ctx, pin.ID, bob.ID)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)
}

func TestListPins_Pagination(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	for i := 0; i < 45; i++ {
		env.createPin(t, alice, fmt.Sprintf("pin-%02d", i), false)
	}

	first, err := env.pins.List(ctx, 0, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, first.Data, 20)
	assert.EqualValues(t, 45, first.Total)
	assert.True(t, first.HasMore)

	second, err := env.pins.List(ctx, 0, "", 2, 20)
	require.NoError(t, err)
	assert.Len(t, second.Data, 20)
	assert.True(t, second.HasMore)

	third, err := env.pins.List(ctx, 0, "", 3, 20)
	require.NoError(t, err)
	assert.Len(t, third.Data, 5)
	assert.False(t, third.HasMore)
}

func TestListPins_PrivateVisibility(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	env.createPin(t, alice, "public", false)
	secret := env.createPin(t, alice, "secret", true)

	// Anonymous and other viewers see only the public pin.
	anon, err := env.pins.List(ctx, 0, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, anon.Data, 1)

	asBob, err := env.pins.List(ctx, bob.ID, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, asBob.Data, 1)

	// The author sees both.
	asAlice, err := env.pins.List(ctx, alice.ID, "", 1, 20)
	require.NoError(t, err)
	assert.Len(t, asAlice.Data, 2)

	// Direct fetch of a private pin 404s for anyone else.
	_, err = env.pins.Get(ctx, secret.ID, bob.ID)
	require.Error(t, err)
	got, err := env.pins.Get(ctx, secret.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Title)
}

func TestSearchPins_ExcludesPrivate(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	env.createPin(t, alice, "vintage camera", false)
	env.createPin(t, alice, "vintage car", true)

	// Even the author's own private pins are excluded from search.
	page, err := env.pins.Search(ctx, "vintage", alice.ID, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "vintage camera", page.Data[0].Title)
}

func TestSearchPins_MatchesTagsAndCategory(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	pin := &models.Pin{
		Title:    "untitled",
		ImageURL: "https://example.com/x.jpg",
		AuthorID: alice.ID,
		Tags:     models.StringList{"minimalism", "monochrome"},
		Category: "Photography",
	}
	require.NoError(t, env.db.Create(pin).Error)

	byTag, err := env.pins.Search(ctx, "monochrome", 0, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, byTag.Total)

	byCategory, err := env.pins.Search(ctx, "photog", 0, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, byCategory.Total)

	blank, err := env.pins.Search(ctx, "  ", 0, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 0, blank.Total)
}

func TestTrending_OrdersByEngagement(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	quiet := env.createPin(t, alice, "quiet", false)
	busy := env.createPin(t, alice, "busy", false)
	env.createPin(t, alice, "hidden", true)

	for _, u := range []*models.User{bob, carol} {
		_, err := env.pins.ToggleLike(ctx, busy.ID, u.ID)
		require.NoError(t, err)
	}
	_, err := env.pins.ToggleSave(ctx, busy.ID, bob.ID)
	require.NoError(t, err)
	_, err = env.pins.ToggleLike(ctx, quiet.ID, bob.ID)
	require.NoError(t, err)

	pins, err := env.pins.Trending(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, pins, 2)
	assert.Equal(t, "busy", pins[0].Title)
	assert.Equal(t, "quiet", pins[1].Title)
}

func TestCreatePin_Validation(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")

	_, err := env.pins.Create(ctx, alice.ID, CreatePinRequest{ImageURL: "https://x.jpg"})
	require.Error(t, err)

	_, err = env.pins.Create(ctx, alice.ID, CreatePinRequest{Title: "no image"})
	require.Error(t, err)

	_, err = env.pins.Create(ctx, alice.ID, CreatePinRequest{
		Title: "bad category", ImageURL: "https://x.jpg", Category: "Spelunking",
	})
	require.Error(t, err)

	// A missing board surfaces as a validation error, not an internal one.
	missing := uint(999)
	_, err = env.pins.Create(ctx, alice.ID, CreatePinRequest{
		Title: "ghost board", ImageURL: "https://x.jpg", BoardID: &missing,
	})
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestCreatePin_NormalizesTags(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	pin, err := env.pins.Create(ctx, alice.ID, CreatePinRequest{
		Title:    "tagged",
		ImageURL: "https://x.jpg",
		Tags:     []string{" Retro ", "retro", "FILM", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"retro", "film"}, pin.Tags)
}

func TestUpdatePin_OwnerOnly(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	pin := env.createPin(t, alice, "original", false)

	title := "renamed"
	_, err := env.pins.Update(ctx, pin.ID, bob.ID, UpdatePinRequest{Title: &title})
	require.Error(t, err)

	updated, err := env.pins.Update(ctx, pin.ID, alice.ID, UpdatePinRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
}

func TestPrivatePin_LikeAndSaveHidden(t *testing.T) {
	t.Parallel()
	env := setupServiceTest(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	secret := env.createPin(t, alice, "secret", true)

	// To anyone but the author the pin does not exist, so it cannot be
	// liked or saved either.
	_, err := env.pins.ToggleLike(ctx, secret.ID, bob.ID)
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	_, err = env.pins.ToggleSave(ctx, secret.ID, bob.ID)
	require.Error(t, err)
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	assert.Zero(t, env.notificationCount(t, alice.ID))

	// The author still can.
	liked, err := env.pins.ToggleLike(ctx, secret.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	saved, err := env.pins.ToggleSave(ctx, secret.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, saved)
}
