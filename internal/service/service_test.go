package service

import (
	"fmt"
	"testing"

	"auroric/internal/database"
	"auroric/internal/models"
	"auroric/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv bundles the services under test with direct DB access for
// fixtures and assertions.
type testEnv struct {
	db            *gorm.DB
	users         *UserService
	pins          *PinService
	comments      *CommentService
	boards        *BoardService
	notifications *NotificationService
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	pinRepo := repository.NewPinRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	notifier := NewNotifier(notificationRepo, userRepo)

	return &testEnv{
		db:            db,
		users:         NewUserService(userRepo, followRepo, notifier),
		pins:          NewPinService(pinRepo, boardRepo, commentRepo, notificationRepo, notifier),
		comments:      NewCommentService(commentRepo, pinRepo, notifier),
		boards:        NewBoardService(boardRepo, pinRepo, userRepo, notifier),
		notifications: NewNotificationService(notificationRepo),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		DisplayName: username,
		Email:       username + "@example.com",
		Password:    "hashed",
	}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createPin(t *testing.T, author *models.User, title string, private bool) *models.Pin {
	t.Helper()
	pin := &models.Pin{
		Title:     title,
		ImageURL:  fmt.Sprintf("https://example.com/%s.jpg", title),
		AuthorID:  author.ID,
		IsPrivate: private,
	}
	if err := e.db.Create(pin).Error; err != nil {
		t.Fatalf("create pin %s: %v", title, err)
	}
	return pin
}

func (e *testEnv) notificationCount(t *testing.T, toUserID uint) int64 {
	t.Helper()
	var count int64
	if err := e.db.Model(&models.Notification{}).Where("to_user_id = ?", toUserID).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return count
}
