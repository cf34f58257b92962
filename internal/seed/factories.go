// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"auroric/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// pastTime spreads created_at over the last maxDays days so feeds look
// lived-in instead of stamped all at once.
func (f *Factory) pastTime(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rng.Intn(maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	return time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour -
		time.Duration(minsBack)*time.Minute)
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	name := gofakeit.Name()
	user := &models.User{
		Username:    fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		DisplayName: name,
		Email:       gofakeit.Email(),
		Bio:         gofakeit.Sentence(10),
		Avatar:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Website:     gofakeit.URL(),
		Settings: models.UserSettings{
			ShowActivity:          true,
			AllowMessages:         true,
			AllowNotifications:    true,
			EmailOnNewFollower:    true,
			EmailOnPinInteraction: true,
			Theme:                 models.ThemeDark,
		},
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user.Password = string(hashedPassword)
	user.CreatedAt = f.pastTime(180)

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// realCategories is Categories without the "All" wildcard.
func realCategories() []string {
	return models.Categories[1:]
}

// BuildPin constructs a pin without persisting it, useful for batching.
func (f *Factory) BuildPin(author *models.User, overrides ...func(*models.Pin)) *models.Pin {
	categories := realCategories()
	category := categories[f.rng.Intn(len(categories))]

	tagCount := 2 + f.rng.Intn(4)
	tags := make(models.StringList, 0, tagCount)
	for i := 0; i < tagCount; i++ {
		tags = append(tags, gofakeit.Word())
	}

	pin := &models.Pin{
		Title:       gofakeit.Sentence(4),
		Description: gofakeit.Paragraph(1, 2, 6, "\n"),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/1100", gofakeit.UUID()),
		SourceURL:   gofakeit.URL(),
		AuthorID:    author.ID,
		Tags:        tags,
		Category:    category,
	}
	pin.CreatedAt = f.pastTime(90)

	for _, override := range overrides {
		override(pin)
	}
	return pin
}

// CreatePinsBatch persists multiple pins in a single DB call.
func (f *Factory) CreatePinsBatch(pins []*models.Pin) error {
	if len(pins) == 0 {
		return nil
	}
	return f.db.Create(&pins).Error
}

// CreateBoard constructs and persists a board for the given owner.
func (f *Factory) CreateBoard(owner *models.User, overrides ...func(*models.Board)) (*models.Board, error) {
	categories := realCategories()
	board := &models.Board{
		Name:        gofakeit.Sentence(3),
		Description: gofakeit.Sentence(12),
		CoverImage:  fmt.Sprintf("https://picsum.photos/seed/board-%s/600/400", gofakeit.UUID()),
		OwnerID:     owner.ID,
		Category:    categories[f.rng.Intn(len(categories))],
	}
	board.CreatedAt = f.pastTime(120)

	for _, override := range overrides {
		override(board)
	}

	if err := f.db.Create(board).Error; err != nil {
		return nil, err
	}
	return board, nil
}

// CreateComment constructs and persists a comment on a pin.
func (f *Factory) CreateComment(author *models.User, pin *models.Pin, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Text:     gofakeit.Sentence(8 + f.rng.Intn(10)),
		AuthorID: author.ID,
		PinID:    pin.ID,
	}
	comment.CreatedAt = f.pastTime(30)

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
