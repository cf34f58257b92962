package seed

import (
	"fmt"
	"log"

	"auroric/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configures the seeder.
type Options struct {
	NumUsers    int
	NumPins     int
	ShouldClean bool
}

// DefaultOptions returns the preset used by the dev seed endpoint and
// the seed command.
func DefaultOptions() Options {
	return Options{NumUsers: 12, NumPins: 60}
}

// IsEmpty reports whether the database holds no users yet.
func IsEmpty(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// SeedIfEmpty seeds only when no users exist, so repeated boots or
// repeated seed calls never duplicate data.
func SeedIfEmpty(db *gorm.DB, opts Options) (bool, error) {
	empty, err := IsEmpty(db)
	if err != nil {
		return false, err
	}
	if !empty {
		log.Println("Seed skipped: database already has users")
		return false, nil
	}
	return true, Seed(db, opts)
}

// Seed populates the database with demo users, pins, boards, comments
// and the interaction edges between them.
func Seed(db *gorm.DB, opts Options) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = DefaultOptions().NumUsers
	}
	if opts.NumPins <= 0 {
		opts.NumPins = DefaultOptions().NumPins
	}
	log.Printf("Seeding database with %d users and %d pins...", opts.NumUsers, opts.NumPins)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	boards := make([]*models.Board, 0, len(users)*2)
	for _, user := range users {
		for i := 0; i < 1+factory.rng.Intn(2); i++ {
			board, err := factory.CreateBoard(user)
			if err != nil {
				return fmt.Errorf("failed to create boards: %w", err)
			}
			boards = append(boards, board)
		}
	}
	log.Printf("created %d boards", len(boards))

	pins := make([]*models.Pin, 0, opts.NumPins)
	for i := 0; i < opts.NumPins; i++ {
		author := users[factory.rng.Intn(len(users))]
		pin := factory.BuildPin(author, func(p *models.Pin) {
			// File roughly half the pins on one of the author's boards.
			if factory.rng.Intn(2) == 0 {
				for _, b := range boards {
					if b.OwnerID == author.ID {
						p.BoardID = &b.ID
						break
					}
				}
			}
		})
		pins = append(pins, pin)
	}
	if err := factory.CreatePinsBatch(pins); err != nil {
		return fmt.Errorf("failed to create pins: %w", err)
	}
	log.Printf("created %d pins", len(pins))

	if err := seedSocialMesh(db, factory, users, pins); err != nil {
		return fmt.Errorf("failed to create interactions: %w", err)
	}

	log.Println("Seeding complete")
	return nil
}

// seedSocialMesh wires follows, likes, saves and comments between the
// seeded users and pins.
func seedSocialMesh(db *gorm.DB, factory *Factory, users []*models.User, pins []*models.Pin) error {
	var follows []models.Follow
	for _, follower := range users {
		for i := 0; i < 2+factory.rng.Intn(3); i++ {
			followee := users[factory.rng.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			follows = append(follows, models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID})
		}
	}
	if len(follows) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&follows).Error; err != nil {
			return err
		}
	}

	var likes []models.PinLike
	var saves []models.PinSave
	for _, user := range users {
		for i := 0; i < 3+factory.rng.Intn(6); i++ {
			pin := pins[factory.rng.Intn(len(pins))]
			likes = append(likes, models.PinLike{UserID: user.ID, PinID: pin.ID})
		}
		for i := 0; i < 2+factory.rng.Intn(4); i++ {
			pin := pins[factory.rng.Intn(len(pins))]
			saves = append(saves, models.PinSave{UserID: user.ID, PinID: pin.ID})
		}
	}
	if len(likes) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&likes).Error; err != nil {
			return err
		}
	}
	if len(saves) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&saves).Error; err != nil {
			return err
		}
	}

	commentCount := 0
	for _, pin := range pins {
		for i := 0; i < factory.rng.Intn(4); i++ {
			author := users[factory.rng.Intn(len(users))]
			if _, err := factory.CreateComment(author, pin); err != nil {
				return err
			}
			commentCount++
		}
	}
	log.Printf("created %d follows, %d likes, %d saves, %d comments",
		len(follows), len(likes), len(saves), commentCount)
	return nil
}

// clearData removes seedable rows. Join tables go first so foreign
// references never dangle mid-clean.
func clearData(db *gorm.DB) error {
	tables := []any{
		&models.Notification{},
		&models.CommentLike{},
		&models.Comment{},
		&models.PinLike{},
		&models.PinSave{},
		&models.BoardCollaborator{},
		&models.BoardFollower{},
		&models.Follow{},
		&models.Pin{},
		&models.Board{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}
