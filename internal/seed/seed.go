package seed

import (
	"fmt"
	"log"

	"feedbacknexus/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	NumUsers     int
	PagesPerUser int
	NumMessages  int
	ShouldClean  bool

	// MaxDays bounds how far back generated message timestamps go.
	MaxDays int

	// SkipBcrypt stores plaintext passwords; useful for fast local reseeds.
	SkipBcrypt bool
}

// Seed populates the database with demo accounts, feedback pages, and
// anonymous messages. All generated users are verified and share the
// password "password123".
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users, %d pages each, %d messages...",
		opts.NumUsers, opts.PagesPerUser, opts.NumMessages)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Printf("warning: could not clear existing data: %v", err)
		}
	}

	f := NewFactory(db, opts)

	users, err := createUsers(f, db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	pages := make([]*models.FeedbackPage, 0, len(users)*opts.PagesPerUser)
	for _, user := range users {
		for i := 0; i < opts.PagesPerUser; i++ {
			page, err := f.CreatePage(user)
			if err != nil {
				return fmt.Errorf("failed to create page for %s: %w", user.Username, err)
			}
			pages = append(pages, page)
		}
	}
	log.Printf("created %d feedback pages", len(pages))

	if len(pages) > 0 {
		for i := 0; i < opts.NumMessages; i++ {
			page := pages[f.rand.Intn(len(pages))]
			if _, err := f.CreateMessage(page); err != nil {
				return fmt.Errorf("failed to create message: %w", err)
			}
		}
		log.Printf("created %d messages", opts.NumMessages)
	}

	log.Println("Seeding complete. All users have the password: password123")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	return db.Exec(`TRUNCATE TABLE messages, feedback_pages, users RESTART IDENTITY CASCADE;`).Error
}

// createUsers seeds a few fixed demo accounts first so local logins are
// predictable, then fills the rest with generated users.
func createUsers(f *Factory, db *gorm.DB, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	if count >= 3 {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		for _, name := range []string{"demo", "alice", "bob"} {
			user := &models.User{
				Username:            name,
				Email:               fmt.Sprintf("%s@example.com", name),
				Password:            string(hashedPassword),
				IsVerified:          true,
				IsAcceptingMessages: true,
				DisplayName:         name,
				Bio:                 "Demo account.",
				ProfilePicture:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", name),
			}
			if err := db.Create(user).Error; err == nil {
				users = append(users, user)
			}
		}
	}

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			log.Printf("failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("created %d users...", i)
		}
	}

	return users, nil
}
