// Package seed creates demo data for development and testing.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"feedbacknexus/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser constructs and persists a verified sample user. Optional
// override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := strings.ToLower(gofakeit.Username()) + fmt.Sprintf("%d", gofakeit.Number(100, 999))

	user := &models.User{
		Username:            username,
		Email:               gofakeit.Email(),
		IsVerified:          true,
		IsAcceptingMessages: true,
		DisplayName:         gofakeit.Name(),
		Bio:                 gofakeit.Sentence(10),
		ProfilePicture:      fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Twitter:             username,
		GitHub:              username,
		Website:             gofakeit.URL(),
	}

	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

var pageTopics = []string{
	"My Side Project", "Podcast Feedback", "Portfolio Review", "Honest Thoughts",
	"Ask Me Anything", "Newsletter Feedback", "Open Mic", "Roast My Resume",
	"Team Retro", "Conference Talk", "My Latest Video", "Product Ideas",
}

// CreatePage constructs and persists a feedback page owned by the given user.
func (f *Factory) CreatePage(user *models.User, overrides ...func(*models.FeedbackPage)) (*models.FeedbackPage, error) {
	topic := pageTopics[f.rand.Intn(len(pageTopics))]

	page := &models.FeedbackPage{
		Title:               topic,
		Description:         gofakeit.Paragraph(1, 2, 8, " "),
		UserID:              user.ID,
		Slug:                f.slugFor(topic),
		IsActive:            true,
		IsAcceptingMessages: f.rand.Float32() < 0.9,
	}

	for _, override := range overrides {
		override(page)
	}

	if err := f.db.Create(page).Error; err != nil {
		return nil, err
	}
	return page, nil
}

// CreateMessage constructs and persists an anonymous message on the given
// page, with a created-at spread over the recent past so analytics views have
// something to show.
func (f *Factory) CreateMessage(page *models.FeedbackPage, overrides ...func(*models.Message)) (*models.Message, error) {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 30
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)
	minsBack := f.rand.Intn(60)

	message := &models.Message{
		Content:        gofakeit.Sentence(f.rand.Intn(18) + 3),
		UserID:         page.UserID,
		FeedbackPageID: page.ID,
		CreatedAt: time.Now().
			Add(-time.Duration(daysBack)*24*time.Hour -
				time.Duration(hoursBack)*time.Hour -
				time.Duration(minsBack)*time.Minute),
	}

	for _, override := range overrides {
		override(message)
	}

	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// slugFor derives a unique slug from the topic by appending a random number.
func (f *Factory) slugFor(topic string) string {
	base := strings.ToLower(strings.Join(strings.Fields(topic), "-"))
	return fmt.Sprintf("%s-%d", base, gofakeit.Number(1000, 99999))
}
