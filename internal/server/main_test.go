package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feedbacknexus/internal/config"
	"feedbacknexus/internal/email"
	"feedbacknexus/internal/models"
	"feedbacknexus/internal/repository"
	"feedbacknexus/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

// newTestServer builds a Server over an in-memory sqlite database with the
// full route table. The prometheus middleware is left nil so repeated test
// servers do not collide on collector registration.
func newTestServer(t *testing.T) (*Server, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FeedbackPage{}, &models.Message{}))

	cfg := &config.Config{
		Port:      "0",
		Env:       "test",
		JWTSecret: testJWTSecret,
	}

	userRepo := repository.NewUserRepository(db)
	pageRepo := repository.NewPageRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		userRepo:       userRepo,
		pageRepo:       pageRepo,
		messageRepo:    messageRepo,
		pageService:    service.NewPageService(pageRepo),
		messageService: service.NewMessageService(messageRepo, pageRepo),
		userService:    service.NewUserService(userRepo),
		aiService:      service.NewAIService("", "http://unused", "gpt-3.5-turbo"),
		mailer:         email.NewMailer(cfg),
	}

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app, db
}

// createVerifiedUser inserts a verified account ready to log in.
func createVerifiedUser(t *testing.T, db *gorm.DB, username, password string) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:            username,
		Email:               username + "@example.com",
		Password:            string(hashed),
		IsVerified:          true,
		IsAcceptingMessages: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// tokenFor issues a real JWT for the user so tests exercise the auth
// middleware end to end.
func tokenFor(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func authedJSONRequest(t *testing.T, method, target, token string, body any) *http.Request {
	t.Helper()
	req := jsonRequest(t, method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	}
	return resp, parsed
}

// createPageVia creates a page through the API and returns its slug.
func createPageVia(t *testing.T, app *fiber.App, token, title, description string) string {
	t.Helper()

	resp, body := doRequest(t, app, authedJSONRequest(t, http.MethodPost, "/api/feedback-pages/", token, map[string]string{
		"title":       title,
		"description": description,
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create page: %v", body)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	slug, ok := data["slug"].(string)
	require.True(t, ok)
	return slug
}

// sendMessageVia submits an anonymous message and returns the response.
func sendMessageVia(t *testing.T, app *fiber.App, slug, content string) (*http.Response, map[string]any) {
	t.Helper()
	return doRequest(t, app, jsonRequest(t, http.MethodPost, "/api/send-message", map[string]string{
		"content":          content,
		"feedbackPageSlug": slug,
	}))
}

// backdateMessage shifts a message's createdAt for analytics tests.
func backdateMessage(t *testing.T, db *gorm.DB, messageID uint, at time.Time) {
	t.Helper()
	require.NoError(t, db.Model(&models.Message{}).
		Where("id = ?", messageID).
		Update("created_at", at).Error)
}

func messageIDsFor(t *testing.T, db *gorm.DB, slug string) []uint {
	t.Helper()

	var page models.FeedbackPage
	require.NoError(t, db.Where("slug = ?", slug).First(&page).Error)

	var ids []uint
	require.NoError(t, db.Model(&models.Message{}).
		Where("feedback_page_id = ?", page.ID).
		Order("id").
		Pluck("id", &ids).Error)
	return ids
}
