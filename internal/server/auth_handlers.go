package server

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"feedbacknexus/internal/models"
	"feedbacknexus/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const verifyCodeTTL = time.Hour

// generateVerifyCode returns a 6-digit one-time code.
func generateVerifyCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

// Signup handles POST /api/auth/signup. The account starts unverified; a
// one-time code is emailed and must be exchanged before login works.
// Re-signing up with an unverified email refreshes the code instead of
// failing.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	// A verified user holds the username for good.
	taken, err := s.userService.IsUsernameTaken(c.Context(), req.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if taken {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("Username already exists"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	code := generateVerifyCode()
	expiry := time.Now().Add(verifyCodeTTL)

	existing, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if existing != nil {
		if existing.IsVerified {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewValidationError("User already exists with this email"))
		}
		// Unverified signup retry: refresh credentials and resend the code.
		existing.Username = req.Username
		existing.Password = string(hashedPassword)
		existing.VerifyCode = code
		existing.VerifyCodeExpiry = expiry
		if err := s.userRepo.Update(c.Context(), existing); err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		s.mailer.SendVerificationEmail(existing.Email, existing.Username, code)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "User registered successfully. Please verify your email.",
		})
	}

	user := &models.User{
		Username:            req.Username,
		Email:               req.Email,
		Password:            string(hashedPassword),
		VerifyCode:          code,
		VerifyCodeExpiry:    expiry,
		IsAcceptingMessages: true,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	s.mailer.SendVerificationEmail(user.Email, user.Username, code)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully. Please verify your email.",
	})
}

// VerifyEmail handles POST /api/auth/verify, exchanging the emailed code.
func (s *Server) VerifyEmail(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Code     string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Username == "" || req.Code == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and code are required"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User"))
	}
	if user.IsVerified {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Account already verified",
		})
	}
	if user.VerifyCode != req.Code {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Incorrect verification code"))
	}
	if time.Now().After(user.VerifyCodeExpiry) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Verification code has expired. Please sign up again to get a new code"))
	}

	user.IsVerified = true
	user.VerifyCode = ""
	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account verified successfully",
	})
}

// Login handles POST /api/auth/login. Unverified accounts cannot log in.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}
	if !user.IsVerified {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Please verify your email first"))
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// CheckUsername handles GET /api/auth/check-username?username=. Only a
// verified account reserves the name.
func (s *Server) CheckUsername(c *fiber.Ctx) error {
	username := c.Query("username")
	if err := validation.ValidateUsername(username); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	taken, err := s.userService.IsUsernameTaken(c.Context(), username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if taken {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "Username already exists",
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Username is unique",
	})
}

// generateToken creates a JWT for the given user ID and username.
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      "feedbacknexus-api",
		"aud":      "feedbacknexus-client",
		"exp":      now.Add(time.Hour * 24 * 7).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
