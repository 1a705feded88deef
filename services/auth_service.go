package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/repair-ticket-api/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BcryptCost is the work factor for stored password hashes
const BcryptCost = 10

// lineEmailDomain is used to synthesise emails for LINE-only accounts
const lineEmailDomain = "line.local"

var (
	ErrEmailExists       = NewConflictError("EMAIL_EXISTS", "อีเมลนี้ถูกใช้งานแล้ว")
	ErrInvalidOAuthState = NewValidationError("INVALID_OAUTH_STATE", "Login session expired or invalid, please try again")
	ErrLineLoginFailed   = NewUnauthorizedError("LINE_LOGIN_FAILED", "Could not sign in with LINE")
)

// RegisterInput is the request body for local registration
type RegisterInput struct {
	Name       string `json:"name" binding:"required,max=255"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8,max=72"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// LoginInput is the request body for local login
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileInput holds profile changes. Empty strings are ignored.
type UpdateProfileInput struct {
	Name       string `json:"name" binding:"max=255"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

// Profile is the user projection exposed by the API
type Profile struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department *string   `json:"department"`
	Phone      *string   `json:"phone"`
	LineID     *string   `json:"line_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewProfile projects a user onto Profile
func NewProfile(u *models.User) *Profile {
	return &Profile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Phone:      u.Phone,
		LineID:     u.LineID,
		CreatedAt:  u.CreatedAt,
	}
}

// AuthResult is returned by every successful sign-in
type AuthResult struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Role        string    `json:"role"`
	User        *Profile  `json:"user"`
}

// AuthService handles local accounts, LINE login and profiles
type AuthService struct {
	db     *gorm.DB
	tokens *TokenService
	line   LineOAuth
	states StateStore
	log    *zap.Logger
	now    func() time.Time
}

// NewAuthService creates an auth service
func NewAuthService(db *gorm.DB, tokens *TokenService, line LineOAuth, states StateStore, log *zap.Logger) *AuthService {
	return &AuthService{
		db:     db,
		tokens: tokens,
		line:   line,
		states: states,
		log:    log.Named("auth"),
		now:    time.Now,
	}
}

// Register creates a USER account. The role is never taken from input.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Profile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Department:   optional(input.Department),
		Phone:        optional(input.Phone),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrEmailExists
		}
		return nil, translateStoreError(err, ErrUserNotFound, "register user")
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID))
	return NewProfile(&user), nil
}

// Login checks credentials. Unknown emails and wrong passwords fail with the
// same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, translateStoreError(err, ErrInvalidCredentials, "login")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(&user)
}

// GetLineAuthURL creates a single-use state and returns the LINE authorize URL
func (s *AuthService) GetLineAuthURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.states.Save(ctx, state, OAuthStateTTL); err != nil {
		return "", err
	}
	return s.line.GenerateAuthURL(state), nil
}

// LineCallback completes LINE login: it verifies state, exchanges the code,
// resolves or creates the local user and issues a token.
func (s *AuthService) LineCallback(ctx context.Context, code, state string) (*AuthResult, error) {
	if code == "" || state == "" {
		return nil, NewValidationError("VALIDATION_ERROR", "code and state are required")
	}

	ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOAuthState
	}

	token, err := s.line.ExchangeCodeForToken(ctx, code)
	if err != nil {
		s.log.Warn("line token exchange failed", zap.Error(err))
		return nil, &ServiceError{Status: ErrLineLoginFailed.Status, Code: ErrLineLoginFailed.Code, Message: ErrLineLoginFailed.Message, Err: err}
	}

	profile, err := s.line.GetUserProfile(ctx, token.AccessToken)
	if err != nil {
		s.log.Warn("line profile fetch failed", zap.Error(err))
		return nil, &ServiceError{Status: ErrLineLoginFailed.Status, Code: ErrLineLoginFailed.Code, Message: ErrLineLoginFailed.Message, Err: err}
	}

	user, err := s.resolveLineUser(ctx, profile)
	if err != nil {
		return nil, translateStoreError(err, ErrUserNotFound, "resolve line user")
	}

	return s.issue(user)
}

// resolveLineUser finds the user for a LINE profile, linking or creating one
// as needed.
func (s *AuthService) resolveLineUser(ctx context.Context, profile *LineProfile) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var link models.LineOALink
		err := tx.Where("line_user_id = ?", profile.UserID).First(&link).Error
		if err == nil {
			return tx.First(&user, link.UserID).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := s.now()
		email := lineEmail(profile.UserID)
		err = tx.Where("line_id = ? OR email = ?", profile.UserID, email).First(&user).Error
		switch {
		case err == nil:
			if user.LineID == nil || *user.LineID != profile.UserID {
				if err := tx.Model(&user).Update("line_id", profile.UserID).Error; err != nil {
					return err
				}
			}
			s.log.Info("linking existing user to line", zap.Uint("user_id", user.ID))
		case errors.Is(err, gorm.ErrRecordNotFound):
			user, err = s.createLineUser(tx, profile, email)
			if err != nil {
				return err
			}
			s.log.Info("created user from line profile", zap.Uint("user_id", user.ID))
		default:
			return err
		}

		link = models.LineOALink{UserID: user.ID}
		return tx.Omit(clause.Associations).
			Where(models.LineOALink{UserID: user.ID}).
			Assign(models.LineOALink{
				LineUserID: profile.UserID,
				Status:     models.LinkStatusVerified,
				VerifiedAt: &now,
			}).
			FirstOrCreate(&link).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) createLineUser(tx *gorm.DB, profile *LineProfile, email string) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), BcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	name := strings.TrimSpace(profile.DisplayName)
	if name == "" {
		name = "LINE User"
	}
	lineID := profile.UserID
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		LineID:       &lineID,
	}
	if err := tx.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// GetProfile returns the profile for userID
func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, translateStoreError(err, ErrUserNotFound, "get profile")
	}
	return NewProfile(&user), nil
}

// UpdateProfile applies the non-empty fields of input
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*Profile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, translateStoreError(err, ErrUserNotFound, "update profile")
	}

	updates := map[string]interface{}{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if input.Department != "" {
		updates["department"] = input.Department
	}
	if input.Phone != "" {
		updates["phone"] = input.Phone
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
			return nil, translateStoreError(err, ErrUserNotFound, "update profile")
		}
	}
	return s.GetProfile(ctx, userID)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Role:        user.Role,
		User:        NewProfile(user),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func lineEmail(lineUserID string) string {
	return fmt.Sprintf("line_%s@%s", strings.ToLower(lineUserID), lineEmailDomain)
}
