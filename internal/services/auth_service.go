package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/join-board/join-api/internal/constants"
	"github.com/join-board/join-api/internal/models"
	"github.com/join-board/join-api/internal/repository"
	"github.com/join-board/join-api/internal/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = errors.New("Invalid email or password.")
	ErrAccountInactive      = errors.New("This account is inactive.")
	ErrUnauthenticated      = errors.New("Invalid token.")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
	ErrGuestUnavailable     = errors.New("Guest account is unavailable.")
)

const (
	msgEmailInUse       = "email is already in use."
	msgUsernameTaken    = "username is already taken."
	msgPasswordMismatch = "Passwords do not match."
)

// AuthService handles account registration, login and token resolution.
type AuthService struct {
	userRepo      repository.UserRepository
	tokenRepo     repository.TokenRepository
	stampInterval time.Duration
	log           logrus.FieldLogger
	now           func() time.Time
}

// NewAuthService creates a new AuthService. stampInterval is the minimum gap
// between two last_activity writes for the same user.
func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, stampInterval time.Duration, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		tokenRepo:     tokenRepo,
		stampInterval: stampInterval,
		log:           log,
		now:           time.Now,
	}
}

// WithClock replaces the time source.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// RegisterInput represents the information needed to create an account.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	Phone           string
	Emblem          string
	Color           string
}

// Register creates a new account. The email is stored lowercase. The guest
// email and username are reserved even while no guest row exists.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	verr := &ValidationError{}

	taken, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken || email == constants.GuestEmail {
		verr.Add("email", msgEmailInUse)
	}

	taken, err = s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken || input.Username == constants.GuestUsername {
		verr.Add("username", msgUsernameTaken)
	}

	if input.Password != input.ConfirmPassword {
		verr.Add("confirm_password", msgPasswordMismatch)
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     input.Username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Phone:        input.Phone,
		Emblem:       input.Emblem,
		Color:        input.Color,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("email", msgEmailInUse)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("user registered")
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a fresh token, invalidating any
// token the user held before.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.AuthToken, *models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.HasUsablePassword() {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountInactive
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("user logged in")
	return token, user, nil
}

// GuestLogin gets or creates the shared guest account and issues it a fresh token.
func (s *AuthService) GuestLogin(ctx context.Context) (*models.AuthToken, *models.User, error) {
	guest := models.NewGuestUser()
	if err := s.userRepo.FirstOrCreate(ctx, guest); err != nil {
		return nil, nil, fmt.Errorf("failed to load guest account: %w", err)
	}
	if !guest.IsGuest {
		s.log.WithField("user_id", guest.ID).Error("guest email is owned by a regular account")
		return nil, nil, ErrGuestUnavailable
	}
	if !guest.IsActive {
		return nil, nil, ErrAccountInactive
	}

	token, err := s.issueToken(ctx, guest)
	if err != nil {
		return nil, nil, err
	}

	s.log.WithField("user_id", guest.ID).Info("guest logged in")
	return token, guest, nil
}

// Logout revokes the actor's token.
func (s *AuthService) Logout(ctx context.Context, actor *models.User) error {
	if err := s.tokenRepo.DeleteByUserID(ctx, actor.ID); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Authenticate resolves a token key to its active user.
func (s *AuthService) Authenticate(ctx context.Context, key string) (*models.User, error) {
	token, err := s.tokenRepo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to find token: %w", err)
	}

	if token.User.ID == 0 || !token.User.IsActive {
		return nil, ErrUnauthenticated
	}
	user := token.User
	return &user, nil
}

// TouchActivity stamps last_activity when it is unset or older than the
// configured stamp interval.
func (s *AuthService) TouchActivity(ctx context.Context, user *models.User) error {
	now := s.now()
	if user.LastActivity != nil && now.Sub(*user.LastActivity) <= s.stampInterval {
		return nil
	}
	if err := s.userRepo.TouchActivity(ctx, user.ID, now); err != nil {
		return fmt.Errorf("failed to update last activity: %w", err)
	}
	user.LastActivity = &now
	return nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns every account, for assignment pickers.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *AuthService) issueToken(ctx context.Context, user *models.User) (*models.AuthToken, error) {
	key, err := utils.GenerateTokenKey()
	if err != nil {
		return nil, ErrFailedToIssueToken
	}

	token := &models.AuthToken{Key: key, UserID: user.ID}
	if err := s.tokenRepo.Replace(ctx, token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToIssueToken, err)
	}

	now := s.now()
	if err := s.userRepo.TouchActivity(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last activity: %w", err)
	}
	user.LastActivity = &now

	return token, nil
}
