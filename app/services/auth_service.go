package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "taskmanager/app/errors"
	"taskmanager/app/models"
	"taskmanager/app/store"
)

// Claims is the JWT payload; the user id is nested under "user".
type Claims struct {
	User ClaimsUser `json:"user"`
	jwt.RegisteredClaims
}

// ClaimsUser identifies the token owner.
type ClaimsUser struct {
	ID string `json:"id"`
}

// AuthOptions configures AuthService.
type AuthOptions struct {
	Secret     string
	TokenTTL   time.Duration
	BcryptCost int
	// Timeout bounds each store call; zero means no bound.
	Timeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// AuthService registers users, checks credentials and issues/verifies tokens.
type AuthService struct {
	users   store.UserStore
	secret  []byte
	ttl     time.Duration
	cost    int
	timeout time.Duration
	now     func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users store.UserStore, opts AuthOptions) *AuthService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:   users,
		secret:  []byte(opts.Secret),
		ttl:     opts.TokenTTL,
		cost:    opts.BcryptCost,
		timeout: opts.Timeout,
		now:     opts.Now,
	}
}

// Register creates a user and returns a token for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	switch {
	case name == "":
		return "", nil, apperrors.NewRequiredFieldError("name")
	case email == "":
		return "", nil, apperrors.NewRequiredFieldError("email")
	case password == "":
		return "", nil, apperrors.NewRequiredFieldError("password")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", nil, apperrors.NewValidationError("email is not valid", err).WithContext("field", "email")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return "", nil, apperrors.NewDuplicateEmailError(email)
	}
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", nil, apperrors.NewValidationError("password is too long", err).WithContext("field", "password")
		}
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	// the unique index still guards against a concurrent registration
	if err := s.users.CreateUser(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Login checks the credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", nil, apperrors.NewRequiredFieldError("email")
	}
	if password == "" {
		return "", nil, apperrors.NewRequiredFieldError("password")
	}

	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			return "", nil, apperrors.NewInvalidCredentialsError()
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.NewInvalidCredentialsError()
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Verify validates the token signature and expiry and returns the user id.
func (s *AuthService) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.NewUnauthorizedError("no token, authorization denied", nil)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperrors.NewUnauthorizedError("token has expired", err)
		}
		return "", apperrors.NewUnauthorizedError("token is not valid", err)
	}
	if claims.User.ID == "" {
		return "", apperrors.NewUnauthorizedError("token is not valid", nil)
	}
	return claims.User.ID, nil
}

// CurrentUser returns the account behind a verified user id.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound) {
			return nil, apperrors.NewUnauthorizedError("user no longer exists", err)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		User: ClaimsUser{ID: userID},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
