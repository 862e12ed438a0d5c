package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"yamdb/internal/models"
	"yamdb/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	confirmationCodeLength = 10

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// ConfirmationSender delivers a confirmation code to an email address.
type ConfirmationSender interface {
	SendConfirmationCode(email, code string) error
}

// AuthConfig holds the secrets and lifetimes used by AuthService.
type AuthConfig struct {
	Secret            string
	AccessTTL         time.Duration
	RefreshTTL        time.Duration
	CodeTTL           time.Duration // zero disables expiry
	ReservedUsernames []string
}

// TokenPair is the result of a successful token exchange.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService handles signup, confirmation codes and JWT issuance.
type AuthService struct {
	userRepo   repositories.UserRepository
	sender     ConfirmationSender
	signingKey []byte
	codeKey    []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	codeTTL    time.Duration
	reserved   []string
	now        func() time.Time
}

// NewAuthService creates a new AuthService. The JWT signing key and the
// confirmation code key are both derived from cfg.Secret.
func NewAuthService(userRepo repositories.UserRepository, sender ConfirmationSender, cfg AuthConfig) *AuthService {
	reserved := cfg.ReservedUsernames
	if reserved == nil {
		reserved = models.DefaultReservedUsernames
	}
	return &AuthService{
		userRepo:   userRepo,
		sender:     sender,
		signingKey: deriveKey(cfg.Secret, "yamdb jwt signing"),
		codeKey:    deriveKey(cfg.Secret, "yamdb confirmation code"),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		codeTTL:    cfg.CodeTTL,
		reserved:   reserved,
		now:        time.Now,
	}
}

func deriveKey(secret, info string) []byte {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		panic(fmt.Sprintf("hkdf: %v", err))
	}
	return key
}

// DeriveConfirmationCode returns the code for username: the first ten hex
// characters of an HMAC-SHA256 of the username. The same username always
// yields the same code under the same secret.
func (s *AuthService) DeriveConfirmationCode(username string) string {
	mac := hmac.New(sha256.New, s.codeKey)
	mac.Write([]byte(username))
	return hex.EncodeToString(mac.Sum(nil))[:confirmationCodeLength]
}

// RequestConfirmationCode resends the code to an existing (username, email)
// account, or registers a new user with the default role and sends it.
func (s *AuthService) RequestConfirmationCode(username, email string) (*models.User, error) {
	user, err := s.userRepo.GetByUsernameAndEmail(username, email)
	switch {
	case err == nil:
		if err := s.stampAndSend(user); err != nil {
			return nil, err
		}
		return user, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user %s: %w", username, err)
	}

	if err := models.ValidateUsername(username, s.reserved); err != nil {
		return nil, NewValidationError("username", "%s", err.Error())
	}
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, NewValidationError("username", "a user with that username already exists")
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, NewValidationError("email", "a user with that email already exists")
	}

	now := s.now()
	user = &models.User{
		Username:           username,
		Email:              email,
		Role:               models.RoleUser,
		ConfirmationSentAt: &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewValidationError("username", "a user with that username or email already exists")
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	if err := s.send(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) stampAndSend(user *models.User) error {
	now := s.now()
	user.ConfirmationSentAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to record confirmation for %s: %w", user.Username, err)
	}
	return s.send(user)
}

func (s *AuthService) send(user *models.User) error {
	if err := s.sender.SendConfirmationCode(user.Email, s.DeriveConfirmationCode(user.Username)); err != nil {
		return fmt.Errorf("failed to send confirmation code to %s: %w", user.Email, err)
	}
	log.Printf("Confirmation code sent to user %s", user.Username)
	return nil
}

// Authenticate exchanges a confirmation code for a token pair.
func (s *AuthService) Authenticate(username, code string) (*TokenPair, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, &AuthError{Username: username, Reason: ErrUnknownUser}
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	if !s.codeValid(user, code) {
		return nil, &AuthError{Username: username, Reason: ErrInvalidCode}
	}
	return s.IssueTokenPair(user)
}

func (s *AuthService) codeValid(user *models.User, code string) bool {
	expected := s.DeriveConfirmationCode(user.Username)
	if !hmac.Equal([]byte(code), []byte(expected)) {
		return false
	}
	if s.codeTTL == 0 {
		return true
	}
	return user.ConfirmationSentAt != nil && s.now().Sub(*user.ConfirmationSentAt) <= s.codeTTL
}

// IssueTokenPair signs a fresh access and refresh token for user.
func (s *AuthService) IssueTokenPair(user *models.User) (*TokenPair, error) {
	access, err := s.sign(user, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"username":   user.Username,
		"token_type": tokenType,
		"jti":        uuid.New().String(),
		"exp":        now.Add(ttl).Unix(),
		"iat":        now.Unix(),
	})
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s token: %w", tokenType, err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates an access token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	return s.parse(tokenString, tokenTypeAccess)
}

// Refresh exchanges a valid refresh token for a new pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	id, err := UserIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", ErrInvalidToken)
		}
		return nil, err
	}
	return s.IssueTokenPair(user)
}

func (s *AuthService) parse(tokenString, tokenType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims["token_type"] != tokenType {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, tokenType)
	}
	return claims, nil
}

// UserIDFromClaims extracts the numeric user_id claim.
func UserIDFromClaims(claims jwt.MapClaims) (uint, error) {
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, fmt.Errorf("%w: missing user_id", ErrInvalidToken)
	}
	return uint(id), nil
}
