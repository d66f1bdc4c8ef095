package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"quote-pipeline-api/internal/config"
	"quote-pipeline-api/internal/domain"
	"quote-pipeline-api/internal/dto"
	"quote-pipeline-api/internal/repository"
	"quote-pipeline-api/internal/response"
)

// AuthService defines the interface for registration and login
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

// authServiceImpl is the implementation of AuthService
type authServiceImpl struct {
	userRepo repository.UserRepository
	jwtCfg   config.JWTConfig
	logger   *zap.Logger
}

// NewAuthService creates a new instance of AuthService
func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, logger *zap.Logger) AuthService {
	return &authServiceImpl{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
		logger:   logger,
	}
}

// Register creates a new user account and returns a signed token
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Email already registered", "")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to check email", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to hash password", err.Error())
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         req.Name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("Failed to create user", zap.String("email", email), zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to create user", err.Error())
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to issue token", err.Error())
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

// Login verifies credentials and returns a signed token. Unknown email
// and wrong password produce the same error.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid email or password", "")
		}
		return nil, response.NewAppError(response.ErrCodeStorage, "Failed to look up user", err.Error())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid email or password", "")
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to issue token", err.Error())
	}

	return &dto.AuthResponse{Token: token, User: toUserResponse(user)}, nil
}

// issueToken signs a JWT carrying the user identity
func (s *authServiceImpl) issueToken(user *domain.User) (string, error) {
	ttl := s.jwtCfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.Secret))
}

// toUserResponse converts a domain user to its API representation
func toUserResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}
