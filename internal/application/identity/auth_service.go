package identity

import (
	"context"
	"errors"

	"github.com/mfgerp/backend/internal/domain/identity"
	"github.com/mfgerp/backend/internal/domain/shared"
	"github.com/mfgerp/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{userRepo: userRepo, jwtService: jwtService, logger: logger}
}

// Register creates an account. The first account becomes ADMIN, later ones OPERATOR.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Username already taken")
	}
	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Email already registered")
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := identity.RoleOperator
	if count == 0 {
		role = identity.RoleAdmin
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return s.issue(user)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("username", input.Username))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Login with wrong password", zap.String("username", input.Username))
		return nil, identity.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, shared.NewDomainError(shared.ErrUnauthorized.Code, "Account has been deactivated")
	}
	return s.issue(user)
}

// Refresh exchanges a refresh token for a new pair carrying the user's current role
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*LoginResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrUnauthorized.Code, "Invalid refresh token")
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrUnauthorized.Code, "Invalid refresh token")
	}
	if !user.IsActive {
		return nil, shared.NewDomainError(shared.ErrUnauthorized.Code, "Account has been deactivated")
	}
	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, string(user.Role))
	if err != nil {
		return nil, shared.NewDomainError(shared.ErrUnauthorized.Code, err.Error())
	}
	return &LoginResult{Token: toTokenInfo(pair), User: toUserInfo(user)}, nil
}

// Me returns the user behind an authenticated request
func (s *AuthService) Me(ctx context.Context, userID uint) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user)
	return &info, nil
}

func (s *AuthService) issue(user *identity.User) (*LoginResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: toTokenInfo(pair), User: toUserInfo(user)}, nil
}

func toTokenInfo(p *auth.TokenPair) TokenInfo {
	return TokenInfo{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}
