package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/maxaizer/vacancy-service/internal/apperrors"
	"github.com/maxaizer/vacancy-service/internal/entities"
	"github.com/maxaizer/vacancy-service/internal/logger"
	"github.com/maxaizer/vacancy-service/internal/repositories"
)

// snapshots stay in cache at most an hour even for long-lived tokens
const maxCacheTTL = time.Hour

// userCache is the read/write-through cache the auth service consults
// before the database. A no-op implementation is fine for tests.
type userCache interface {
	GetCachedUser(userID int, dest any) bool
	CacheUser(userID int, data any, ttl time.Duration)
	DeleteUserCache(userID int)
	CacheToken(token string, data any, ttl time.Duration)
	DeleteTokenCache(token string)
}

// UserSnapshot is the cached form of a user record.
type UserSnapshot struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	IsActive       bool   `json:"is_active"`
	HashedPassword string `json:"hashed_password"`
}

// UserResponse is the public view of a user, without credentials.
type UserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

type AuthService struct {
	uow   *repositories.Factory
	cache userCache
	pwd   PasswordHelper
	jwt   *JWTHelper
}

func NewAuthService(uow *repositories.Factory, cache userCache, jwtHelper *JWTHelper) *AuthService {
	return &AuthService{uow: uow, cache: cache, jwt: jwtHelper}
}

// Register creates a user. New users stay inactive until their first
// login activates them.
func (s *AuthService) Register(ctx context.Context, username string, password string) (*UserResponse, error) {

	var response *UserResponse
	err := s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		users, err := uow.Users()
		if err != nil {
			return err
		}

		existing, err := users.GetByUsername(username)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.Conflict("user already exists")
		}

		hashedPassword, err := s.pwd.HashPassword(password)
		if err != nil {
			return err
		}

		user, err := users.Create(entities.User{
			Username:       username,
			HashedPassword: hashedPassword,
			IsActive:       false,
		})
		if err != nil {
			return err
		}

		response = userResponseOf(user)
		return nil
	})
	return response, err
}

// Login verifies credentials, activates the user if needed and issues
// a token pair. The decoded access-token payload is cached for fast
// current-user resolution.
func (s *AuthService) Login(ctx context.Context, username string, password string) (*TokenPair, error) {

	var tokens TokenPair
	err := s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		users, err := uow.Users()
		if err != nil {
			return err
		}

		user, err := users.GetByUsername(username)
		if err != nil {
			return err
		}
		if user == nil || !s.pwd.VerifyPassword(password, user.HashedPassword) {
			return apperrors.Unauthorized("incorrect username or password")
		}

		if !user.IsActive {
			active := true
			if user, err = users.Update(user.ID, entities.UserUpdate{IsActive: &active}); err != nil {
				return err
			}
		}

		tokens, err = s.jwt.CreatePairTokens(user.Username, user.ID)
		if err != nil {
			return err
		}

		s.cacheUserTokenInfo(user, tokens.AccessToken)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Logout deactivates the user behind the token and evicts its cache
// entries.
func (s *AuthService) Logout(ctx context.Context, token string) (*UserResponse, error) {

	claims, err := s.jwt.DecodeToken(token)
	if err != nil {
		return nil, err
	}

	var response *UserResponse
	err = s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		users, err := uow.Users()
		if err != nil {
			return err
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			return err
		}
		if user == nil || user.Username != claims.Username {
			return apperrors.Unauthorized("could not validate credentials")
		}
		if !user.IsActive {
			return apperrors.BadRequest("inactive user")
		}

		inactive := false
		if _, err = users.Update(user.ID, entities.UserUpdate{IsActive: &inactive}); err != nil {
			return err
		}

		s.cache.DeleteTokenCache(token)
		s.cache.DeleteUserCache(user.ID)

		response = &UserResponse{ID: user.ID, Username: user.Username, IsActive: false}
		return nil
	})
	return response, err
}

// Refresh exchanges a valid refresh token for a fresh access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {

	claims, err := s.jwt.DecodeToken(refreshToken)
	if err != nil {
		return nil, err
	}

	var tokens TokenPair
	err = s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		users, err := uow.Users()
		if err != nil {
			return err
		}

		user, err := users.GetByID(claims.UserID)
		if err != nil {
			return err
		}
		if user == nil || user.Username != claims.Username {
			return apperrors.Unauthorized("could not validate credentials")
		}
		if !user.IsActive {
			return apperrors.BadRequest("inactive user")
		}

		accessToken, err := s.jwt.CreateAccessToken(user.Username, user.ID)
		if err != nil {
			return err
		}

		s.cacheUserTokenInfo(user, accessToken)

		tokens = TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "bearer"}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// CurrentUser resolves the user behind a bearer token, consulting the
// cache before the database.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*entities.User, error) {

	claims, err := s.jwt.DecodeToken(token)
	if err != nil {
		return nil, err
	}
	if claims.UserID == 0 {
		return nil, apperrors.Unauthorized("could not validate credentials")
	}

	var snapshot UserSnapshot
	if s.cache.GetCachedUser(claims.UserID, &snapshot) {
		return &entities.User{
			ID:             snapshot.ID,
			Username:       snapshot.Username,
			IsActive:       snapshot.IsActive,
			HashedPassword: snapshot.HashedPassword,
		}, nil
	}

	var user *entities.User
	err = s.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		users, err := uow.Users()
		if err != nil {
			return err
		}

		if user, err = users.GetByID(claims.UserID); err != nil {
			return err
		}
		if user == nil {
			return apperrors.Unauthorized("could not validate credentials")
		}

		s.cacheUserTokenInfo(user, token)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) cacheUserTokenInfo(user *entities.User, token string) {

	claims, err := s.jwt.DecodeToken(token)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAuth).
			Errorf("failed to decode freshly issued token: %v", err)
		return
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl > maxCacheTTL {
		ttl = maxCacheTTL
	}
	if ttl <= 0 {
		return
	}

	s.cache.CacheUser(user.ID, UserSnapshot{
		ID:             user.ID,
		Username:       user.Username,
		IsActive:       user.IsActive,
		HashedPassword: user.HashedPassword,
	}, ttl)
	s.cache.CacheToken(token, claims, ttl)
}

func userResponseOf(user *entities.User) *UserResponse {
	return &UserResponse{ID: user.ID, Username: user.Username, IsActive: user.IsActive}
}
