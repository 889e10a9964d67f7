package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxaizer/vacancy-service/internal/apperrors"
	"github.com/maxaizer/vacancy-service/internal/cache"
	"github.com/maxaizer/vacancy-service/internal/repositories"
)

func newTestFactory(t *testing.T) *repositories.Factory {
	t.Helper()

	dbCtx, err := repositories.NewDbContext(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, dbCtx.Migrate())

	t.Cleanup(func() { _ = dbCtx.Close() })
	return repositories.NewFactory(dbCtx.DB)
}

func newTestAuthService(t *testing.T) (*AuthService, *cache.Repository) {
	t.Helper()

	cacheRepo := cache.NewRepository()
	return NewAuthService(newTestFactory(t), cacheRepo, newTestJWTHelper()), cacheRepo
}

func Test_AuthService_RegisterCreatesInactiveUser(t *testing.T) {

	service, _ := newTestAuthService(t)

	user, err := service.Register(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, user.IsActive)
}

func Test_AuthService_RegisterDuplicateIsConflict(t *testing.T) {

	service, _ := newTestAuthService(t)

	_, err := service.Register(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "alice", "other")
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func Test_AuthService_LoginActivatesAndIssuesPair(t *testing.T) {

	service, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	tokens, err := service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "bearer", tokens.TokenType)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	user, err := service.CurrentUser(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.True(t, user.IsActive)
}

func Test_AuthService_LoginRejectsBadCredentials(t *testing.T) {

	service, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = service.Login(ctx, "alice", "wrong")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))

	_, err = service.Login(ctx, "nobody", "s3cret")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func Test_AuthService_LogoutDeactivatesUser(t *testing.T) {

	service, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	tokens, err := service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	loggedOut, err := service.Logout(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.False(t, loggedOut.IsActive)

	_, err = service.Logout(ctx, tokens.AccessToken)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func Test_AuthService_LogoutEvictsUserCache(t *testing.T) {

	service, cacheRepo := newTestAuthService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	tokens, err := service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	var snapshot UserSnapshot
	require.True(t, cacheRepo.GetCachedUser(registered.ID, &snapshot))

	_, err = service.Logout(ctx, tokens.AccessToken)
	require.NoError(t, err)

	assert.False(t, cacheRepo.GetCachedUser(registered.ID, &snapshot))
}

func Test_AuthService_RefreshIssuesNewAccessToken(t *testing.T) {

	service, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	tokens, err := service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	refreshed, err := service.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, tokens.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, "bearer", refreshed.TokenType)

	user, err := service.CurrentUser(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func Test_AuthService_RefreshRejectsInactiveUser(t *testing.T) {

	service, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	tokens, err := service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = service.Logout(ctx, tokens.AccessToken)
	require.NoError(t, err)

	_, err = service.Refresh(ctx, tokens.RefreshToken)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func Test_AuthService_CurrentUserServedFromCache(t *testing.T) {

	service, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	tokens, err := service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	// drop the row so only the cache can answer
	err = service.uow.Do(ctx, func(uow *repositories.UnitOfWork) error {
		users, err := uow.Users()
		if err != nil {
			return err
		}
		_, err = users.Delete(registered.ID)
		return err
	})
	require.NoError(t, err)

	user, err := service.CurrentUser(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
}

func Test_AuthService_CurrentUserFallsBackToDatabase(t *testing.T) {

	service, cacheRepo := newTestAuthService(t)
	ctx := context.Background()

	registered, err := service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	tokens, err := service.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	cacheRepo.DeleteUserCache(registered.ID)

	user, err := service.CurrentUser(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	// the database hit repopulates the cache
	var snapshot UserSnapshot
	assert.True(t, cacheRepo.GetCachedUser(registered.ID, &snapshot))
}

func Test_AuthService_CurrentUserRejectsGarbageToken(t *testing.T) {

	service, _ := newTestAuthService(t)

	_, err := service.CurrentUser(context.Background(), "not a token")
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}
