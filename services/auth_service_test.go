package services

import (
	"testing"

	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/testutil"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	auth := env.svc.Auth

	user, err := auth.Register(background, RegisterInput{
		Username: "Dana",
		Email:    " Dana@Example.com ",
		Password: testutil.TestPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "dana", user.Username)
	assert.Equal(t, "dana@example.com", user.Email)

	_, err = auth.Register(background, RegisterInput{Username: "dana2", Email: "dana@example.com", Password: testutil.TestPassword})
	requireKind(t, err, ErrConflict)

	_, err = auth.Register(background, RegisterInput{Username: "eve", Email: "eve@example.com", Password: "weak"})
	requireKind(t, err, ErrValidation)

	_, _, err = auth.Login(background, "dana@example.com", "Wrong@1234")
	requireKind(t, err, ErrUnauthorized)

	token, loggedIn, err := auth.Login(background, "DANA@example.com", testutil.TestPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	current, err := auth.AuthenticateUser(background, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	_, err = auth.AuthenticateAdmin(background, token)
	requireKind(t, err, ErrUnauthorized)

	require.NoError(t, auth.Logout(background, token))
	_, err = auth.AuthenticateUser(background, token)
	requireKind(t, err, ErrUnauthorized)
}

func TestAuthenticateUser_RejectsBadTokens(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Auth.AuthenticateUser(background, "not-a-token")
	requireKind(t, err, ErrUnauthorized)

	foreign, err := utils.GenerateToken(1, "x@example.com", "another-secret")
	require.NoError(t, err)
	_, err = env.svc.Auth.AuthenticateUser(background, foreign)
	requireKind(t, err, ErrUnauthorized)

	ghost, err := utils.GenerateToken(999, "ghost@example.com", testSecret)
	require.NoError(t, err)
	_, err = env.svc.Auth.AuthenticateUser(background, ghost)
	requireKind(t, err, ErrUnauthorized)
}

func TestBlockedUserCannotLogin(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "blocked")
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_blocked", true).Error)

	_, _, err := env.svc.Auth.Login(background, user.Email, testutil.TestPassword)
	requireKind(t, err, ErrUnauthorized)
	appErr := utils.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 403, appErr.Code)
}

func TestAdminLoginAndSeed(t *testing.T) {
	env := newTestEnv(t)
	auth := env.svc.Auth

	require.NoError(t, auth.SeedAdmin(background, "Root@Example.com", testutil.TestPassword))
	require.NoError(t, auth.SeedAdmin(background, "root@example.com", "Other@1234"))

	_, _, err := auth.AdminLogin(background, "root@example.com", "Other@1234")
	requireKind(t, err, ErrUnauthorized)

	token, admin, err := auth.AdminLogin(background, "root@example.com", testutil.TestPassword)
	require.NoError(t, err)

	current, err := auth.AuthenticateAdmin(background, token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, current.ID)

	_, err = auth.AuthenticateUser(background, token)
	requireKind(t, err, ErrUnauthorized)
}

func TestGoogleSignIn(t *testing.T) {
	env := newTestEnv(t)
	existing := testutil.CreateUser(t, env.db, "gina")

	_, linked, err := env.svc.Auth.GoogleSignIn(background, GoogleProfile{ID: "g-1", Email: "GINA@example.com"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, linked.ID)
	require.NotNil(t, linked.GoogleID)
	assert.Equal(t, "g-1", *linked.GoogleID)

	_, fresh, err := env.svc.Auth.GoogleSignIn(background, GoogleProfile{ID: "g-2", Email: "new@example.com", GivenName: "New"})
	require.NoError(t, err)
	assert.NotEqual(t, existing.ID, fresh.ID)
	assert.Equal(t, "New", fresh.FirstName)

	_, again, err := env.svc.Auth.GoogleSignIn(background, GoogleProfile{ID: "g-2", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, again.ID)

	_, _, err = env.svc.Auth.GoogleSignIn(background, GoogleProfile{Email: "x@example.com"})
	requireKind(t, err, ErrValidation)
}

func TestToggleBlock(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "mallory")
	testutil.CreateUser(t, env.db, "trent")

	token, _, err := env.svc.Auth.Login(background, user.Email, testutil.TestPassword)
	require.NoError(t, err)

	blocked, err := env.svc.Auth.ToggleBlock(background, 1, user.ID)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	_, err = env.svc.Auth.AuthenticateUser(background, token)
	requireKind(t, err, ErrUnauthorized)

	unblocked, err := env.svc.Auth.ToggleBlock(background, 1, user.ID)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)

	_, err = env.svc.Auth.AuthenticateUser(background, token)
	require.NoError(t, err)

	_, err = env.svc.Auth.ToggleBlock(background, 1, 9999)
	requireKind(t, err, ErrNotFound)

	p := testPagination()
	users, err := env.svc.Auth.ListUsers(background, "MALL", "email", "asc", p)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, user.ID, users[0].ID)
	assert.Equal(t, int64(1), p.Total)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	user := testutil.CreateUser(t, env.db, "peggy")
	caller := Caller{UserID: user.ID}

	err := env.svc.Auth.ChangePassword(background, caller, "Wrong@1234", "Fresh@1234")
	requireKind(t, err, ErrUnauthorized)

	err = env.svc.Auth.ChangePassword(background, caller, testutil.TestPassword, "weak")
	requireKind(t, err, ErrValidation)

	err = env.svc.Auth.ChangePassword(background, caller, testutil.TestPassword, testutil.TestPassword)
	requireKind(t, err, ErrValidation)

	require.NoError(t, env.svc.Auth.ChangePassword(background, caller, testutil.TestPassword, "Fresh@1234"))
	require.NoError(t, env.svc.Auth.ChangePassword(background, caller, "Fresh@1234", "Newer@1234"))

	// Fresh@1234 is in the history now
	err = env.svc.Auth.ChangePassword(background, caller, "Newer@1234", "Fresh@1234")
	requireKind(t, err, ErrValidation)

	_, _, err = env.svc.Auth.Login(background, user.Email, "Newer@1234")
	require.NoError(t, err)
}
