package handlers

import (
	"net/http"
	"testing"

	"github.com/join-board/join-api/internal/constants"
	"github.com/join-board/join-api/internal/dto"
	"github.com/join-board/join-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "alice",
		"email":            "Alice@Example.com",
		"password":         "p1",
		"confirm_password": "p1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode[dto.UserDTO](t, w)
	assert.Equal(t, "alice", response.Username)
	assert.Equal(t, "alice@example.com", response.Email)
	assert.Equal(t, constants.DefaultPhone, response.Phone)

	var stored models.User
	require.NoError(t, env.db.Where("username = ?", "alice").First(&stored).Error)
	assert.NotEqual(t, "p1", stored.PasswordHash)
	assert.True(t, stored.IsActive)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice", "a@x.com")

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "alice2",
		"email":            "A@X.com",
		"password":         "p1",
		"confirm_password": "p1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[errorBody](t, w)
	assert.Equal(t, "email is already in use.", body.Message)
	assert.Equal(t, []string{"email is already in use."}, body.Details["email"])
}

func TestAuthHandler_Register_CollectsFieldErrors(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice", "a@x.com")

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "alice",
		"email":            "new@x.com",
		"password":         "p1",
		"confirm_password": "p2",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[errorBody](t, w)
	assert.Equal(t, []string{"username is already taken."}, body.Details["username"])
	assert.Equal(t, []string{"Passwords do not match."}, body.Details["confirm_password"])
	assert.NotContains(t, body.Details, "email")
}

func TestAuthHandler_Register_BindingErrors(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name    string
		payload map[string]string
		field   string
		message string
	}{
		{
			name:    "username format",
			payload: map[string]string{"username": "bad!name", "email": "b@x.com", "password": "p", "confirm_password": "p"},
			field:   "username",
			message: `Use only letters, numbers, spaces, "-", and "_".`,
		},
		{
			name:    "invalid email",
			payload: map[string]string{"username": "bob", "email": "not-an-email", "password": "p", "confirm_password": "p"},
			field:   "email",
			message: "Enter a valid email address.",
		},
		{
			name:    "phone format",
			payload: map[string]string{"username": "bob", "email": "b@x.com", "password": "p", "confirm_password": "p", "phone": "12ab5678"},
			field:   "phone",
			message: "Invalid phone number format.",
		},
		{
			name:    "phone too short",
			payload: map[string]string{"username": "bob", "email": "b@x.com", "password": "p", "confirm_password": "p", "phone": "123"},
			field:   "phone",
			message: "Phone number too short.",
		},
		{
			name:    "missing password",
			payload: map[string]string{"username": "bob", "email": "b@x.com", "confirm_password": "p"},
			field:   "password",
			message: "This field is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/register", "", tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)

			body := decode[errorBody](t, w)
			assert.Contains(t, body.Details[tt.field], tt.message)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	_, oldToken := env.createUser(t, "bob", "bob@x.com")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "BOB@x.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	response := decode[dto.TokenDTO](t, w)
	assert.Equal(t, "bob@x.com", response.Email)
	assert.Len(t, response.Token, 2*constants.TokenKeyBytes)
	assert.NotEqual(t, oldToken, response.Token)

	// Login is not additive: the previous token stops working
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", oldToken, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/auth/me", response.Token, nil).Code)

	var stored models.User
	require.NoError(t, env.db.Where("email = ?", "bob@x.com").First(&stored).Error)
	assert.NotNil(t, stored.LastActivity)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "bob", "bob@x.com")

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "bob@x.com",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password.", decode[errorBody](t, w).Message)

	// A failed login leaves the current token intact
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/auth/me", token, nil).Code)
}

func TestAuthHandler_Login_InactiveAccount(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.createUser(t, "bob", "bob@x.com")
	require.NoError(t, env.db.Model(user).UpdateColumn("is_active", false).Error)

	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "bob@x.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "This account is inactive.", decode[errorBody](t, w).Message)
}

func TestAuthHandler_GuestLogin(t *testing.T) {
	env := setupTestEnv(t)

	first := env.do(t, http.MethodPost, "/api/auth/guest-login", "", nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	firstToken := decode[dto.TokenDTO](t, first)
	assert.Equal(t, constants.GuestEmail, firstToken.Email)

	second := env.do(t, http.MethodPost, "/api/auth/guest-login", "", nil)
	require.Equal(t, http.StatusOK, second.Code)
	secondToken := decode[dto.TokenDTO](t, second)

	var count int64
	env.db.Model(&models.User{}).Where("email = ?", constants.GuestEmail).Count(&count)
	assert.Equal(t, int64(1), count)

	var guest models.User
	require.NoError(t, env.db.Where("email = ?", constants.GuestEmail).First(&guest).Error)
	assert.True(t, guest.IsGuest)
	assert.Empty(t, guest.PasswordHash)
	assert.Equal(t, constants.GuestUsername, guest.Username)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", firstToken.Token, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/auth/me", secondToken.Token, nil).Code)

	// The guest cannot log in with a password
	w := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    constants.GuestEmail,
		"password": "anything",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Register_GuestIdentityReserved(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         "mallory",
		"email":            "Guest@Guest.com",
		"password":         "p1",
		"confirm_password": "p1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, []string{"email is already in use."}, decode[errorBody](t, w).Details["email"])

	w = env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username":         constants.GuestUsername,
		"email":            "mallory@x.com",
		"password":         "p1",
		"confirm_password": "p1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, []string{"username is already taken."}, decode[errorBody](t, w).Details["username"])

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)

	// Guest login still creates the real guest account
	w = env.do(t, http.MethodPost, "/api/auth/guest-login", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var guest models.User
	require.NoError(t, env.db.Where("email = ?", constants.GuestEmail).First(&guest).Error)
	assert.True(t, guest.IsGuest)
	assert.Equal(t, constants.GuestUsername, guest.Username)
	assert.Empty(t, guest.PasswordHash)
}

func TestAuthHandler_GuestLogin_RefusesRegularAccount(t *testing.T) {
	env := setupTestEnv(t)
	owner, _ := env.createUser(t, "mallory", constants.GuestEmail)
	require.False(t, owner.IsGuest)

	w := env.do(t, http.MethodPost, "/api/auth/guest-login", "", nil)
	require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	assert.Equal(t, "Guest account is unavailable.", decode[errorBody](t, w).Message)

	var tokens int64
	env.db.Model(&models.AuthToken{}).Where("user_id = ?", owner.ID).Count(&tokens)
	assert.Equal(t, int64(1), tokens, "only the token issued by createUser")
}

func TestAuthHandler_CurrentUser(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.createUser(t, "carol", "carol@x.com")

	t.Run("no token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown scheme", func(t *testing.T) {
		w := env.doAuth(t, http.MethodGet, "/api/auth/me", "Basic "+token, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/auth/me", "deadbeef", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token scheme", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, user.ID, decode[dto.UserDTO](t, w).ID)
	})

	t.Run("bearer scheme", func(t *testing.T) {
		w := env.doAuth(t, http.MethodGet, "/api/auth/me", "Bearer "+token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createUser(t, "dave", "dave@x.com")

	w := env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/auth/me", token, nil).Code)
}

func TestAuthHandler_Users(t *testing.T) {
	env := setupTestEnv(t)
	alice, token := env.createUser(t, "alice", "alice@x.com")
	env.createUser(t, "bob", "bob@x.com")

	w := env.do(t, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]dto.UserDTO](t, w)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)

	w = env.do(t, http.MethodGet, idPath("/api/users", alice.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@x.com", decode[dto.UserDTO](t, w).Email)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/users/999", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/users", "", nil).Code)
}
