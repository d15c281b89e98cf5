package chat

import (
	"strconv"
	"strings"
	"testing"

	"github.com/Universe-Development/Freecord/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUser(t *testing.T) {
	svc, store := newTestService(t)

	res, err := svc.CreateUser("alice", "hunter2")
	require.NoError(t, err, "expected create user to succeed")
	require.True(t, res.OK, "expected a successful result")

	user := res.Data.(types.User)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, strings.HasPrefix(user.Token, "fct_"), "expected a prefixed token")
	assert.Equal(t, "1", strconv.FormatInt(user.Id, 10)[:1], "expected a type-1 identifier")
	assert.Positive(t, user.CreatedAt, "expected a creation timestamp")

	rows, err := store.Select(TableUsers, nil)
	require.NoError(t, err)
	require.Len(t, rows, 1, "expected one stored row")
	assert.NotEqual(t, "hunter2", rows[0]["hashed_passwd"], "expected the password to be hashed")
	assert.NoError(t,
		bcrypt.CompareHashAndPassword([]byte(rows[0]["hashed_passwd"].(string)), []byte("hunter2")),
		"expected the stored hash to verify against the password")
}

func TestCreateUserValidation(t *testing.T) {
	svc, store := newTestService(t)
	mustCreateUser(t, svc, "alice")

	tcases := []struct {
		name     string
		username string
		password string
		message  string
	}{
		{
			name:     "duplicate username",
			username: "alice",
			password: "pw",
			message:  MsgUserExists,
		},
		{
			name:     "empty username",
			username: "",
			password: "pw",
			message:  MsgUsernameRequired,
		},
		{
			name:     "whitespace username",
			username: "   ",
			password: "pw",
			message:  MsgUsernameRequired,
		},
		{
			name:     "empty password",
			username: "bob",
			password: "",
			message:  MsgPasswordRequired,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.CreateUser(tc.username, tc.password)
			require.NoError(t, err, "expected no structural error")
			assert.False(t, res.OK, "expected a failure result")
			assert.Equal(t, tc.message, res.Message, "expected the failure message")

			n, err := store.Count(TableUsers, nil)
			require.NoError(t, err)
			assert.Equal(t, 1, n, "expected no row inserted on failure")
		})
	}
}

func TestGetUser(t *testing.T) {
	svc, _ := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")
	bob := mustCreateUser(t, svc, "bob")

	res, err := svc.GetUser(alice.Token, bob.Id)
	require.NoError(t, err)
	require.True(t, res.OK, "expected lookup to succeed")

	got := res.Data.(types.User)
	assert.Equal(t, bob.Id, got.Id)
	assert.Equal(t, "bob", got.Username)
	assert.Empty(t, got.Token, "expected the bearer token to stay private")

	res, err = svc.GetUser(alice.Token, 1999)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgUserNotFound, res.Message, "expected a not-found outcome")

	res, err = svc.GetUser("fct_bogus", bob.Id)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgInvalidToken, res.Message, "expected an invalid-token outcome")
}

func TestListUsers(t *testing.T) {
	svc, _ := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")
	mustCreateUser(t, svc, "bob")

	res, err := svc.ListUsers(alice.Token)
	require.NoError(t, err)
	require.True(t, res.OK)

	users := res.Data.([]types.User)
	require.Len(t, users, 2, "expected both users listed")
	for _, u := range users {
		assert.Empty(t, u.Token, "expected no bearer tokens in the listing")
	}

	res, err = svc.ListUsers("")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgInvalidToken, res.Message)
}
