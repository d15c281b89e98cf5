package chat

import (
	"testing"

	"github.com/Universe-Development/Freecord/internal/database"
	"github.com/Universe-Development/Freecord/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvite(t *testing.T) {
	svc, _ := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")
	bob := mustCreateUser(t, svc, "bob")
	srv := mustCreateServer(t, svc, alice.Token, "general")

	res, err := svc.CreateInvite(alice.Token, srv.Id)
	require.NoError(t, err)
	require.True(t, res.OK, "expected invite creation to succeed")

	invite := res.Data.(types.Invite)
	assert.NotEmpty(t, invite.Code, "expected an invite code")
	assert.Equal(t, srv.Id, invite.ServerId)
	assert.Equal(t, alice.Id, invite.CreatorId)

	// Only members can invite.
	res, err = svc.CreateInvite(bob.Token, srv.Id)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgNotMember, res.Message)

	res, err = svc.CreateInvite(alice.Token, 2999)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgServerNotFound, res.Message)

	res, err = svc.CreateInvite("fct_bogus", srv.Id)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgInvalidToken, res.Message)
}

func TestJoinServer(t *testing.T) {
	svc, store := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")
	bob := mustCreateUser(t, svc, "bob")
	srv := mustCreateServer(t, svc, alice.Token, "general")

	inviteRes, err := svc.CreateInvite(alice.Token, srv.Id)
	require.NoError(t, err)
	require.True(t, inviteRes.OK)
	code := inviteRes.Data.(types.Invite).Code

	res, err := svc.JoinServer(bob.Token, code)
	require.NoError(t, err)
	require.True(t, res.OK, "expected the join to succeed")

	member := res.Data.(types.Member)
	assert.Equal(t, srv.Id, member.ServerId)
	assert.Equal(t, bob.Id, member.UserId)

	// Joining again with the same valid code is rejected.
	res, err = svc.JoinServer(bob.Token, code)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgAlreadyMember, res.Message)

	n, err := store.Count(TableMembers, database.Filter{"user_id": bob.Id})
	require.NoError(t, err)
	assert.Equal(t, 1, n, "expected exactly one membership row for bob")
}

func TestJoinServerInvalidCode(t *testing.T) {
	svc, store := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")

	res, err := svc.JoinServer(alice.Token, "no-such-code")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgInviteNotFound, res.Message)

	n, err := store.Count(TableMembers, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "expected no membership row from an invalid code")

	res, err = svc.JoinServer("", "no-such-code")
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgInvalidToken, res.Message)
}
