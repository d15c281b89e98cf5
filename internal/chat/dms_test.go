package chat

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/Universe-Development/Freecord/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendDirectMessage(t *testing.T) {
	svc, store := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")
	bob := mustCreateUser(t, svc, "bob")

	res, err := svc.SendDirectMessage(alice.Token, bob.Id, "hey bob")
	require.NoError(t, err)
	require.True(t, res.OK, "expected the direct message to send")

	msg := res.Data.(types.DirectMessage)
	assert.Equal(t, alice.Id, msg.AuthorId)
	assert.Equal(t, "hey bob", msg.Content)
	assert.Equal(t, "6", strconv.FormatInt(msg.Id, 10)[:1], "expected a type-6 identifier")
	assert.Equal(t, "5", strconv.FormatInt(msg.DMChannelId, 10)[:1], "expected a type-5 channel identifier")

	n, err := store.Count(TableDMChannels, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "expected the thread to be created lazily")
}

func TestDirectMessageCanonicalThread(t *testing.T) {
	svc, store := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")
	bob := mustCreateUser(t, svc, "bob")

	res, err := svc.SendDirectMessage(alice.Token, bob.Id, "from alice")
	require.NoError(t, err)
	require.True(t, res.OK)
	first := res.Data.(types.DirectMessage)

	res, err = svc.SendDirectMessage(bob.Token, alice.Id, "from bob")
	require.NoError(t, err)
	require.True(t, res.OK)
	second := res.Data.(types.DirectMessage)

	assert.Equal(t, first.DMChannelId, second.DMChannelId,
		"expected both directions to resolve to the same thread")

	n, err := store.Count(TableDMChannels, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "expected exactly one thread per user pair")
}

func TestSendDirectMessageValidation(t *testing.T) {
	svc, store := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")

	tcases := []struct {
		name        string
		token       string
		recipientId int64
		content     string
		message     string
	}{
		{
			name:        "invalid token",
			token:       "fct_bogus",
			recipientId: alice.Id,
			content:     "hi",
			message:     MsgInvalidToken,
		},
		{
			name:        "self target",
			token:       alice.Token,
			recipientId: alice.Id,
			content:     "hi me",
			message:     MsgSelfDirectMessage,
		},
		{
			name:        "unknown recipient",
			token:       alice.Token,
			recipientId: 1999,
			content:     "hi",
			message:     MsgUserNotFound,
		},
		{
			name:        "empty content",
			token:       alice.Token,
			recipientId: 1999,
			content:     " ",
			message:     MsgEmptyContent,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := svc.SendDirectMessage(tc.token, tc.recipientId, tc.content)
			require.NoError(t, err, "expected no structural error")
			assert.False(t, res.OK, "expected a failure result")
			assert.Equal(t, tc.message, res.Message)
		})
	}

	n, err := store.Count(TableDMMessages, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "expected no message rows from failed sends")
}

func TestGetDirectMessages(t *testing.T) {
	svc, _ := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")
	bob := mustCreateUser(t, svc, "bob")

	// No thread yet: an empty history, not an error.
	res, err := svc.GetDirectMessages(alice.Token, bob.Id, 0)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Empty(t, res.Data.([]types.DirectMessage), "expected an empty history before first contact")

	sendRes, err := svc.SendDirectMessage(alice.Token, bob.Id, "one")
	require.NoError(t, err)
	require.True(t, sendRes.OK)
	_, err = svc.SendDirectMessage(bob.Token, alice.Id, "two")
	require.NoError(t, err)

	// Both participants see the same history.
	for _, token := range []string{alice.Token, bob.Token} {
		other := bob.Id
		if token == bob.Token {
			other = alice.Id
		}
		res, err := svc.GetDirectMessages(token, other, 0)
		require.NoError(t, err)
		require.True(t, res.OK)

		msgs := res.Data.([]types.DirectMessage)
		require.Len(t, msgs, 2, "expected the full thread")
		assert.Equal(t, "one", msgs[0].Content)
		assert.Equal(t, "two", msgs[1].Content)
	}

	res, err = svc.GetDirectMessages(alice.Token, 1999, 0)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgUserNotFound, res.Message)

	res, err = svc.GetDirectMessages("", bob.Id, 0)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, MsgInvalidToken, res.Message)
}

func TestGetDirectMessagesPagination(t *testing.T) {
	svc, _ := newTestService(t)
	alice := mustCreateUser(t, svc, "alice")
	bob := mustCreateUser(t, svc, "bob")

	sent := make([]types.DirectMessage, 0, 60)
	for i := 0; i < 60; i++ {
		res, err := svc.SendDirectMessage(alice.Token, bob.Id, fmt.Sprintf("dm %d", i))
		require.NoError(t, err)
		require.True(t, res.OK)
		sent = append(sent, res.Data.(types.DirectMessage))
	}

	res, err := svc.GetDirectMessages(bob.Token, alice.Id, 0)
	require.NoError(t, err)
	require.True(t, res.OK)

	page := res.Data.([]types.DirectMessage)
	require.Len(t, page, 50, "expected the page cap")
	assert.Equal(t, sent[10].Id, page[0].Id)
	assert.Equal(t, sent[59].Id, page[49].Id)

	res, err = svc.GetDirectMessages(bob.Token, alice.Id, page[0].Id)
	require.NoError(t, err)
	require.True(t, res.OK)

	prev := res.Data.([]types.DirectMessage)
	require.Len(t, prev, 10, "expected the older batch with no overlap")
	assert.Equal(t, sent[0].Id, prev[0].Id)
	assert.Equal(t, sent[9].Id, prev[9].Id)
}
